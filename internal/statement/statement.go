// Package statement defines the canonical transaction model shared by all
// bank statement extractors, plus the parse options and error kinds the
// parsing pipeline reports.
package statement

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction says which side of the account a transaction falls on.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// ParsedTransaction is one extracted statement row. Amount is always a
// non-negative magnitude; the sign is carried by Direction.
type ParsedTransaction struct {
	Date        time.Time // calendar date, midnight UTC
	Description string
	Amount      decimal.Decimal
	Direction   Direction
	Balance     *decimal.Decimal // running balance, nil when the cell was unreadable
	Reference   string           // cheque/UPI/IMPS id, empty when absent
	Mode        string           // payment mode, empty when absent
}

// ParseResult is the output of one parse operation. Transactions keep
// document order, which is not necessarily chronological. StartDate and
// EndDate are the min/max transaction dates, computed once at construction.
type ParseResult struct {
	Transactions  []ParsedTransaction
	StartDate     *time.Time
	EndDate       *time.Time
	AccountNumber string
	BankName      string
}

// NewParseResult derives the date range from the given transactions.
func NewParseResult(txs []ParsedTransaction) *ParseResult {
	res := &ParseResult{Transactions: txs}

	for i := range txs {
		d := txs[i].Date
		if res.StartDate == nil || d.Before(*res.StartDate) {
			start := d
			res.StartDate = &start
		}

		if res.EndDate == nil || d.After(*res.EndDate) {
			end := d
			res.EndDate = &end
		}
	}

	return res
}

// FileFormat is the closed set of statement file formats the pipeline knows
// about. OFX and QFX are recognized as tags only; no extractor is registered
// for them.
type FileFormat string

const (
	FormatExcel FileFormat = "excel"
	FormatOFX   FileFormat = "ofx"
	FormatQFX   FileFormat = "qfx"
)

// Extension returns the canonical file extension for the format.
func (f FileFormat) Extension() string {
	switch f {
	case FormatExcel:
		return "xlsx"
	case FormatOFX:
		return "ofx"
	case FormatQFX:
		return "qfx"
	}

	return ""
}

// Extensions returns every extension mapped to the format.
func (f FileFormat) Extensions() []string {
	if f == FormatExcel {
		return []string{"xls", "xlsx"}
	}

	return []string{f.Extension()}
}

// FormatFromExtension maps a file extension (without dot, any case) to a
// FileFormat. The second return is false for unrecognized extensions.
func FormatFromExtension(ext string) (FileFormat, bool) {
	switch strings.ToLower(ext) {
	case "xlsx", "xls":
		return FormatExcel, true
	case "ofx":
		return FormatOFX, true
	case "qfx":
		return FormatQFX, true
	}

	return "", false
}

// Options tune a single parse call.
type Options struct {
	// DateFormat overrides date parsing for callers that know the export's
	// format upfront. Extractors with institution-fixed layouts may ignore it.
	DateFormat string
	// SkipRows skips additional rows after the detected header.
	SkipRows int
}

// Error kinds surfaced by parsing and detection. Row-level anomalies never
// reach these; they are recovered by skipping the row.
var (
	// ErrFileNotFound is returned by the path-based entry point only.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat covers unrecognized extensions and recognized
	// formats with no registered parser.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrParse covers structural failures: unreadable document, header
	// never found, insufficient rows for the expected layout.
	ErrParse = errors.New("parse error")
)
