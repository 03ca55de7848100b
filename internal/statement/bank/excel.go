package bank

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/cell"
	"github.com/finlens-dev/finlens/internal/statement/sheet"
)

// ExcelLayout encodes an institution's known static statement layout as
// data. Column indices are 0-based; -1 disables a column.
type ExcelLayout struct {
	// HeaderRow is where the header is expected (0-based).
	HeaderRow int
	// DataStartRow is where data rows are expected to begin.
	DataStartRow int

	DateCol        int
	DescriptionCol int
	DebitCol       int
	CreditCol      int
	BalanceCol     int
	ReferenceCol   int

	// HeaderKeywords validates the header row: the row matches when all
	// keywords of any one group appear in its joined lowercase text.
	HeaderKeywords [][]string

	// StopMarkers end extraction when the row's leading cell contains one.
	StopMarkers []string

	// ShortStarStop additionally stops on short leading cells containing
	// "*", which some banks use to open their legend section.
	ShortStarStop bool

	// EmptyRowLimit stops extraction after this many consecutive empty
	// rows. Zero means empty rows are skipped without limit.
	EmptyRowLimit int

	// ReferencePlaceholders are reference cell values treated as absent.
	ReferencePlaceholders []string
}

// ExcelParser extracts transactions from tabular Excel exports using a
// fixed institution layout. It implements FormatParser.
type ExcelParser struct {
	code     string
	bankName string
	layout   ExcelLayout
}

// NewExcelParser builds a parser for one institution's Excel layout.
func NewExcelParser(code, bankName string, layout ExcelLayout) *ExcelParser {
	return &ExcelParser{code: code, bankName: bankName, layout: layout}
}

func (p *ExcelParser) Format() statement.FileFormat { return statement.FormatExcel }
func (p *ExcelParser) BankCode() string             { return p.code }

func (p *ExcelParser) CanParse(filename string) bool {
	return ExtensionMatches(filename, statement.FormatExcel)
}

// Parse reads a statement file from disk and delegates to ParseBytes.
func (p *ExcelParser) Parse(path string, opts statement.Options) (*statement.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", statement.ErrFileNotFound, path)
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return p.ParseBytes(data, opts)
}

// ParseBytes extracts all transactions from an in-memory workbook.
func (p *ExcelParser) ParseBytes(data []byte, opts statement.Options) (*statement.ParseResult, error) {
	rows, err := sheet.Read(data)
	if err != nil {
		return nil, err
	}

	start, err := p.findDataStart(rows)
	if err != nil {
		return nil, err
	}

	start += opts.SkipRows

	var txs []statement.ParsedTransaction

	emptyRun := 0

	for _, row := range rows[min(start, len(rows)):] {
		if sheet.RowEmpty(row) {
			emptyRun++
			if p.layout.EmptyRowLimit > 0 && emptyRun >= p.layout.EmptyRowLimit {
				break
			}

			continue
		}

		emptyRun = 0

		if p.isStopRow(row) {
			break
		}

		tx, skip := p.classifyRow(row)
		if skip != "" {
			continue
		}

		txs = append(txs, tx)
	}

	result := statement.NewParseResult(txs)
	result.BankName = p.bankName

	return result, nil
}

// findDataStart validates the expected header row and returns the first
// data row index. When the header is not where the layout says, every row
// is scanned for the header keywords and data resumes after the first hit.
func (p *ExcelParser) findDataStart(rows [][]cell.Value) (int, error) {
	if len(rows) > p.layout.HeaderRow && p.headerMatches(sheet.RowText(rows[p.layout.HeaderRow])) {
		return p.layout.DataStartRow, nil
	}

	for i, row := range rows {
		if p.headerMatches(sheet.RowText(row)) {
			return i + 1, nil
		}
	}

	if len(rows) <= p.layout.DataStartRow {
		return 0, fmt.Errorf("%w: file has too few rows for the %s layout", statement.ErrParse, p.code)
	}

	return 0, fmt.Errorf("%w: could not find %s header row", statement.ErrParse, p.code)
}

func (p *ExcelParser) headerMatches(rowText string) bool {
	for _, group := range p.layout.HeaderKeywords {
		all := true

		for _, kw := range group {
			if !strings.Contains(rowText, kw) {
				all = false
				break
			}
		}

		if all && len(group) > 0 {
			return true
		}
	}

	return false
}

func (p *ExcelParser) isStopRow(row []cell.Value) bool {
	if len(row) == 0 {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(row[0].String()))

	for _, marker := range p.layout.StopMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}

	if p.layout.ShortStarStop && strings.Contains(text, "*") && len(text) < 10 {
		return true
	}

	return false
}

// Row skip reasons. Empty means the row was accepted.
const (
	skipNoDate        = "no date"
	skipNoDescription = "no description"
	skipNoAmount      = "no amount"
)

// classifyRow turns one data row into a transaction or a skip reason.
// Malformed rows never fail the parse; they are reported as skipped.
func (p *ExcelParser) classifyRow(row []cell.Value) (statement.ParsedTransaction, string) {
	date, ok := cell.ParseDate(cellAt(row, p.layout.DateCol))
	if !ok {
		return statement.ParsedTransaction{}, skipNoDate
	}

	description := strings.TrimSpace(cellAt(row, p.layout.DescriptionCol).String())
	if description == "" {
		return statement.ParsedTransaction{}, skipNoDescription
	}

	debit, debitOK := cell.ParseAmount(cellAt(row, p.layout.DebitCol))
	credit, creditOK := cell.ParseAmount(cellAt(row, p.layout.CreditCol))

	tx := statement.ParsedTransaction{
		Date:        date,
		Description: description,
	}

	switch {
	case debitOK && !debit.IsZero():
		tx.Amount = debit.Abs()
		tx.Direction = statement.DirectionDebit
	case creditOK && !credit.IsZero():
		tx.Amount = credit.Abs()
		tx.Direction = statement.DirectionCredit
	default:
		return statement.ParsedTransaction{}, skipNoAmount
	}

	if balance, ok := cell.ParseAmount(cellAt(row, p.layout.BalanceCol)); ok {
		tx.Balance = &balance
	}

	ref := strings.TrimSpace(cellAt(row, p.layout.ReferenceCol).String())
	if ref != "" && !p.isPlaceholderRef(ref) {
		tx.Reference = ref
	}

	return tx, ""
}

func (p *ExcelParser) isPlaceholderRef(ref string) bool {
	for _, placeholder := range p.layout.ReferencePlaceholders {
		if ref == placeholder {
			return true
		}
	}

	return false
}

func cellAt(row []cell.Value, idx int) cell.Value {
	if idx < 0 || idx >= len(row) {
		return cell.Empty()
	}

	return row[idx]
}
