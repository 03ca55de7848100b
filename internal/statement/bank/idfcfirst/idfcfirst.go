// Package idfcfirst implements statement extraction for IDFC First Bank.
//
// IDFC First XLSX exports put the header on row 20 (0-indexed: 19) with
// columns Transaction Date, Value Date, Particulars, Cheque No., Debit,
// Credit, Balance. Data starts on row 21; a summary section with totals
// follows the data, usually after a run of blank rows.
package idfcfirst

import (
	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/bank"
)

const (
	Code = "idfc_first"
	Name = "IDFC First Bank"
)

var layout = bank.ExcelLayout{
	HeaderRow:    19,
	DataStartRow: 20,

	DateCol:        0, // transaction date
	DescriptionCol: 2, // particulars
	DebitCol:       4,
	CreditCol:      5,
	BalanceCol:     6,
	ReferenceCol:   3, // cheque no.

	HeaderKeywords: [][]string{
		{"transaction date"},
		{"particulars", "debit", "credit"},
	},
	StopMarkers: []string{
		"total",
		"opening balance",
		"closing balance",
		"summary",
	},
	EmptyRowLimit:         3,
	ReferencePlaceholders: []string{"0", "-"},
}

// Institution is the IDFC First Bank implementation of bank.Institution.
type Institution struct {
	info  bank.Info
	excel *bank.ExcelParser
}

func New() *Institution {
	return &Institution{
		info: bank.Info{
			Name: Name,
			Code: Code,
			Aliases: []string{
				"IDFC",
				"IDFC First",
				"IDFC FIRST Bank",
				"IDFCFIRST",
			},
			Patterns: []bank.DetectionPattern{
				bank.ContentKeywords{
					"IDFC First Bank",
					"IDFC FIRST",
					"IDFC Bank",
				},
				bank.NewFilenameRegex(`(?i)idfc.*(statement|bank)`),
			},
		},
		excel: bank.NewExcelParser(Code, Name, layout),
	}
}

func (i *Institution) Info() *bank.Info { return &i.info }

func (i *Institution) Parsers() []bank.FormatParser {
	return []bank.FormatParser{i.excel}
}

func (i *Institution) Parser(format statement.FileFormat) (bank.FormatParser, bool) {
	if format == statement.FormatExcel {
		return i.excel, true
	}

	return nil, false
}
