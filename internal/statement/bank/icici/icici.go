// Package icici implements statement extraction for ICICI Bank.
//
// ICICI XLS exports put the header on row 11 (0-indexed: 10) with columns
// S No., Value Date, Transaction Date, Cheque Number, Transaction Remarks,
// Withdrawal Amount(INR), Deposit Amount(INR), Balance(INR). Data starts on
// row 12 and a legend section follows the last data row.
package icici

import (
	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/bank"
)

const (
	// Code is the institution's registry key.
	Code = "icici"
	// Name is the display name stamped onto parse results.
	Name = "ICICI Bank"
)

var layout = bank.ExcelLayout{
	HeaderRow:    10,
	DataStartRow: 11,

	DateCol:        1, // value date
	DescriptionCol: 4, // transaction remarks
	DebitCol:       5, // withdrawal amount
	CreditCol:      6, // deposit amount
	BalanceCol:     7,
	ReferenceCol:   3, // cheque number

	HeaderKeywords: [][]string{
		{"value date"},
		{"transaction"},
	},
	StopMarkers:           []string{"legend", "note:"},
	ShortStarStop:         true,
	ReferencePlaceholders: []string{"0"},
}

// Institution is the ICICI Bank implementation of bank.Institution.
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
				"ICICI",
				"ICICI Bank",
				"Industrial Credit and Investment Corporation of India",
			},
			Patterns: []bank.DetectionPattern{
				bank.ContentKeywords{
					"ICICI Bank",
					"Industrial Credit and Investment Corporation",
					"ICICI Ltd",
				},
				bank.NewFilenameRegex(`(?i)icici.*statement`),
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
