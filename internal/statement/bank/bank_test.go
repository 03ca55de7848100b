package bank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/bank"
	"github.com/finlens-dev/finlens/internal/statement/bank/icici"
)

func TestContentKeywords(t *testing.T) {
	p := bank.ContentKeywords{"ICICI Bank", "ICICI Ltd"}

	assert.True(t, p.MatchesContent("Statement of account, icici bank limited"))
	assert.False(t, p.MatchesContent("HDFC Bank statement"))
	assert.False(t, p.MatchesFilename("icici bank.xls"), "keyword patterns never match filenames")
}

func TestFilenameRegex(t *testing.T) {
	p := bank.NewFilenameRegex(`(?i)icici.*statement`)

	assert.True(t, p.MatchesFilename("ICICI_Statement_Jan.xls"))
	assert.False(t, p.MatchesFilename("statement_icici.xls"))
	assert.False(t, p.MatchesContent("icici statement"), "filename patterns never match content")
}

func TestContentRegex(t *testing.T) {
	p := bank.NewContentRegex(`(?i)account\s+number`)

	assert.True(t, p.MatchesContent("Account Number: 1234"))
	assert.False(t, p.MatchesFilename("account number.xls"))
}

func TestAccountNumberRegex(t *testing.T) {
	p := bank.NewAccountNumberRegex(`\b\d{12}\b`)

	assert.True(t, p.MatchesContent("Account Number: 000401234567"))
	assert.False(t, p.MatchesContent("Account Number: 1234"))
	assert.False(t, p.MatchesFilename("000401234567.xls"))
}

func TestInfo_MatchesFilename_Aliases(t *testing.T) {
	info := bank.Info{
		Name:    "ICICI Bank",
		Code:    "icici",
		Aliases: []string{"ICICI"},
	}

	assert.True(t, info.MatchesFilename("my_icici_export.xlsx"))
	assert.True(t, info.MatchesFilename("ICICI.xls"))
	assert.False(t, info.MatchesFilename("hdfc_export.xlsx"))
}

func TestConfidence(t *testing.T) {
	inst := icici.New()

	tests := []struct {
		name     string
		filename string
		content  string
		want     float64
	}{
		{"NoMatch", "export.xls", "some other bank", 0.0},
		{"FilenameOnly", "icici_statement.xls", "nothing relevant", 0.4},
		{"ContentOnly", "export.xls", "ICICI Bank statement of account", 0.6},
		{"Both", "icici_statement.xls", "ICICI Bank statement of account", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, bank.Confidence(inst, tt.filename, tt.content), 0.001)
		})
	}
}

func TestExtensionMatches(t *testing.T) {
	assert.True(t, bank.ExtensionMatches("statement.xls", statement.FormatExcel))
	assert.True(t, bank.ExtensionMatches("statement.XLSX", statement.FormatExcel))
	assert.False(t, bank.ExtensionMatches("statement.csv", statement.FormatExcel))
	assert.False(t, bank.ExtensionMatches("statement", statement.FormatExcel))
	assert.False(t, bank.ExtensionMatches("statement.", statement.FormatExcel))
	assert.True(t, bank.ExtensionMatches("statement.ofx", statement.FormatOFX))
}

func TestParserName(t *testing.T) {
	p := bank.NewExcelParser("icici", "ICICI Bank", bank.ExcelLayout{})
	assert.Equal(t, "icici-excel", bank.ParserName(p))
}
