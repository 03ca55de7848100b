package idfcfirst_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/bank/idfcfirst"
)

var headerRow = []interface{}{
	"Transaction Date", "Value Date", "Particulars", "Cheque No.", "Debit", "Credit", "Balance",
}

// buildStatement mimics the IDFC First export shape: nineteen rows of
// customer summary, the header on row 20, data from row 21.
func buildStatement(t *testing.T, dataRows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Account Statement"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A6", &[]interface{}{"Customer Name", "J DOE"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A20", &headerRow))

	for i, row := range dataRows {
		addr := fmt.Sprintf("A%d", 21+i)
		require.NoError(t, f.SetSheetRow("Sheet1", addr, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf.Bytes()
}

func TestParse_DebitAndCredit(t *testing.T) {
	data := buildStatement(t, [][]interface{}{
		{"05-Feb-2025", "05-Feb-2025", "UPI/MER/402912/COFFEE", "-", "240.00", "", "12760.00"},
		{"06-Feb-2025", "06-Feb-2025", "IMPS REFUND", "904211", "", "1200.00", "13960.00"},
	})

	inst := idfcfirst.New()
	parser, ok := inst.Parser(statement.FormatExcel)
	require.True(t, ok)

	result, err := parser.ParseBytes(data, statement.Options{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	debit := result.Transactions[0]
	assert.Equal(t, time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), debit.Date)
	assert.Equal(t, "UPI/MER/402912/COFFEE", debit.Description)
	assert.Equal(t, statement.DirectionDebit, debit.Direction)
	assert.True(t, debit.Amount.Equal(decimal.RequireFromString("240")))
	assert.Empty(t, debit.Reference, `cheque "-" is a placeholder`)

	credit := result.Transactions[1]
	assert.Equal(t, statement.DirectionCredit, credit.Direction)
	assert.Equal(t, "904211", credit.Reference)

	assert.Equal(t, idfcfirst.Name, result.BankName)
}

func TestParse_StopsAtSummary(t *testing.T) {
	data := buildStatement(t, [][]interface{}{
		{"05-Feb-2025", "05-Feb-2025", "FIRST", "-", "100.00", "", "900.00"},
		{"Closing Balance", "", "", "", "", "", "800.00"},
		{"06-Feb-2025", "06-Feb-2025", "AFTER SUMMARY", "-", "100.00", "", "800.00"},
	})

	inst := idfcfirst.New()
	parser, _ := inst.Parser(statement.FormatExcel)

	result, err := parser.ParseBytes(data, statement.Options{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "FIRST", result.Transactions[0].Description)
}

func TestParse_StopsAfterEmptyRun(t *testing.T) {
	data := buildStatement(t, [][]interface{}{
		{"05-Feb-2025", "05-Feb-2025", "FIRST", "-", "100.00", "", "900.00"},
		{"", "", "", "", "", "", ""},
		{"", "", "", "", "", "", ""},
		{"", "", "", "", "", "", ""},
		{"06-Feb-2025", "06-Feb-2025", "TRAILER SECTION", "-", "50.00", "", "850.00"},
	})

	inst := idfcfirst.New()
	parser, _ := inst.Parser(statement.FormatExcel)

	result, err := parser.ParseBytes(data, statement.Options{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
}

func TestParse_ToleratesShortGaps(t *testing.T) {
	data := buildStatement(t, [][]interface{}{
		{"05-Feb-2025", "05-Feb-2025", "FIRST", "-", "100.00", "", "900.00"},
		{"", "", "", "", "", "", ""},
		{"06-Feb-2025", "06-Feb-2025", "SECOND", "-", "50.00", "", "850.00"},
	})

	inst := idfcfirst.New()
	parser, _ := inst.Parser(statement.FormatExcel)

	result, err := parser.ParseBytes(data, statement.Options{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
}

func TestDetectionPatterns(t *testing.T) {
	info := idfcfirst.New().Info()

	assert.True(t, info.MatchesContent("IDFC FIRST Bank Limited account statement"))
	assert.False(t, info.MatchesContent("some other bank"))

	assert.True(t, info.MatchesFilename("IDFC_Bank_Statement.xlsx"))
	assert.True(t, info.MatchesFilename("idfcfirst-feb.xlsx"))
	assert.False(t, info.MatchesFilename("icici_statement.xls"))
}
