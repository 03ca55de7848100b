package registry_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/registry"
)

// buildICICIWorkbook produces an ICICI-shaped xlsx: header on row 11, data
// from row 12.
func buildICICIWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{
		"S No.", "Value Date", "Transaction Date", "Cheque Number",
		"Transaction Remarks", "Withdrawal Amount (INR )", "Deposit Amount (INR )", "Balance (INR )",
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A11", &header))

	rows := [][]interface{}{
		{"1", "16/01/2025", "16/01/2025", "0", "UPI/PAYMENT", "500.00", "0", "9500.00"},
		{"2", "17/01/2025", "17/01/2025", "0", "NEFT CREDIT", "0", "2000.00", "11500.00"},
	}
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", 12+i), &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf.Bytes()
}

func TestAutoParse_DetectsFromFilename(t *testing.T) {
	r := registry.New()
	data := buildICICIWorkbook(t)

	// Workbook content is a binary container, so only the filename can
	// carry the institution signal.
	result, detection, err := r.AutoParse("ICICI_Statement_Jan.xlsx", data, statement.Options{})
	require.NoError(t, err)
	require.NotNil(t, detection)

	assert.Equal(t, "icici", detection.Bank)
	assert.Equal(t, "icici-excel", detection.Parser)
	assert.Equal(t, statement.FormatExcel, detection.Format)
	assert.GreaterOrEqual(t, detection.Confidence, 0.3)

	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "ICICI Bank", result.BankName)
}

func TestAutoParse_FallsBackToExtension(t *testing.T) {
	r := registry.New()
	data := buildICICIWorkbook(t)

	// No institution signal anywhere; the registry tries each excel parser
	// until one accepts the layout.
	result, detection, err := r.AutoParse("export.xlsx", data, statement.Options{})
	require.NoError(t, err)

	assert.Nil(t, detection)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "ICICI Bank", result.BankName)
}

func TestAutoParse_NothingWorks(t *testing.T) {
	r := registry.New()

	_, _, err := r.AutoParse("export.xlsx", []byte("not a workbook"), statement.Options{})
	require.Error(t, err)
}

func TestAutoParse_UnknownExtension(t *testing.T) {
	r := registry.New()

	_, _, err := r.AutoParse("export.pdf", []byte("irrelevant"), statement.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, statement.ErrUnsupportedFormat)
}

func TestParseWithBank(t *testing.T) {
	r := registry.New()
	data := buildICICIWorkbook(t)

	result, err := r.ParseWithBank("icici", statement.FormatExcel, data, statement.Options{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "ICICI Bank", result.BankName)
}

func TestParseWithBank_UnknownBank(t *testing.T) {
	r := registry.New()

	_, err := r.ParseWithBank("unknown", statement.FormatExcel, nil, statement.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, statement.ErrParse)
}

func TestParseWithBank_UnknownFormat(t *testing.T) {
	r := registry.New()

	_, err := r.ParseWithBank("icici", statement.FormatOFX, nil, statement.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, statement.ErrUnsupportedFormat)
}

func TestRegistry_Listings(t *testing.T) {
	r := registry.New()

	assert.Equal(t, []string{"icici", "idfc_first"}, r.Banks())
	assert.Equal(t, []string{"ICICI Bank", "IDFC First Bank"}, r.BankNames())
	assert.Equal(t, []string{"xls", "xlsx"}, r.SupportedExtensions())
	assert.Equal(t, []string{"icici-excel", "idfc_first-excel"}, r.ParserNames())

	parsers, ok := r.BankParsers("icici")
	require.True(t, ok)
	assert.Equal(t, []string{"icici-excel"}, parsers)

	_, ok = r.BankParsers("unknown")
	assert.False(t, ok)

	b, ok := r.Bank("idfc_first")
	require.True(t, ok)
	assert.Equal(t, "IDFC First Bank", b.Info().Name)
}
