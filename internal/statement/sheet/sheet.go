// Package sheet reads tabular statement documents (.xlsx and legacy .xls)
// into rows of cell values, hiding which workbook library produced them.
package sheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/finlens-dev/finlens/internal/statement"
	"github.com/finlens-dev/finlens/internal/statement/cell"
)

var (
	sigZIP = []byte{0x50, 0x4B, 0x03, 0x04}
	sigOLE = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Read returns all rows of the first sheet of the workbook. The container
// format is sniffed from the leading bytes, so a mislabeled extension does
// not matter.
func Read(data []byte) ([][]cell.Value, error) {
	switch {
	case bytes.HasPrefix(data, sigZIP):
		return readXLSX(data)
	case bytes.HasPrefix(data, sigOLE):
		return readXLS(data)
	}

	// Ambiguous leading bytes: try the modern container first.
	rows, err := readXLSX(data)
	if err == nil {
		return rows, nil
	}

	return readXLS(data)
}

func readXLSX(data []byte) ([][]cell.Value, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", statement.ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", statement.ErrParse)
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", statement.ErrParse, sheets[0], err)
	}

	rows := make([][]cell.Value, len(raw))
	for i, row := range raw {
		cells := make([]cell.Value, len(row))
		for j, text := range row {
			cells[j] = fromString(text)
		}

		rows[i] = cells
	}

	return rows, nil
}

func readXLS(data []byte) ([][]cell.Value, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", statement.ErrParse, err)
	}

	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", statement.ErrParse)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("%w: workbook first sheet unreadable", statement.ErrParse)
	}

	rows := make([][]cell.Value, 0, int(ws.MaxRow)+1)

	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]cell.Value, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, fromString(row.Col(j)))
		}

		rows = append(rows, cells)
	}

	return rows, nil
}

// fromString classifies a rendered cell: purely numeric text becomes a
// number cell so serial dates and unformatted amounts survive, everything
// else stays text.
func fromString(text string) cell.Value {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return cell.Empty()
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return cell.FromNumber(f)
	}

	return cell.FromText(trimmed)
}

// RowEmpty reports whether every cell in the row is empty.
func RowEmpty(row []cell.Value) bool {
	for _, v := range row {
		if !v.IsEmpty() {
			return false
		}
	}

	return true
}

// RowText joins the row's rendered cells into one lowercase string, for
// header keyword matching.
func RowText(row []cell.Value) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = strings.ToLower(v.String())
	}

	return strings.Join(parts, " ")
}

// RowStrings renders every cell of the row.
func RowStrings(row []cell.Value) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = v.String()
	}

	return out
}
