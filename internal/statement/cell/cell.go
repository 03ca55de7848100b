// Package cell normalizes spreadsheet cell values: dates in native, serial
// and free-text forms, amounts in the formatting mess banks actually export,
// and header-keyword column inference for layouts no extractor knows.
package cell

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the cell value variants the sheet readers produce.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindTime
)

// Value is one spreadsheet cell.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Time   time.Time
}

func Empty() Value            { return Value{Kind: KindEmpty} }
func FromText(s string) Value { return Value{Kind: KindText, Text: s} }
func FromNumber(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}
func FromTime(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// String renders the cell the way it would display in a sheet.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindTime:
		return v.Time.Format(time.DateOnly)
	}

	return ""
}

// IsEmpty reports whether the cell is empty or whitespace-only text.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindEmpty:
		return true
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	}

	return false
}

// dateLayouts is the ordered list of text date formats seen in bank exports.
// Non-padded layouts accept both "2-1-2006" and "16-01-2025".
var dateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2-1-06",
	"2/1/06",
	"2 Jan 2006",
	"2-Jan-2006",
	"2 January 2006",
	"2006-1-2",
	"2006/1/2",
	"1-2-2006",
	"1/2/2006",
	"Jan 2 2006",
	"January 2 2006",
	"2-Jan-06",
}

// ParseDate extracts a calendar date from a cell of any kind. Numeric cells
// are treated as spreadsheet serial dates. Returns false when no supported
// interpretation matches; it never fails loudly.
func ParseDate(v Value) (time.Time, bool) {
	switch v.Kind {
	case KindTime:
		t := v.Time.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	case KindNumber:
		return FromSerial(v.Number)
	case KindText:
		return ParseDateString(v.Text)
	}

	return time.Time{}, false
}

// ParseDateString tries each known text layout in order and returns the
// first match.
func ParseDateString(text string) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// serialEpoch is the spreadsheet day-zero convention: days count from
// 1899-12-30 so that serial 1 is 1900-01-01.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// FromSerial converts a spreadsheet serial date number to a calendar date.
// Serials >= 60 are shifted back one day to compensate for the phantom
// 1900-02-29 the serial convention assumes existed.
func FromSerial(serial float64) (time.Time, bool) {
	if serial < 1 {
		return time.Time{}, false
	}

	adjusted := serial
	if serial >= 60 {
		adjusted -= 1
	}

	return serialEpoch.AddDate(0, 0, int(adjusted)), true
}

// currencyTokens are stripped from amount text before parsing. Order
// matters: "Rs." must go before "Rs".
var currencyTokens = []string{"$", "Rs.", "Rs", "INR", "USD", "EUR", "GBP"}

// ParseAmount extracts a decimal amount from a cell of any kind. Returns
// false for empty cells, placeholder values and unparseable text.
func ParseAmount(v Value) (decimal.Decimal, bool) {
	switch v.Kind {
	case KindNumber:
		return decimal.NewFromFloat(v.Number), true
	case KindText:
		return ParseAmountString(v.Text)
	}

	return decimal.Decimal{}, false
}

// ParseAmountString cleans and parses a textual amount. Empty, "-" and "0"
// literals mean "no amount", not zero.
func ParseAmountString(text string) (decimal.Decimal, bool) {
	cleaned, ok := cleanAmount(text)
	if !ok {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}

// cleanAmount strips currency tokens, thousands separators and whitespace,
// rewrites parenthesized values as negated, and folds CR/Dr suffixes into
// the sign.
func cleanAmount(text string) (string, bool) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" || cleaned == "-" || cleaned == "0" {
		return "", false
	}

	for _, token := range currencyTokens {
		cleaned = strings.ReplaceAll(cleaned, token, "")
	}

	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.Join(strings.Fields(cleaned), "")

	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}

	if strings.HasSuffix(cleaned, "CR") {
		cleaned = strings.TrimSuffix(cleaned, "CR")
	} else if strings.HasSuffix(cleaned, "Dr") || strings.HasSuffix(cleaned, "DR") {
		cleaned = strings.TrimSuffix(cleaned, "Dr")
		cleaned = strings.TrimSuffix(cleaned, "DR")
		cleaned = "-" + cleaned
	}

	if cleaned == "" {
		return "", false
	}

	return cleaned, true
}
