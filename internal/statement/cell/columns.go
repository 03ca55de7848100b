package cell

import "strings"

// Columns maps semantic roles to column indices. -1 means the role was not
// found in the header row.
type Columns struct {
	Date        int
	PostedDate  int
	Description int
	Amount      int
	Debit       int
	Credit      int
	Balance     int
	Reference   int
	Mode        int
}

// Valid reports whether the mapping is usable: a date column plus at least
// one of amount, debit or credit.
func (c Columns) Valid() bool {
	return c.Date >= 0 && (c.Amount >= 0 || c.Debit >= 0 || c.Credit >= 0)
}

// InferColumns scans header text for keyword substrings, case-insensitive.
// The first header matching a role wins; later duplicates are ignored.
func InferColumns(headers []string) Columns {
	cols := Columns{
		Date:        -1,
		PostedDate:  -1,
		Description: -1,
		Amount:      -1,
		Debit:       -1,
		Credit:      -1,
		Balance:     -1,
		Reference:   -1,
		Mode:        -1,
	}

	for i, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))

		switch {
		case strings.Contains(lower, "date"):
			// Posted/value/txn dates are secondary to the plain date column.
			if strings.Contains(lower, "post") || strings.Contains(lower, "value") || strings.Contains(lower, "txn") {
				if cols.PostedDate < 0 {
					cols.PostedDate = i
				}
			} else if cols.Date < 0 {
				cols.Date = i
			}
		case containsAny(lower, "description", "particulars", "narration", "details", "remark"):
			if cols.Description < 0 {
				cols.Description = i
			}
		// Debit/credit beat amount: "Withdrawal Amount" is a debit column.
		case containsAny(lower, "debit", "withdrawal", "withdraw") || lower == "dr":
			if cols.Debit < 0 {
				cols.Debit = i
			}
		case containsAny(lower, "credit", "deposit") || lower == "cr":
			if cols.Credit < 0 {
				cols.Credit = i
			}
		case strings.Contains(lower, "amount"):
			if cols.Amount < 0 {
				cols.Amount = i
			}
		case strings.Contains(lower, "balance"):
			if cols.Balance < 0 {
				cols.Balance = i
			}
		case containsAny(lower, "ref", "cheque", "check", "transaction id", "txn id"):
			if cols.Reference < 0 {
				cols.Reference = i
			}
		case containsAny(lower, "type", "mode", "category"):
			if cols.Mode < 0 {
				cols.Mode = i
			}
		}
	}

	return cols
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}

	return false
}
