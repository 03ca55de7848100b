// Package ledger commits parsed statement transactions to a user's ledger,
// applying layered duplicate detection so re-uploaded or overlapping
// statements never create the same transaction twice.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finlens-dev/finlens/internal/statement"
)

// Transaction is one committed ledger row.
type Transaction struct {
	ID          uuid.UUID
	UserID      int64
	AccountID   int64
	Date        time.Time
	Description string
	Amount      decimal.Decimal // non-negative magnitude; sign lives in Direction
	Direction   statement.Direction
	Balance     *decimal.Decimal
	Reference   string
	Mode        string
	// Hash is the dedup fingerprint stored alongside the row for later
	// duplicate lookups. It is never the row's identity.
	Hash      string
	CreatedAt time.Time
}

// CreateParams carries one candidate transaction into the dedup engine.
type CreateParams struct {
	AccountID   int64
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Direction   statement.Direction
	Balance     *decimal.Decimal
	Reference   string
	Mode        string
}

// FromParsed converts an extracted statement row into commit parameters for
// the given account.
func FromParsed(accountID int64, tx statement.ParsedTransaction) CreateParams {
	return CreateParams{
		AccountID:   accountID,
		Date:        tx.Date,
		Description: tx.Description,
		Amount:      tx.Amount,
		Direction:   tx.Direction,
		Balance:     tx.Balance,
		Reference:   tx.Reference,
		Mode:        tx.Mode,
	}
}
