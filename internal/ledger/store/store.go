// Package store is the Postgres implementation of the ledger repository.
//
// The transactions table carries two uniqueness backstops for the dedup
// engine's check-then-insert sequence, which is not atomic on its own:
// a unique index on (user_id, hash) and a unique index on reference_number
// where it is non-empty.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens-dev/finlens/internal/ledger"
	"github.com/finlens-dev/finlens/internal/statement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, user_id, account_id, date, description, amount, direction,
	balance, reference_number, mode, hash, created_at
`

// scanTransaction reads a ledger row in selectTransactionColumns order.
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var direction string

	var balance sql.NullString

	var reference, mode sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.AccountID, &tx.Date, &tx.Description, &tx.Amount, &direction,
		&balance, &reference, &mode, &tx.Hash, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Direction = statement.Direction(direction)
	tx.Reference = reference.String
	tx.Mode = mode.String

	if balance.Valid {
		b, err := decimal.NewFromString(balance.String)
		if err != nil {
			return nil, fmt.Errorf("parsing balance: %w", err)
		}

		tx.Balance = &b
	}

	return &tx, nil
}

func (s *Store) Create(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, account_id, date, description, amount, direction,
			balance, reference_number, mode, hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, NOW())
		RETURNING id, created_at
	`

	var balance any
	if tx.Balance != nil {
		balance = tx.Balance.String()
	}

	err := s.db.QueryRowContext(ctx, query,
		tx.UserID,
		tx.AccountID,
		tx.Date,
		tx.Description,
		tx.Amount,
		tx.Direction,
		balance,
		ledger.NormalizeReference(tx.Reference),
		tx.Mode,
		tx.Hash,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) FindByReference(ctx context.Context, reference string) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE reference_number = $1
		LIMIT 1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, reference))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("finding by reference: %w", err)
	}

	return tx, nil
}

func (s *Store) FindByHash(ctx context.Context, userID int64, hash string) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND hash = $2
		LIMIT 1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, userID, hash))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("finding by hash: %w", err)
	}

	return tx, nil
}

func (s *Store) FindByFields(ctx context.Context, userID, accountID int64, date time.Time, amount decimal.Decimal, direction statement.Direction) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND account_id = $2 AND date = $3 AND amount = $4 AND direction = $5`

	rows, err := s.db.QueryContext(ctx, query, userID, accountID, date, amount, direction)
	if err != nil {
		return nil, fmt.Errorf("finding by fields: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}
