package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens-dev/finlens/internal/statement"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// FindByReference searches all users and accounts for a transaction
	// with the given normalized reference. Returns (nil, nil) on no match.
	FindByReference(ctx context.Context, reference string) (*Transaction, error)

	// FindByHash searches one user's transactions for a stored fingerprint.
	// Returns (nil, nil) on no match.
	FindByHash(ctx context.Context, userID int64, hash string) (*Transaction, error)

	// FindByFields returns all of a user's transactions on one account
	// matching date, amount magnitude and direction.
	FindByFields(ctx context.Context, userID, accountID int64, date time.Time, amount decimal.Decimal, direction statement.Direction) ([]*Transaction, error)

	// Create inserts the transaction. The storage layer enforces
	// uniqueness on the fingerprint hash and on the reference number as a
	// backstop, since check-then-insert is not atomic here.
	Create(ctx context.Context, tx *Transaction) error
}

// Service is the deduplication engine.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// IsDuplicate reports whether the candidate matches an existing
// transaction. Strategies apply in strict priority order, stopping at the
// first match:
//
//  1. Reference-number match, global scope. Bank-issued identifiers
//     (UPI/IMPS/cheque numbers) are assumed globally unique, so any
//     transaction anywhere with the same normalized reference is an
//     unconditional duplicate.
//  2. Fingerprint hash match, per-user scope.
func (s *Service) IsDuplicate(ctx context.Context, userID int64, p CreateParams) (bool, error) {
	if ref := NormalizeReference(p.Reference); ref != "" {
		existing, err := s.repo.FindByReference(ctx, ref)
		if err != nil {
			return false, fmt.Errorf("find by reference: %w", err)
		}

		if existing != nil {
			return true, nil
		}
	}

	hash := Fingerprint(userID, p.AccountID, p.Date, p.Amount, p.Description, p.Direction, p.Reference)

	existing, err := s.repo.FindByHash(ctx, userID, hash)
	if err != nil {
		return false, fmt.Errorf("find by hash: %w", err)
	}

	return existing != nil, nil
}

// Create commits the candidate unless it is a duplicate. Returns the
// created transaction, or nil when the candidate was skipped.
func (s *Service) Create(ctx context.Context, userID int64, p CreateParams) (*Transaction, error) {
	dup, err := s.IsDuplicate(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	if dup {
		return nil, nil
	}

	tx := &Transaction{
		UserID:      userID,
		AccountID:   p.AccountID,
		Date:        p.Date,
		Description: p.Description,
		Amount:      p.Amount.Abs(),
		Direction:   p.Direction,
		Balance:     p.Balance,
		Reference:   p.Reference,
		Mode:        p.Mode,
		Hash:        Fingerprint(userID, p.AccountID, p.Date, p.Amount, p.Description, p.Direction, p.Reference),
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	return tx, nil
}

// BulkImport commits each candidate in turn and reports how many were
// created and how many were skipped as duplicates. An individual duplicate
// never aborts the batch.
func (s *Service) BulkImport(ctx context.Context, userID int64, params []CreateParams) (created, skipped int, err error) {
	for _, p := range params {
		tx, err := s.Create(ctx, userID, p)
		if err != nil {
			return created, skipped, err
		}

		if tx != nil {
			created++
		} else {
			skipped++
		}
	}

	return created, skipped, nil
}

// FindDuplicateByFields is the loose fallback match for manual duplicate
// search: same user, account, date, amount magnitude and direction, then an
// exact case-insensitive trimmed description match among the candidates.
// Bulk import deliberately does not use it; without a reference or hash
// requirement it can suppress legitimate same-day repeat payments.
func (s *Service) FindDuplicateByFields(ctx context.Context, userID int64, p CreateParams) (*Transaction, error) {
	candidates, err := s.repo.FindByFields(ctx, userID, p.AccountID, p.Date, p.Amount.Abs(), p.Direction)
	if err != nil {
		return nil, fmt.Errorf("find by fields: %w", err)
	}

	want := strings.ToLower(strings.TrimSpace(p.Description))

	for _, c := range candidates {
		if strings.ToLower(strings.TrimSpace(c.Description)) == want {
			return c, nil
		}
	}

	return nil, nil
}
