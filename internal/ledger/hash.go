package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens-dev/finlens/internal/statement"
)

// Fingerprint derives the dedup hash for a transaction: SHA-256 over the
// normalized field tuple. The algorithm is fixed so the same fingerprint
// can be recomputed across process restarts and runtimes.
//
// Normalization: absolute amount with trailing zeros dropped, description
// trimmed and lowercased, reference trimmed and lowercased and included
// only when non-empty.
func Fingerprint(userID, accountID int64, date time.Time, amount decimal.Decimal, description string, direction statement.Direction, reference string) string {
	fields := []string{
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(accountID, 10),
		date.Format(time.DateOnly),
		amount.Abs().String(),
		strings.ToLower(strings.TrimSpace(description)),
		string(direction),
	}

	if ref := NormalizeReference(reference); ref != "" {
		fields = append(fields, ref)
	}

	sum := sha256.Sum256([]byte(strings.Join(fields, "\n")))

	return hex.EncodeToString(sum[:])
}

// NormalizeReference canonicalizes a bank reference token for comparison.
func NormalizeReference(reference string) string {
	return strings.ToLower(strings.TrimSpace(reference))
}
