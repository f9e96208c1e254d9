package account

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"postforge/internal/logging"
)

// ErrInsufficientBalance is returned when an agency's wallet cannot cover
// a deduction.
var ErrInsufficientBalance = errors.New("insufficient token balance")

// TokenWallet is the balance deduction collaborator. The pipeline never
// calls it; the caller settles once per run with the summed actual cost.
type TokenWallet interface {
	ConsumeTokens(ctx context.Context, agencyID string, amount float64, description, reference string) error
	Balance(ctx context.Context, agencyID string) (float64, error)
}

// MemoryWallet is an in-memory TokenWallet for the CLI and tests.
// A transactional implementation lives in the application layer.
type MemoryWallet struct {
	mu       sync.Mutex
	balances map[string]float64
}

// NewMemoryWallet creates a wallet with the given starting balances.
func NewMemoryWallet(balances map[string]float64) *MemoryWallet {
	w := &MemoryWallet{balances: make(map[string]float64, len(balances))}
	for agency, bal := range balances {
		w.balances[agency] = bal
	}
	return w
}

// ConsumeTokens deducts amount from the agency's balance. The deduction is
// all-or-nothing; a partial deduction never happens.
func (w *MemoryWallet) ConsumeTokens(_ context.Context, agencyID string, amount float64, description, reference string) error {
	if amount < 0 {
		return fmt.Errorf("negative deduction %f for agency %s", amount, agencyID)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	bal, ok := w.balances[agencyID]
	if !ok || bal < amount {
		return fmt.Errorf("%w: agency %s has %.2f, needs %.2f", ErrInsufficientBalance, agencyID, bal, amount)
	}
	w.balances[agencyID] = bal - amount

	logging.Usage("consumed %.2f tokens from %s (%s, ref=%s)", amount, agencyID, description, reference)
	return nil
}

// Balance returns the agency's current balance.
func (w *MemoryWallet) Balance(_ context.Context, agencyID string) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[agencyID], nil
}
