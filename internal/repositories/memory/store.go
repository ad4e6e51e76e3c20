package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

type key struct {
	companyID string
	id        string
}

// data is one consistent snapshot of the store.
type data struct {
	accounts     map[key]domain.Account
	accountCodes map[key]string
	transactions map[key]domain.Transaction
	entries      map[key][]domain.TransactionEntry
	sequences    map[string]int64
	suggestions  map[key]domain.AISuggestion
	agents       map[key]domain.AIAgent
}

func newData() *data {
	return &data{
		accounts:     make(map[key]domain.Account),
		accountCodes: make(map[key]string),
		transactions: make(map[key]domain.Transaction),
		entries:      make(map[key][]domain.TransactionEntry),
		sequences:    make(map[string]int64),
		suggestions:  make(map[key]domain.AISuggestion),
		agents:       make(map[key]domain.AIAgent),
	}
}

// clone copies the maps. Stored values are replaced, never mutated in place,
// so sharing them between snapshots is safe.
func (d *data) clone() *data {
	return &data{
		accounts:     maps.Clone(d.accounts),
		accountCodes: maps.Clone(d.accountCodes),
		transactions: maps.Clone(d.transactions),
		entries:      maps.Clone(d.entries),
		sequences:    maps.Clone(d.sequences),
		suggestions:  maps.Clone(d.suggestions),
		agents:       maps.Clone(d.agents),
	}
}

// Store is a thread-safe in-memory LedgerStore. A unit of work holds the
// write lock, stages its changes on a copy and swaps the copy in on commit.
type Store struct {
	mu         sync.RWMutex
	d          *data
	beforeSwap func() error
}

// Option configures a Store.
type Option func(*Store)

// WithCommitHook installs a function that runs right before a unit of work is
// committed. A non-nil error aborts the commit.
func WithCommitHook(fn func() error) Option {
	return func(s *Store) {
		s.beforeSwap = fn
	}
}

// NewStore creates an empty in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{d: newData()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// WithinTx runs fn against a private snapshot and publishes it only when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(tx portsrepo.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	staged := s.d.clone()
	if err := fn(&view{d: staged}); err != nil {
		return err
	}

	if s.beforeSwap != nil {
		if err := s.beforeSwap(); err != nil {
			return fmt.Errorf("%w: commit failed: %w", apperrors.ErrIntegrity, err)
		}
	}
	s.d = staged
	return nil
}

// ReadSnapshot pins the current data version. Commits swap in a new version
// and never touch a published one, so no lock is held while fn runs.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(tx portsrepo.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	pinned := s.d
	s.mu.RUnlock()
	return fn(&view{d: pinned})
}

func (s *Store) read() *view {
	return &view{d: s.d}
}
