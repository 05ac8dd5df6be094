package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/set-night/ledgercore/internal/domain"
	"golang.org/x/sync/semaphore"
)

// MemoryStore keeps accounts and the ledger in process memory. Each account
// has its own lock so unrelated accounts never contend.
type MemoryStore struct {
	mu           sync.RWMutex
	accounts     map[int64]domain.Account
	locks        map[int64]*semaphore.Weighted
	numbers      map[string]struct{}
	transactions []domain.Transaction
	nextAcctID   int64
	nextTxID     int64
	lockTimeout  time.Duration
}

func NewMemoryStore(lockTimeout time.Duration) *MemoryStore {
	return &MemoryStore{
		accounts:    make(map[int64]domain.Account),
		locks:       make(map[int64]*semaphore.Weighted),
		numbers:     make(map[string]struct{}),
		lockTimeout: lockTimeout,
	}
}

func (s *MemoryStore) GetAccount(_ context.Context, id int64) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acct, nil
}

// AccountNumberExists also reports numbers of deleted accounts, which are
// never reissued.
func (s *MemoryStore) AccountNumberExists(_ context.Context, number string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.numbers[number]
	return ok, nil
}

func (s *MemoryStore) InsertAccount(_ context.Context, acct domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.numbers[acct.Number]; ok {
		return domain.Account{}, ErrNumberTaken
	}

	now := time.Now()
	s.nextAcctID++
	acct.ID = s.nextAcctID
	acct.Version = 1
	acct.CreatedAt = now
	acct.UpdatedAt = now

	s.accounts[acct.ID] = acct
	s.locks[acct.ID] = semaphore.NewWeighted(1)
	s.numbers[acct.Number] = struct{}{}
	return acct, nil
}

func (s *MemoryStore) ListAccounts(_ context.Context, ownerID *int64) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		if ownerID != nil && acct.OwnerID != *ownerID {
			continue
		}
		out = append(out, acct)
	}
	slices.SortFunc(out, func(a, b domain.Account) int { return compareID(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, id int64) (domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return domain.Transaction{}, domain.ErrTransactionNotFound
}

func (s *MemoryStore) QueryTransactions(_ context.Context, filter domain.TransactionFilter, page domain.PageRequest) (domain.Page[domain.Transaction], error) {
	s.mu.RLock()
	matched := make([]domain.Transaction, 0)
	for _, tx := range s.transactions {
		if filter.Match(tx) {
			matched = append(matched, tx)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b domain.Transaction) int { return compareID(a.ID, b.ID) })

	result := domain.Page[domain.Transaction]{Page: page.Page, Size: page.Size, Total: int64(len(matched))}
	start := (page.Page - 1) * page.Size
	if start < 0 || start >= len(matched) {
		result.Items = []domain.Transaction{}
		return result, nil
	}
	end := min(start+page.Size, len(matched))
	result.Items = slices.Clone(matched[start:end])
	return result, nil
}

func (s *MemoryStore) Atomically(ctx context.Context, accountIDs []int64, fn func(ctx context.Context, uow UnitOfWork) error) error {
	ids := lockOrder(accountIDs)

	lockCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	held := make([]*semaphore.Weighted, 0, len(ids))
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}()

	uow := &memUnitOfWork{
		store:    s,
		accounts: make(map[int64]domain.Account, len(ids)),
		deleted:  make(map[int64]bool),
	}
	for _, id := range ids {
		s.mu.RLock()
		lock, ok := s.locks[id]
		s.mu.RUnlock()
		if !ok {
			return fmt.Errorf("account %d: %w", id, domain.ErrAccountNotFound)
		}

		if err := lock.Acquire(lockCtx, 1); err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return fmt.Errorf("lock account %d: %w", id, ctx.Err())
			}
			return fmt.Errorf("lock account %d: %w", id, domain.ErrConcurrency)
		}
		held = append(held, lock)

		// The account may have been deleted while we waited for its lock.
		acct, err := s.GetAccount(ctx, id)
		if err != nil {
			return fmt.Errorf("account %d: %w", id, err)
		}
		uow.accounts[id] = acct
	}

	if err := fn(ctx, uow); err != nil {
		return err
	}
	return s.commit(uow)
}

func (s *MemoryStore) commit(uow *memUnitOfWork) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range uow.dirty {
		current, ok := s.accounts[id]
		if !ok || current.Version != uow.baseVersion[id] {
			return fmt.Errorf("commit account %d: %w", id, domain.ErrConcurrency)
		}
	}

	for id := range uow.dirty {
		s.accounts[id] = uow.accounts[id]
	}
	for id := range uow.deleted {
		delete(s.accounts, id)
		delete(s.locks, id)
	}
	s.transactions = append(s.transactions, uow.pending...)
	return nil
}

// memUnitOfWork stages writes until the surrounding Atomically commits.
type memUnitOfWork struct {
	store       *MemoryStore
	accounts    map[int64]domain.Account
	baseVersion map[int64]int64
	dirty       map[int64]bool
	deleted     map[int64]bool
	pending     []domain.Transaction
}

func (u *memUnitOfWork) Account(id int64) (domain.Account, error) {
	acct, ok := u.accounts[id]
	if !ok || u.deleted[id] {
		return domain.Account{}, fmt.Errorf("account %d not locked: %w", id, domain.ErrAccountNotFound)
	}
	return acct, nil
}

func (u *memUnitOfWork) SaveAccount(_ context.Context, acct domain.Account) (domain.Account, error) {
	current, ok := u.accounts[acct.ID]
	if !ok || u.deleted[acct.ID] {
		return domain.Account{}, fmt.Errorf("account %d not locked: %w", acct.ID, domain.ErrAccountNotFound)
	}
	if current.Version != acct.Version {
		return domain.Account{}, fmt.Errorf("save account %d: %w", acct.ID, domain.ErrConcurrency)
	}

	if u.dirty == nil {
		u.dirty = make(map[int64]bool)
		u.baseVersion = make(map[int64]int64)
	}
	if !u.dirty[acct.ID] {
		u.baseVersion[acct.ID] = current.Version
		u.dirty[acct.ID] = true
	}

	acct.Version++
	acct.UpdatedAt = time.Now()
	u.accounts[acct.ID] = acct
	return acct, nil
}

// AppendTransaction stages tx. IDs are drawn like a sequence: a rolled back
// unit leaves a gap.
func (u *memUnitOfWork) AppendTransaction(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	u.store.mu.Lock()
	u.store.nextTxID++
	tx.ID = u.store.nextTxID
	u.store.mu.Unlock()

	u.pending = append(u.pending, tx)
	return tx, nil
}

func (u *memUnitOfWork) CountTransactions(_ context.Context, accountID int64) (int64, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	var n int64
	for _, tx := range u.store.transactions {
		if tx.Touches(accountID) {
			n++
		}
	}
	for _, tx := range u.pending {
		if tx.Touches(accountID) {
			n++
		}
	}
	return n, nil
}

func (u *memUnitOfWork) DeleteAccount(_ context.Context, id int64) error {
	if _, ok := u.accounts[id]; !ok || u.deleted[id] {
		return domain.ErrAccountNotFound
	}
	u.deleted[id] = true
	delete(u.dirty, id)
	return nil
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
