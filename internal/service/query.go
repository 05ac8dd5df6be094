package service

import (
	"context"
	"fmt"
	"time"

	"github.com/set-night/ledgercore/internal/config"
	"github.com/set-night/ledgercore/internal/domain"
	"github.com/set-night/ledgercore/internal/repository"
	"github.com/shopspring/decimal"
)

// QueryService serves read-only ledger projections. Results are copies in
// ascending id order.
type QueryService struct {
	store repository.Store
}

func NewQueryService(store repository.Store) *QueryService {
	return &QueryService{store: store}
}

// ListTransactions returns one page of the whole ledger.
func (s *QueryService) ListTransactions(ctx context.Context, req domain.PageRequest) (domain.Page[domain.TransactionView], error) {
	req = normalizePage(req)
	page, err := s.store.QueryTransactions(ctx, domain.TransactionFilter{}, req)
	if err != nil {
		return domain.Page[domain.TransactionView]{}, fmt.Errorf("list transactions: %w", err)
	}

	return domain.Page[domain.TransactionView]{Items: views(page.Items), Page: page.Page, Size: page.Size, Total: page.Total}, nil
}

func (s *QueryService) GetTransaction(ctx context.Context, id int64) (domain.TransactionView, error) {
	if id <= 0 {
		return domain.TransactionView{}, domain.ErrInvalidTransactionID
	}
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return domain.TransactionView{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx.View(), nil
}

// TransactionsByAccount returns every entry where the account is sender or
// receiver, tagged OUT when it is the sender and IN otherwise.
func (s *QueryService) TransactionsByAccount(ctx context.Context, accountID int64) ([]domain.TransactionView, error) {
	if _, err := s.account(ctx, accountID); err != nil {
		return nil, err
	}
	txs, err := s.collect(ctx, domain.TransactionFilter{AccountID: &accountID})
	if err != nil {
		return nil, fmt.Errorf("transactions by account: %w", err)
	}
	return withDirection(txs, accountID), nil
}

// AccountHistory is the paged form of TransactionsByAccount.
func (s *QueryService) AccountHistory(ctx context.Context, accountID int64, req domain.PageRequest) (domain.Page[domain.TransactionView], error) {
	if _, err := s.account(ctx, accountID); err != nil {
		return domain.Page[domain.TransactionView]{}, err
	}
	req = normalizePage(req)
	page, err := s.store.QueryTransactions(ctx, domain.TransactionFilter{AccountID: &accountID}, req)
	if err != nil {
		return domain.Page[domain.TransactionView]{}, fmt.Errorf("account history: %w", err)
	}
	return domain.Page[domain.TransactionView]{
		Items: withDirection(page.Items, accountID),
		Page:  page.Page,
		Size:  page.Size,
		Total: page.Total,
	}, nil
}

// TransactionsByDateRange returns entries created within [from, to].
func (s *QueryService) TransactionsByDateRange(ctx context.Context, from, to time.Time) ([]domain.TransactionView, error) {
	if from.After(to) {
		return nil, fmt.Errorf("from %s after to %s: %w", from.Format(time.RFC3339), to.Format(time.RFC3339), domain.ErrInvalidRange)
	}
	txs, err := s.collect(ctx, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("transactions by date range: %w", err)
	}
	return views(txs), nil
}

// TransactionsByAmountRange returns entries whose amount lies within [lo, hi].
func (s *QueryService) TransactionsByAmountRange(ctx context.Context, lo, hi decimal.Decimal) ([]domain.TransactionView, error) {
	if lo.IsNegative() || hi.IsNegative() || lo.GreaterThan(hi) {
		return nil, fmt.Errorf("amount range [%s, %s]: %w", lo, hi, domain.ErrInvalidRange)
	}
	txs, err := s.collect(ctx, domain.TransactionFilter{MinAmount: &lo, MaxAmount: &hi})
	if err != nil {
		return nil, fmt.Errorf("transactions by amount range: %w", err)
	}
	return views(txs), nil
}

// Statement summarises an account over [from, to]. TotalOut sums the DEBIT
// legs the account sent, TotalIn the CREDIT legs it received.
func (s *QueryService) Statement(ctx context.Context, accountID int64, from, to time.Time) (domain.Statement, error) {
	if from.After(to) {
		return domain.Statement{}, domain.ErrInvalidRange
	}
	acct, err := s.account(ctx, accountID)
	if err != nil {
		return domain.Statement{}, err
	}

	txs, err := s.collect(ctx, domain.TransactionFilter{AccountID: &accountID, From: &from, To: &to})
	if err != nil {
		return domain.Statement{}, fmt.Errorf("statement: %w", err)
	}

	st := domain.Statement{
		Account:      acct,
		From:         from,
		To:           to,
		Transactions: withDirection(txs, accountID),
		TotalIn:      decimal.Zero,
		TotalOut:     decimal.Zero,
	}
	for _, tx := range txs {
		switch {
		case tx.Kind == domain.TxKindDebit && tx.SenderAccountID != nil && *tx.SenderAccountID == accountID:
			st.TotalOut = st.TotalOut.Add(tx.Amount)
		case tx.Kind == domain.TxKindCredit && tx.ReceiverAccountID != nil && *tx.ReceiverAccountID == accountID:
			st.TotalIn = st.TotalIn.Add(tx.Amount)
		}
	}
	return st, nil
}

func (s *QueryService) account(ctx context.Context, id int64) (domain.Account, error) {
	if id <= 0 {
		return domain.Account{}, domain.ErrInvalidAccountID
	}
	acct, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	return acct, nil
}

// collect pages through every entry matching filter.
func (s *QueryService) collect(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for pageNo := 1; ; pageNo++ {
		page, err := s.store.QueryTransactions(ctx, filter, domain.PageRequest{Page: pageNo, Size: config.MaxPageSize})
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if len(page.Items) < config.MaxPageSize || int64(len(out)) >= page.Total {
			return out, nil
		}
	}
}

func normalizePage(req domain.PageRequest) domain.PageRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Size <= 0 {
		req.Size = config.DefaultPageSize
	}
	if req.Size > config.MaxPageSize {
		req.Size = config.MaxPageSize
	}
	return req
}

func views(txs []domain.Transaction) []domain.TransactionView {
	out := make([]domain.TransactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.View())
	}
	return out
}

func withDirection(txs []domain.Transaction, accountID int64) []domain.TransactionView {
	out := make([]domain.TransactionView, 0, len(txs))
	for _, tx := range txs {
		v := tx.View()
		if tx.SenderAccountID != nil && *tx.SenderAccountID == accountID {
			v.Direction = domain.DirectionOut
		} else {
			v.Direction = domain.DirectionIn
		}
		out = append(out, v)
	}
	return out
}
