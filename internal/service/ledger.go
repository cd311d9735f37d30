package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

type accountRepository interface {
	Account(ctx context.Context, id string) (*domain.Account, error)
	Save(ctx context.Context, account *domain.Account) error
}

// saveAttempts bounds the optimistic-lock retry loop. Conflicts only happen
// when two writers race on the same account, so a couple of retries is
// plenty; past that the conflict is surfaced to the caller.
const saveAttempts = 3

type LedgerService struct {
	accounts accountRepository
}

func NewLedgerService(accounts accountRepository) *LedgerService {
	return &LedgerService{accounts: accounts}
}

func (s *LedgerService) Account(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accounts.Account(ctx, accountID)
}

func (s *LedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, currency string) (*domain.Account, error) {
	return s.Mutate(ctx, accountID, func(account *domain.Account) error {
		return account.Deposit(amount, currency)
	})
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, currency string) (*domain.Account, error) {
	return s.Mutate(ctx, accountID, func(account *domain.Account) error {
		return account.Debit(domain.KindWithdrawal, amount, currency)
	})
}

func (s *LedgerService) Transfer(ctx context.Context, accountID string, amount decimal.Decimal, currency string) (*domain.Account, error) {
	return s.Mutate(ctx, accountID, func(account *domain.Account) error {
		return account.Debit(domain.KindTransfer, amount, currency)
	})
}

// Mutate runs one atomic read-modify-write cycle against an account: load,
// apply, save under the optimistic version check. On a version conflict the
// cycle restarts from fresh state; any other failure aborts with the stored
// state untouched.
func (s *LedgerService) Mutate(ctx context.Context, accountID string, apply func(*domain.Account) error) (*domain.Account, error) {
	var lastErr error

	for attempt := 0; attempt < saveAttempts; attempt++ {
		account, err := s.accounts.Account(ctx, accountID)
		if err != nil {
			return nil, err
		}

		if err = apply(account); err != nil {
			return nil, err
		}

		err = s.accounts.Save(ctx, account)
		if err == nil {
			return account, nil
		}

		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}

		logger.Log.Warn("retrying after account version conflict", logger.String("account_id", accountID))
		lastErr = err
	}

	return nil, lastErr
}
