package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

type accountMutator interface {
	Mutate(ctx context.Context, accountID string, apply func(*domain.Account) error) (*domain.Account, error)
}

type userSupplier interface {
	User(id string) (*domain.User, error)
}

// WithdrawalService runs the approval workflow for withdrawal requests:
// pending → approved | rejected, or removal via cancel. Balance effects are
// delegated to the ledger's mutate cycle, so the status check and the status
// transition commit together or not at all.
type WithdrawalService struct {
	ledger accountMutator
	users  userSupplier
}

func NewWithdrawalService(ledger accountMutator, users userSupplier) *WithdrawalService {
	return &WithdrawalService{
		ledger: ledger,
		users:  users,
	}
}

// Request records a pending withdrawal for a verified user. The balance is
// not debited until approval.
func (s *WithdrawalService) Request(ctx context.Context, accountID string, amount decimal.Decimal, currency, requestingUserID string) (*domain.Account, error) {
	user, err := s.users.User(requestingUserID)
	if err != nil {
		return nil, err
	}

	if !user.Verified {
		logger.Log.Warn("withdrawal requested by unverified user", logger.String("user_id", requestingUserID))
		return nil, domain.ErrUserNotVerified
	}

	return s.ledger.Mutate(ctx, accountID, func(account *domain.Account) error {
		_, err := account.AddWithdrawalRequest(amount, currency)
		return err
	})
}

// ApproveOrReject resolves a pending withdrawal request. Only finance users
// may call it. Approval debits the balance; when funds are insufficient the
// request stays pending and nothing is persisted.
func (s *WithdrawalService) ApproveOrReject(ctx context.Context, accountID, transactionID string, approve bool, principal domain.Principal) (*domain.Account, error) {
	if !Allow(OpApproveWithdrawal, principal, "") {
		logger.Log.Warn("withdrawal approval denied",
			logger.String("user_id", principal.UserID),
			logger.String("role", string(principal.Role)),
		)

		return nil, domain.ErrPermissionDenied
	}

	return s.ledger.Mutate(ctx, accountID, func(account *domain.Account) error {
		return account.SettleWithdrawalRequest(transactionID, approve)
	})
}

// Cancel removes a still-pending withdrawal request. The caller must own the
// account or hold the finance role; ownership is only known once the account
// is loaded, so the policy check runs inside the mutate cycle.
func (s *WithdrawalService) Cancel(ctx context.Context, accountID, transactionID string, principal domain.Principal) (*domain.Account, error) {
	return s.ledger.Mutate(ctx, accountID, func(account *domain.Account) error {
		if !Allow(OpCancelWithdrawal, principal, account.UserID) {
			return domain.ErrPermissionDenied
		}

		return account.CancelWithdrawalRequest(transactionID)
	})
}
