package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindTransfer   TransactionKind = "transfer"
)

// TransactionStatus is empty for immediately-settled mutations; the pending,
// approved and rejected values exist only for withdrawal requests.
//
// Allowed transitions: pending → approved, pending → rejected. A pending
// request may also be removed entirely by cancellation.
type TransactionStatus string

const (
	StatusNone     TransactionStatus = ""
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusRejected TransactionStatus = "rejected"
)

type Balance struct {
	Currency string
	Amount   decimal.Decimal
}

// Transaction amounts are signed: positive for deposits, negative for
// withdrawals and transfers.
type Transaction struct {
	ID        string
	Kind      TransactionKind
	Amount    decimal.Decimal
	Currency  string
	Timestamp time.Time
	Status    TransactionStatus
}

// Settled reports whether the transaction has affected the balance.
func (t Transaction) Settled() bool {
	return t.Status == StatusNone || t.Status == StatusApproved
}

// Account is the per-user ledger aggregate. Balances are unique per currency
// and transactions are kept in insertion (chronological) order. Version backs
// the optimistic lock used by the store.
type Account struct {
	ID           string
	UserID       string
	Balances     []Balance
	Transactions []Transaction
	Version      int64
	CreatedAt    time.Time
}

func NewAccount(userID string) *Account {
	return &Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

func validateMutation(amount decimal.Decimal, currency string) error {
	if currency == "" {
		return ErrMissingCurrency
	}

	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}

func (a *Account) balance(currency string) *Balance {
	for i := range a.Balances {
		if a.Balances[i].Currency == currency {
			return &a.Balances[i]
		}
	}

	return nil
}

// BalanceAmount returns the held amount for a currency, zero if none is held.
func (a *Account) BalanceAmount(currency string) decimal.Decimal {
	if b := a.balance(currency); b != nil {
		return b.Amount
	}

	return decimal.Zero
}

func (a *Account) append(kind TransactionKind, amount decimal.Decimal, currency string, status TransactionStatus) Transaction {
	tx := Transaction{
		ID:        uuid.NewString(),
		Kind:      kind,
		Amount:    amount,
		Currency:  currency,
		Timestamp: time.Now().UTC(),
		Status:    status,
	}
	a.Transactions = append(a.Transactions, tx)

	return tx
}

// Deposit credits the balance in the given currency, creating it at zero if
// absent, and records a settled deposit transaction.
func (a *Account) Deposit(amount decimal.Decimal, currency string) error {
	if err := validateMutation(amount, currency); err != nil {
		return err
	}

	b := a.balance(currency)
	if b == nil {
		a.Balances = append(a.Balances, Balance{Currency: currency})
		b = &a.Balances[len(a.Balances)-1]
	}

	b.Amount = b.Amount.Add(amount)
	a.append(KindDeposit, amount, currency, StatusNone)

	return nil
}

// Debit removes funds for a withdrawal or transfer and records a settled
// transaction with a negative amount. The balance is left untouched when
// funds are insufficient.
func (a *Account) Debit(kind TransactionKind, amount decimal.Decimal, currency string) error {
	if err := validateMutation(amount, currency); err != nil {
		return err
	}

	b := a.balance(currency)
	if b == nil || b.Amount.LessThan(amount) {
		return ErrInsufficientFunds
	}

	b.Amount = b.Amount.Sub(amount)
	a.append(kind, amount.Neg(), currency, StatusNone)

	return nil
}

// AddWithdrawalRequest records a pending withdrawal without debiting the
// balance; the debit is deferred until approval.
func (a *Account) AddWithdrawalRequest(amount decimal.Decimal, currency string) (Transaction, error) {
	if err := validateMutation(amount, currency); err != nil {
		return Transaction{}, err
	}

	return a.append(KindWithdrawal, amount.Neg(), currency, StatusPending), nil
}

func (a *Account) pendingWithdrawal(transactionID string) (int, error) {
	for i := range a.Transactions {
		if a.Transactions[i].ID != transactionID {
			continue
		}

		if a.Transactions[i].Kind != KindWithdrawal || a.Transactions[i].Status != StatusPending {
			return 0, ErrInvalidTransactionState
		}

		return i, nil
	}

	return 0, ErrInvalidTransactionState
}

// SettleWithdrawalRequest resolves a pending withdrawal. Approval debits the
// balance; if funds are insufficient the request stays pending and nothing
// changes. Rejection only flips the status.
func (a *Account) SettleWithdrawalRequest(transactionID string, approve bool) error {
	i, err := a.pendingWithdrawal(transactionID)
	if err != nil {
		return err
	}

	tx := &a.Transactions[i]

	if !approve {
		tx.Status = StatusRejected
		return nil
	}

	amount := tx.Amount.Neg()

	b := a.balance(tx.Currency)
	if b == nil || b.Amount.LessThan(amount) {
		return ErrInsufficientFunds
	}

	b.Amount = b.Amount.Sub(amount)
	tx.Status = StatusApproved

	return nil
}

// CancelWithdrawalRequest removes a still-pending withdrawal entirely. There
// is no balance effect because pending requests never debited it.
func (a *Account) CancelWithdrawalRequest(transactionID string) error {
	i, err := a.pendingWithdrawal(transactionID)
	if err != nil {
		return err
	}

	a.Transactions = append(a.Transactions[:i], a.Transactions[i+1:]...)

	return nil
}

// Transaction looks up a transaction by ID.
func (a *Account) Transaction(transactionID string) (Transaction, bool) {
	for _, tx := range a.Transactions {
		if tx.ID == transactionID {
			return tx, true
		}
	}

	return Transaction{}, false
}
