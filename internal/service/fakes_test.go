package service

import (
	"context"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
)

// fakeAccounts emulates the mongo store including its compare-and-swap
// save; forcedConflicts makes the next saves fail as if a concurrent writer
// had won the race.
type fakeAccounts struct {
	store           map[string]*domain.Account
	forcedConflicts int
	saves           int
}

func newFakeAccounts(accounts ...*domain.Account) *fakeAccounts {
	f := &fakeAccounts{store: make(map[string]*domain.Account)}
	for _, a := range accounts {
		f.store[a.ID] = cloneAccount(a)
	}

	return f
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Balances = append([]domain.Balance(nil), a.Balances...)
	c.Transactions = append([]domain.Transaction(nil), a.Transactions...)

	return &c
}

func (f *fakeAccounts) Account(_ context.Context, id string) (*domain.Account, error) {
	a, ok := f.store[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return cloneAccount(a), nil
}

func (f *fakeAccounts) Save(_ context.Context, account *domain.Account) error {
	f.saves++

	if f.forcedConflicts > 0 {
		f.forcedConflicts--
		return domain.ErrVersionConflict
	}

	stored, ok := f.store[account.ID]
	if !ok || stored.Version != account.Version {
		return domain.ErrVersionConflict
	}

	account.Version++
	f.store[account.ID] = cloneAccount(account)

	return nil
}

func (f *fakeAccounts) Create(_ context.Context, userID string) (*domain.Account, error) {
	account := domain.NewAccount(userID)
	f.store[account.ID] = cloneAccount(account)

	return account, nil
}

type fakeUsers struct {
	byID map[string]*domain.User
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}

	return f
}

func (f *fakeUsers) CreateUser(user *domain.User) error {
	for _, u := range f.byID {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}

	f.byID[user.ID] = user

	return nil
}

func (f *fakeUsers) User(id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return u, nil
}

func (f *fakeUsers) UserByEmail(email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}

	return nil, domain.ErrIncorrectCredentials
}

func (f *fakeUsers) SetUserVerified(id string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}

	u.Verified = true

	return nil
}

func (f *fakeUsers) LinkAccount(id, accountID string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}

	u.AccountID = accountID

	return nil
}

type fakeBanks struct {
	byID map[string]*domain.BankAccount
}

func newFakeBanks(banks ...*domain.BankAccount) *fakeBanks {
	f := &fakeBanks{byID: make(map[string]*domain.BankAccount)}
	for _, b := range banks {
		f.byID[b.ID] = b
	}

	return f
}

func (f *fakeBanks) CreateBankAccount(bank *domain.BankAccount) error {
	f.byID[bank.ID] = bank
	return nil
}

func (f *fakeBanks) BankAccount(id string) (*domain.BankAccount, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrBankAccountNotFound
	}

	clone := *b

	return &clone, nil
}

func (f *fakeBanks) UpdateBankAccount(bank *domain.BankAccount) error {
	if _, ok := f.byID[bank.ID]; !ok {
		return domain.ErrBankAccountNotFound
	}

	f.byID[bank.ID] = bank

	return nil
}

func (f *fakeBanks) DeleteBankAccount(id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrBankAccountNotFound
	}

	delete(f.byID, id)

	return nil
}

func (f *fakeBanks) BankAccountsByCreator(userID string) ([]domain.BankAccount, error) {
	var banks []domain.BankAccount
	for _, b := range f.byID {
		if b.CreatedBy == userID {
			banks = append(banks, *b)
		}
	}

	return banks, nil
}

func (f *fakeBanks) CorporateBankAccounts() ([]domain.BankAccount, error) {
	var banks []domain.BankAccount
	for _, b := range f.byID {
		if b.Type == domain.BankTypeCorporate {
			banks = append(banks, *b)
		}
	}

	return banks, nil
}
