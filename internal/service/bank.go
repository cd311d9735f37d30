package service

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/theplant/luhn"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

type bankRepository interface {
	CreateBankAccount(bank *domain.BankAccount) error
	BankAccount(id string) (*domain.BankAccount, error)
	UpdateBankAccount(bank *domain.BankAccount) error
	DeleteBankAccount(id string) error
	BankAccountsByCreator(userID string) ([]domain.BankAccount, error)
	CorporateBankAccounts() ([]domain.BankAccount, error)
}

type BankService struct {
	repo bankRepository
}

func NewBankService(repo bankRepository) *BankService {
	return &BankService{repo: repo}
}

type BankInput struct {
	BankName      string
	AccountNumber string
	BranchCode    string
}

func validAccountNumber(number string) bool {
	n, err := strconv.Atoi(number)
	if err != nil {
		return false
	}

	return luhn.Valid(n)
}

// AddUserBank registers a personal bank account for a user. Standard users
// may only add their own; finance users may add for anyone.
func (s *BankService) AddUserBank(principal domain.Principal, userID string, input BankInput) (*domain.BankAccount, error) {
	if !Allow(OpManageUserBank, principal, userID) {
		return nil, domain.ErrPermissionDenied
	}

	if !validAccountNumber(input.AccountNumber) {
		logger.Log.Warn("bank account number failed Luhn check", logger.String("user_id", userID))
		return nil, domain.ErrInvalidAccountNumber
	}

	bank := &domain.BankAccount{
		ID:            uuid.NewString(),
		Type:          domain.BankTypeUser,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		BranchCode:    input.BranchCode,
		CreatedBy:     userID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateBankAccount(bank); err != nil {
		return nil, err
	}

	return bank, nil
}

func (s *BankService) UserBanks(principal domain.Principal, userID string) ([]domain.BankAccount, error) {
	if !Allow(OpViewBanks, principal, userID) {
		return nil, domain.ErrPermissionDenied
	}

	return s.repo.BankAccountsByCreator(userID)
}

func (s *BankService) UpdateUserBank(principal domain.Principal, userID, bankID string, input BankInput) (*domain.BankAccount, error) {
	bank, err := s.repo.BankAccount(bankID)
	if err != nil {
		return nil, err
	}

	if !Allow(OpManageUserBank, principal, bank.CreatedBy) {
		return nil, domain.ErrPermissionDenied
	}

	applyBankInput(bank, input)

	if !validAccountNumber(bank.AccountNumber) {
		return nil, domain.ErrInvalidAccountNumber
	}

	if err = s.repo.UpdateBankAccount(bank); err != nil {
		return nil, err
	}

	return bank, nil
}

func (s *BankService) DeleteUserBank(principal domain.Principal, userID, bankID string) error {
	bank, err := s.repo.BankAccount(bankID)
	if err != nil {
		return err
	}

	if !Allow(OpManageUserBank, principal, bank.CreatedBy) {
		return domain.ErrPermissionDenied
	}

	return s.repo.DeleteBankAccount(bankID)
}

// AddCorporateBank registers a corporate bank account. Finance users only.
func (s *BankService) AddCorporateBank(principal domain.Principal, input BankInput) (*domain.BankAccount, error) {
	if !Allow(OpManageCorporateBank, principal, "") {
		return nil, domain.ErrPermissionDenied
	}

	if !validAccountNumber(input.AccountNumber) {
		return nil, domain.ErrInvalidAccountNumber
	}

	bank := &domain.BankAccount{
		ID:            uuid.NewString(),
		Type:          domain.BankTypeCorporate,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		BranchCode:    input.BranchCode,
		CreatedBy:     principal.UserID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateBankAccount(bank); err != nil {
		return nil, err
	}

	return bank, nil
}

func (s *BankService) UpdateCorporateBank(principal domain.Principal, bankID string, input BankInput) (*domain.BankAccount, error) {
	if !Allow(OpManageCorporateBank, principal, "") {
		return nil, domain.ErrPermissionDenied
	}

	bank, err := s.repo.BankAccount(bankID)
	if err != nil {
		return nil, err
	}

	applyBankInput(bank, input)

	if !validAccountNumber(bank.AccountNumber) {
		return nil, domain.ErrInvalidAccountNumber
	}

	if err = s.repo.UpdateBankAccount(bank); err != nil {
		return nil, err
	}

	return bank, nil
}

func (s *BankService) DeleteCorporateBank(principal domain.Principal, bankID string) error {
	if !Allow(OpManageCorporateBank, principal, "") {
		return domain.ErrPermissionDenied
	}

	if _, err := s.repo.BankAccount(bankID); err != nil {
		return err
	}

	return s.repo.DeleteBankAccount(bankID)
}

func (s *BankService) CorporateBanks(principal domain.Principal) ([]domain.BankAccount, error) {
	if !Allow(OpManageCorporateBank, principal, "") {
		return nil, domain.ErrPermissionDenied
	}

	return s.repo.CorporateBankAccounts()
}

// applyBankInput merges non-empty fields over the stored record, so partial
// updates keep existing values.
func applyBankInput(bank *domain.BankAccount, input BankInput) {
	if input.BankName != "" {
		bank.BankName = input.BankName
	}

	if input.AccountNumber != "" {
		bank.AccountNumber = input.AccountNumber
	}

	if input.BranchCode != "" {
		bank.BranchCode = input.BranchCode
	}
}
