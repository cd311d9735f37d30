package domain

import "time"

type Role string

const (
	RoleFinanceUser  Role = "FINANCE_USER"
	RoleStandardUser Role = "STANDARD_USER"
)

// Principal is the authenticated caller as resolved by the auth middleware.
type Principal struct {
	UserID string
	Role   Role
}

type User struct {
	ID             string
	IdentityNumber string
	Name           string
	Surname        string
	Email          string
	Role           Role
	MobileNumber   string
	Inactive       bool
	Verified       bool
	AccountID      string
	PasswordHash   string
	RegisteredAt   time.Time
}

type BankType string

const (
	BankTypeUser      BankType = "User"
	BankTypeCorporate BankType = "Corporate"
)

type BankAccount struct {
	ID            string
	Type          BankType
	BankName      string
	AccountNumber string
	BranchCode    string
	CreatedBy     string
	CreatedAt     time.Time
}
