package dto

import (
	"github.com/shopspring/decimal"
)

type Balance struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type Transaction struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Timestamp string          `json:"timestamp"`
	Status    string          `json:"status,omitempty"`
}

type Account struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Balances     []Balance     `json:"balances"`
	Transactions []Transaction `json:"transactions"`
}

type User struct {
	ID             string `json:"id"`
	IdentityNumber string `json:"identity_number"`
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	MobileNumber   string `json:"mobile_number"`
	Verified       bool   `json:"verified"`
	AccountID      string `json:"account_id,omitempty"`
	RegisteredAt   string `json:"registered_at"`
}
