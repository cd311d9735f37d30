package dto

import (
	"errors"
	"fmt"
	"strings"
)

/**
  {
      "bank_name": "First National",
      "account_number": "79927398713",
      "branch_code": "0042"
  }
*/

type Bank struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	BranchCode    string `json:"branch_code,omitempty"`
}

func (b Bank) IsValid() error {
	var nameErr, numberErr error

	if strings.TrimSpace(b.BankName) == "" {
		nameErr = fmt.Errorf("bank_name is required")
	}

	if strings.TrimSpace(b.AccountNumber) == "" {
		numberErr = fmt.Errorf("account_number is required")
	}

	return errors.Join(nameErr, numberErr)
}

type BankAccount struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	BranchCode    string `json:"branch_code,omitempty"`
	CreatedBy     string `json:"created_by"`
	CreatedAt     string `json:"created_at"`
}
