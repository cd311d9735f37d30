package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

/**
  {
      "amount": 100.50,
      "currency": "USD"
  }
*/

type Mutation struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Mutation) IsValid() error {
	var amountErr, currencyErr error

	if !m.Amount.IsPositive() {
		amountErr = fmt.Errorf("amount must be a positive value")
	}

	if strings.TrimSpace(m.Currency) == "" {
		currencyErr = fmt.Errorf("currency is required")
	}

	return errors.Join(amountErr, currencyErr)
}

/**
  {
      "approve": true
  }
*/

type ApproveReject struct {
	Approve bool `json:"approve"`
}
