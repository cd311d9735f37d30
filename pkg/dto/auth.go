package dto

import (
	"errors"
	"fmt"
	"strings"
)

type Auth struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a Auth) IsValid() error {
	var emailErr, passwordErr error

	if strings.TrimSpace(a.Email) == "" {
		emailErr = fmt.Errorf("email is required")
	}

	if strings.TrimSpace(a.Password) == "" {
		passwordErr = fmt.Errorf("password is required")
	}

	return errors.Join(emailErr, passwordErr)
}
