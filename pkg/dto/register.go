package dto

import (
	"errors"
	"fmt"
	"strings"
)

/**
  {
      "identity_number": "12345678901",
      "name": "Jane",
      "surname": "Doe",
      "email": "jane@example.com",
      "role": "STANDARD_USER",
      "mobile_number": "+15550001122",
      "password": "s3cret"
  }
*/

type Register struct {
	IdentityNumber string `json:"identity_number"`
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	MobileNumber   string `json:"mobile_number"`
	Password       string `json:"password"`
}

func (r Register) IsValid() error {
	var errs []error

	required := map[string]string{
		"identity_number": r.IdentityNumber,
		"name":            r.Name,
		"surname":         r.Surname,
		"email":           r.Email,
		"mobile_number":   r.MobileNumber,
		"password":        r.Password,
	}

	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", field))
		}
	}

	if r.Role != "" && r.Role != "FINANCE_USER" && r.Role != "STANDARD_USER" {
		errs = append(errs, fmt.Errorf("unknown role %q", r.Role))
	}

	return errors.Join(errs...)
}
