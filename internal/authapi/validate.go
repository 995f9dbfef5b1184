package authapi

import (
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/common"
)

func ValidateSignIn(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return common.NewValidationError("username", "Please enter both username and password.")
	}
	return nil
}

func ValidateSignUp(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" || password == "" || confirm == "" {
		return common.NewValidationError("email", "Please complete all required fields.")
	}
	if password != confirm {
		return common.NewValidationError("password", "Passwords do not match.")
	}
	return nil
}

// ValidateOTPCode accepts a non-empty string of digits.
func ValidateOTPCode(code string) error {
	if code == "" {
		return common.NewValidationError("otp_code", "Please enter the OTP code.")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return common.NewValidationError("otp_code", "The OTP code must contain digits only.")
		}
	}
	return nil
}
