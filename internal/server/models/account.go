package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Account struct {
	ClientID    string
	Institution string
	Type        string
	Number      string
	Balance     decimal.Decimal
	Status      string
}

// Active reports whether the account status is "Activa" (or "Active").
func (a Account) Active() bool {
	s := strings.TrimSpace(a.Status)
	return strings.EqualFold(s, "activa") || strings.EqualFold(s, "active")
}

// MaskedNumber keeps only the last four characters of the account number.
func (a Account) MaskedNumber() string {
	n := strings.TrimSpace(a.Number)
	if len(n) <= 4 {
		return "****" + n
	}
	return "****" + n[len(n)-4:]
}
