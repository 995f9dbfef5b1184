// Package models holds the read-only record types the dashboard is built
// from: clients, their accounts, transaction/alert history and credit scoring.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Client is a provisioned customer. Exactly one Client exists per ID.
type Client struct {
	ID              string
	FirstNames      string
	LastNames       string
	NationalID      string
	Email           string
	City            string
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	Dependents      int
	Stratum         int
	Premium         bool
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstNames + " " + c.LastNames)
}

// ShortID returns the first 8 characters of the client id.
func (c Client) ShortID() string {
	if len(c.ID) <= 8 {
		return c.ID
	}
	return c.ID[:8]
}
