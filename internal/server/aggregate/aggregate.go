// Package aggregate derives the dashboard's figures from records the caller
// is already entitled to see. All money arithmetic is decimal.
package aggregate

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalBalance sums the current balances.
func TotalBalance(accounts []models.Account) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range accounts {
		sum = sum.Add(a.Balance)
	}
	return sum
}

// Share is one institution's part of a balance total.
type Share struct {
	Institution string
	Balance     decimal.Decimal
	Percentage  decimal.Decimal
}

// BalanceDistribution groups balances by institution in first-seen order and
// expresses each as a percentage of total. Every percentage is zero when
// total is not positive.
func BalanceDistribution(accounts []models.Account, total decimal.Decimal) []Share {
	var out []Share
	idx := make(map[string]int)
	for _, a := range accounts {
		i, ok := idx[a.Institution]
		if !ok {
			i = len(out)
			idx[a.Institution] = i
			out = append(out, Share{Institution: a.Institution, Balance: decimal.Zero})
		}
		out[i].Balance = out[i].Balance.Add(a.Balance)
	}

	for i := range out {
		if total.IsPositive() {
			out[i].Percentage = out[i].Balance.Div(total).Mul(hundred)
		} else {
			out[i].Percentage = decimal.Zero
		}
	}
	return out
}

type DebitCredit struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// DebitCreditTotals sums amounts per operation kind. A missing amount adds
// nothing.
func DebitCreditTotals(history []models.Record) DebitCredit {
	t := DebitCredit{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, r := range history {
		if !r.Amount.Valid {
			continue
		}
		switch r.Kind {
		case models.Debit:
			t.Debit = t.Debit.Add(r.Amount.Decimal)
		case models.Credit:
			t.Credit = t.Credit.Add(r.Amount.Decimal)
		}
	}
	return t
}

type CategorySpend struct {
	Category string
	Amount   decimal.Decimal
}

// SpendByCategory totals debit amounts per category, largest first, ties
// by name. Records without a category are left out; see UncategorizedSpend.
func SpendByCategory(history []models.Record) []CategorySpend {
	var out []CategorySpend
	idx := make(map[string]int)
	for _, r := range history {
		if r.Kind != models.Debit || strings.TrimSpace(r.Category) == "" {
			continue
		}
		i, ok := idx[r.Category]
		if !ok {
			i = len(out)
			idx[r.Category] = i
			out = append(out, CategorySpend{Category: r.Category, Amount: decimal.Zero})
		}
		if r.Amount.Valid {
			out[i].Amount = out[i].Amount.Add(r.Amount.Decimal)
		}
	}

	slices.SortStableFunc(out, func(a, b CategorySpend) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})
	return out
}

// UncategorizedSpend totals the debit amounts SpendByCategory leaves out.
func UncategorizedSpend(history []models.Record) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range history {
		if r.Kind == models.Debit && strings.TrimSpace(r.Category) == "" && r.Amount.Valid {
			sum = sum.Add(r.Amount.Decimal)
		}
	}
	return sum
}

// MonthlyBalance is income minus expenses.
func MonthlyBalance(c models.Client) decimal.Decimal {
	return c.MonthlyIncome.Sub(c.MonthlyExpenses)
}

// SavingsCapacity is the monthly balance as a percentage of income, or zero
// without income.
func SavingsCapacity(c models.Client) decimal.Decimal {
	if !c.MonthlyIncome.IsPositive() {
		return decimal.Zero
	}
	return MonthlyBalance(c).Div(c.MonthlyIncome).Mul(hundred)
}
