package models

import "github.com/shopspring/decimal"

// Scoring is the precomputed credit scoring record. A client has at most one.
type Scoring struct {
	ClientID           string
	Score              int
	MonthlyChange      int
	RiskCategory       string
	Trend              string
	NationalPercentile decimal.Decimal
	TotalDebt          decimal.Decimal
	DebtToIncome       decimal.Decimal
	CreditUtilization  decimal.Decimal
	ActiveAccounts     int
	OnTimePaymentsPct  decimal.Decimal
	MaxDaysPastDue     int
	DefaultProbability decimal.Decimal
	Prediction6M       int
	TopNegativeFactor  string
	TopOpportunity     string
}
