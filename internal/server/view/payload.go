// Package view assembles the tier-specific dashboard payload handed to
// renderers.
//
// FREE and PREMIUM have distinct payload types. A FreeView has no field
// that could hold a real score or an analytics figure, so nothing premium
// can leak into it by accident.
package view

import "github.com/dmitrijs2005/nuudash/internal/server/entitlement"

// DefaultCategory is displayed for records without a spend category.
const DefaultCategory = "Sin categoría"

// ScoreLocked is the status of a redacted score block.
const ScoreLocked = "locked"

// Payload is a FreeView or a PremiumView.
type Payload interface {
	Tier() entitlement.Tier
	payload()
}

type Header struct {
	Name          string           `json:"name"`
	NationalID    string           `json:"national_id,omitempty"`
	City          string           `json:"city,omitempty"`
	Email         string           `json:"email,omitempty"`
	ShortID       string           `json:"short_id"`
	MonthlyIncome string           `json:"monthly_income"`
	Membership    entitlement.Tier `json:"membership"`
}

// AccountEntry is a visible account, or a bare placeholder with only
// Locked set.
type AccountEntry struct {
	Locked      bool   `json:"locked"`
	Institution string `json:"institution,omitempty"`
	Type        string `json:"type,omitempty"`
	Number      string `json:"number,omitempty"`
	Balance     string `json:"balance,omitempty"`
	Status      string `json:"status,omitempty"`
	Active      bool   `json:"active,omitempty"`
}

type AccountsSection struct {
	Entries        []AccountEntry `json:"entries"`
	Visible        int            `json:"visible"`
	Total          int            `json:"total"`
	Locked         int            `json:"locked"`
	VisibleBalance string         `json:"visible_balance"`
}

// TransactionEntry is one history record prepared for display. A missing
// amount sets AmountUnavailable instead of rendering zero.
type TransactionEntry struct {
	Timestamp         string `json:"timestamp"`
	Institution       string `json:"institution"`
	Kind              string `json:"kind"`
	Amount            string `json:"amount,omitempty"`
	AmountUnavailable bool   `json:"amount_unavailable,omitempty"`
	Category          string `json:"category"`
	Channel           string `json:"channel,omitempty"`
	RecordType        string `json:"record_type,omitempty"`
	AlertTitle        string `json:"alert_title,omitempty"`
	AlertMessage      string `json:"alert_message,omitempty"`
	RecommendedAction string `json:"recommended_action,omitempty"`
	BalanceBefore     string `json:"balance_before,omitempty"`
	BalanceAfter      string `json:"balance_after,omitempty"`
	AccountStatus     string `json:"account_status,omitempty"`
}

type TransactionsSection struct {
	Items []TransactionEntry `json:"items"`
	// Total counts the records eligible for the list before the cap.
	Total      int `json:"total"`
	Suppressed int `json:"suppressed"`
}

type LockedScore struct {
	Status string `json:"status"`
}

type Upgrade struct {
	Message  string   `json:"message"`
	Features []string `json:"features"`
}

// FreeView is the FREE tier payload.
type FreeView struct {
	Membership   entitlement.Tier    `json:"tier"`
	Header       Header              `json:"header"`
	Accounts     AccountsSection     `json:"accounts"`
	Score        LockedScore         `json:"score"`
	Transactions TransactionsSection `json:"transactions"`
	Upgrade      Upgrade             `json:"upgrade"`
}

func (FreeView) Tier() entitlement.Tier { return entitlement.Free }
func (FreeView) payload()               {}

type ScoreDetail struct {
	Score              int    `json:"score"`
	Delta              string `json:"delta"`
	RiskCategory       string `json:"risk_category,omitempty"`
	Trend              string `json:"trend,omitempty"`
	NationalPercentile string `json:"national_percentile"`
	TotalDebt          string `json:"total_debt"`
	DebtToIncome       string `json:"debt_to_income"`
	CreditUtilization  string `json:"credit_utilization"`
	ActiveAccounts     int    `json:"active_accounts"`
	OnTimePayments     string `json:"on_time_payments"`
	MaxDaysPastDue     int    `json:"max_days_past_due"`
	DefaultProbability string `json:"default_probability"`
	Prediction6M       int    `json:"prediction_6m"`
	TopNegativeFactor  string `json:"top_negative_factor,omitempty"`
	TopOpportunity     string `json:"top_opportunity,omitempty"`
}

// PremiumScore carries the full detail, or Available=false when the client
// has no scoring record.
type PremiumScore struct {
	Available bool `json:"available"`
	*ScoreDetail
}

// Totals cover the client's whole history, whatever the filter.
type Totals struct {
	Movements int    `json:"movements"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
}

type FilterBlock struct {
	Kinds                 []string `json:"kinds"`
	Institutions          []string `json:"institutions"`
	AvailableKinds        []string `json:"available_kinds"`
	AvailableInstitutions []string `json:"available_institutions"`
}

type CategoryAmount struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type DistributionEntry struct {
	Institution string `json:"institution"`
	Balance     string `json:"balance"`
	Percentage  string `json:"percentage"`
}

type Analytics struct {
	SpendByCategory        []CategoryAmount    `json:"spend_by_category"`
	UncategorizedSpend     string              `json:"uncategorized_spend"`
	BalanceDistribution    []DistributionEntry `json:"balance_distribution"`
	MonthlyIncome          string              `json:"monthly_income"`
	MonthlyExpenses        string              `json:"monthly_expenses"`
	MonthlyBalance         string              `json:"monthly_balance"`
	MonthlyBalancePositive bool                `json:"monthly_balance_positive"`
	SavingsCapacity        string              `json:"savings_capacity"`
	Dependents             int                 `json:"dependents"`
	Stratum                int                 `json:"stratum"`
}

// PremiumView is the PREMIUM tier payload.
type PremiumView struct {
	Membership   entitlement.Tier    `json:"tier"`
	Header       Header              `json:"header"`
	Accounts     AccountsSection     `json:"accounts"`
	Score        PremiumScore        `json:"score"`
	Transactions TransactionsSection `json:"transactions"`
	Totals       Totals              `json:"totals"`
	Filter       FilterBlock         `json:"filter"`
	Analytics    Analytics           `json:"analytics"`
}

func (PremiumView) Tier() entitlement.Tier { return entitlement.Premium }
func (PremiumView) payload()               {}
