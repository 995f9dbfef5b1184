package view

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/server/aggregate"
	"github.com/dmitrijs2005/nuudash/internal/server/entitlement"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/shopspring/decimal"
)

// Input is one client's record set. History is expected in dataset order.
type Input struct {
	Client   models.Client
	Accounts []models.Account
	History  []models.Record
	Scoring  *models.Scoring
	// Filter is the user's history selection; only PREMIUM honours it.
	Filter models.HistoryFilter
}

var upgradeFeatures = []string{
	"Todas tus cuentas bancarias",
	"Historial completo con filtros por tipo y entidad",
	"Puntaje crediticio con predicción a 6 meses",
	"Gastos por categoría y distribución de saldos",
	"Balance mensual y capacidad de ahorro",
}

// Compose builds the payload for the policy's tier. It is a pure function:
// equal inputs give equal payloads.
func Compose(p entitlement.Policy, in Input) Payload {
	if p.Premium() {
		return composePremium(p, in)
	}
	return composeFree(p, in.Client, in.Accounts, in.History)
}

// composeFree never sees the scoring record.
func composeFree(p entitlement.Policy, c models.Client, accounts []models.Account, history []models.Record) FreeView {
	visible := p.VisibleAccounts(accounts)
	locked := p.LockedAccountCount(accounts)

	entries := accountEntries(visible)
	for i := 0; i < locked; i++ {
		entries = append(entries, AccountEntry{Locked: true})
	}

	candidates := p.HistoryCandidates(visible, history)
	shown := p.VisibleHistory(visible, history)

	return FreeView{
		Membership: entitlement.Free,
		Header:     header(c, entitlement.Free),
		Accounts: AccountsSection{
			Entries:        entries,
			Visible:        len(visible),
			Total:          len(visible) + locked,
			Locked:         locked,
			VisibleBalance: money(aggregate.TotalBalance(visible)),
		},
		Score: LockedScore{Status: ScoreLocked},
		Transactions: TransactionsSection{
			Items:      transactionEntries(shown),
			Total:      len(candidates),
			Suppressed: len(candidates) - len(shown),
		},
		Upgrade: Upgrade{
			Message:  "Actualiza a PREMIUM para desbloquear tu información financiera completa.",
			Features: append([]string(nil), upgradeFeatures...),
		},
	}
}

func composePremium(p entitlement.Policy, in Input) PremiumView {
	c := in.Client
	accounts := p.VisibleAccounts(in.Accounts)
	total := aggregate.TotalBalance(accounts)

	matched := models.SortByTimestampDesc(in.Filter.Apply(in.History))
	page := aggregate.Paginate(matched, p.Caps.PremiumPageSize)
	dc := aggregate.DebitCreditTotals(in.History)
	opts := aggregate.Options(in.History)

	var spend []CategoryAmount
	for _, s := range aggregate.SpendByCategory(in.History) {
		spend = append(spend, CategoryAmount{Category: s.Category, Amount: money(s.Amount)})
	}

	var dist []DistributionEntry
	for _, s := range aggregate.BalanceDistribution(accounts, total) {
		dist = append(dist, DistributionEntry{
			Institution: s.Institution,
			Balance:     money(s.Balance),
			Percentage:  percent(s.Percentage),
		})
	}

	monthly := aggregate.MonthlyBalance(c)

	return PremiumView{
		Membership: entitlement.Premium,
		Header:     header(c, entitlement.Premium),
		Accounts: AccountsSection{
			Entries:        accountEntries(accounts),
			Visible:        len(accounts),
			Total:          len(accounts),
			Locked:         0,
			VisibleBalance: money(total),
		},
		Score: premiumScore(in.Scoring),
		Transactions: TransactionsSection{
			Items:      transactionEntries(page.Items),
			Total:      page.Matched,
			Suppressed: page.Suppressed,
		},
		Totals: Totals{Movements: len(in.History), Debit: money(dc.Debit), Credit: money(dc.Credit)},
		Filter: FilterBlock{
			Kinds:                 kindNames(in.Filter.Kinds),
			Institutions:          nonNil(in.Filter.Institutions),
			AvailableKinds:        kindNames(opts.Kinds),
			AvailableInstitutions: nonNil(opts.Institutions),
		},
		Analytics: Analytics{
			SpendByCategory:        nonNil(spend),
			UncategorizedSpend:     money(aggregate.UncategorizedSpend(in.History)),
			BalanceDistribution:    nonNil(dist),
			MonthlyIncome:          money(c.MonthlyIncome),
			MonthlyExpenses:        money(c.MonthlyExpenses),
			MonthlyBalance:         money(monthly),
			MonthlyBalancePositive: !monthly.IsNegative(),
			SavingsCapacity:        percent(aggregate.SavingsCapacity(c)),
			Dependents:             c.Dependents,
			Stratum:                c.Stratum,
		},
	}
}

func header(c models.Client, tier entitlement.Tier) Header {
	return Header{
		Name:          c.FullName(),
		NationalID:    c.NationalID,
		City:          c.City,
		Email:         c.Email,
		ShortID:       c.ShortID(),
		MonthlyIncome: money(c.MonthlyIncome),
		Membership:    tier,
	}
}

func accountEntries(accounts []models.Account) []AccountEntry {
	out := make([]AccountEntry, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountEntry{
			Institution: a.Institution,
			Type:        a.Type,
			Number:      a.MaskedNumber(),
			Balance:     money(a.Balance),
			Status:      a.Status,
			Active:      a.Active(),
		})
	}
	return out
}

func transactionEntries(records []models.Record) []TransactionEntry {
	out := make([]TransactionEntry, 0, len(records))
	for _, r := range records {
		e := TransactionEntry{
			Timestamp:         r.Timestamp.UTC().Format(time.RFC3339),
			Institution:       r.Institution,
			Kind:              string(r.Kind),
			Category:          r.Category,
			Channel:           r.Channel,
			RecordType:        r.RecordType,
			AlertTitle:        r.AlertTitle,
			AlertMessage:      r.AlertMessage,
			RecommendedAction: r.RecommendedAction,
			BalanceBefore:     nullMoney(r.BalanceBefore),
			BalanceAfter:      nullMoney(r.BalanceAfter),
			AccountStatus:     r.AccountStatus,
		}
		if r.Amount.Valid {
			e.Amount = money(r.Amount.Decimal)
		} else {
			e.AmountUnavailable = true
		}
		if e.Category == "" {
			e.Category = DefaultCategory
		}
		out = append(out, e)
	}
	return out
}

func premiumScore(s *models.Scoring) PremiumScore {
	if s == nil {
		return PremiumScore{Available: false}
	}
	return PremiumScore{
		Available: true,
		ScoreDetail: &ScoreDetail{
			Score:              s.Score,
			Delta:              fmt.Sprintf("%+d", s.MonthlyChange),
			RiskCategory:       s.RiskCategory,
			Trend:              s.Trend,
			NationalPercentile: percent(s.NationalPercentile),
			TotalDebt:          money(s.TotalDebt),
			DebtToIncome:       s.DebtToIncome.String(),
			CreditUtilization:  s.CreditUtilization.String(),
			ActiveAccounts:     s.ActiveAccounts,
			OnTimePayments:     percent(s.OnTimePaymentsPct),
			MaxDaysPastDue:     s.MaxDaysPastDue,
			DefaultProbability: s.DefaultProbability.String(),
			Prediction6M:       s.Prediction6M,
			TopNegativeFactor:  s.TopNegativeFactor,
			TopOpportunity:     s.TopOpportunity,
		},
	}
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func percent(d decimal.Decimal) string { return d.StringFixed(2) }

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}

func kindNames(kinds []models.OperationKind) []string {
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, string(k))
	}
	return out
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
