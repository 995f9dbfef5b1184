package view

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/server/entitlement"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientID = "c4f45cd0-1412-44be-b8b0-658322c5da84"

var banks = []string{"Bancolombia", "Davivienda", "Nequi", "BBVA", "Scotiabank"}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func client(premium bool) models.Client {
	return models.Client{
		ID:              clientID,
		FirstNames:      "Ana",
		LastNames:       "Gómez",
		NationalID:      "1020304050",
		Email:           "ana@example.com",
		City:            "Bogotá",
		MonthlyIncome:   d("5000000"),
		MonthlyExpenses: d("3200000"),
		Dependents:      2,
		Stratum:         4,
		Premium:         premium,
	}
}

func fiveAccounts() []models.Account {
	balances := []string{"100", "200", "50", "75", "300"}
	out := make([]models.Account, len(balances))
	for i, b := range balances {
		out[i] = models.Account{
			ClientID:    clientID,
			Institution: banks[i],
			Type:        "Ahorros",
			Number:      fmt.Sprintf("00123456%02d", i),
			Balance:     d(b),
			Status:      "Activa",
		}
	}
	return out
}

// history returns n records cycling through the five banks, alternating
// debit and credit, one hour apart in ascending time.
func history(n int) []models.Record {
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	out := make([]models.Record, n)
	for i := range out {
		kind := models.Debit
		if i%2 == 1 {
			kind = models.Credit
		}
		out[i] = models.Record{
			ClientID:    clientID,
			Timestamp:   t0.Add(time.Duration(i) * time.Hour),
			Institution: banks[i%len(banks)],
			Kind:        kind,
			Amount:      decimal.NewNullDecimal(decimal.NewFromInt(int64(1000 * (i + 1)))),
			Category:    []string{"Alimentación", "", "Transporte"}[i%3],
			AlertTitle:  fmt.Sprintf("op-%d", i),
		}
	}
	return out
}

func scoring() *models.Scoring {
	return &models.Scoring{
		ClientID:           clientID,
		Score:              720,
		MonthlyChange:      15,
		RiskCategory:       "Bajo",
		Trend:              "Subiendo",
		NationalPercentile: d("82.5"),
		TotalDebt:          d("12000000"),
		DebtToIncome:       d("0.35"),
		CreditUtilization:  d("0.42"),
		ActiveAccounts:     3,
		OnTimePaymentsPct:  d("97.5"),
		DefaultProbability: d("0.021"),
		Prediction6M:       735,
		TopNegativeFactor:  "Utilización alta",
		TopOpportunity:     "Reducir deuda",
	}
}

func freePolicy() entitlement.Policy {
	return entitlement.New(entitlement.Free, entitlement.DefaultCaps())
}

func premiumPolicy() entitlement.Policy {
	return entitlement.New(entitlement.Premium, entitlement.DefaultCaps())
}

func TestCompose_FreeScenario(t *testing.T) {
	p := Compose(freePolicy(), Input{
		Client:   client(false),
		Accounts: fiveAccounts(),
		History:  history(20),
		Scoring:  scoring(),
	})

	v, ok := p.(FreeView)
	require.True(t, ok, "FREE policy yields a FreeView, got %T", p)
	assert.Equal(t, entitlement.Free, v.Tier())

	assert.Equal(t, 2, v.Accounts.Visible)
	assert.Equal(t, 3, v.Accounts.Locked)
	assert.Equal(t, 5, v.Accounts.Total)
	assert.Equal(t, "300.00", v.Accounts.VisibleBalance)
	require.Len(t, v.Accounts.Entries, 5)
	assert.Equal(t, "100.00", v.Accounts.Entries[0].Balance)
	assert.Equal(t, "200.00", v.Accounts.Entries[1].Balance)
	assert.Equal(t, "****5600", v.Accounts.Entries[0].Number)
	for _, e := range v.Accounts.Entries[2:] {
		assert.Equal(t, AccountEntry{Locked: true}, e, "locked entries carry nothing")
	}

	assert.Equal(t, LockedScore{Status: ScoreLocked}, v.Score)

	assert.Len(t, v.Transactions.Items, 5)
	assert.Equal(t, 8, v.Transactions.Total, "records on Bancolombia and Davivienda only")
	assert.Equal(t, 3, v.Transactions.Suppressed)
	for _, tx := range v.Transactions.Items {
		assert.Contains(t, []string{"Bancolombia", "Davivienda"}, tx.Institution)
	}

	assert.Equal(t, entitlement.Free, v.Header.Membership)
	assert.Equal(t, "c4f45cd0", v.Header.ShortID)
	assert.NotEmpty(t, v.Upgrade.Features)
}

func TestCompose_FreeIgnoresFilter(t *testing.T) {
	in := Input{Client: client(false), Accounts: fiveAccounts(), History: history(20)}
	plain := Compose(freePolicy(), in)

	in.Filter = models.HistoryFilter{Kinds: []models.OperationKind{models.Credit}}
	assert.Equal(t, plain, Compose(freePolicy(), in))
}

func TestCompose_FreeNeverCarriesScore(t *testing.T) {
	for n := 0; n <= 6; n++ {
		p := Compose(freePolicy(), Input{
			Client:   client(true), // premium flag is irrelevant; the policy decides
			Accounts: fiveAccounts()[:n%6],
			History:  history(n * 3),
			Scoring:  scoring(),
		})
		raw, err := Encode(p)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(raw, &doc))

		keys := make([]string, 0, len(doc))
		for k := range doc {
			keys = append(keys, k)
		}
		assert.ElementsMatch(t, []string{"tier", "header", "accounts", "score", "transactions", "upgrade"}, keys)
		assert.Equal(t, map[string]any{"status": "locked"}, doc["score"])

		s := string(raw)
		for _, leaked := range []string{"720", "735", "+15", "Bajo", "analytics", "totals", "Reducir deuda"} {
			assert.NotContains(t, s, leaked)
		}
		assert.LessOrEqual(t, len(p.(FreeView).Transactions.Items), entitlement.DefaultCaps().FreeHistoryCap)
		assert.LessOrEqual(t, p.(FreeView).Accounts.Visible, entitlement.DefaultCaps().FreeAccountCap)
	}
}

func TestCompose_PremiumScore(t *testing.T) {
	p := Compose(premiumPolicy(), Input{
		Client:   client(true),
		Accounts: fiveAccounts(),
		History:  history(3),
		Scoring:  scoring(),
	})
	v, ok := p.(PremiumView)
	require.True(t, ok)

	require.True(t, v.Score.Available)
	require.NotNil(t, v.Score.ScoreDetail)
	assert.Equal(t, 720, v.Score.Score)
	assert.Equal(t, "+15", v.Score.Delta)
	assert.Equal(t, 735, v.Score.Prediction6M)
	assert.Equal(t, "0.021", v.Score.DefaultProbability)

	raw, err := Encode(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"score":{"available":true,"score":720,"delta":"+15"`)
	assert.NotContains(t, string(raw), `"status":"locked"`)
}

func TestCompose_PremiumNegativeAndMissingScore(t *testing.T) {
	sc := scoring()
	sc.MonthlyChange = -8
	v := Compose(premiumPolicy(), Input{Client: client(true), Scoring: sc}).(PremiumView)
	assert.Equal(t, "-8", v.Score.Delta)

	sc.MonthlyChange = 0
	v = Compose(premiumPolicy(), Input{Client: client(true), Scoring: sc}).(PremiumView)
	assert.Equal(t, "+0", v.Score.Delta)

	v = Compose(premiumPolicy(), Input{Client: client(true)}).(PremiumView)
	assert.False(t, v.Score.Available)
	assert.Nil(t, v.Score.ScoreDetail)

	raw, err := Encode(v)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"score":{"available":false}`)
}

func TestCompose_PremiumAccountsAndAnalytics(t *testing.T) {
	v := Compose(premiumPolicy(), Input{
		Client:   client(true),
		Accounts: fiveAccounts(),
		History:  history(6),
	}).(PremiumView)

	assert.Equal(t, 5, v.Accounts.Visible)
	assert.Zero(t, v.Accounts.Locked)
	assert.Equal(t, "725.00", v.Accounts.VisibleBalance)
	for _, e := range v.Accounts.Entries {
		assert.False(t, e.Locked)
	}

	require.Len(t, v.Analytics.BalanceDistribution, 5)
	assert.Equal(t, DistributionEntry{Institution: "Scotiabank", Balance: "300.00", Percentage: "41.38"}, v.Analytics.BalanceDistribution[4])

	// debits are i = 0, 2, 4 with amounts 1000, 3000, 5000 and categories
	// Alimentación, Transporte, "" respectively
	assert.Equal(t, []CategoryAmount{
		{Category: "Transporte", Amount: "3000.00"},
		{Category: "Alimentación", Amount: "1000.00"},
	}, v.Analytics.SpendByCategory)
	assert.Equal(t, "5000.00", v.Analytics.UncategorizedSpend)

	assert.Equal(t, "1800000.00", v.Analytics.MonthlyBalance)
	assert.True(t, v.Analytics.MonthlyBalancePositive)
	assert.Equal(t, "36.00", v.Analytics.SavingsCapacity)
	assert.Equal(t, 2, v.Analytics.Dependents)
	assert.Equal(t, 4, v.Analytics.Stratum)

	assert.Equal(t, []string{"Debit", "Credit"}, v.Filter.AvailableKinds)
	assert.Equal(t, banks, v.Filter.AvailableInstitutions)
	assert.Equal(t, []string{}, v.Filter.Kinds)
}

func TestCompose_PremiumFilterAndPaging(t *testing.T) {
	full := history(60)
	filter := models.HistoryFilter{
		Kinds:        []models.OperationKind{models.Debit},
		Institutions: []string{"Bancolombia", "Nequi"},
	}
	v := Compose(premiumPolicy(), Input{Client: client(true), History: full, Filter: filter}).(PremiumView)

	// debit records are even indexes; Bancolombia is i%5==0, Nequi i%5==2
	var want []models.Record
	for i := len(full) - 1; i >= 0; i-- {
		if i%2 == 0 && (i%5 == 0 || i%5 == 2) {
			want = append(want, full[i])
		}
	}
	require.Len(t, want, 12)

	assert.Equal(t, 12, v.Transactions.Total)
	assert.Equal(t, 2, v.Transactions.Suppressed)
	require.Len(t, v.Transactions.Items, 10)
	for i, tx := range v.Transactions.Items {
		assert.Equal(t, want[i].AlertTitle, tx.AlertTitle)
		assert.Equal(t, "Debit", tx.Kind)
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, r := range full {
		if r.Kind == models.Debit {
			debit = debit.Add(r.Amount.Decimal)
		} else {
			credit = credit.Add(r.Amount.Decimal)
		}
	}
	assert.Equal(t, 60, v.Totals.Movements)
	assert.Equal(t, debit.StringFixed(2), v.Totals.Debit)
	assert.Equal(t, credit.StringFixed(2), v.Totals.Credit)
	assert.Equal(t, []string{"Debit"}, v.Filter.Kinds)
	assert.Equal(t, []string{"Bancolombia", "Nequi"}, v.Filter.Institutions)
}

func TestCompose_PremiumTotalsIgnoreFilter(t *testing.T) {
	recs := []models.Record{
		{Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Institution: "Bancolombia", Kind: models.Debit,
			Amount: decimal.NewNullDecimal(d("100"))},
		{Timestamp: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Institution: "Nequi", Kind: models.Credit,
			Amount: decimal.NewNullDecimal(d("500"))},
	}
	filter := models.HistoryFilter{Kinds: []models.OperationKind{models.Debit}}

	v := Compose(premiumPolicy(), Input{Client: client(true), History: recs, Filter: filter}).(PremiumView)

	assert.Equal(t, Totals{Movements: 2, Debit: "100.00", Credit: "500.00"}, v.Totals)
	assert.Equal(t, 1, v.Transactions.Total)
	require.Len(t, v.Transactions.Items, 1)
	assert.Equal(t, "Debit", v.Transactions.Items[0].Kind)
}

func TestCompose_AbsentAmount(t *testing.T) {
	recs := []models.Record{
		{Timestamp: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Institution: "Bancolombia", Kind: models.Debit},
		{Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Institution: "Bancolombia", Kind: models.Debit,
			Amount: decimal.NewNullDecimal(d("0")), Category: "Ocio"},
	}

	v := Compose(premiumPolicy(), Input{Client: client(true), History: recs}).(PremiumView)
	require.Len(t, v.Transactions.Items, 2)

	missing, zero := v.Transactions.Items[0], v.Transactions.Items[1]
	assert.True(t, missing.AmountUnavailable)
	assert.Empty(t, missing.Amount)
	assert.Equal(t, DefaultCategory, missing.Category)
	assert.False(t, zero.AmountUnavailable)
	assert.Equal(t, "0.00", zero.Amount)
	assert.Equal(t, "0.00", v.Totals.Debit)

	free := Compose(freePolicy(), Input{
		Client:   client(false),
		Accounts: []models.Account{{Institution: "Bancolombia", Balance: d("1")}},
		History:  recs,
	}).(FreeView)
	assert.True(t, free.Transactions.Items[0].AmountUnavailable)

	raw, err := Encode(free)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount_unavailable":true`)
	assert.Equal(t, 1, strings.Count(string(raw), `"amount":`), "only the present amount is rendered")
}

func TestCompose_Idempotent(t *testing.T) {
	for _, p := range []entitlement.Policy{freePolicy(), premiumPolicy()} {
		in := Input{
			Client:   client(p.Premium()),
			Accounts: fiveAccounts(),
			History:  history(30),
			Scoring:  scoring(),
			Filter:   models.HistoryFilter{Kinds: []models.OperationKind{models.Debit}},
		}
		a, err := Encode(Compose(p, in))
		require.NoError(t, err)
		b, err := Encode(Compose(p, in))
		require.NoError(t, err)
		assert.Equal(t, a, b, string(p.Tier))
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, p := range []entitlement.Policy{freePolicy(), premiumPolicy()} {
		want := Compose(p, Input{
			Client:   client(p.Premium()),
			Accounts: fiveAccounts(),
			History:  history(12),
			Scoring:  scoring(),
		})
		raw, err := Encode(want)
		require.NoError(t, err)

		got, err := Decode(raw)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(want, got), string(p.Tier))
	}
}

func TestCodecErrors(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)

	_, err = Decode([]byte(`{"tier":"GOLD"}`))
	assert.ErrorContains(t, err, "unknown tier")

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
