// Package entitlement decides what a membership tier may see: how many
// accounts, how much history and whether the credit score is exposed.
//
// Everything here is a pure function of the tier, the display caps and the
// records passed in.
package entitlement

import (
	"errors"
	"slices"
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/server/models"
)

type Tier string

const (
	Free    Tier = "FREE"
	Premium Tier = "PREMIUM"
)

// ParseTier reads a tier name case-insensitively. Anything that is not
// PREMIUM is FREE.
func ParseTier(s string) Tier {
	if strings.EqualFold(strings.TrimSpace(s), string(Premium)) {
		return Premium
	}
	return Free
}

// Classify derives the tier from the client's premium flag.
func Classify(c models.Client) Tier {
	if c.Premium {
		return Premium
	}
	return Free
}

// Caps are the display limits shared by every view.
type Caps struct {
	FreeAccountCap  int `json:"free_account_cap"`
	FreeHistoryCap  int `json:"free_history_cap"`
	PremiumPageSize int `json:"premium_page_size"`
}

func DefaultCaps() Caps {
	return Caps{FreeAccountCap: 2, FreeHistoryCap: 5, PremiumPageSize: 10}
}

func (c Caps) Validate() error {
	if c.FreeAccountCap < 0 || c.FreeHistoryCap < 0 {
		return errors.New("free tier caps must not be negative")
	}
	if c.PremiumPageSize <= 0 {
		return errors.New("premium page size must be positive")
	}
	return nil
}

// Policy applies one tier's rules with the given caps.
type Policy struct {
	Tier Tier
	Caps Caps
}

func New(tier Tier, caps Caps) Policy {
	return Policy{Tier: tier, Caps: caps}
}

func (p Policy) Premium() bool { return p.Tier == Premium }

// VisibleAccounts returns the first FreeAccountCap accounts for FREE and all
// of them for PREMIUM, in input order.
func (p Policy) VisibleAccounts(all []models.Account) []models.Account {
	if p.Premium() {
		return slices.Clone(all)
	}
	return slices.Clone(all[:min(len(all), max(p.Caps.FreeAccountCap, 0))])
}

// LockedAccountCount is the number of accounts VisibleAccounts leaves out.
func (p Policy) LockedAccountCount(all []models.Account) int {
	return len(all) - len(p.VisibleAccounts(all))
}

// HistoryCandidates is the history a tier may draw from. FREE only sees
// records on the institutions of its visible accounts.
func (p Policy) HistoryCandidates(visible []models.Account, full []models.Record) []models.Record {
	if p.Premium() {
		return slices.Clone(full)
	}

	institutions := make(map[string]struct{}, len(visible))
	for _, a := range visible {
		institutions[a.Institution] = struct{}{}
	}

	out := make([]models.Record, 0, len(full))
	for _, r := range full {
		if _, ok := institutions[r.Institution]; ok {
			out = append(out, r)
		}
	}
	return out
}

// VisibleHistory is HistoryCandidates truncated to FreeHistoryCap for FREE.
// PREMIUM gets everything; paging happens after user filters are applied.
func (p Policy) VisibleHistory(visible []models.Account, full []models.Record) []models.Record {
	c := p.HistoryCandidates(visible, full)
	if p.Premium() {
		return c
	}
	return c[:min(len(c), max(p.Caps.FreeHistoryCap, 0))]
}

func (p Policy) ScoreVisible() bool { return ScoreVisible(p.Tier) }

// ScoreVisible is true only for PREMIUM.
func ScoreVisible(t Tier) bool { return t == Premium }
