package models

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/shopspring/decimal"
)

type OperationKind string

const (
	Debit  OperationKind = "Debit"
	Credit OperationKind = "Credit"
)

// ParseOperationKind accepts the English names and the Spanish ones used in
// the deployed files, with or without the accent.
func ParseOperationKind(s string) (OperationKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debit", "debito", "débito":
		return Debit, true
	case "credit", "credito", "crédito":
		return Credit, true
	default:
		return "", false
	}
}

// Label is the Spanish display name of the kind.
func (k OperationKind) Label() string {
	switch k {
	case Debit:
		return "Debito"
	case Credit:
		return "Credito"
	default:
		return string(k)
	}
}

// Record is one transaction/alert history entry. Optional text fields are
// empty when absent; optional amounts are invalid NullDecimals.
type Record struct {
	ClientID          string
	Timestamp         time.Time
	Institution       string
	Kind              OperationKind
	Amount            decimal.NullDecimal
	Category          string
	Channel           string
	RecordType        string
	AlertTitle        string
	AlertMessage      string
	RecommendedAction string
	BalanceBefore     decimal.NullDecimal
	BalanceAfter      decimal.NullDecimal
	AccountStatus     string
}

// HistoryFilter selects records by operation kind and institution. An empty
// set does not restrict its dimension.
type HistoryFilter struct {
	Kinds        []OperationKind
	Institutions []string
}

// ParseHistoryFilter builds a filter from user input. Kinds may use any
// spelling ParseOperationKind accepts; blank institutions are dropped.
func ParseHistoryFilter(kinds, institutions []string) (HistoryFilter, error) {
	var f HistoryFilter
	for _, k := range kinds {
		kind, ok := ParseOperationKind(k)
		if !ok {
			return HistoryFilter{}, common.NewValidationError("kind", "unknown operation kind "+strconv.Quote(k))
		}
		if !slices.Contains(f.Kinds, kind) {
			f.Kinds = append(f.Kinds, kind)
		}
	}
	for _, inst := range institutions {
		if inst = strings.TrimSpace(inst); inst != "" {
			f.Institutions = append(f.Institutions, inst)
		}
	}
	return f, nil
}

func (f HistoryFilter) IsZero() bool {
	return len(f.Kinds) == 0 && len(f.Institutions) == 0
}

func (f HistoryFilter) Match(r Record) bool {
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, r.Kind) {
		return false
	}
	if len(f.Institutions) > 0 && !slices.Contains(f.Institutions, r.Institution) {
		return false
	}
	return true
}

// Apply returns the matching records in input order.
func (f HistoryFilter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortByTimestampDesc returns a copy of records, newest first. Records with
// equal timestamps keep their input order.
func SortByTimestampDesc(records []Record) []Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}
