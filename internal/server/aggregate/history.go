package aggregate

import (
	"slices"

	"github.com/dmitrijs2005/nuudash/internal/server/models"
)

// Page is one screen of filtered history.
type Page struct {
	Items []models.Record
	// Matched counts every record that passed the filter.
	Matched int
	// Suppressed counts matching records beyond the page.
	Suppressed int
}

// FilterHistory keeps the records matching f, orders them newest first and
// cuts the result at pageSize.
func FilterHistory(history []models.Record, f models.HistoryFilter, pageSize int) Page {
	matched := models.SortByTimestampDesc(f.Apply(history))
	return Paginate(matched, pageSize)
}

// Paginate cuts records at pageSize without reordering them.
func Paginate(records []models.Record, pageSize int) Page {
	n := min(len(records), max(pageSize, 0))
	return Page{
		Items:      slices.Clone(records[:n]),
		Matched:    len(records),
		Suppressed: len(records) - n,
	}
}

// FilterOptions lists the values a history filter can choose from.
type FilterOptions struct {
	Kinds        []models.OperationKind
	Institutions []string
}

// Options collects the distinct kinds and institutions in order of first
// appearance.
func Options(history []models.Record) FilterOptions {
	var o FilterOptions
	for _, r := range history {
		if r.Kind != "" && !slices.Contains(o.Kinds, r.Kind) {
			o.Kinds = append(o.Kinds, r.Kind)
		}
		if r.Institution != "" && !slices.Contains(o.Institutions, r.Institution) {
			o.Institutions = append(o.Institutions, r.Institution)
		}
	}
	return o
}
