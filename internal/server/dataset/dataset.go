// Package dataset loads the four record sets the dashboard reads from
// (clients, debit accounts, alert history and credit scoring), validates
// them and serves indexed, read-only lookups over the loaded snapshot.
//
// Sources are interchangeable: a directory of CSV files, the same files in
// an S3-compatible bucket, or four SQL tables. Whatever the source, a
// missing table, a missing required column or an unparseable row is
// reported as common.ErrDatasetUnavailable.
package dataset

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
)

// File names of the deployed record sets.
const (
	ClientsFile  = "clientes.csv"
	AccountsFile = "cuentas_debito.csv"
	HistoryFile  = "historial_alertas.csv"
	ScoringFile  = "scoring_crediticio.csv"
)

// Tables is the raw content of the four record sets in input order.
type Tables struct {
	Clients  []models.Client
	Accounts []models.Account
	History  []models.Record
	Scoring  []models.Scoring
}

// Source loads Tables from some backing store.
type Source interface {
	Load(ctx context.Context) (*Tables, error)
	// Name identifies the source in logs.
	Name() string
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrDatasetUnavailable, fmt.Sprintf(format, args...))
}

func wrapUnavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrDatasetUnavailable, what, err)
}
