package dataset

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSSource_LoadsAllTables(t *testing.T) {
	tables, err := NewFSSource(fixtureFS(), "fixture").Load(context.Background())
	require.NoError(t, err)

	require.Len(t, tables.Clients, 2)
	ana := tables.Clients[0]
	assert.Equal(t, anaID, ana.ID, "ids are canonicalised")
	assert.Equal(t, "Ana Gómez", ana.FullName())
	assert.Equal(t, "ana@example.com", ana.Email)
	assert.True(t, ana.Premium)
	assert.True(t, decimal.RequireFromString("3200000.50").Equal(ana.MonthlyExpenses))
	assert.Equal(t, 2, ana.Dependents)
	assert.Equal(t, 4, ana.Stratum)

	berna := tables.Clients[1]
	assert.False(t, berna.Premium)
	assert.Equal(t, 1, berna.Dependents, "3.0-style integers are accepted")
	assert.Empty(t, berna.NationalID)

	require.Len(t, tables.Accounts, 4)
	assert.Equal(t, "Nequi", tables.Accounts[2].Institution)
	assert.True(t, decimal.RequireFromString("50.25").Equal(tables.Accounts[2].Balance))

	require.Len(t, tables.History, 4)
	first := tables.History[0]
	assert.Equal(t, models.Debit, first.Kind)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), first.Timestamp)
	require.True(t, first.Amount.Valid)
	assert.True(t, decimal.NewFromInt(120000).Equal(first.Amount.Decimal))
	assert.Equal(t, "Alimentación", first.Category)

	second := tables.History[1]
	assert.Equal(t, models.Credit, second.Kind)
	assert.False(t, second.Amount.Valid, "absent amount stays absent")
	assert.False(t, second.BalanceBefore.Valid)
	assert.Empty(t, second.Category)
	assert.Equal(t, "Pago recibido", second.AlertTitle)

	assert.Equal(t, models.Debit, tables.History[2].Kind)
	assert.Equal(t, models.Credit, tables.History[3].Kind)

	require.Len(t, tables.Scoring, 1)
	sc := tables.Scoring[0]
	assert.Equal(t, 720, sc.Score)
	assert.Equal(t, 15, sc.MonthlyChange)
	assert.Equal(t, 735, sc.Prediction6M)
	assert.True(t, decimal.RequireFromString("0.021").Equal(sc.DefaultProbability))
}

func TestFSSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fs map[string]string)
		wantMsg string
	}{
		{
			name:    "missing file",
			mutate:  func(fs map[string]string) { delete(fs, ScoringFile) },
			wantMsg: ScoringFile,
		},
		{
			name:    "empty file",
			mutate:  func(fs map[string]string) { fs[AccountsFile] = "" },
			wantMsg: "empty file",
		},
		{
			name: "missing required column",
			mutate: func(fs map[string]string) {
				fs[AccountsFile] = strings.Replace(fs[AccountsFile], "saldo_actual", "saldo", 1)
			},
			wantMsg: `missing column "saldo_actual"`,
		},
		{
			name: "unparseable balance",
			mutate: func(fs map[string]string) {
				fs[AccountsFile] = strings.Replace(fs[AccountsFile], "50.25", "cincuenta", 1)
			},
			wantMsg: "line 4 column saldo_actual",
		},
		{
			name: "unknown operation kind",
			mutate: func(fs map[string]string) {
				fs[HistoryFile] = strings.Replace(fs[HistoryFile], "Credito", "Transferencia", 1)
			},
			wantMsg: "unknown operation kind",
		},
		{
			name: "bad timestamp",
			mutate: func(fs map[string]string) {
				fs[HistoryFile] = strings.Replace(fs[HistoryFile], "2024-03-05", "ayer", 1)
			},
			wantMsg: "unrecognised timestamp",
		},
		{
			name: "ragged row",
			mutate: func(fs map[string]string) {
				fs[ClientsFile] += "x,y\n"
			},
			wantMsg: ClientsFile,
		},
		{
			name: "blank monthly income",
			mutate: func(fs map[string]string) {
				fs[ClientsFile] = strings.Replace(fs[ClientsFile], ",2500000,", ",,", 1)
			},
			wantMsg: "line 3 column ingresos_mensuales",
		},
		{
			name: "blank monthly expenses",
			mutate: func(fs map[string]string) {
				fs[ClientsFile] = strings.Replace(fs[ClientsFile], ",3200000.50,", ",,", 1)
			},
			wantMsg: "line 2 column gastos_mensuales",
		},
		{
			name: "blank credit score",
			mutate: func(fs map[string]string) {
				fs[ScoringFile] = strings.Replace(fs[ScoringFile], anaID+",720,", anaID+",,", 1)
			},
			wantMsg: "column puntaje_credito",
		},
		{
			name: "missing client id",
			mutate: func(fs map[string]string) {
				fs[ScoringFile] = strings.Replace(fs[ScoringFile], anaID, "", 1)
			},
			wantMsg: "column id_cliente",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{
				ClientsFile:  clientsCSV,
				AccountsFile: accountsCSV,
				HistoryFile:  historyCSV,
				ScoringFile:  scoringCSV,
			}
			tt.mutate(files)

			fsys := fstest.MapFS{}
			for k, v := range files {
				fsys[k] = fixtureFile(v)
			}

			_, err := NewFSSource(fsys, "fixture").Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrDatasetUnavailable)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDirSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirSource(t.TempDir()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSource_MissingDirectory(t *testing.T) {
	_, err := NewDirSource(t.TempDir()).Load(context.Background())
	assert.ErrorIs(t, err, common.ErrDatasetUnavailable)
}

func TestRowBoolean(t *testing.T) {
	tbl := &csvTable{name: "t", cols: map[string]int{"b": 0}}
	for in, want := range map[string]bool{
		"True": true, "1": true, "sí": true, "1.0": true,
		"False": false, "0": false, "no": false, "": false, "0.0": false,
	} {
		r := &row{t: tbl, rec: []string{in}, line: 2}
		assert.Equal(t, want, r.boolean("b"), in)
		assert.NoError(t, r.err, in)
	}

	r := &row{t: tbl, rec: []string{"quizás"}, line: 2}
	r.boolean("b")
	assert.ErrorIs(t, r.err, common.ErrDatasetUnavailable)
}
