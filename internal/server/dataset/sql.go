package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/dbx"
	"github.com/dmitrijs2005/nuudash/internal/server/dataset/migrations"
	"github.com/dmitrijs2005/nuudash/internal/server/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// SQLSource reads the record sets from four tables named after the CSV
// files, ordered by their position column.
type SQLSource struct {
	db     *sql.DB
	driver string
}

// OpenSQLSource opens dsn with the given driver.
func OpenSQLSource(driver, dsn string) (*SQLSource, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// every connection to an in-memory sqlite database is a new database
		db.SetMaxOpenConns(1)
	}
	return NewSQLSource(db, driver), nil
}

func NewSQLSource(db *sql.DB, driver string) *SQLSource {
	return &SQLSource{db: db, driver: driver}
}

func (s *SQLSource) Name() string { return "sql:" + s.driver }

func (s *SQLSource) DB() *sql.DB { return s.db }

func (s *SQLSource) Close() error { return s.db.Close() }

func (s *SQLSource) dialect() string {
	if s.driver == DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// Migrate creates the dataset tables with the embedded goose migrations.
func (s *SQLSource) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(s.dialect()); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, ".")
}

// Load reads all four tables inside one transaction so the snapshot is
// consistent.
func (s *SQLSource) Load(ctx context.Context) (*Tables, error) {
	var t Tables
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if t.Clients, err = readClients(ctx, tx); err != nil {
			return fmt.Errorf("clientes: %w", err)
		}
		if t.Accounts, err = readAccounts(ctx, tx); err != nil {
			return fmt.Errorf("cuentas_debito: %w", err)
		}
		if t.History, err = readHistory(ctx, tx); err != nil {
			return fmt.Errorf("historial_alertas: %w", err)
		}
		if t.Scoring, err = readScoring(ctx, tx); err != nil {
			return fmt.Errorf("scoring_crediticio: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapUnavailable(s.Name(), err)
	}
	return &t, nil
}

const selectClients = `SELECT id_cliente, nombres, apellidos, cedula, email, ciudad,
	ingresos_mensuales, gastos_mensuales, personas_a_cargo, estrato_socioeconomico, es_cliente_premium
	FROM clientes ORDER BY position`

func readClients(ctx context.Context, db dbx.DBTX) ([]models.Client, error) {
	rows, err := db.QueryContext(ctx, selectClients)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var (
			c                       models.Client
			nationalID, email, city sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.FirstNames, &c.LastNames, &nationalID, &email, &city,
			&c.MonthlyIncome, &c.MonthlyExpenses, &c.Dependents, &c.Stratum, &c.Premium); err != nil {
			return nil, err
		}
		c.ID = models.CanonicalID(c.ID)
		c.NationalID, c.Email, c.City = nationalID.String, email.String, city.String
		out = append(out, c)
	}
	return out, rows.Err()
}

const selectAccounts = `SELECT id_cliente, entidad_financiera, tipo_cuenta, numero_cuenta, saldo_actual, estado
	FROM cuentas_debito ORDER BY position`

func readAccounts(ctx context.Context, db dbx.DBTX) ([]models.Account, error) {
	rows, err := db.QueryContext(ctx, selectAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ClientID, &a.Institution, &a.Type, &a.Number, &a.Balance, &a.Status); err != nil {
			return nil, err
		}
		a.ClientID = models.CanonicalID(a.ClientID)
		out = append(out, a)
	}
	return out, rows.Err()
}

const selectHistory = `SELECT id_cliente, fecha_registro, entidad_financiera, tipo_operacion, pago_realizado,
	categoria_gasto, canal_transaccion, tipo_registro, titulo_alerta, mensaje_alerta, accion_recomendada,
	saldo_anterior, saldo_posterior, estado_cuenta
	FROM historial_alertas ORDER BY position`

func readHistory(ctx context.Context, db dbx.DBTX) ([]models.Record, error) {
	rows, err := db.QueryContext(ctx, selectHistory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var (
			r                                    models.Record
			ts                                   any
			kind                                 string
			category, channel, recordType, title sql.NullString
			message, action, status              sql.NullString
		)
		if err := rows.Scan(&r.ClientID, &ts, &r.Institution, &kind, &r.Amount,
			&category, &channel, &recordType, &title, &message, &action,
			&r.BalanceBefore, &r.BalanceAfter, &status); err != nil {
			return nil, err
		}

		if r.Timestamp, err = scanTime(ts); err != nil {
			return nil, err
		}
		k, ok := models.ParseOperationKind(kind)
		if !ok {
			return nil, fmt.Errorf("unknown operation kind %q", kind)
		}

		r.ClientID = models.CanonicalID(r.ClientID)
		r.Kind = k
		r.Category, r.Channel, r.RecordType = category.String, channel.String, recordType.String
		r.AlertTitle, r.AlertMessage, r.RecommendedAction = title.String, message.String, action.String
		r.AccountStatus = status.String
		out = append(out, r)
	}
	return out, rows.Err()
}

const selectScoring = `SELECT id_cliente, puntaje_credito, cambio_puntaje_mes, categoria_riesgo, tendencia_score,
	percentil_nacional, deuda_total, ratio_deuda_ingreso, utilizacion_credito_promedio, numero_cuentas_activas,
	porcentaje_pagos_puntuales, dias_mora_maximos, probabilidad_default, score_prediccion_6meses,
	principal_factor_negativo, principal_oportunidad_mejora
	FROM scoring_crediticio ORDER BY position`

func readScoring(ctx context.Context, db dbx.DBTX) ([]models.Scoring, error) {
	rows, err := db.QueryContext(ctx, selectScoring)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Scoring
	for rows.Next() {
		var (
			s                                models.Scoring
			risk, trend, factor, opportunity sql.NullString
		)
		if err := rows.Scan(&s.ClientID, &s.Score, &s.MonthlyChange, &risk, &trend,
			&s.NationalPercentile, &s.TotalDebt, &s.DebtToIncome, &s.CreditUtilization, &s.ActiveAccounts,
			&s.OnTimePaymentsPct, &s.MaxDaysPastDue, &s.DefaultProbability, &s.Prediction6M,
			&factor, &opportunity); err != nil {
			return nil, err
		}
		s.ClientID = models.CanonicalID(s.ClientID)
		s.RiskCategory, s.Trend = risk.String, trend.String
		s.TopNegativeFactor, s.TopOpportunity = factor.String, opportunity.String
		out = append(out, s)
	}
	return out, rows.Err()
}

// scanTime accepts what the drivers hand back for a TIMESTAMP column:
// time.Time from pgx, time.Time or text from sqlite.
func scanTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		return parseTime(strings.TrimSpace(x))
	case []byte:
		return parseTime(strings.TrimSpace(string(x)))
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp value %T", v)
	}
}
