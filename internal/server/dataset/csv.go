package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/server/models"
	"github.com/shopspring/decimal"
)

var (
	clientColumns = []string{"id_cliente", "nombres", "apellidos", "ingresos_mensuales", "gastos_mensuales", "es_cliente_premium"}

	accountColumns = []string{"id_cliente", "entidad_financiera", "tipo_cuenta", "numero_cuenta", "saldo_actual", "estado"}

	historyColumns = []string{"id_cliente", "fecha_registro", "entidad_financiera", "tipo_operacion"}

	scoringColumns = []string{"id_cliente", "puntaje_credito", "cambio_puntaje_mes"}
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// csvTable is a parsed CSV file with its header indexed by column name.
type csvTable struct {
	name string
	cols map[string]int
	rows [][]string
}

func readCSV(name string, r io.Reader, required []string) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, unavailable("%s: empty file", name)
	}
	if err != nil {
		return nil, wrapUnavailable(name, err)
	}

	t := &csvTable{name: name, cols: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.cols[h] = i
	}
	for _, c := range required {
		if _, ok := t.cols[c]; !ok {
			return nil, unavailable("%s: missing column %q", name, c)
		}
	}

	t.rows, err = cr.ReadAll()
	if err != nil {
		return nil, wrapUnavailable(name, err)
	}
	return t, nil
}

// row reads typed fields out of one CSV record, keeping the first error.
type row struct {
	t    *csvTable
	rec  []string
	line int
	err  error
}

func (t *csvTable) each(fn func(r *row)) error {
	for i, rec := range t.rows {
		r := &row{t: t, rec: rec, line: i + 2}
		fn(r)
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

func isNull(s string) bool {
	switch s {
	case "", "NaN", "nan", "NULL", "null", "None", "NA", "N/A":
		return true
	}
	return false
}

func (r *row) fail(col string, err error) {
	if r.err == nil {
		r.err = unavailable("%s line %d column %s: %v", r.t.name, r.line, col, err)
	}
}

func (r *row) raw(col string) string {
	i, ok := r.t.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *row) str(col string) string {
	s := r.raw(col)
	if isNull(s) {
		return ""
	}
	return s
}

func (r *row) required(col string) string {
	s := r.str(col)
	if s == "" {
		r.fail(col, errors.New("value is required"))
	}
	return s
}

func (r *row) dec(col string) decimal.Decimal {
	s := r.raw(col)
	if isNull(s) {
		r.fail(col, errors.New("value is required"))
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.fail(col, err)
	}
	return d
}

func (r *row) optDec(col string) decimal.Decimal {
	if isNull(r.raw(col)) {
		return decimal.Zero
	}
	return r.dec(col)
}

func (r *row) nullDec(col string) decimal.NullDecimal {
	if isNull(r.raw(col)) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(r.dec(col))
}

// integer accepts "3" as well as "3.0", which is how pandas writes integer
// columns that once held a NaN.
func (r *row) integer(col string) int {
	s := r.raw(col)
	if isNull(s) {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		r.fail(col, fmt.Errorf("not an integer: %q", s))
		return 0
	}
	return int(d.IntPart())
}

func (r *row) requiredInt(col string) int {
	if isNull(r.raw(col)) {
		r.fail(col, errors.New("value is required"))
		return 0
	}
	return r.integer(col)
}

func (r *row) boolean(col string) bool {
	s := r.raw(col)
	switch strings.ToLower(s) {
	case "si", "sí", "yes", "y":
		return true
	case "no", "n", "":
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		d, derr := decimal.NewFromString(s)
		if derr != nil {
			r.fail(col, err)
			return false
		}
		return !d.IsZero()
	}
	return b
}

func (r *row) timestamp(col string) time.Time {
	s := r.raw(col)
	if isNull(s) {
		r.fail(col, errors.New("value is required"))
		return time.Time{}
	}
	t, err := parseTime(s)
	if err != nil {
		r.fail(col, err)
	}
	return t
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (r *row) kind(col string) models.OperationKind {
	s := r.raw(col)
	k, ok := models.ParseOperationKind(s)
	if !ok {
		r.fail(col, fmt.Errorf("unknown operation kind %q", s))
	}
	return k
}

func parseClients(name string, rd io.Reader) ([]models.Client, error) {
	t, err := readCSV(name, rd, clientColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.Client, 0, len(t.rows))
	err = t.each(func(r *row) {
		out = append(out, models.Client{
			ID:              models.CanonicalID(r.required("id_cliente")),
			FirstNames:      r.str("nombres"),
			LastNames:       r.str("apellidos"),
			NationalID:      r.str("cedula"),
			Email:           r.str("email"),
			City:            r.str("ciudad"),
			MonthlyIncome:   r.dec("ingresos_mensuales"),
			MonthlyExpenses: r.dec("gastos_mensuales"),
			Dependents:      r.integer("personas_a_cargo"),
			Stratum:         r.integer("estrato_socioeconomico"),
			Premium:         r.boolean("es_cliente_premium"),
		})
	})
	return out, err
}

func parseAccounts(name string, rd io.Reader) ([]models.Account, error) {
	t, err := readCSV(name, rd, accountColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.Account, 0, len(t.rows))
	err = t.each(func(r *row) {
		out = append(out, models.Account{
			ClientID:    models.CanonicalID(r.required("id_cliente")),
			Institution: r.str("entidad_financiera"),
			Type:        r.str("tipo_cuenta"),
			Number:      r.str("numero_cuenta"),
			Balance:     r.dec("saldo_actual"),
			Status:      r.str("estado"),
		})
	})
	return out, err
}

func parseHistory(name string, rd io.Reader) ([]models.Record, error) {
	t, err := readCSV(name, rd, historyColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(t.rows))
	err = t.each(func(r *row) {
		out = append(out, models.Record{
			ClientID:          models.CanonicalID(r.required("id_cliente")),
			Timestamp:         r.timestamp("fecha_registro"),
			Institution:       r.str("entidad_financiera"),
			Kind:              r.kind("tipo_operacion"),
			Amount:            r.nullDec("pago_realizado"),
			Category:          r.str("categoria_gasto"),
			Channel:           r.str("canal_transaccion"),
			RecordType:        r.str("tipo_registro"),
			AlertTitle:        r.str("titulo_alerta"),
			AlertMessage:      r.str("mensaje_alerta"),
			RecommendedAction: r.str("accion_recomendada"),
			BalanceBefore:     r.nullDec("saldo_anterior"),
			BalanceAfter:      r.nullDec("saldo_posterior"),
			AccountStatus:     r.str("estado_cuenta"),
		})
	})
	return out, err
}

func parseScoring(name string, rd io.Reader) ([]models.Scoring, error) {
	t, err := readCSV(name, rd, scoringColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.Scoring, 0, len(t.rows))
	err = t.each(func(r *row) {
		out = append(out, models.Scoring{
			ClientID:           models.CanonicalID(r.required("id_cliente")),
			Score:              r.requiredInt("puntaje_credito"),
			MonthlyChange:      r.integer("cambio_puntaje_mes"),
			RiskCategory:       r.str("categoria_riesgo"),
			Trend:              r.str("tendencia_score"),
			NationalPercentile: r.optDec("percentil_nacional"),
			TotalDebt:          r.optDec("deuda_total"),
			DebtToIncome:       r.optDec("ratio_deuda_ingreso"),
			CreditUtilization:  r.optDec("utilizacion_credito_promedio"),
			ActiveAccounts:     r.integer("numero_cuentas_activas"),
			OnTimePaymentsPct:  r.optDec("porcentaje_pagos_puntuales"),
			MaxDaysPastDue:     r.integer("dias_mora_maximos"),
			DefaultProbability: r.optDec("probabilidad_default"),
			Prediction6M:       r.integer("score_prediccion_6meses"),
			TopNegativeFactor:  r.str("principal_factor_negativo"),
			TopOpportunity:     r.str("principal_oportunidad_mejora"),
		})
	})
	return out, err
}

// opener returns a reader for one of the four named record sets.
type opener func(name string) (io.ReadCloser, error)

// readTables parses the four CSV record sets obtained from open.
func readTables(open opener) (*Tables, error) {
	var t Tables

	steps := []struct {
		name  string
		parse func(name string, rd io.Reader) error
	}{
		{ClientsFile, func(n string, rd io.Reader) (err error) { t.Clients, err = parseClients(n, rd); return }},
		{AccountsFile, func(n string, rd io.Reader) (err error) { t.Accounts, err = parseAccounts(n, rd); return }},
		{HistoryFile, func(n string, rd io.Reader) (err error) { t.History, err = parseHistory(n, rd); return }},
		{ScoringFile, func(n string, rd io.Reader) (err error) { t.Scoring, err = parseScoring(n, rd); return }},
	}

	for _, s := range steps {
		rc, err := open(s.name)
		if err != nil {
			return nil, wrapUnavailable(s.name, err)
		}
		err = s.parse(s.name, rc)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
