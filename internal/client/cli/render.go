package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/nuudash/internal/server/view"
)

type renderer struct {
	w   io.Writer
	err error
}

func (r *renderer) line(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format+"\n", args...)
}

func render(w io.Writer, p view.Payload) error {
	r := &renderer{w: w}
	switch v := p.(type) {
	case view.FreeView:
		r.free(v)
	case *view.FreeView:
		r.free(*v)
	case view.PremiumView:
		r.premium(v)
	case *view.PremiumView:
		r.premium(*v)
	default:
		return fmt.Errorf("unsupported payload %T", p)
	}
	return r.err
}

func money(s string) string {
	if s == "" {
		return "-"
	}
	return "$" + s
}

func (r *renderer) header(h view.Header) {
	r.line("%s  [%s]", h.Name, h.ShortID)
	var parts []string
	if h.NationalID != "" {
		parts = append(parts, "Cédula: "+h.NationalID)
	}
	if h.City != "" {
		parts = append(parts, "Ciudad: "+h.City)
	}
	if h.Email != "" {
		parts = append(parts, "Email: "+h.Email)
	}
	parts = append(parts, "Ingresos Mensuales: "+money(h.MonthlyIncome))
	r.line("%s", strings.Join(parts, " | "))
}

func (r *renderer) account(e view.AccountEntry) {
	if e.Locked {
		r.line("  [bloqueada] Disponible en PREMIUM")
		return
	}
	r.line("  %-20s %-10s %s  %14s  %s", e.Institution, e.Type, e.Number, money(e.Balance), e.Status)
}

func (r *renderer) transaction(t view.TransactionEntry) {
	amount := money(t.Amount)
	if t.AmountUnavailable {
		amount = "monto no disponible"
	}
	r.line("  %s  %-8s %-20s %14s  %s", t.Timestamp, t.Kind, t.Institution, amount, t.Category)
	if t.AlertTitle != "" {
		r.line("      ! %s", t.AlertTitle)
		if t.AlertMessage != "" {
			r.line("        %s", t.AlertMessage)
		}
		if t.RecommendedAction != "" {
			r.line("        Recomendación: %s", t.RecommendedAction)
		}
	}
}

func (r *renderer) free(v view.FreeView) {
	r.header(v.Header)
	r.line("Plan FREE - Acceso limitado")
	r.line("")
	r.line("Score Crediticio: [bloqueado] Solo PREMIUM")
	r.line("")

	r.line("Cuentas de Débito (%d de %d)", v.Accounts.Visible, v.Accounts.Total)
	for _, e := range v.Accounts.Entries {
		r.account(e)
	}
	r.line("Saldo Visible: %s", money(v.Accounts.VisibleBalance))
	r.line("")

	r.line("Últimos Movimientos (%d de %d)", len(v.Transactions.Items), v.Transactions.Total)
	if len(v.Transactions.Items) == 0 {
		r.line("  No hay movimientos recientes disponibles.")
	}
	for _, t := range v.Transactions.Items {
		r.transaction(t)
	}
	if v.Transactions.Suppressed > 0 {
		r.line("  Historial limitado: %d movimientos ocultos.", v.Transactions.Suppressed)
	}
	r.line("")

	r.line("%s", v.Upgrade.Message)
	for _, f := range v.Upgrade.Features {
		r.line("  * %s", f)
	}
}

func (r *renderer) premium(v view.PremiumView) {
	r.header(v.Header)
	r.line("Plan PREMIUM - Acceso completo")
	r.line("")

	r.line("Todas tus Cuentas de Débito (%d)", v.Accounts.Total)
	for _, e := range v.Accounts.Entries {
		r.account(e)
	}
	r.line("Saldo Total: %s", money(v.Accounts.VisibleBalance))
	r.line("")

	r.line("Score Crediticio")
	if !v.Score.Available || v.Score.ScoreDetail == nil {
		r.line("  Sin información de scoring.")
	} else {
		s := v.Score.ScoreDetail
		r.line("  Puntaje: %d (%s este mes)", s.Score, s.Delta)
		r.line("  Categoría: %s | Tendencia: %s | Percentil Nacional: %s%%", s.RiskCategory, s.Trend, s.NationalPercentile)
		r.line("  Deuda Total: %s | Deuda/Ingreso: %s | Utilización: %s", money(s.TotalDebt), s.DebtToIncome, s.CreditUtilization)
		r.line("  Cuentas Activas: %d | Pagos Puntuales: %s%% | Mora Máxima: %d días", s.ActiveAccounts, s.OnTimePayments, s.MaxDaysPastDue)
		r.line("  Probabilidad de Default: %s | Predicción 6 meses: %d", s.DefaultProbability, s.Prediction6M)
		if s.TopNegativeFactor != "" {
			r.line("  Factor negativo: %s", s.TopNegativeFactor)
		}
		if s.TopOpportunity != "" {
			r.line("  Oportunidad de mejora: %s", s.TopOpportunity)
		}
	}
	r.line("")

	r.line("Historial Completo de Movimientos")
	r.line("  Filtros: tipo=%s entidad=%s", orAll(v.Filter.Kinds), orAll(v.Filter.Institutions))
	r.line("  Disponibles: tipo=%s entidad=%s", orAll(v.Filter.AvailableKinds), orAll(v.Filter.AvailableInstitutions))
	r.line("  Total Movimientos: %d | Total Débitos: %s | Total Créditos: %s",
		v.Totals.Movements, money(v.Totals.Debit), money(v.Totals.Credit))
	if len(v.Transactions.Items) == 0 {
		r.line("  No hay movimientos registrados para este cliente.")
	}
	for _, t := range v.Transactions.Items {
		r.transaction(t)
	}
	if v.Transactions.Suppressed > 0 {
		r.line("  Mostrando %d de %d movimientos. Ajusta los filtros para ver más.", len(v.Transactions.Items), v.Transactions.Total)
	}
	r.line("")

	a := v.Analytics
	r.line("Análisis Financiero")
	r.line("  Gastos por categoría:")
	for _, c := range a.SpendByCategory {
		r.line("    %-24s %14s", c.Category, money(c.Amount))
	}
	r.line("    %-24s %14s", view.DefaultCategory, money(a.UncategorizedSpend))
	r.line("  Distribución de saldos:")
	for _, d := range a.BalanceDistribution {
		r.line("    %-24s %14s  %s%%", d.Institution, money(d.Balance), d.Percentage)
	}
	sign := "positivo"
	if !a.MonthlyBalancePositive {
		sign = "negativo"
	}
	r.line("  Balance Mensual: %s (%s) | Capacidad de ahorro: %s%%", money(a.MonthlyBalance), sign, a.SavingsCapacity)
	r.line("  Personas a cargo: %d | Estrato: %d", a.Dependents, a.Stratum)
}

func orAll(v []string) string {
	if len(v) == 0 {
		return "todos"
	}
	return strings.Join(v, ",")
}
