package services

import (
	"context"
	"fmt"
	"strings"

	"powergest/repository"
)

// Mailer delivers plain text email.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// DailyReport mails the day's figures and the lines that ran out of stock.
type DailyReport struct {
	dashboard *Dashboard
	stock     repository.StockRepository
	mailer    Mailer
	to        []string
}

func NewDailyReport(d *Dashboard, stock repository.StockRepository, m Mailer, to []string) *DailyReport {
	return &DailyReport{dashboard: d, stock: stock, mailer: m, to: to}
}

func (r *DailyReport) Build(ctx context.Context) (subject, body string, err error) {
	stats, err := r.dashboard.Stats(ctx)
	if err != nil {
		return "", "", err
	}
	rows, err := r.stock.List(ctx)
	if err != nil {
		return "", "", fmt.Errorf("list stock: %w", err)
	}

	day := r.dashboard.today()
	subject = "Resumen diario " + day.Format(dateLayout)

	var b strings.Builder
	fmt.Fprintf(&b, "Ventas de hoy: %.2f\n", stats.VentasHoy)
	fmt.Fprintf(&b, "Ventas de la semana: %.2f (%+d%%)\n", stats.VentasSemana, stats.IngresosPercentChange)
	fmt.Fprintf(&b, "Ingresos totales: %.2f\n", stats.TotalIngresos)
	fmt.Fprintf(&b, "Compras totales: %.2f\n", stats.TotalCompras)
	fmt.Fprintf(&b, "Ganancia neta: %.2f\n", stats.GananciaNet)
	fmt.Fprintf(&b, "Unidades en stock: %d\n", stats.StockDisponible)

	var agotados []string
	for _, s := range rows {
		if s.CantidadTotal <= 0 {
			agotados = append(agotados, fmt.Sprintf("  - %s (%s): %d", s.Producto, s.Proveedor, s.CantidadTotal))
		}
	}
	if len(agotados) > 0 {
		b.WriteString("\nSin stock:\n")
		b.WriteString(strings.Join(agotados, "\n"))
		b.WriteString("\n")
	}
	return subject, b.String(), nil
}

func (r *DailyReport) Send(ctx context.Context) error {
	if len(r.to) == 0 {
		return nil
	}
	subject, body, err := r.Build(ctx)
	if err != nil {
		return err
	}
	return r.mailer.Send(r.to, subject, body)
}
