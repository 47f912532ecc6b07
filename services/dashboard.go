package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"powergest/cache"
	"powergest/models"
	"powergest/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const (
	ChartSales          = "sales"
	ChartTopProducts    = "top-products"
	ChartTopBrands      = "top-brands"
	ChartPaymentMethods = "payment-methods"
	ChartClients        = "clients"
	ChartProviders      = "providers"
)

const sinMarca = "Sin marca"

var monthNames = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

var brandColors = map[string]string{
	"ENA":           "hsl(217, 91%, 60%)",
	"Star":          "hsl(142, 71%, 45%)",
	"Body Advance":  "hsl(0, 84%, 60%)",
	"Gentech":       "hsl(217, 71%, 35%)",
	"GoldNutrition": "hsl(45, 93%, 47%)",
	"Growsbar":      "hsl(0, 0%, 45%)",
	sinMarca:        "hsl(0, 0%, 83%)",
}

const defaultBrandColor = "hsl(0, 0%, 50%)"

var paymentLabels = map[string]string{
	models.MetodoEfectivo:      "Efectivo",
	models.MetodoTransferencia: "Transferencia",
	models.MetodoTarjeta:       "Tarjeta",
	models.MetodoMercadoPago:   "Mercado Pago",
}

var (
	paymentColors = []string{"hsl(0, 0%, 90%)", "hsl(0, 0%, 70%)", "hsl(0, 0%, 50%)", "hsl(0, 0%, 30%)"}
	clientColors  = []string{"hsl(0, 0%, 85%)", "hsl(0, 0%, 65%)", "hsl(0, 0%, 45%)", "hsl(0, 0%, 25%)"}
)

// Dashboard computes the aggregate figures of the admin home page. Results
// are cached until the next mutation or the TTL, whichever comes first.
type Dashboard struct {
	store repository.Store
	cache cache.Cache
	ttl   time.Duration
	loc   *time.Location
	now   func() time.Time
	// gen counts mutations; a result computed across a change is not cached.
	gen atomic.Uint64
}

func NewDashboard(store repository.Store, c cache.Cache, ttl time.Duration, loc *time.Location) *Dashboard {
	if c == nil {
		c = cache.NewMemory()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Dashboard{store: store, cache: c, ttl: ttl, loc: loc, now: time.Now}
}

// OnChange drops cached results; every mutation can move every figure.
func (d *Dashboard) OnChange(ctx context.Context, _ Change) {
	d.gen.Add(1)
	if err := d.cache.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("dashboard cache flush failed")
	}
}

func (d *Dashboard) today() time.Time {
	n := d.now().In(d.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, d.loc)
}

func cached[T any](ctx context.Context, d *Dashboard, key string, compute func() (T, error)) (T, error) {
	var out T
	if ok, err := d.cache.Get(ctx, key, &out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
	} else if ok {
		return out, nil
	}

	gen := d.gen.Load()
	out, err := compute()
	if err != nil {
		return out, err
	}
	if d.gen.Load() != gen {
		return out, nil
	}
	if err := d.cache.Set(ctx, key, out, d.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
	}
	// A flush may have slipped in between the check and the write.
	if d.gen.Load() != gen {
		if err := d.cache.Flush(ctx); err != nil {
			log.Error().Err(err).Msg("dashboard cache flush failed")
		}
	}
	return out, nil
}

type snapshot struct {
	ventas  []models.Venta
	compras []models.Compra
	stock   []models.Stock
}

func (d *Dashboard) load(ctx context.Context) (*snapshot, error) {
	var s snapshot
	var err error
	if s.ventas, err = d.store.Ventas.List(ctx); err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	if s.compras, err = d.store.Compras.List(ctx); err != nil {
		return nil, fmt.Errorf("list compras: %w", err)
	}
	if s.stock, err = d.store.Stock.List(ctx); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return &s, nil
}

func (d *Dashboard) Stats(ctx context.Context) (models.DashboardStats, error) {
	today := d.today()
	return cached(ctx, d, "stats:"+today.Format(dateLayout), func() (models.DashboardStats, error) {
		s, err := d.load(ctx)
		if err != nil {
			return models.DashboardStats{}, err
		}
		return computeStats(s, today), nil
	})
}

// Chart returns the series of one chart type.
func (d *Dashboard) Chart(ctx context.Context, chartType string) (any, error) {
	switch chartType {
	case ChartSales:
		return cached(ctx, d, "charts:"+chartType, func() ([]models.SalesPoint, error) {
			s, err := d.load(ctx)
			if err != nil {
				return nil, err
			}
			return salesChart(s.ventas, s.compras), nil
		})
	case ChartTopProducts, ChartTopBrands, ChartPaymentMethods, ChartClients, ChartProviders:
		return cached(ctx, d, "charts:"+chartType, func() ([]models.ChartPoint, error) {
			s, err := d.load(ctx)
			if err != nil {
				return nil, err
			}
			return pointChart(chartType, s), nil
		})
	default:
		return nil, ErrUnknownChart
	}
}

// Summary bundles the stats with the four charts of the home page.
func (d *Dashboard) Summary(ctx context.Context) (models.DashboardSummary, error) {
	today := d.today()
	return cached(ctx, d, "summary:"+today.Format(dateLayout), func() (models.DashboardSummary, error) {
		s, err := d.load(ctx)
		if err != nil {
			return models.DashboardSummary{}, err
		}
		return models.DashboardSummary{
			Stats: computeStats(s, today),
			Charts: models.DashboardCharts{
				SalesData:      salesChart(s.ventas, s.compras),
				TopProducts:    pointChart(ChartTopProducts, s),
				PaymentMethods: pointChart(ChartPaymentMethods, s),
				Providers:      pointChart(ChartProviders, s),
			},
		}, nil
	})
}

func ventaTotal(v models.Venta) decimal.Decimal {
	return decimal.NewFromFloat(v.PrecioUnitarioVenta).Mul(decimal.NewFromInt(int64(v.Cantidad)))
}

func compraTotal(c models.Compra) decimal.Decimal {
	return decimal.NewFromFloat(c.PrecioUnitarioCompra).Mul(decimal.NewFromInt(int64(c.Cantidad)))
}

// percentChange compares cur with prev, returning 0 when prev is not positive.
func percentChange(cur, prev decimal.Decimal) int {
	if !prev.IsPositive() {
		return 0
	}
	return int(cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// computeStats works on fecha strings (YYYY-MM-DD), which sort like dates.
// "This week" is the last seven days including today; it is compared with
// the seven days before it.
func computeStats(s *snapshot, today time.Time) models.DashboardStats {
	todayStr := today.Format(dateLayout)
	weekAgo := today.AddDate(0, 0, -7).Format(dateLayout)
	twoWeeksAgo := today.AddDate(0, 0, -14).Format(dateLayout)

	var ingresos, hoy, semana, semanaPrev decimal.Decimal
	for _, v := range s.ventas {
		t := ventaTotal(v)
		ingresos = ingresos.Add(t)
		switch {
		case v.Fecha == todayStr:
			hoy = hoy.Add(t)
			semana = semana.Add(t)
		case v.Fecha >= weekAgo:
			semana = semana.Add(t)
		case v.Fecha >= twoWeeksAgo:
			semanaPrev = semanaPrev.Add(t)
		}
	}

	var egresos, comprasSemana, comprasPrev decimal.Decimal
	for _, c := range s.compras {
		t := compraTotal(c)
		egresos = egresos.Add(t)
		switch {
		case c.Fecha >= weekAgo:
			comprasSemana = comprasSemana.Add(t)
		case c.Fecha >= twoWeeksAgo:
			comprasPrev = comprasPrev.Add(t)
		}
	}

	disponible := 0
	for _, st := range s.stock {
		if st.CantidadTotal > 0 {
			disponible += st.CantidadTotal
		}
	}

	return models.DashboardStats{
		TotalIngresos:         ingresos.InexactFloat64(),
		TotalCompras:          egresos.InexactFloat64(),
		GananciaNet:           ingresos.Sub(egresos).InexactFloat64(),
		StockDisponible:       disponible,
		VentasHoy:             hoy.InexactFloat64(),
		VentasSemana:          semana.InexactFloat64(),
		IngresosPercentChange: percentChange(semana, semanaPrev),
		GananciaPercentChange: percentChange(semana.Sub(comprasSemana), semanaPrev.Sub(comprasPrev)),
	}
}

// salesChart sums ventas and compras per calendar month and keeps the last
// six months that have any movement.
func salesChart(ventas []models.Venta, compras []models.Compra) []models.SalesPoint {
	type month struct{ ventas, compras decimal.Decimal }
	byMonth := make(map[string]*month)
	get := func(fecha string) *month {
		if len(fecha) < 7 {
			return nil
		}
		key := fecha[:7]
		m, ok := byMonth[key]
		if !ok {
			m = &month{}
			byMonth[key] = m
		}
		return m
	}
	for _, v := range ventas {
		if m := get(v.Fecha); m != nil {
			m.ventas = m.ventas.Add(ventaTotal(v))
		}
	}
	for _, c := range compras {
		if m := get(c.Fecha); m != nil {
			m.compras = m.compras.Add(compraTotal(c))
		}
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 6 {
		keys = keys[len(keys)-6:]
	}

	out := make([]models.SalesPoint, 0, len(keys))
	for _, k := range keys {
		n, err := strconv.Atoi(k[5:7])
		if err != nil || n < 1 || n > 12 {
			continue
		}
		m := byMonth[k]
		out = append(out, models.SalesPoint{
			Name:    monthNames[n-1],
			Ventas:  m.ventas.Round(0).InexactFloat64(),
			Compras: m.compras.Round(0).InexactFloat64(),
		})
	}
	return out
}

type ranked struct {
	name  string
	value decimal.Decimal
}

// rank sorts totals by value descending, then by name, and keeps the first
// limit entries (all when limit <= 0).
func rank(totals map[string]decimal.Decimal, limit int) []ranked {
	out := make([]ranked, 0, len(totals))
	for name, v := range totals {
		out = append(out, ranked{name: name, value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].value.Cmp(out[j].value); c != 0 {
			return c > 0
		}
		return out[i].name < out[j].name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func add(totals map[string]decimal.Decimal, name string, v decimal.Decimal) {
	totals[name] = totals[name].Add(v)
}

func pointChart(chartType string, s *snapshot) []models.ChartPoint {
	totals := make(map[string]decimal.Decimal)
	limit := 0
	switch chartType {
	case ChartTopProducts:
		limit = 5
		for _, v := range s.ventas {
			add(totals, v.Producto, decimal.NewFromInt(int64(v.Cantidad)))
		}
	case ChartProviders:
		limit = 4
		for _, v := range s.ventas {
			add(totals, v.Proveedor, decimal.NewFromInt(int64(v.Cantidad)))
		}
	case ChartTopBrands:
		marcas := latestMarcas(s.compras)
		for _, v := range s.ventas {
			marca := marcas[v.Key()]
			if marca == "" {
				marca = sinMarca
			}
			add(totals, marca, decimal.NewFromInt(int64(v.Cantidad)))
		}
	case ChartPaymentMethods:
		for _, v := range s.ventas {
			add(totals, v.MetodoPago, ventaTotal(v))
		}
	case ChartClients:
		limit = 5
		for _, v := range s.ventas {
			add(totals, v.Cliente, ventaTotal(v))
		}
	}

	out := make([]models.ChartPoint, 0, len(totals))
	for i, r := range rank(totals, limit) {
		p := models.ChartPoint{Name: r.name, Value: r.value.Round(0).InexactFloat64()}
		switch chartType {
		case ChartTopBrands:
			p.Fill = defaultBrandColor
			if c, ok := brandColors[r.name]; ok {
				p.Fill = c
			}
		case ChartPaymentMethods:
			if label, ok := paymentLabels[r.name]; ok {
				p.Name = label
			}
			p.Fill = paymentColors[i%len(paymentColors)]
		case ChartClients:
			p.Fill = clientColors[i%len(clientColors)]
		}
		out = append(out, p)
	}
	return out
}
