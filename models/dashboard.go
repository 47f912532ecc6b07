package models

type DashboardStats struct {
	TotalIngresos         float64 `json:"totalIngresos"`
	TotalCompras          float64 `json:"totalCompras"`
	GananciaNet           float64 `json:"gananciaNet"`
	StockDisponible       int     `json:"stockDisponible"`
	VentasHoy             float64 `json:"ventasHoy"`
	VentasSemana          float64 `json:"ventasSemana"`
	IngresosPercentChange int     `json:"ingresosPercentChange"`
	GananciaPercentChange int     `json:"gananciaPercentChange"`
}

type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Fill  string  `json:"fill,omitempty"`
}

type SalesPoint struct {
	Name    string  `json:"name"`
	Ventas  float64 `json:"ventas"`
	Compras float64 `json:"compras"`
}

type DashboardCharts struct {
	SalesData      []SalesPoint `json:"salesData"`
	TopProducts    []ChartPoint `json:"topProducts"`
	PaymentMethods []ChartPoint `json:"paymentMethods"`
	Providers      []ChartPoint `json:"providers"`
}

type DashboardSummary struct {
	Stats  DashboardStats  `json:"stats"`
	Charts DashboardCharts `json:"charts"`
}
