package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"powergest/controllers"
	"powergest/middleware"
	"powergest/services"
	"powergest/utils"
)

// CORS allows the given origins; "*" allows any origin.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func InitializeRoutes(router *gin.Engine, h *controllers.Handler, tokens *utils.TokenManager) {
	router.GET("/healthz", controllers.Health)

	router.POST("/api/auth", h.CheckPassword)
	router.POST("/api/login", h.Login)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(tokens, services.AdminRole))
	{
		api.GET("/compras", h.ListCompras)
		api.POST("/compras", h.CreateCompra)
		api.PUT("/compras", h.UpdateCompra)
		api.DELETE("/compras", h.DeleteCompra)

		api.GET("/ventas", h.ListVentas)
		api.POST("/ventas", h.CreateVenta)
		api.PUT("/ventas", h.UpdateVenta)
		api.DELETE("/ventas", h.DeleteVenta)

		api.GET("/stock", h.ListStock)
		api.GET("/stock/historial", h.StockHistory)
		api.POST("/stock/reconcile", h.ReconcileStock)
		api.GET("/productos", h.ListProductos)

		api.GET("/dashboard", h.DashboardSummary)
		api.GET("/dashboard/stats", h.DashboardStats)
		api.GET("/dashboard/charts", h.DashboardCharts)

		api.GET("/export", h.Export)
	}
}
