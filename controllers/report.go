package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"powergest/models"
)

// StockHistory returns the movement table of one producto/proveedor.
func (h *Handler) StockHistory(c *gin.Context) {
	key := models.StockKey{Producto: c.Query("producto"), Proveedor: c.Query("proveedor")}

	historial, err := h.Inventory.History(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, historial)
}
