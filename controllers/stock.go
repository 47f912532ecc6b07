package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (h *Handler) ListStock(c *gin.Context) {
	items, err := h.Inventory.ListStock(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) ListProductos(c *gin.Context) {
	productos, err := h.Inventory.ListProductos(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, productos)
}

// ReconcileStock rebuilds the stock rows on demand.
func (h *Handler) ReconcileStock(c *gin.Context) {
	res, err := h.Inventory.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	log.Info().Int("checked", res.Checked).Int("corrected", res.Corrected).
		Int("removed", res.Removed).Msg("manual stock reconcile")
	c.JSON(http.StatusOK, res)
}
