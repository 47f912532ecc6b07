package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"powergest/models"
)

func (h *Handler) ListVentas(c *gin.Context) {
	ventas, err := h.Inventory.ListVentas(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, ventas)
}

func (h *Handler) CreateVenta(c *gin.Context) {
	var input models.VentaInput
	if !bindJSON(c, &input) {
		return
	}

	venta, err := h.Inventory.CreateVenta(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, venta)
}

func (h *Handler) UpdateVenta(c *gin.Context) {
	var input models.VentaPatch
	if !bindJSON(c, &input) {
		return
	}
	if input.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID is required"})
		return
	}

	venta, err := h.Inventory.UpdateVenta(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Venta not found")
		return
	}
	c.JSON(http.StatusOK, venta)
}

func (h *Handler) DeleteVenta(c *gin.Context) {
	id, ok := requireID(c)
	if !ok {
		return
	}

	if err := h.Inventory.DeleteVenta(c.Request.Context(), id); err != nil {
		respondError(c, err, "Venta not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Venta deleted"})
}
