package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"powergest/models"
)

func (h *Handler) ListCompras(c *gin.Context) {
	compras, err := h.Inventory.ListCompras(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, compras)
}

func (h *Handler) CreateCompra(c *gin.Context) {
	var input models.CompraInput
	if !bindJSON(c, &input) {
		return
	}

	compra, err := h.Inventory.CreateCompra(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, compra)
}

func (h *Handler) UpdateCompra(c *gin.Context) {
	var input models.CompraPatch
	if !bindJSON(c, &input) {
		return
	}
	if input.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID is required"})
		return
	}

	compra, err := h.Inventory.UpdateCompra(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Compra not found")
		return
	}
	c.JSON(http.StatusOK, compra)
}

func (h *Handler) DeleteCompra(c *gin.Context) {
	id, ok := requireID(c)
	if !ok {
		return
	}

	if err := h.Inventory.DeleteCompra(c.Request.Context(), id); err != nil {
		respondError(c, err, "Compra not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Compra deleted"})
}
