package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"powergest/middleware"
	"powergest/services"
)

// Handler serves the /api routes.
type Handler struct {
	Inventory *services.Inventory
	Dashboard *services.Dashboard
	Auth      *services.Auth
	Exporter  *services.Exporter
}

// respondError maps service errors to a status and {"error": msg}.
// notFound is the message used for a missing record.
func respondError(c *gin.Context, err error, notFound string) {
	var insufficient *services.InsufficientStockError
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, services.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
	case errors.As(err, &insufficient),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrNoStock),
		errors.Is(err, services.ErrCompraHasVentas),
		errors.Is(err, services.ErrCompraBacksVentas),
		errors.Is(err, services.ErrUnknownChart),
		errors.Is(err, services.ErrPasswordRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPasswordNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindJSON decodes the body into dst, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// requireID reads the id query parameter used by DELETE routes.
func requireID(c *gin.Context) (string, bool) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID is required"})
		return "", false
	}
	return id, true
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
