package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DashboardSummary(c *gin.Context) {
	summary, err := h.Dashboard.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) DashboardCharts(c *gin.Context) {
	data, err := h.Dashboard.Chart(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, data)
}
