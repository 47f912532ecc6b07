package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"powergest/services"
)

// Export downloads compras, ventas and stock as one xlsx workbook.
func (h *Handler) Export(c *gin.Context) {
	buf, err := h.Exporter.Workbook(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}

	filename := fmt.Sprintf("powergest-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, services.XLSXContentType, buf.Bytes())
}
