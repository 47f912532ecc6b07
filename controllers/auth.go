package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type passwordRequest struct {
	Password string `json:"password"`
}

// CheckPassword answers {valid, token} for the panel password.
func (h *Handler) CheckPassword(c *gin.Context) {
	var input passwordRequest
	if !bindJSON(c, &input) {
		return
	}

	valid, token, err := h.Auth.Login(c.Request.Context(), input.Password)
	if err != nil {
		respondError(c, err, "")
		return
	}

	resp := gin.H{"valid": valid}
	if valid {
		resp["token"] = token
	}
	c.JSON(http.StatusOK, resp)
}

// Login is the {success, token} variant used by the login page.
func (h *Handler) Login(c *gin.Context) {
	var input passwordRequest
	if !bindJSON(c, &input) {
		return
	}

	valid, token, err := h.Auth.Login(c.Request.Context(), input.Password)
	if err != nil {
		respondError(c, err, "")
		return
	}
	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Contraseña incorrecta"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}
