package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Welcome serves the static greeting at GET /.
func (h *Handler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, WelcomeMessage)
}
