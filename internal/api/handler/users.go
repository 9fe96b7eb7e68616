package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUser returns a user by ID.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.Users.GetUserByID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
