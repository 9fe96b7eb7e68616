package handler

import (
	"errors"
	"net/http"

	"strife/backend/internal/apperror"
	"strife/backend/internal/conversation"
	"strife/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// respondError translates a service error into a status code and JSON body.
// Application errors report only their own message, never the wrapping
// context. Unexpected errors are logged and reported without detail.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrUnauthorizedAction):
		c.JSON(http.StatusForbidden, gin.H{"error": appMessage(err)})
	case errors.Is(err, apperror.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": appMessage(err)})
	case errors.Is(err, conversation.ErrSelfConversation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func appMessage(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.GetMessage()
	}
	return err.Error()
}
