package handler

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"strife/backend/internal/auth"
	"strife/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// userIDKey is the gin context key holding the authenticated user ID.
const userIDKey = "user_id"

// maxUsernameLength matches the users.username column size.
const maxUsernameLength = 64

type registerRequest struct {
	Username string `json:"username"`
}

// Register creates a user and returns it with a signed token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("username must be at most %d characters", maxUsernameLength),
		})
		return
	}

	user := &models.User{Username: username}
	if err := h.Users.SaveUser(user); err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user ID in the context. The token may also be passed as the
// "token" query parameter, which browsers need for websocket upgrades.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		userID, err := h.Tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
