// Package api wires the HTTP routes of the service.
package api

import (
	"strife/backend/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *handler.Handler) *gin.Engine {
	r := gin.Default()

	r.GET("/", h.Welcome)
	r.POST("/users", h.Register)

	authed := r.Group("/", h.RequireAuth())
	authed.GET("/users/:id", h.GetUser)
	authed.GET("/ws", h.ServeWebSocket)

	conversations := authed.Group("/conversations")
	conversations.POST("", h.StartConversation)
	conversations.GET("", h.ListConversations)
	conversations.GET("/:id", h.GetConversation)
	conversations.GET("/:id/participants", h.GetParticipants)
	conversations.DELETE("/:id", h.DeleteConversation)

	return r
}
