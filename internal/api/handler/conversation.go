package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type startConversationRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

// StartConversation opens a conversation with another user, or returns the
// existing one (200) when the pair already has one.
func (h *Handler) StartConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participant_id is required"})
		return
	}

	conv, created, err := h.Conversations.Start(currentUserID(c), req.ParticipantID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, conv)
}

func (h *Handler) ListConversations(c *gin.Context) {
	convs, err := h.Conversations.List(currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

func (h *Handler) GetConversation(c *gin.Context) {
	conv, err := h.Conversations.Get(currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// GetParticipants resolves both users of a conversation.
func (h *Handler) GetParticipants(c *gin.Context) {
	participants, err := h.Conversations.Participants(currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	if err := h.Conversations.Delete(currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
