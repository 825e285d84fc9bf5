package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quickdesk/quickdesk/internal/chat"
	"github.com/quickdesk/quickdesk/internal/common"
	"gorm.io/gorm"
)

type sendMessageReq struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

// SendMessage handles POST /api/chat.
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	reply, convID, err := h.ChatSvc.SendMessage(c.Request.Context(), req.Message, req.ConversationID)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			common.Fail(c, http.StatusBadRequest, "message is required")
		case errors.Is(err, gorm.ErrRecordNotFound):
			common.Fail(c, http.StatusNotFound, "Conversation not found")
		default:
			log.Printf("[chat] send failed: %v", err)
			common.Fail(c, http.StatusInternalServerError, "Error processing message")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        reply,
		"conversationId": convID,
	})
}

// ListConversations handles GET /api/chat.
func (h *Handler) ListConversations(c *gin.Context) {
	convs, err := h.ChatSvc.ListConversations(c.Request.Context())
	if err != nil {
		log.Printf("[chat] list failed: %v", err)
		common.Fail(c, http.StatusInternalServerError, "Error fetching conversations")
		return
	}
	if convs == nil {
		convs = []chat.Conversation{}
	}
	c.JSON(http.StatusOK, convs)
}

// GetConversation handles GET /api/chat/:id.
func (h *Handler) GetConversation(c *gin.Context) {
	conv, err := h.ChatSvc.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Conversation not found")
			return
		}
		log.Printf("[chat] get failed: %v", err)
		common.Fail(c, http.StatusInternalServerError, "Error fetching conversation")
		return
	}
	c.JSON(http.StatusOK, conv)
}

// DeleteConversation handles DELETE /api/chat/:id.
func (h *Handler) DeleteConversation(c *gin.Context) {
	err := h.ChatSvc.DeleteConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Conversation not found")
			return
		}
		log.Printf("[chat] delete failed: %v", err)
		common.Fail(c, http.StatusInternalServerError, "Error deleting conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}

// SendMessageAsync handles POST /api/chat/async: the send is persisted as a
// queued job and executed by the worker.
func (h *Handler) SendMessageAsync(c *gin.Context) {
	if h.Rabbit == nil {
		common.Fail(c, http.StatusServiceUnavailable, "async sends are not enabled")
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	job, err := h.ChatSvc.EnqueueJob(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			common.Fail(c, http.StatusBadRequest, "message is required")
			return
		}
		log.Printf("[chat] enqueue failed: %v", err)
		common.Fail(c, http.StatusInternalServerError, "Error processing message")
		return
	}

	if err := h.Rabbit.PublishJob(c.Request.Context(), job.ID); err != nil {
		log.Printf("[chat] publish job %s failed: %v", job.ID, err)
		common.Fail(c, http.StatusInternalServerError, "Error queueing message")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"jobId": job.ID})
}

// GetJob handles GET /api/chat/jobs/:id.
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.ChatSvc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, "Job not found")
			return
		}
		log.Printf("[chat] get job failed: %v", err)
		common.Fail(c, http.StatusInternalServerError, "Error fetching job")
		return
	}
	c.JSON(http.StatusOK, job)
}
