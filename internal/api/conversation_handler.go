package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/symptomai/symptomai-be/internal/db"
)

type ConversationHandler struct {
	db *db.DB
}

func NewConversationHandler(database *db.DB) *ConversationHandler {
	return &ConversationHandler{db: database}
}

func (h *ConversationHandler) RegisterRoutes(r *gin.RouterGroup) {
	conversations := r.Group("/conversations")
	conversations.GET("", h.ListConversations)
	conversations.POST("", h.CreateConversation)
	conversations.GET("/:id", h.GetConversation)
	conversations.DELETE("/:id", h.DeleteConversation)
	conversations.GET("/:id/messages", h.GetMessages)
	conversations.POST("/:id/messages", h.AddMessage)
}

func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	limit := queryInt(c, "limit", 20, 100)
	offset := queryInt(c, "offset", 0, 1<<30)

	conversations, err := h.db.GetConversations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("Failed to get conversations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversations"})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var req struct {
		Title string `json:"title"`
	}
	// Body is optional; an absent or empty title gets a default.
	_ = c.ShouldBindJSON(&req)
	if req.Title == "" {
		req.Title = "New Conversation"
	}

	conversation, err := h.db.CreateConversation(c.Request.Context(), userID, req.Title)
	if err != nil {
		log.Printf("Failed to create conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	if err := h.db.DeleteConversation(c.Request.Context(), conv.ID); err != nil {
		log.Printf("Failed to delete conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}

// AddMessage appends a message to a conversation. Sender defaults to
// "user"; the assistant's replies are stored with sender "ai".
func (h *ConversationHandler) AddMessage(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
		Sender  string `json:"sender"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content field is required"})
		return
	}
	if req.Sender != "ai" {
		req.Sender = "user"
	}

	userID := c.MustGet("user_id").(string)
	message, err := h.db.AddMessage(c.Request.Context(), conv.ID, userID, req.Sender, req.Content)
	if err != nil {
		log.Printf("Failed to add message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *ConversationHandler) GetMessages(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	limit := queryInt(c, "limit", 50, 100)
	offset := queryInt(c, "offset", 0, 1<<30)

	messages, err := h.db.GetMessagesByConversation(c.Request.Context(), conv.ID, limit, offset)
	if err != nil {
		log.Printf("Failed to get messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// ownedConversation loads the :id conversation and verifies it belongs to
// the authenticated user. Missing and foreign conversations both report
// not-found to avoid leaking existence.
func (h *ConversationHandler) ownedConversation(c *gin.Context) (*db.Conversation, bool) {
	userID := c.MustGet("user_id").(string)
	id := c.Param("id")

	conv, err := h.db.GetConversation(c.Request.Context(), id)
	if err != nil {
		log.Printf("Failed to get conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	if conv == nil || conv.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return nil, false
	}
	return conv, true
}

func queryInt(c *gin.Context, name string, def, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > max {
		return def
	}
	return v
}
