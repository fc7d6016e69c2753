package ws

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/symptomai/symptomai-be/internal/api/middleware"
	"github.com/symptomai/symptomai-be/internal/db"
	"github.com/symptomai/symptomai-be/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// ChatHandler handles WebSocket chat connections. Each incoming message is
// run through the matching engine and both sides of the exchange are
// persisted to the conversation.
type ChatHandler struct {
	engine    *engine.Engine
	db        *db.DB
	jwtSecret string
}

// NewChatHandler creates a new chat handler
func NewChatHandler(eng *engine.Engine, database *db.DB, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		engine:    eng,
		db:        database,
		jwtSecret: jwtSecret,
	}
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Content        string `json:"content"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// OutgoingMessage represents a message to the client
type OutgoingMessage struct {
	Type    string         `json:"type"` // "message" or "error"
	Content string         `json:"content,omitempty"`
	Result  *engine.Result `json:"result,omitempty"`
}

// HandleChat handles WebSocket chat connections
// GET /ws/chat?token=...
func (h *ChatHandler) HandleChat(c *gin.Context) {
	// Validate JWT from query parameter or header
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
	}

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	claims, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	userID := claims.UserID
	log.Printf("WebSocket connected: user=%s", userID)

	limiter := middleware.NewWebSocketLimiter(30) // 30 messages/minute

	for {
		var msg IncomingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if !limiter.Allow() {
			h.send(conn, OutgoingMessage{Type: "error", Content: "You're sending messages too quickly. Please slow down."})
			continue
		}

		if err := h.processMessage(c.Request.Context(), conn, userID, msg); err != nil {
			log.Printf("Error processing message: %v", err)
			h.send(conn, OutgoingMessage{Type: "error", Content: "Failed to process message"})
		}
	}
}

// processMessage analyzes a single chat message and persists the exchange
// when it belongs to a conversation.
func (h *ChatHandler) processMessage(ctx context.Context, conn *websocket.Conn, userID string, msg IncomingMessage) error {
	if msg.ConversationID != "" {
		if err := h.checkOwnership(ctx, msg.ConversationID, userID); err != nil {
			h.send(conn, OutgoingMessage{Type: "error", Content: "Conversation not found"})
			return nil
		}
		if _, err := h.db.AddMessage(ctx, msg.ConversationID, userID, "user", msg.Content); err != nil {
			return err
		}
	}

	result := h.engine.Analyze(msg.Content)

	if msg.ConversationID != "" {
		if _, err := h.db.AddMessage(ctx, msg.ConversationID, userID, "ai", result.Message); err != nil {
			return err
		}
	}

	return h.send(conn, OutgoingMessage{
		Type:    "message",
		Content: result.Message,
		Result:  &result,
	})
}

func (h *ChatHandler) checkOwnership(ctx context.Context, conversationID, userID string) error {
	conv, err := h.db.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv == nil || conv.UserID != userID {
		return db.ErrNotFound
	}
	return nil
}

func (h *ChatHandler) send(conn *websocket.Conn, msg OutgoingMessage) error {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("WebSocket write error: %v", err)
		return err
	}
	return nil
}
