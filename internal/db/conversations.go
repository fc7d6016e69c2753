package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateConversation creates a new conversation for a user
func (db *DB) CreateConversation(ctx context.Context, userID, title string) (*Conversation, error) {
	query := `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, last_message, created_at, updated_at
	`

	row := db.QueryRowContext(ctx, query, userID, title)

	var c Conversation
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.LastMessage, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return &c, nil
}

// GetConversations retrieves a paginated list of conversations for a user,
// most recently updated first
func (db *DB) GetConversations(ctx context.Context, userID string, limit, offset int) ([]Conversation, error) {
	query := `
		SELECT id, user_id, title, last_message, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.LastMessage, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}

// GetConversation retrieves a specific conversation by ID
func (db *DB) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	query := `
		SELECT id, user_id, title, last_message, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	row := db.QueryRowContext(ctx, query, id)

	var c Conversation
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.LastMessage, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &c, nil
}

// DeleteConversation deletes a conversation and its messages (via cascade)
func (db *DB) DeleteConversation(ctx context.Context, id string) error {
	query := "DELETE FROM conversations WHERE id = $1"

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// AddMessage appends a message to a conversation and updates the
// conversation's last_message in the same transaction
func (db *DB) AddMessage(ctx context.Context, conversationID, userID, sender, content string) (*Message, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO messages (user_id, conversation_id, sender, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, conversation_id, sender, content, created_at
	`

	msg := &Message{}
	err = tx.QueryRowContext(ctx, insert, userID, conversationID, sender, content).Scan(
		&msg.ID, &msg.UserID, &msg.ConversationID, &msg.Sender, &msg.Content, &msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	update := `
		UPDATE conversations
		SET last_message = $1, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, update, content, conversationID); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}

	return msg, nil
}

// GetMessagesByConversation retrieves messages for a specific conversation
// in chronological order
func (db *DB) GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]Message, error) {
	query := `
		SELECT id, user_id, conversation_id, sender, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.QueryContext(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.ConversationID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, nil
}
