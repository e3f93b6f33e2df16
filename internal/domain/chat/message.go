package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewMessage carries the caller-supplied fields for MessageService.Create.
type NewMessage struct {
	SessionID     string
	Content       string
	Role          string
	Model         *string
	TokenCount    *int
	ContentType   string
	ImageMetadata *ImageMetadata
}

// MessageService manages the messages of a session.
type MessageService struct {
	db *sql.DB
}

// NewMessageService creates a new message service.
func NewMessageService(db *sql.DB) *MessageService {
	return &MessageService{db: db}
}

// Create persists a message and bumps the parent session's updated_at in the
// same transaction. When the message carries a model, the session's
// model_used is updated too; a nil model preserves the previous value.
func (m *MessageService) Create(ctx context.Context, in NewMessage) (*Message, error) {
	if in.Role != RoleUser && in.Role != RoleAssistant {
		return nil, fmt.Errorf("invalid role %q: must be %q or %q", in.Role, RoleUser, RoleAssistant)
	}
	if in.ContentType == "" {
		in.ContentType = ContentTypeText
	}
	if in.TokenCount == nil {
		zero := 0
		in.TokenCount = &zero
	}

	msg := &Message{
		ID:            uuid.New().String(),
		SessionID:     in.SessionID,
		Content:       in.Content,
		Role:          in.Role,
		Model:         in.Model,
		Timestamp:     now(),
		TokenCount:    in.TokenCount,
		ContentType:   in.ContentType,
		ImageMetadata: in.ImageMetadata,
	}

	var metadataJSON *string
	if in.ImageMetadata != nil {
		raw, err := json.Marshal(in.ImageMetadata)
		if err != nil {
			return nil, fmt.Errorf("marshal image metadata: %w", err)
		}
		s := string(raw)
		metadataJSON = &s
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create message: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, content, role, model, timestamp, token_count, content_type, image_metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Content, msg.Role, msg.Model, msg.Timestamp, msg.TokenCount, msg.ContentType, metadataJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ?, model_used = COALESCE(?, model_used) WHERE id = ?`,
		msg.Timestamp, msg.Model, msg.SessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create message: %w", err)
	}
	return msg, nil
}

// Get returns a single message. Returns sql.ErrNoRows when it does not exist.
func (m *MessageService) Get(ctx context.Context, id string) (*Message, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, session_id, content, role, model, timestamp, token_count, content_type, image_metadata
		FROM messages WHERE id = ?`, id)
	return scanMessage(row)
}

// ListBySession returns a session's messages in chronological order.
// limit <= 0 returns them all.
func (m *MessageService) ListBySession(ctx context.Context, sessionID string, limit int) ([]*Message, error) {
	query := `
		SELECT id, session_id, content, role, model, timestamp, token_count, content_type, image_metadata
		FROM messages
		WHERE session_id = ?
		ORDER BY timestamp ASC`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []*Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// UpdateContent replaces a message's text. This touches the stored row only;
// it never re-sends anything upstream. Returns false when the message does
// not exist.
func (m *MessageService) UpdateContent(ctx context.Context, id, content string) (bool, error) {
	res, err := m.db.ExecContext(ctx, `UPDATE messages SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return false, fmt.Errorf("update message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a single message. Returns false when it does not exist.
func (m *MessageService) Delete(ctx context.Context, id string) (bool, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*Message, error) {
	var (
		msg          Message
		contentType  sql.NullString
		metadataJSON sql.NullString
	)
	err := row.Scan(&msg.ID, &msg.SessionID, &msg.Content, &msg.Role, &msg.Model,
		&msg.Timestamp, &msg.TokenCount, &contentType, &metadataJSON)
	if err != nil {
		return nil, err
	}
	msg.ContentType = ContentTypeText
	if contentType.Valid && contentType.String != "" {
		msg.ContentType = contentType.String
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		var meta ImageMetadata
		if err := json.Unmarshal([]byte(metadataJSON.String), &meta); err != nil {
			return nil, fmt.Errorf("unmarshal image metadata: %w", err)
		}
		msg.ImageMetadata = &meta
	}
	return &msg, nil
}
