package chat

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SessionService manages conversation sessions.
type SessionService struct {
	db *sql.DB
}

// NewSessionService creates a new session service.
func NewSessionService(db *sql.DB) *SessionService {
	return &SessionService{db: db}
}

// Create inserts a new session. An empty title defaults to "New Chat";
// modelUsed may be nil and stays nil until the first assistant reply.
func (s *SessionService) Create(ctx context.Context, title string, modelUsed *string) (*Session, error) {
	if title == "" {
		title = "New Chat"
	}
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now(),
		UpdatedAt: now(),
		Title:     title,
		ModelUsed: modelUsed,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, updated_at, title, model_used) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.CreatedAt, sess.UpdatedAt, sess.Title, sess.ModelUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Get returns a single session with its message count.
// Returns sql.ErrNoRows when the session does not exist.
func (s *SessionService) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.created_at, s.updated_at, s.title, s.model_used,
		       (SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id) AS message_count
		FROM sessions s
		WHERE s.id = ?`, id)

	var sess Session
	if err := row.Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt, &sess.Title, &sess.ModelUsed, &sess.MessageCount); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListWithStats returns sessions newest-activity-first, each carrying its
// message count and the timestamp of its latest message. limit <= 0 returns
// all sessions.
func (s *SessionService) ListWithStats(ctx context.Context, limit int) ([]*Session, error) {
	query := `
		SELECT s.id, s.created_at, s.updated_at, s.title, s.model_used,
		       COUNT(m.id) AS message_count,
		       MAX(m.timestamp) AS last_message_at
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt, &sess.Title, &sess.ModelUsed, &sess.MessageCount, &sess.LastMessageAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// Count returns the total number of sessions.
func (s *SessionService) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// UpdateTitle renames a session and bumps updated_at. Returns false when the
// session does not exist.
func (s *SessionService) UpdateTitle(ctx context.Context, id, title string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?`,
		title, now(), id,
	)
	if err != nil {
		return false, fmt.Errorf("update session title: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Touch bumps updated_at and, when model is non-nil, records it as the
// session's last-used model. A nil model preserves the existing value.
func (s *SessionService) Touch(ctx context.Context, id string, model *string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ?, model_used = COALESCE(?, model_used) WHERE id = ?`,
		now(), model, id,
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Delete removes a session and all of its messages in one transaction.
// Returns false when the session does not exist.
func (s *SessionService) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete session messages: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete session: %w", err)
	}
	return n > 0, nil
}
