package chat

import (
	"context"
	"database/sql"
	"fmt"
)

// UsageStat is one aggregated row of assistant output: tokens and message
// counts grouped by model, day, and content type.
type UsageStat struct {
	Model        string `json:"model"`
	Date         string `json:"date"`
	ContentType  string `json:"content_type"`
	MessageCount int    `json:"message_count"`
	TotalTokens  int    `json:"total_tokens"`
}

// StatsService computes read-time usage aggregates over stored messages.
// Only assistant messages count: user input is free, provider output is what
// gets billed.
type StatsService struct {
	db *sql.DB
}

// NewStatsService creates a new stats service.
func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{db: db}
}

// Usage returns per-model, per-day, per-content-type aggregates of assistant
// messages, newest day first. limit <= 0 returns all rows.
func (s *StatsService) Usage(ctx context.Context, limit int) ([]*UsageStat, error) {
	query := `
		SELECT COALESCE(model, 'unknown') AS model,
		       DATE(timestamp) AS date,
		       COALESCE(content_type, 'text') AS content_type,
		       COUNT(*) AS message_count,
		       COALESCE(SUM(token_count), 0) AS total_tokens
		FROM messages
		WHERE role = 'assistant'
		GROUP BY model, DATE(timestamp), content_type
		ORDER BY date DESC, model ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usage stats: %w", err)
	}
	defer rows.Close()

	stats := []*UsageStat{}
	for rows.Next() {
		var st UsageStat
		if err := rows.Scan(&st.Model, &st.Date, &st.ContentType, &st.MessageCount, &st.TotalTokens); err != nil {
			return nil, fmt.Errorf("scan usage stat: %w", err)
		}
		stats = append(stats, &st)
	}
	return stats, rows.Err()
}

// SessionTokenTotal sums token_count over every message in a session.
func (s *StatsService) SessionTokenTotal(ctx context.Context, sessionID string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(token_count), 0) FROM messages WHERE session_id = ?`,
		sessionID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("session token total: %w", err)
	}
	return total, nil
}
