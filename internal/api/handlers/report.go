// HTTP handlers for usage reporting, computed entirely from stored
// aggregates at read time.
package handlers

import (
	"net/http"
	"sort"

	"github.com/parleyhq/parley/internal/domain/chat"
)

// topModelCount bounds the top_models section of the usage report.
const topModelCount = 5

// ReportHandler serves usage reports over the conversation store.
type ReportHandler struct {
	stats    *chat.StatsService
	sessions *chat.SessionService
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(stats *chat.StatsService, sessions *chat.SessionService) *ReportHandler {
	return &ReportHandler{stats: stats, sessions: sessions}
}

// ReportSummary totals assistant output across the whole store.
type ReportSummary struct {
	TotalSessions int `json:"total_sessions"`
	TotalMessages int `json:"total_messages"`
	TotalTokens   int `json:"total_tokens"`
}

// ModelUsage is assistant output rolled up per model.
type ModelUsage struct {
	Model    string `json:"model"`
	Messages int    `json:"messages"`
	Tokens   int    `json:"tokens"`
}

// DailyUsage is assistant output rolled up per day.
type DailyUsage struct {
	Date     string `json:"date"`
	Messages int    `json:"messages"`
	Tokens   int    `json:"tokens"`
}

// UsageReport handles GET /api/report: summary totals, per-model and
// per-day rollups, the busiest models, and the most recently active
// sessions.
func (h *ReportHandler) UsageReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stats.Usage(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to build usage report")
		return
	}
	sessionCount, err := h.sessions.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to count sessions")
		return
	}
	recent, err := h.sessions.ListWithStats(r.Context(), 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to list sessions")
		return
	}

	summary := ReportSummary{TotalSessions: sessionCount}
	modelRollup := rollup(rows, func(row *chat.UsageStat) string { return row.Model })
	dailyRollup := rollup(rows, func(row *chat.UsageStat) string { return row.Date })
	for _, row := range rows {
		summary.TotalMessages += row.MessageCount
		summary.TotalTokens += row.TotalTokens
	}

	modelUsage := make([]ModelUsage, 0, len(modelRollup))
	for _, entry := range modelRollup {
		modelUsage = append(modelUsage, ModelUsage{Model: entry.key, Messages: entry.messages, Tokens: entry.tokens})
	}
	sort.Slice(modelUsage, func(i, j int) bool { return modelUsage[i].Model < modelUsage[j].Model })

	topModels := make([]ModelUsage, len(modelUsage))
	copy(topModels, modelUsage)
	sort.SliceStable(topModels, func(i, j int) bool { return topModels[i].Messages > topModels[j].Messages })
	if len(topModels) > topModelCount {
		topModels = topModels[:topModelCount]
	}

	dailyUsage := make([]DailyUsage, 0, len(dailyRollup))
	for _, entry := range dailyRollup {
		dailyUsage = append(dailyUsage, DailyUsage{Date: entry.key, Messages: entry.messages, Tokens: entry.tokens})
	}
	sort.Slice(dailyUsage, func(i, j int) bool { return dailyUsage[i].Date > dailyUsage[j].Date })

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":         summary,
		"model_usage":     modelUsage,
		"top_models":      topModels,
		"daily_usage":     dailyUsage,
		"recent_sessions": recent,
	})
}

// SessionsReport handles GET /api/report/sessions: every session with its
// message count and last activity, most recently updated first.
func (h *ReportHandler) SessionsReport(w http.ResponseWriter, r *http.Request) {
	list, err := h.sessions.ListWithStats(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": list})
}

type rollupEntry struct {
	key      string
	messages int
	tokens   int
}

// rollup folds usage rows by the given key, preserving first-seen order.
func rollup(rows []*chat.UsageStat, keyOf func(*chat.UsageStat) string) []*rollupEntry {
	index := map[string]*rollupEntry{}
	entries := []*rollupEntry{}
	for _, row := range rows {
		key := keyOf(row)
		entry, ok := index[key]
		if !ok {
			entry = &rollupEntry{key: key}
			index[key] = entry
			entries = append(entries, entry)
		}
		entry.messages += row.MessageCount
		entry.tokens += row.TotalTokens
	}
	return entries
}
