package chat

import (
	"context"
	"fmt"

	"github.com/parleyhq/parley/internal/infra/llm"
)

// Provider sends a normalized request to the model's upstream API.
type Provider interface {
	Send(ctx context.Context, model string, messages []llm.Message, creds llm.Credentials, opts llm.Options) (*llm.Result, error)
}

// SettingsSource exposes the stored generation settings.
type SettingsSource interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

// CredentialSource resolves the provider API keys, falling back to the
// environment when no key is stored.
type CredentialSource interface {
	Resolve(ctx context.Context) (llm.Credentials, error)
}

// Request is one inbound chat turn.
type Request struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Model     string `json:"model"`
}

// SessionRef identifies the session a turn landed in. Title matters for
// first turns, where the session was just created and named.
type SessionRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Response is the outcome of a completed turn.
type Response struct {
	SessionID string     `json:"session_id"`
	Session   SessionRef `json:"session"`
	Message   *Message   `json:"message"`
	Usage     *llm.Usage `json:"usage,omitempty"`
}

// Service orchestrates a chat turn: it validates the model, resolves or
// creates the session, persists the user message, calls the provider with the
// session history, and persists the assistant reply.
type Service struct {
	sessions *SessionService
	messages *MessageService
	provider Provider
	settings SettingsSource
	creds    CredentialSource
}

// NewService wires the chat orchestrator.
func NewService(sessions *SessionService, messages *MessageService, provider Provider, settings SettingsSource, creds CredentialSource) *Service {
	return &Service{
		sessions: sessions,
		messages: messages,
		provider: provider,
		settings: settings,
		creds:    creds,
	}
}

const (
	textTitleLimit  = 50
	imageTitleLimit = 30
)

// deriveTitle builds a session title from the first message. Image sessions
// are prefixed so they stand out in listings.
func deriveTitle(content string, isImage bool) string {
	if isImage {
		return "Image: " + truncate(content, imageTitleLimit)
	}
	return truncate(content, textTitleLimit)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Send runs one full chat turn. The model is validated before anything is
// written, so an unsupported model never creates a session.
func (s *Service) Send(ctx context.Context, req Request) (*Response, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("chat: %w: empty message", llm.ErrInvalidPrompt)
	}
	if !llm.Supported(req.Model) {
		return nil, fmt.Errorf("chat: %w: %q", llm.ErrUnsupportedModel, req.Model)
	}
	isImage := llm.IsImageModel(req.Model)

	sess, err := s.resolveSession(ctx, req, isImage)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.messages.Create(ctx, NewMessage{
		SessionID:   sess.ID,
		Content:     req.Message,
		Role:        RoleUser,
		ContentType: ContentTypeText,
	})
	if err != nil {
		return nil, err
	}

	history, err := s.buildHistory(ctx, sess.ID, userMsg, isImage)
	if err != nil {
		return nil, err
	}

	stored, err := s.settings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	creds, err := s.creds.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.Send(ctx, req.Model, history, creds, llm.OptionsFromSettings(stored))
	if err != nil {
		return nil, err
	}

	assistant, err := s.persistResult(ctx, sess.ID, req.Model, result)
	if err != nil {
		return nil, err
	}

	return &Response{
		SessionID: sess.ID,
		Session:   SessionRef{ID: sess.ID, Title: sess.Title},
		Message:   assistant,
		Usage:     result.Usage,
	}, nil
}

// resolveSession loads the requested session or, when the request carries no
// session id, creates one titled after the first message.
func (s *Service) resolveSession(ctx context.Context, req Request, isImage bool) (*Session, error) {
	if req.SessionID != "" {
		return s.sessions.Get(ctx, req.SessionID)
	}
	return s.sessions.Create(ctx, deriveTitle(req.Message, isImage), nil)
}

// buildHistory assembles the provider payload. Text models see the whole
// conversation; image models only get the new prompt.
func (s *Service) buildHistory(ctx context.Context, sessionID string, userMsg *Message, isImage bool) ([]llm.Message, error) {
	if isImage {
		return []llm.Message{{Role: llm.RoleUser, Content: userMsg.Content}}, nil
	}

	stored, err := s.messages.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return nil, err
	}
	history := make([]llm.Message, 0, len(stored))
	for _, m := range stored {
		// Image turns are not replayable as chat context.
		if m.ContentType == ContentTypeImage {
			continue
		}
		role := llm.RoleUser
		if m.Role == RoleAssistant {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	return history, nil
}

func (s *Service) persistResult(ctx context.Context, sessionID, model string, result *llm.Result) (*Message, error) {
	in := NewMessage{
		SessionID:   sessionID,
		Content:     result.Content,
		Role:        RoleAssistant,
		Model:       &model,
		ContentType: ContentTypeText,
	}
	if result.Usage != nil {
		tokens := result.Usage.TotalTokens
		in.TokenCount = &tokens
	}
	if result.Type == llm.ModelTypeImage {
		in.ContentType = ContentTypeImage
		in.ImageMetadata = &ImageMetadata{
			Prompt:        result.Prompt,
			RevisedPrompt: result.RevisedPrompt,
			ImageURL:      result.Content,
			Size:          result.Size,
			Quality:       result.Quality,
			Style:         result.Style,
		}
	}
	return s.messages.Create(ctx, in)
}
