package chat

// Message roles stored in the messages table. The CHECK constraint in the
// schema enforces the same pair.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content types stored alongside each message.
const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
)

// Session is a conversation container. ModelUsed tracks the last model that
// produced an assistant reply in the session; it stays nil until the first
// exchange completes.
type Session struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	Title     string  `json:"title"`
	ModelUsed *string `json:"model_used"`

	// MessageCount and LastMessageAt are read-time aggregates; they are
	// populated by Get and ListWithStats, never stored.
	MessageCount  int     `json:"message_count"`
	LastMessageAt *string `json:"last_message_at,omitempty"`
}

// ImageMetadata captures the generation parameters of an image message.
// It is stored as JSON in the image_metadata column.
type ImageMetadata struct {
	Prompt        string `json:"prompt,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	Size          string `json:"size,omitempty"`
	Quality       string `json:"quality,omitempty"`
	Style         string `json:"style,omitempty"`
}

// Message is a single turn in a session.
type Message struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"session_id"`
	Content       string         `json:"content"`
	Role          string         `json:"role"`
	Model         *string        `json:"model,omitempty"`
	Timestamp     string         `json:"timestamp"`
	TokenCount    *int           `json:"token_count,omitempty"`
	ContentType   string         `json:"content_type"`
	ImageMetadata *ImageMetadata `json:"image_metadata,omitempty"`
}
