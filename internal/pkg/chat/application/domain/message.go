package chat

import (
	"strings"
	"time"
)

// AttachmentType classifies a media attachment for rendering and snippets.
type AttachmentType string

const (
	AttachmentTypeImage AttachmentType = "image"
	AttachmentTypeVideo AttachmentType = "video"
	AttachmentTypeGif   AttachmentType = "gif"
	AttachmentTypeFile  AttachmentType = "file"
)

// Attachment is a single media item carried by a message.
type Attachment struct {
	Type AttachmentType `json:"type"`
	URL  string         `json:"url"`
}

// snippetMaxRunes bounds the text preview derived from message content.
const snippetMaxRunes = 30

// Message is an immutable log entry in a conversation. CreatedAt is assigned at
// persistence time and serves as the sole ordering key and pagination cursor.
type Message struct {
	ID             string       `db:"id"`
	ConversationID string       `db:"conversation_id"`
	SenderID       string       `db:"sender_id"`
	CreatedAt      time.Time    `db:"created_at"`
	Content        *string      `db:"content"`
	Media          []Attachment `db:"media"`
}

// NewMessage validates and normalizes a message prior to persistence.
// Client-supplied timestamps are ignored; the store assigns CreatedAt.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" || m.SenderID == "" {
		return nil, ErrNotFound
	}

	if m.Content != nil {
		trimmed := strings.TrimSpace(*m.Content)
		if trimmed == "" {
			m.Content = nil
		} else {
			m.Content = &trimmed
		}
	}

	if m.Content == nil && len(m.Media) == 0 {
		return nil, ErrEmptyMessage
	}

	m.CreatedAt = time.Time{}
	return &m, nil
}

// Snippet derives the conversation preview string for this message.
// Media wins over text: the preview is a type-tagged placeholder; otherwise the
// content is truncated to snippetMaxRunes runes with an ellipsis marker.
func (m Message) Snippet() string {
	if len(m.Media) > 0 {
		switch m.Media[0].Type {
		case AttachmentTypeImage:
			return "[image]"
		case AttachmentTypeVideo:
			return "[video]"
		case AttachmentTypeGif:
			return "[gif]"
		default:
			return "[file]"
		}
	}
	if m.Content == nil {
		return ""
	}
	runes := []rune(*m.Content)
	if len(runes) <= snippetMaxRunes {
		return *m.Content
	}
	return string(runes[:snippetMaxRunes]) + "…"
}
