package models

import (
	"time"

	"bilingual-chat-demo/backend/internal/timeline"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message content types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
)

// Placeholders shown where a media message appears in a text-only context
const (
	ImagePlaceholder = "📷 Imagem"
	VideoPlaceholder = "🎥 Vídeo"
)

// Message is one persisted chat message. IDs are UUID strings so the durable
// row and the live push event share the same identifier.
type Message struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	RoomID    string    `gorm:"index" json:"roomId"`
	UserID    uint      `gorm:"index" json:"userId"`
	Content   string    `json:"content"`
	Type      string    `gorm:"default:text" json:"type"` // text, image or video
	MediaURL  string    `json:"mediaUrl,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// SendMessageRequest is the request structure for posting a message
type SendMessageRequest struct {
	Content  string `json:"content" binding:"required"`
	Type     string `json:"type,omitempty" binding:"omitempty,oneof=text image video"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// MessageResponse is a message enriched with its sender, the shape both the
// history endpoint and the live push event carry
type MessageResponse struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
	UserImage string    `json:"userImageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller did not bring an id of its own
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Type == "" {
		m.Type = MessageTypeText
	}
	return nil
}

// DisplayText returns the message content, substituting the media placeholder
// for image and video messages
func (m *Message) DisplayText() string {
	switch m.Type {
	case MessageTypeImage:
		return ImagePlaceholder
	case MessageTypeVideo:
		return VideoPlaceholder
	default:
		return m.Content
	}
}

// ToResponse converts a Message into its API shape
func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Content:   m.Content,
		Type:      m.Type,
		MediaURL:  m.MediaURL,
		UserID:    m.UserID,
		Username:  m.User.Name,
		UserImage: m.User.ImageURL,
		CreatedAt: m.CreatedAt,
	}
}

// ToEntry converts a Message into a timeline entry for reconciliation with
// live push events
func (m *Message) ToEntry() timeline.Entry {
	entry := timeline.Entry{
		ID:         m.ID,
		Text:       m.DisplayText(),
		SenderName: m.User.Name,
		Timestamp:  m.CreatedAt,
	}
	switch m.Type {
	case MessageTypeImage:
		entry.Media = &timeline.Media{URL: m.MediaURL, Kind: timeline.MediaImage}
	case MessageTypeVideo:
		entry.Media = &timeline.Media{URL: m.MediaURL, Kind: timeline.MediaVideo}
	}
	return entry
}
