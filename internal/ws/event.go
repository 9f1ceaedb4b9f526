package ws

import (
	"time"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/internal/timeline"
)

// LiveMessage is the push-event shape delivered to websocket clients. It
// mirrors the persisted message closely enough that both sides can be
// reconciled into one timeline by id.
type LiveMessage struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Metadata  MessageMeta `json:"metadata"`
	Timestamp time.Time   `json:"timestamp"`
}

// MessageMeta carries sender and attachment details of a live message
type MessageMeta struct {
	Username     string `json:"username"`
	FileURL      string `json:"fileUrl,omitempty"`
	FileType     string `json:"fileType,omitempty"`
	UserImageURL string `json:"userImageUrl,omitempty"`
}

// NewLiveMessage converts a stored message into its push-event shape. The
// text of a media message is its placeholder; the real URL travels in the
// metadata.
func NewLiveMessage(msg *models.MessageResponse) LiveMessage {
	live := LiveMessage{
		ID:        msg.ID,
		Text:      msg.Content,
		Timestamp: msg.CreatedAt,
		Metadata: MessageMeta{
			Username:     msg.Username,
			UserImageURL: msg.UserImage,
		},
	}
	switch msg.Type {
	case models.MessageTypeImage:
		live.Text = models.ImagePlaceholder
		live.Metadata.FileURL = msg.MediaURL
		live.Metadata.FileType = models.MessageTypeImage
	case models.MessageTypeVideo:
		live.Text = models.VideoPlaceholder
		live.Metadata.FileURL = msg.MediaURL
		live.Metadata.FileType = models.MessageTypeVideo
	}
	return live
}

// ToEntry converts a live message into a timeline entry so it can be merged
// with the durable history
func (m LiveMessage) ToEntry() timeline.Entry {
	entry := timeline.Entry{
		ID:         m.ID,
		Text:       m.Text,
		SenderName: m.Metadata.Username,
		Timestamp:  m.Timestamp,
	}
	switch m.Metadata.FileType {
	case models.MessageTypeImage:
		entry.Media = &timeline.Media{URL: m.Metadata.FileURL, Kind: timeline.MediaImage}
	case models.MessageTypeVideo:
		entry.Media = &timeline.Media{URL: m.Metadata.FileURL, Kind: timeline.MediaVideo}
	}
	return entry
}
