package ws

import (
	"testing"
	"time"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/internal/timeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLiveMessageTextMessage(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &models.MessageResponse{
		ID:        "m1",
		RoomID:    "r1",
		Content:   "bom dia",
		Type:      models.MessageTypeText,
		Username:  "ana",
		CreatedAt: created,
	}

	live := NewLiveMessage(msg)

	assert.Equal(t, "m1", live.ID)
	assert.Equal(t, "bom dia", live.Text)
	assert.Equal(t, "ana", live.Metadata.Username)
	assert.Empty(t, live.Metadata.FileURL)
	assert.Equal(t, created, live.Timestamp)
}

func TestNewLiveMessageImageUsesPlaceholder(t *testing.T) {
	msg := &models.MessageResponse{
		ID:       "m2",
		Content:  "ignored",
		Type:     models.MessageTypeImage,
		MediaURL: "https://cdn.example/photo.jpg",
		Username: "ana",
	}

	live := NewLiveMessage(msg)

	assert.Equal(t, models.ImagePlaceholder, live.Text)
	assert.Equal(t, "https://cdn.example/photo.jpg", live.Metadata.FileURL)
	assert.Equal(t, models.MessageTypeImage, live.Metadata.FileType)
}

func TestLiveMessageToEntryCarriesMedia(t *testing.T) {
	live := LiveMessage{
		ID:        "m3",
		Text:      models.VideoPlaceholder,
		Timestamp: time.Now(),
		Metadata: MessageMeta{
			Username: "bruno",
			FileURL:  "https://cdn.example/clip.mp4",
			FileType: models.MessageTypeVideo,
		},
	}

	entry := live.ToEntry()

	assert.Equal(t, "m3", entry.ID)
	assert.Equal(t, "bruno", entry.SenderName)
	require.NotNil(t, entry.Media)
	assert.Equal(t, timeline.MediaVideo, entry.Media.Kind)
	assert.Equal(t, "https://cdn.example/clip.mp4", entry.Media.URL)
}

func TestClientEnqueueFeedsTimelineView(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	client := &Client{
		ID:     "c1",
		RoomID: "r1",
		send:   make(chan []byte, 4),
		hub:    hub,
		view:   timeline.NewView(),
	}

	// Live message lands before the history baseline
	ok := client.enqueue(LiveMessage{
		ID:        "live-1",
		Text:      "chegou primeiro",
		Timestamp: time.Unix(50, 0),
		Metadata:  MessageMeta{Username: "ana"},
	})
	require.True(t, ok)

	client.view.SetBaseline([]timeline.Entry{
		{ID: "hist-1", Text: "histórico", SenderName: "bruno", Timestamp: time.Unix(100, 0)},
	})

	snapshot := client.view.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "live-1", snapshot[0].ID, "older live message sorts before newer history")
	assert.Equal(t, "hist-1", snapshot[1].ID)
}

func TestClientEnqueueDuplicateCollapsesInSnapshot(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	client := &Client{
		ID:     "c1",
		RoomID: "r1",
		send:   make(chan []byte, 4),
		hub:    hub,
		view:   timeline.NewView(),
	}

	client.view.SetBaseline([]timeline.Entry{
		{ID: "m1", Text: "olá", Timestamp: time.Unix(10, 0)},
	})

	// The same message arrives again on the push path
	client.enqueue(LiveMessage{ID: "m1", Text: "olá", Timestamp: time.Unix(10, 0)})

	assert.Len(t, client.view.Snapshot(), 1)
}

func TestClientEnqueueReportsFullBuffer(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	client := &Client{
		ID:     "c1",
		RoomID: "r1",
		send:   make(chan []byte, 1),
		hub:    hub,
		view:   timeline.NewView(),
	}

	assert.True(t, client.enqueue(LiveMessage{ID: "m1"}))
	assert.False(t, client.enqueue(LiveMessage{ID: "m2"}))
}
