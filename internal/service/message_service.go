package service

import (
	"context"
	"errors"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/internal/timeline"
	"bilingual-chat-demo/backend/pkg/logger"

	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("room not found")

// Publisher pushes a stored message out to live subscribers. The ws hub
// implements it; a nil publisher means persistence only.
type Publisher interface {
	PublishMessage(ctx context.Context, roomID string, msg *models.MessageResponse) error
}

// MessageService persists chat messages and fans them out to the live path
type MessageService struct {
	db           *gorm.DB
	publisher    Publisher
	historyLimit int
	log          *logger.Logger
}

// NewMessageService creates a message service. historyLimit caps how many
// recent messages GetRoomMessages returns; zero means the default of 100.
func NewMessageService(db *gorm.DB, publisher Publisher, historyLimit int, log *logger.Logger) *MessageService {
	if historyLimit <= 0 {
		historyLimit = 100
	}
	if log == nil {
		log = logger.GetGlobal()
	}
	return &MessageService{
		db:           db,
		publisher:    publisher,
		historyLimit: historyLimit,
		log:          log,
	}
}

// SaveMessage stores a message and publishes it to the room's live
// subscribers. Publish failures are logged but do not fail the save; the
// message is durable and will appear on the next history load.
func (s *MessageService) SaveMessage(ctx context.Context, roomID string, userID uint, req *models.SendMessageRequest) (*models.MessageResponse, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	msg := models.Message{
		RoomID:   roomID,
		UserID:   userID,
		Content:  req.Content,
		Type:     req.Type,
		MediaURL: req.MediaURL,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).First(&msg.User, userID).Error; err != nil {
		return nil, err
	}

	resp := msg.ToResponse()
	if s.publisher != nil {
		if err := s.publisher.PublishMessage(ctx, roomID, &resp); err != nil {
			s.log.Error("publishing message to live subscribers failed",
				"roomId", roomID,
				"messageId", msg.ID,
				"error", err.Error(),
			)
		}
	}
	return &resp, nil
}

// GetRoomMessages returns the most recent messages of a room in ascending
// creation order, capped at the configured history limit
func (s *MessageService) GetRoomMessages(ctx context.Context, roomID string) ([]models.MessageResponse, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(s.historyLimit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// The query walks backwards to apply the cap; flip back to ascending
	responses := make([]models.MessageResponse, len(messages))
	for i := range messages {
		responses[len(messages)-1-i] = messages[i].ToResponse()
	}
	return responses, nil
}

// GetRoomEntries returns the room's recent history as timeline entries, the
// baseline side of live reconciliation
func (s *MessageService) GetRoomEntries(ctx context.Context, roomID string) ([]timeline.Entry, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(s.historyLimit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	entries := make([]timeline.Entry, len(messages))
	for i := range messages {
		entries[len(messages)-1-i] = messages[i].ToEntry()
	}
	return entries, nil
}
