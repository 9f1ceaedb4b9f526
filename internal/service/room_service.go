package service

import (
	"context"
	"errors"
	"time"

	"bilingual-chat-demo/backend/internal/models"

	"gorm.io/gorm"
)

var ErrRoomAlreadyExists = errors.New("room with this name already exists")

// RoomService handles room lifecycle and membership
type RoomService struct {
	db *gorm.DB
}

// NewRoomService creates a new room service
func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

// CreateRoom creates a room and joins the creator to it
func (s *RoomService) CreateRoom(ctx context.Context, userID uint, req *models.CreateRoomRequest) (*models.Room, error) {
	var existing models.Room
	if s.db.WithContext(ctx).Where("name = ?", req.Name).First(&existing).RowsAffected > 0 {
		return nil, ErrRoomAlreadyExists
	}

	room := models.Room{
		Name:      req.Name,
		CreatedBy: userID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		member := models.RoomMember{
			RoomID:   room.ID,
			UserID:   userID,
			JoinedAt: time.Now(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoom retrieves a room by id
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListRooms returns all rooms with their member counts
func (s *RoomService) ListRooms(ctx context.Context) ([]models.RoomResponse, error) {
	var rooms []models.Room
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	responses := make([]models.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		var count int64
		s.db.WithContext(ctx).Model(&models.RoomMember{}).Where("room_id = ?", room.ID).Count(&count)
		responses = append(responses, models.RoomResponse{
			ID:          room.ID,
			Name:        room.Name,
			CreatedBy:   room.CreatedBy,
			MemberCount: count,
			CreatedAt:   room.CreatedAt,
		})
	}
	return responses, nil
}

// JoinRoom records the user as a member; joining twice is a no-op
func (s *RoomService) JoinRoom(ctx context.Context, roomID string, userID uint) error {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return err
	}

	var existing models.RoomMember
	result := s.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&existing)
	if result.RowsAffected > 0 {
		return nil
	}

	member := models.RoomMember{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Create(&member).Error
}
