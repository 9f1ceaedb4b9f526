package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a chat room. Rooms are open: any authenticated user may read and
// post; membership rows only track who has joined for listing purposes.
type Room struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	CreatedBy uint      `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoomMember links a user to a room they joined
type RoomMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	RoomID   string    `gorm:"index:idx_room_member,unique" json:"roomId"`
	UserID   uint      `gorm:"index:idx_room_member,unique" json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// CreateRoomRequest is the request structure for creating a room
type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// RoomResponse is a room plus its member count
type RoomResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedBy   uint      `json:"createdBy"`
	MemberCount int64     `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID room id
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
