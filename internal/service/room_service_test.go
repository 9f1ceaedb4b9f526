package service

import (
	"context"
	"testing"

	"bilingual-chat-demo/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomJoinsCreator(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", "ana@example.com")
	svc := NewRoomService(db)

	room, err := svc.CreateRoom(context.Background(), user.ID, &models.CreateRoomRequest{Name: "general"})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)

	var count int64
	db.Model(&models.RoomMember{}).Where("room_id = ? AND user_id = ?", room.ID, user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateRoomDuplicateName(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", "ana@example.com")
	svc := NewRoomService(db)

	_, err := svc.CreateRoom(context.Background(), user.ID, &models.CreateRoomRequest{Name: "general"})
	require.NoError(t, err)

	_, err = svc.CreateRoom(context.Background(), user.ID, &models.CreateRoomRequest{Name: "general"})
	assert.ErrorIs(t, err, ErrRoomAlreadyExists)
}

func TestJoinRoomIdempotent(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "ana", "ana@example.com")
	joiner := seedUser(t, db, "bruno", "bruno@example.com")
	svc := NewRoomService(db)

	room, err := svc.CreateRoom(context.Background(), owner.ID, &models.CreateRoomRequest{Name: "general"})
	require.NoError(t, err)

	require.NoError(t, svc.JoinRoom(context.Background(), room.ID, joiner.ID))
	require.NoError(t, svc.JoinRoom(context.Background(), room.ID, joiner.ID))

	var count int64
	db.Model(&models.RoomMember{}).Where("room_id = ?", room.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestJoinRoomUnknownRoom(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", "ana@example.com")
	svc := NewRoomService(db)

	err := svc.JoinRoom(context.Background(), "missing", user.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestListRoomsWithMemberCounts(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "ana", "ana@example.com")
	joiner := seedUser(t, db, "bruno", "bruno@example.com")
	svc := NewRoomService(db)

	general, err := svc.CreateRoom(context.Background(), owner.ID, &models.CreateRoomRequest{Name: "general"})
	require.NoError(t, err)
	_, err = svc.CreateRoom(context.Background(), owner.ID, &models.CreateRoomRequest{Name: "random"})
	require.NoError(t, err)
	require.NoError(t, svc.JoinRoom(context.Background(), general.ID, joiner.ID))

	rooms, err := svc.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	byName := map[string]int64{}
	for _, room := range rooms {
		byName[room.Name] = room.MemberCount
	}
	assert.Equal(t, int64(2), byName["general"])
	assert.Equal(t, int64(1), byName["random"])
}
