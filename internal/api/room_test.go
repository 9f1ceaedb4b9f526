package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRoomRouter(t *testing.T, db *gorm.DB, userID uint) *gin.Engine {
	t.Helper()
	router := newTestEngine()
	controller := NewRoomController(
		service.NewRoomService(db),
		service.NewMessageService(db, nil, 100, nil),
		nil,
		testLogger(),
	)
	group := router.Group("/api")
	controller.RegisterRoutes(group, stubAuth(userID))
	return router
}

func TestCreateAndListRooms(t *testing.T) {
	db := newTestDB(t)
	user := &models.User{Name: "ana", Email: "ana@example.com", Password: "password123"}
	require.NoError(t, db.Create(user).Error)
	router := newRoomRouter(t, db, user.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"name":"general"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Rooms []models.RoomResponse `json:"rooms"`
		Count int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "general", listing.Rooms[0].Name)
	assert.Equal(t, int64(1), listing.Rooms[0].MemberCount)
}

func TestCreateRoomConflict(t *testing.T) {
	db := newTestDB(t)
	user := &models.User{Name: "ana", Email: "ana@example.com", Password: "password123"}
	require.NoError(t, db.Create(user).Error)
	router := newRoomRouter(t, db, user.ID)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"name":"general"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "request %d", i)
	}
}

func TestSendAndFetchMessages(t *testing.T) {
	db := newTestDB(t)
	user := &models.User{Name: "ana", Email: "ana@example.com", Password: "password123"}
	require.NoError(t, db.Create(user).Error)
	room := &models.Room{Name: "general", CreatedBy: user.ID}
	require.NoError(t, db.Create(room).Error)
	router := newRoomRouter(t, db, user.ID)

	path := fmt.Sprintf("/api/rooms/%s/messages", room.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"content":"bom dia"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		Messages []models.MessageResponse `json:"messages"`
		Count    int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Equal(t, 1, history.Count)
	assert.Equal(t, "bom dia", history.Messages[0].Content)
	assert.Equal(t, "ana", history.Messages[0].Username)
}

func TestSendMessageUnknownRoom(t *testing.T) {
	db := newTestDB(t)
	user := &models.User{Name: "ana", Email: "ana@example.com", Password: "password123"}
	require.NoError(t, db.Create(user).Error)
	router := newRoomRouter(t, db, user.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/missing/messages", strings.NewReader(`{"content":"oi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinRoomEndpoint(t *testing.T) {
	db := newTestDB(t)
	owner := &models.User{Name: "ana", Email: "ana@example.com", Password: "password123"}
	require.NoError(t, db.Create(owner).Error)
	joiner := &models.User{Name: "bruno", Email: "bruno@example.com", Password: "password123"}
	require.NoError(t, db.Create(joiner).Error)
	room := &models.Room{Name: "general", CreatedBy: owner.ID}
	require.NoError(t, db.Create(room).Error)
	router := newRoomRouter(t, db, joiner.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/rooms/%s/join", room.ID), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.RoomMember{}).Where("room_id = ? AND user_id = ?", room.ID, joiner.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
