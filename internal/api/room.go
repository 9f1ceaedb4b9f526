package api

import (
	"net/http"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/internal/service"
	"bilingual-chat-demo/backend/pkg/jwt"
	"bilingual-chat-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RoomController handles room and message endpoints
type RoomController struct {
	roomService    *service.RoomService
	messageService *service.MessageService
	jwtService     *jwt.Service
	logger         *logger.Logger
}

// NewRoomController creates a new room controller
func NewRoomController(
	roomService *service.RoomService,
	messageService *service.MessageService,
	jwtService *jwt.Service,
	logger *logger.Logger,
) *RoomController {
	return &RoomController{
		roomService:    roomService,
		messageService: messageService,
		jwtService:     jwtService,
		logger:         logger,
	}
}

// RegisterRoutes mounts the room endpoints behind authentication
func (rc *RoomController) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rooms := router.Group("/rooms")
	rooms.Use(authRequired)
	{
		rooms.GET("", rc.ListRooms)
		rooms.POST("", rc.CreateRoom)
		rooms.POST("/:roomId/join", rc.JoinRoom)
		rooms.GET("/:roomId/messages", rc.GetMessages)
		rooms.POST("/:roomId/messages", rc.SendMessage)
	}
}

// ListRooms returns all rooms
func (rc *RoomController) ListRooms(c *gin.Context) {
	rooms, err := rc.roomService.ListRooms(c.Request.Context())
	if err != nil {
		rc.logger.Error("Error listing rooms", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

// CreateRoom creates a new room
func (rc *RoomController) CreateRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	room, err := rc.roomService.CreateRoom(c.Request.Context(), userID, &req)
	if err != nil {
		switch err {
		case service.ErrRoomAlreadyExists:
			c.JSON(http.StatusConflict, gin.H{"error": "A room with this name already exists"})
		default:
			rc.logger.Error("Error creating room", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		}
		return
	}

	c.JSON(http.StatusCreated, room)
}

// JoinRoom records the user as a room member
func (rc *RoomController) JoinRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	roomID := c.Param("roomId")
	if err := rc.roomService.JoinRoom(c.Request.Context(), roomID, userID); err != nil {
		switch err {
		case service.ErrRoomNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		default:
			rc.logger.Error("Error joining room", "roomId", roomID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join room"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined room"})
}

// GetMessages returns the room's recent history in ascending creation order
func (rc *RoomController) GetMessages(c *gin.Context) {
	roomID := c.Param("roomId")

	messages, err := rc.messageService.GetRoomMessages(c.Request.Context(), roomID)
	if err != nil {
		switch err {
		case service.ErrRoomNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		default:
			rc.logger.Error("Error loading room history", "roomId", roomID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roomId":   roomID,
		"messages": messages,
		"count":    len(messages),
	})
}

// SendMessage persists a message and fans it out to live subscribers
func (rc *RoomController) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	roomID := c.Param("roomId")
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	msg, err := rc.messageService.SaveMessage(c.Request.Context(), roomID, userID, &req)
	if err != nil {
		switch err {
		case service.ErrRoomNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		default:
			rc.logger.Error("Error saving message", "roomId", roomID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, msg)
}
