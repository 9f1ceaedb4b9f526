package api

import (
	"net/http"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/internal/service"
	"bilingual-chat-demo/backend/pkg/jwt"
	"bilingual-chat-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserController handles user preference endpoints
type UserController struct {
	userService *service.UserService
	jwtService  *jwt.Service
	logger      *logger.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *service.UserService, jwtService *jwt.Service, logger *logger.Logger) *UserController {
	return &UserController{
		userService: userService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// RegisterRoutes mounts the preference endpoints behind authentication
func (uc *UserController) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	prefs := router.Group("/preferences")
	prefs.Use(authRequired)
	{
		prefs.GET("", uc.GetPreferences)
		prefs.PUT("", uc.UpdatePreferences)
	}
}

// GetPreferences returns the user's translation settings
func (uc *UserController) GetPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	pref, err := uc.userService.GetPreferences(userID)
	if err != nil {
		uc.logger.Error("Error loading preferences", "userId", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}

// UpdatePreferences applies the submitted preference changes
func (uc *UserController) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	pref, err := uc.userService.UpdatePreferences(userID, &req)
	if err != nil {
		uc.logger.Error("Error updating preferences", "userId", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}
