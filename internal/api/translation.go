package api

import (
	"net/http"

	"bilingual-chat-demo/backend/pkg/logger"
	"bilingual-chat-demo/backend/translation"

	"github.com/gin-gonic/gin"
)

// TranslationHandler exposes the translation pipeline. Failures inside the
// pipeline never surface as error statuses: the response is always 200 with
// a soft-fail body carrying the original text.
type TranslationHandler struct {
	service *translation.Service
	logger  *logger.Logger
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(service *translation.Service, logger *logger.Logger) *TranslationHandler {
	return &TranslationHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the translation endpoints
func (h *TranslationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/translate")
	{
		group.POST("", h.Translate)
		group.POST("/detect", h.Detect)
		group.GET("/languages", h.Languages)
	}
}

// TranslateRequest is the request structure for a translation
type TranslateRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"targetLanguage" binding:"required"`
	SourceLanguage string `json:"sourceLanguage,omitempty"`
}

// DetectRequest is the request structure for language detection
type DetectRequest struct {
	Text string `json:"text" binding:"required"`
}

// Translate translates a piece of text
func (h *TranslationHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text and targetLanguage are required"})
		return
	}

	result := h.service.TranslateMessage(c.Request.Context(), req.Text, req.TargetLanguage, req.SourceLanguage)
	c.JSON(http.StatusOK, result)
}

// Detect reports the language of a piece of text
func (h *TranslationHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result := h.service.DetectLanguage(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, result)
}

// Languages lists the supported languages as code to display name
func (h *TranslationHandler) Languages(c *gin.Context) {
	languages := h.service.GetSupportedLanguages(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"languages": languages})
}
