package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbon-trace/internal/domain"
	"carbon-trace/internal/service"
)

// FootprintHandler expone la prediccion de huella y sus derivados.
type FootprintHandler struct {
	logger       *zap.Logger
	footprintSvc *service.FootprintService
}

func NewFootprintHandler(logger *zap.Logger, footprintSvc *service.FootprintService) *FootprintHandler {
	return &FootprintHandler{logger: logger, footprintSvc: footprintSvc}
}

// Submit maneja POST /predict.
func (h *FootprintHandler) Submit(c *gin.Context) {
	var req struct {
		Username string                     `json:"username"`
		UserData domain.QuestionnaireRecord `json:"user_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input. 'user_data' and 'username' are required."})
		return
	}

	result, err := h.footprintSvc.Submit(c.Request.Context(), req.Username, req.UserData)
	if errors.Is(err, service.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input. 'user_data' and 'username' are required."})
		return
	}
	if err != nil {
		h.logger.Error("submit failed", zap.Error(err), zap.String("username", req.Username))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Insights maneja GET /analyze_reduction/:username.
func (h *FootprintHandler) Insights(c *gin.Context) {
	username := c.Param("username")

	record, err := h.footprintSvc.Insights(c.Request.Context(), username)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No reduction data found for this user."})
		return
	}
	if errors.Is(err, service.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	if err != nil {
		h.logger.Error("reduction analysis failed", zap.Error(err), zap.String("username", username))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

// History maneja POST /user: todos los envios del usuario, el ultimo primero.
func (h *FootprintHandler) History(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "username is required"})
		return
	}

	entries, err := h.footprintSvc.History(c.Request.Context(), req.Username)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No records found for this user"})
		return
	}
	if errors.Is(err, service.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "username is required"})
		return
	}
	if err != nil {
		h.logger.Error("history fetch failed", zap.Error(err), zap.String("username", req.Username))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
}
