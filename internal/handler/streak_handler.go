package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicsprep/civicsprep-backend/internal/middleware"
	"github.com/civicsprep/civicsprep-backend/internal/response"
	"github.com/civicsprep/civicsprep-backend/internal/service"
)

// StreakHandler exposes the study streak.
type StreakHandler struct {
	streakService *service.StreakService
}

// NewStreakHandler creates a new StreakHandler.
func NewStreakHandler(streakService *service.StreakService) *StreakHandler {
	return &StreakHandler{streakService: streakService}
}

// GetStreak godoc
// GET /api/v1/streaks
// Returns the current and longest streak. Missing streak state reads as
// zero rather than an error.
func (h *StreakHandler) GetStreak(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	streak := h.streakService.GetCurrentStreak(c.Request.Context(), claims.UserID)
	response.Success(c, http.StatusOK, gin.H{"streak": streak})
}

// HasPracticedToday godoc
// GET /api/v1/streaks/today
// Reports whether the user has already studied today.
func (h *StreakHandler) HasPracticedToday(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	practiced := h.streakService.HasPracticedToday(c.Request.Context(), claims.UserID)
	response.Success(c, http.StatusOK, gin.H{"practiced_today": practiced})
}
