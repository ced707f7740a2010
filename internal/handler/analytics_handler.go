package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/civicsprep/civicsprep-backend/internal/middleware"
	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/response"
	"github.com/civicsprep/civicsprep-backend/internal/service"
)

// AnalyticsHandler exposes aggregated attempt history.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetOverview godoc
// GET /api/v1/analytics/overview
func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stats, err := h.analyticsService.OverallStats(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// GetRecentSessions godoc
// GET /api/v1/analytics/sessions?limit=10
func (h *AnalyticsHandler) GetRecentSessions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	sessions, err := h.analyticsService.RecentSessions(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

// GetModuleStats godoc
// GET /api/v1/analytics/modules/:mode
func (h *AnalyticsHandler) GetModuleStats(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	mode := model.AttemptMode(c.Param("mode"))
	if mode != model.AttemptModeMCQ && mode != model.AttemptModeFlashcard {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	stats, err := h.analyticsService.ModuleStats(c.Request.Context(), claims.UserID, mode)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// GetCategoryPerformance godoc
// GET /api/v1/analytics/categories
func (h *AnalyticsHandler) GetCategoryPerformance(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	perf, err := h.analyticsService.CategoryPerformance(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"categories": perf})
}

// GetProgressOverTime godoc
// GET /api/v1/analytics/progress?days=30
func (h *AnalyticsHandler) GetProgressOverTime(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	series, err := h.analyticsService.ProgressOverTime(c.Request.Context(), claims.UserID, days)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": series})
}
