package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/civicsprep/civicsprep-backend/internal/middleware"
	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/response"
	"github.com/civicsprep/civicsprep-backend/internal/service"
	"github.com/civicsprep/civicsprep-backend/internal/validator"
)

// ProgressHandler handles attempt recording and the sync queue.
type ProgressHandler struct {
	syncService  *service.SyncService
	sessionStore *service.SessionStore
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(syncService *service.SyncService, sessionStore *service.SessionStore) *ProgressHandler {
	return &ProgressHandler{syncService: syncService, sessionStore: sessionStore}
}

// RecordAttempt godoc
// POST /api/v1/progress/attempts
// Records one answer. A failed write queues the attempt for retry and
// still returns 200; the quiz flow never blocks on persistence.
func (h *ProgressHandler) RecordAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.RecordAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result := h.syncService.RecordAttempt(c.Request.Context(), claims.UserID, questionID, *req.Correct, req.UserAnswer, model.AttemptMode(req.Mode))
	response.Success(c, http.StatusOK, result)
}

// RecordSession godoc
// POST /api/v1/progress/sessions
// Bulk-records a completed session. Attempts are written concurrently;
// partial failure is reported, never raised.
func (h *ProgressHandler) RecordSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.RecordSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if len(req.Answers) != len(req.Questions) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"answers": "must align with questions",
		})
		return
	}

	questionIDs := make([]uuid.UUID, len(req.Questions))
	for i, q := range req.Questions {
		id, err := uuid.Parse(q.ID)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		questionIDs[i] = id
	}

	result := h.syncService.RecordSession(c.Request.Context(), claims.UserID, questionIDs, req.Answers, req.UserAnswers)

	// The session is over once it is recorded; the saved snapshot goes
	// with it so a finished quiz cannot be resumed.
	h.sessionStore.Clear(claims.UserID.String())

	response.Success(c, http.StatusOK, result)
}

// RetrySync godoc
// POST /api/v1/progress/sync/retry
// Runs one retry pass over the user's pending queue.
func (h *ProgressHandler) RetrySync(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.syncService.RetryPending(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetPendingCount godoc
// GET /api/v1/progress/sync/pending
// Returns how many attempts await retry.
func (h *ProgressHandler) GetPendingCount(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	count, err := h.syncService.PendingCount(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pending": count})
}

// GetLastSession godoc
// GET /api/v1/progress/last-session
// Returns the cached summary of the most recent completed session.
func (h *ProgressHandler) GetLastSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.syncService.LastSession(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if result == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"last_session": result})
}
