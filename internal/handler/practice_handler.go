package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/civicsprep/civicsprep-backend/internal/middleware"
	"github.com/civicsprep/civicsprep-backend/internal/model"
	"github.com/civicsprep/civicsprep-backend/internal/response"
	"github.com/civicsprep/civicsprep-backend/internal/service"
	"github.com/civicsprep/civicsprep-backend/internal/validator"
)

// PracticeHandler handles question selection and the in-progress session
// snapshot.
type PracticeHandler struct {
	practiceService *service.PracticeService
	sessionStore    *service.SessionStore
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(practiceService *service.PracticeService, sessionStore *service.SessionStore) *PracticeHandler {
	return &PracticeHandler{
		practiceService: practiceService,
		sessionStore:    sessionStore,
	}
}

// GetQuestions godoc
// GET /api/v1/practice/questions?count=10
// Returns a fresh randomized question set. Each question is self-contained:
// shuffled options plus the correct index.
func (h *PracticeHandler) GetQuestions(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "0"))
	if err != nil || count < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	questions, err := h.practiceService.SelectQuestions(c.Request.Context(), count)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPool) {
			response.Fail(c, http.StatusNotFound, response.ErrEmptyPool)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// GetSession godoc
// GET /api/v1/practice/session
// Returns the saved in-progress session snapshot, if any.
func (h *PracticeHandler) GetSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session := h.sessionStore.Get(claims.UserID.String())
	if session == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// SaveSession godoc
// PUT /api/v1/practice/session
// Snapshots an in-progress session so it can be resumed. Last write wins.
func (h *PracticeHandler) SaveSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SaveSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.sessionStore.Save(claims.UserID.String(), req.Questions, req.CurrentIndex, req.Answers, req.CorrectCount)
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// ClearSession godoc
// DELETE /api/v1/practice/session
// Discards the saved session snapshot. Clearing a missing session is a no-op.
func (h *PracticeHandler) ClearSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	h.sessionStore.Clear(claims.UserID.String())
	response.Success(c, http.StatusOK, gin.H{"cleared": true})
}
