package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ronish76/elearn-backend/internal/middleware"
	"github.com/ronish76/elearn-backend/internal/model"
	"github.com/ronish76/elearn-backend/internal/quiz"
	"github.com/ronish76/elearn-backend/internal/response"
	"github.com/ronish76/elearn-backend/internal/service"
	"github.com/ronish76/elearn-backend/internal/validator"
)

// QuizHandler handles the catalog and session endpoints consumed by the
// desktop UI. The UI renders and forwards input; all quiz state lives here.
type QuizHandler struct {
	sessionService *service.SessionService
	catalogService *service.CatalogService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(sessionService *service.SessionService, catalogService *service.CatalogService) *QuizHandler {
	return &QuizHandler{
		sessionService: sessionService,
		catalogService: catalogService,
	}
}

// GetCatalog godoc
// GET /api/v1/catalog
// Lists subjects with question counts and the student's completion status.
func (h *QuizHandler) GetCatalog(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	entries, err := h.catalogService.ListAvailable(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorage)
		return
	}
	if entries == nil {
		entries = []model.CatalogEntry{}
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": entries})
}

// GetScoreSummary godoc
// GET /api/v1/catalog/:subject/summary
// Shows the stored result for a finished subject without re-entering it.
func (h *QuizHandler) GetScoreSummary(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	summary, err := h.catalogService.ScoreSummary(c.Request.Context(), claims.StudentID, c.Param("subject"))
	if err != nil {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorage)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// StartSession godoc
// POST /api/v1/session/start
// Loads and shuffles the subject's questions and opens the session.
func (h *QuizHandler) StartSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	snap, err := h.sessionService.Start(c.Request.Context(), claims.StudentID, req.Subject)
	if err != nil {
		switch {
		case errors.Is(err, quiz.ErrNoQuestions):
			// The catalog filters empty subjects, but nothing stops a
			// direct call with an unknown subject.
			response.Fail(c, http.StatusNotFound, response.ErrNoQuestions)
		default:
			response.Fail(c, http.StatusServiceUnavailable, response.ErrStorage)
		}
		return
	}

	response.Success(c, http.StatusOK, snap)
}

// GetSession godoc
// GET /api/v1/session
// Returns the live session snapshot (state, position, current question,
// recorded answers) so the UI can restore its view.
func (h *QuizHandler) GetSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	snap, err := h.sessionService.Snapshot(claims.StudentID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}

	response.Success(c, http.StatusOK, snap)
}

// RecordAnswer godoc
// POST /api/v1/session/answer
// Records the selected option for a question position. Answering the same
// position again overwrites the earlier choice.
func (h *QuizHandler) RecordAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.sessionService.RecordAnswer(claims.StudentID, *req.Index, req.Option); err != nil {
		failSessionError(c, err)
		return
	}

	snap, err := h.sessionService.Snapshot(claims.StudentID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

// Next godoc
// POST /api/v1/session/next
// Moves to the next question; a no-op at the last one.
func (h *QuizHandler) Next(c *gin.Context) {
	h.navigate(c, h.sessionService.Next)
}

// Previous godoc
// POST /api/v1/session/previous
// Moves to the previous question; a no-op at the first one.
func (h *QuizHandler) Previous(c *gin.Context) {
	h.navigate(c, h.sessionService.Previous)
}

func (h *QuizHandler) navigate(c *gin.Context, move func(studentID int) error) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	if err := move(claims.StudentID); err != nil {
		failSessionError(c, err)
		return
	}

	snap, err := h.sessionService.Snapshot(claims.StudentID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

// Finish godoc
// POST /api/v1/session/finish
// Completes the session, grades it, and persists the result. The graded
// score is returned even when persistence fails; "saved": false tells the
// UI to inform the student (the background worker retries the save).
// Confirming an early finish with unanswered questions is the UI's job.
func (h *QuizHandler) Finish(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	result, err := h.sessionService.Finish(c.Request.Context(), claims.StudentID)
	if err != nil {
		failSessionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Abandon godoc
// POST /api/v1/session/abandon
// Quits the session without persisting anything.
func (h *QuizHandler) Abandon(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	if err := h.sessionService.Abandon(claims.StudentID); err != nil {
		failSessionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "abandoned"})
}

// failSessionError maps engine errors onto HTTP error codes.
func failSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
	case errors.Is(err, quiz.ErrInvalidTransition):
		response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
