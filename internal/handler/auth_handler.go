package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/ronish76/elearn-backend/internal/middleware"
	"github.com/ronish76/elearn-backend/internal/model"
	"github.com/ronish76/elearn-backend/internal/repository"
	"github.com/ronish76/elearn-backend/internal/response"
	"github.com/ronish76/elearn-backend/internal/service"
	"github.com/ronish76/elearn-backend/internal/validator"
)

// AuthHandler handles student login and logout.
type AuthHandler struct {
	authService *service.AuthService
	studentRepo *repository.StudentRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, studentRepo *repository.StudentRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		studentRepo: studentRepo,
	}
}

// Login godoc
// POST /api/v1/auth/login
// Verifies credentials and issues a JWT bound to a single-device session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentRepo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorage)
		return
	}

	if err := h.authService.CheckPassword(student.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateStudentToken(c.Request.Context(), student.ID)
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyActive) {
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"student": student,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Removes the active login session so another device can log in.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.StudentID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "logged_out"})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the logged-in student's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	student, err := h.studentRepo.GetByID(c.Request.Context(), claims.StudentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorage)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}
