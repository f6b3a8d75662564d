package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	"github.com/allisson/keyrelay/internal/auth/http/dto"
	authUseCase "github.com/allisson/keyrelay/internal/auth/usecase"
	apperrors "github.com/allisson/keyrelay/internal/errors"
	"github.com/allisson/keyrelay/internal/httputil"
	customValidation "github.com/allisson/keyrelay/internal/validation"
)

// UserHandler handles HTTP requests for user account operations.
type UserHandler struct {
	userUseCase authUseCase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(userUseCase authUseCase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// RegisterHandler creates a new user account.
// POST /v1/users - Gated by the master secret in the request body.
// Returns 201 Created with the username and plain API key.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &authDomain.RegisterUserInput{
		Username:     req.Username,
		Password:     req.Password,
		MasterSecret: req.MasterSecret,
	}

	output, err := h.userUseCase.Register(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user registered",
		slog.String("username", output.User.Username))

	c.JSON(http.StatusCreated, dto.MapRegisterOutputToResponse(output))
}

// LoginHandler authenticates a user and issues a session token.
// POST /v1/users/login - No authentication required.
// Returns 200 OK with the session token and the user's current API key.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.userUseCase.Login(c.Request.Context(), &authDomain.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user logged in",
		slog.String("username", req.Username))

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:  output.Token,
		APIKey: output.PlainKey,
	})
}

// RotateKeyHandler replaces the user's API key.
// POST /v1/users/rotate-key - Re-authenticates with username and password.
// Returns 200 OK with the new plain API key; the old key is dead on arrival.
func (h *UserHandler) RotateKeyHandler(c *gin.Context) {
	var req dto.RotateKeyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plainKey, err := h.userUseCase.RotateAPIKey(c.Request.Context(), &authDomain.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user api key rotated",
		slog.String("username", req.Username))

	c.JSON(http.StatusOK, dto.RotateKeyResponse{APIKey: plainKey})
}

// MeHandler returns the authenticated user's profile.
// GET /v1/users/me - Requires a valid Bearer session token.
func (h *UserHandler) MeHandler(c *gin.Context) {
	user, ok := GetUser(c.Request.Context())
	if !ok {
		h.logger.Error("profile request without authenticated user")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UserProfileResponse{
		Username:   user.Username,
		CreatedAt:  user.CreatedAt,
		LastAccess: user.LastAccess,
	})
}
