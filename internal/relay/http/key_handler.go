// Package http provides HTTP handlers for key release and decrypt testing.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/keyrelay/internal/auth/http"
	apperrors "github.com/allisson/keyrelay/internal/errors"
	"github.com/allisson/keyrelay/internal/httputil"
	"github.com/allisson/keyrelay/internal/relay/http/dto"
	relayUseCase "github.com/allisson/keyrelay/internal/relay/usecase"
	customValidation "github.com/allisson/keyrelay/internal/validation"
)

// KeyHandler handles HTTP requests for key release operations.
type KeyHandler struct {
	relayUseCase relayUseCase.RelayUseCase
	logger       *slog.Logger
}

// NewKeyHandler creates a new key handler with required dependencies.
func NewKeyHandler(relayUseCase relayUseCase.RelayUseCase, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		relayUseCase: relayUseCase,
		logger:       logger,
	}
}

// UserKeyHandler releases an upstream key to an authenticated user.
// GET /v1/keys/:service - Requires X-API-Key authentication.
//
// The envelope is sealed under the user's own API key, so only the caller
// who presented the credential can open it. Returns 200 OK with the
// envelope, 404 when the service is unknown or has no configured key.
func (h *KeyHandler) UserKeyHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok || user == nil {
		h.logger.Error("key release without authenticated user",
			slog.String("path", c.Request.URL.Path))
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	service := c.Param("service")

	envelope, err := h.relayUseCase.GetEncryptedKey(c.Request.Context(), service, user.APIKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("key released",
		slog.String("service", service),
		slog.String("username", user.Username))

	c.JSON(http.StatusOK, dto.EncryptedKeyResponse{
		Service:      service,
		EncryptedKey: *envelope,
		Timestamp:    time.Now().UTC(),
	})
}

// AppKeyHandler releases an upstream key to an authenticated app.
// GET /v1/app/keys/:service - Requires X-App-Key authentication plus the
// restriction and per-app rate-limit middlewares.
//
// The envelope is sealed under the presented app key. The app record holds
// only the key's hash, so the sealing secret must come from the header, not
// from storage.
func (h *KeyHandler) AppKeyHandler(c *gin.Context) {
	app, ok := authHTTP.GetApp(c.Request.Context())
	if !ok || app == nil {
		h.logger.Error("key release without authenticated app",
			slog.String("path", c.Request.URL.Path))
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	service := c.Param("service")
	appSecret := c.GetHeader(authHTTP.AppAPIKeyHeader)

	envelope, err := h.relayUseCase.GetEncryptedKey(c.Request.Context(), service, appSecret)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("key released",
		slog.String("service", service),
		slog.String("app_name", app.Name),
		slog.String("environment", string(app.Environment)))

	c.JSON(http.StatusOK, dto.AppEncryptedKeyResponse{
		Service:      service,
		EncryptedKey: *envelope,
		App:          app.Name,
		Environment:  string(app.Environment),
		Timestamp:    time.Now().UTC(),
	})
}

// DecryptTestHandler verifies that an envelope opens under a secret.
// POST /v1/decrypt-test - Requires a valid user API key; reveals only an
// 8-character prefix of the recovered key.
//
// Returns 200 OK with the prefix, 400 for malformed envelopes and failed
// authentication tags alike.
func (h *KeyHandler) DecryptTestHandler(c *gin.Context) {
	var req dto.DecryptTestRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	prefix, err := h.relayUseCase.DecryptTest(c.Request.Context(), &req.EncryptedData, req.Secret)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptTestResponse{KeyPrefix: prefix})
}
