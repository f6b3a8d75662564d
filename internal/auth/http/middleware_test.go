package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	httpMocks "github.com/allisson/keyrelay/internal/auth/http/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUserSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(mockUseCase *httpMocks.MockUserUseCase) *gin.Engine {
		router := gin.New()
		router.GET("/protected", UserSessionMiddleware(mockUseCase, discardLogger()), func(c *gin.Context) {
			user, ok := GetUser(c.Request.Context())
			if !ok {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"username": user.Username})
		})
		return router
	}

	t.Run("Success_ValidBearerToken", func(t *testing.T) {
		mockUseCase := &httpMocks.MockUserUseCase{}
		router := newRouter(mockUseCase)

		mockUseCase.On("AuthenticateSession", mock.Anything, "valid-token").
			Return(&authDomain.User{Username: "alice"}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice")
	})

	t.Run("Success_CaseInsensitiveBearer", func(t *testing.T) {
		mockUseCase := &httpMocks.MockUserUseCase{}
		router := newRouter(mockUseCase)

		mockUseCase.On("AuthenticateSession", mock.Anything, "valid-token").
			Return(&authDomain.User{Username: "alice"}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer valid-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		mockUseCase := &httpMocks.MockUserUseCase{}
		router := newRouter(mockUseCase)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "AuthenticateSession", mock.Anything, mock.Anything)
	})

	t.Run("Error_MalformedHeader", func(t *testing.T) {
		mockUseCase := &httpMocks.MockUserUseCase{}
		router := newRouter(mockUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_ExpiredSession", func(t *testing.T) {
		mockUseCase := &httpMocks.MockUserUseCase{}
		router := newRouter(mockUseCase)

		mockUseCase.On("AuthenticateSession", mock.Anything, "stale-token").
			Return(nil, authDomain.ErrSessionExpired).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserAPIKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(mockUseCase *httpMocks.MockUserUseCase) *gin.Engine {
		router := gin.New()
		router.GET("/keys/openai", UserAPIKeyMiddleware(mockUseCase, discardLogger()), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("Success_ValidKey", func(t *testing.T) {
		mockUseCase := &httpMocks.MockUserUseCase{}
		router := newRouter(mockUseCase)

		mockUseCase.On("AuthenticateAPIKey", mock.Anything, "sk_user_valid").
			Return(&authDomain.User{Username: "alice", APIKey: "sk_user_valid"}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/keys/openai", nil)
		req.Header.Set(UserAPIKeyHeader, "sk_user_valid")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		mockUseCase := &httpMocks.MockUserUseCase{}
		router := newRouter(mockUseCase)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/keys/openai", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_RotatedKey", func(t *testing.T) {
		mockUseCase := &httpMocks.MockUserUseCase{}
		router := newRouter(mockUseCase)

		mockUseCase.On("AuthenticateAPIKey", mock.Anything, "sk_user_old").
			Return(nil, authDomain.ErrInvalidCredentials).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/keys/openai", nil)
		req.Header.Set(UserAPIKeyHeader, "sk_user_old")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAppAuthenticationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(mockUseCase *httpMocks.MockAppUseCase) *gin.Engine {
		router := gin.New()
		router.GET("/app/keys/openai", AppAuthenticationMiddleware(mockUseCase, discardLogger()), func(c *gin.Context) {
			app, ok := GetApp(c.Request.Context())
			if !ok {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "no app in context"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"app": app.Name})
		})
		return router
	}

	t.Run("Success_ValidKey", func(t *testing.T) {
		mockUseCase := &httpMocks.MockAppUseCase{}
		router := newRouter(mockUseCase)

		mockUseCase.On("Authenticate", mock.Anything, "sk_app_valid").
			Return(&authDomain.App{Name: "billing"}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/app/keys/openai", nil)
		req.Header.Set(AppAPIKeyHeader, "sk_app_valid")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "billing")
	})

	t.Run("Error_ExpiredApp", func(t *testing.T) {
		mockUseCase := &httpMocks.MockAppUseCase{}
		router := newRouter(mockUseCase)

		mockUseCase.On("Authenticate", mock.Anything, "sk_app_expired").
			Return(nil, authDomain.ErrAppExpired).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/app/keys/openai", nil)
		req.Header.Set(AppAPIKeyHeader, "sk_app_expired")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		mockUseCase := &httpMocks.MockAppUseCase{}
		router := newRouter(mockUseCase)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/keys/openai", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})
}

func TestAppRestrictionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := &authDomain.App{
		Name:        "billing",
		Permissions: authDomain.Permissions{OpenAI: true},
	}

	newRouter := func(mockUseCase *httpMocks.MockAppUseCase, authenticated bool) *gin.Engine {
		router := gin.New()
		handlers := []gin.HandlerFunc{}
		if authenticated {
			handlers = append(handlers, func(c *gin.Context) {
				c.Request = c.Request.WithContext(WithApp(c.Request.Context(), app))
				c.Next()
			})
		}
		handlers = append(handlers,
			AppRestrictionMiddleware(mockUseCase, discardLogger()),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		router.GET("/app/keys/:service", handlers...)
		return router
	}

	t.Run("Success_AllChecksPass", func(t *testing.T) {
		mockUseCase := &httpMocks.MockAppUseCase{}
		router := newRouter(mockUseCase, true)

		mockUseCase.On("Authorize", app, authDomain.ServiceOpenAI, mock.Anything, "https://app.example.com").
			Return(nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/app/keys/openai", nil)
		req.Header.Set("Origin", "https://app.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_RestrictionFailed", func(t *testing.T) {
		mockUseCase := &httpMocks.MockAppUseCase{}
		router := newRouter(mockUseCase, true)

		mockUseCase.On("Authorize", app, authDomain.ServiceAnthropic, mock.Anything, mock.Anything).
			Return(authDomain.ErrServiceNotPermitted).
			Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/keys/anthropic", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_NoAuthenticatedApp", func(t *testing.T) {
		mockUseCase := &httpMocks.MockAppUseCase{}
		router := newRouter(mockUseCase, false)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/keys/openai", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_UnknownServicePassesThrough", func(t *testing.T) {
		// Restrictions only gate known services; the handler's own lookup
		// produces the not-found response.
		mockUseCase := &httpMocks.MockAppUseCase{}
		router := newRouter(mockUseCase, true)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/keys/gemini", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
