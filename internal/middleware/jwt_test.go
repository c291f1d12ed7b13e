package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/backend/internal/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService("test-secret", 1)

	r := gin.New()
	echo := func(c *gin.Context) {
		if id, ok := CurrentUserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": id})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	}
	r.GET("/required", JWT(jwtService), echo)
	r.GET("/optional", OptionalJWT(jwtService), echo)
	return r, jwtService
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT_MissingToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, "/required", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWT_InvalidToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, "/required", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWT_ValidToken(t *testing.T) {
	r, jwtService := newTestRouter(t)
	userID := uuid.New()
	token, err := jwtService.Generate(userID, "a@example.com", "attendee")
	require.NoError(t, err)

	w := doRequest(r, "/required", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestOptionalJWT_Anonymous(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code, "anonymous callers pass through")
	assert.Contains(t, w.Body.String(), "null")
}

func TestOptionalJWT_BadTokenTreatedAsAnonymous(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, "/optional", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestOptionalJWT_WithIdentity(t *testing.T) {
	r, jwtService := newTestRouter(t)
	userID := uuid.New()
	token, err := jwtService.Generate(userID, "a@example.com", "attendee")
	require.NoError(t, err)

	w := doRequest(r, "/optional", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
