package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signSessionToken(t *testing.T, secret string, userID string, email string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", mw, func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusOK, gin.H{"user_id": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "user_email": c.GetString("user_email")})
	})
	return router
}

func doRequest(router *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthTestRouter(AuthMiddleware(testSecret))

	t.Run("missing cookie", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(router, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signSessionToken(t, testSecret, "7", "a@example.com", time.Now().Add(-time.Minute))
		w := doRequest(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signSessionToken(t, "other-secret", "7", "a@example.com", time.Now().Add(time.Hour))
		w := doRequest(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		token := signSessionToken(t, testSecret, "nobody", "a@example.com", time.Now().Add(time.Hour))
		w := doRequest(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token := signSessionToken(t, testSecret, "7", "a@example.com", time.Now().Add(time.Hour))
		w := doRequest(router, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":7,"user_email":"a@example.com"}`, w.Body.String())
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	router := newAuthTestRouter(OptionalAuthMiddleware(testSecret))

	t.Run("no cookie passes through", func(t *testing.T) {
		w := doRequest(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":null}`, w.Body.String())
	})

	t.Run("invalid cookie passes through anonymously", func(t *testing.T) {
		w := doRequest(router, "junk")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":null}`, w.Body.String())
	})

	t.Run("valid cookie resolves user", func(t *testing.T) {
		token := signSessionToken(t, testSecret, "9", "b@example.com", time.Now().Add(time.Hour))
		w := doRequest(router, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":9,"user_email":"b@example.com"}`, w.Body.String())
	})
}
