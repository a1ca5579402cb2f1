package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	require := require.New(t)
	v := NewVerifier("unit-test-secret")

	token, err := v.Issue(42, "alice@example.com", time.Minute)
	require.NoError(err)

	claims, err := v.Verify(token)
	require.NoError(err)
	require.Equal(int64(42), claims.UserID)
	require.Equal("alice@example.com", claims.Address)
}

func TestVerifyExpiredToken(t *testing.T) {
	require := require.New(t)
	v := NewVerifier("unit-test-secret")

	token, err := v.Issue(42, "alice@example.com", -time.Minute)
	require.NoError(err)

	_, err = v.Verify(token)
	require.ErrorIs(err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	require := require.New(t)

	token, err := NewVerifier("secret-a").Issue(42, "alice@example.com", time.Minute)
	require.NoError(err)

	_, err = NewVerifier("secret-b").Verify(token)
	require.ErrorIs(err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewVerifier("unit-test-secret").Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	require := require.New(t)
	gin.SetMode(gin.TestMode)
	v := NewVerifier("unit-test-secret")

	router := gin.New()
	router.GET("/whoami", Middleware(v), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		require.True(ok)
		addr, ok := CurrentAddress(c)
		require.True(ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "address": addr})
	})

	token, err := v.Issue(7, "bob@example.com", time.Minute)
	require.NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(http.StatusOK, rec.Code)
	require.Contains(rec.Body.String(), `"id":7`)
	require.Contains(rec.Body.String(), "bob@example.com")
}

func TestMiddlewareRejects(t *testing.T) {
	require := require.New(t)
	gin.SetMode(gin.TestMode)
	v := NewVerifier("unit-test-secret")

	router := gin.New()
	router.GET("/whoami", Middleware(v), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := map[string]string{
		"no header":     "",
		"not bearer":    "Basic abc",
		"invalid token": "Bearer garbage",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(http.StatusUnauthorized, rec.Code, name)
	}
}
