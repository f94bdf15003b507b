package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := NewJWTManager("test-secret", time.Minute)
	token, err := m.GenerateAccessToken("user-1", "ravi@example.com")
	require.NoError(t, err)

	run := func(header string) (*httptest.ResponseRecorder, *gin.Context) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		if header != "" {
			c.Request.Header.Set("Authorization", header)
		}
		AuthRequired(m)(c)
		return w, c
	}

	t.Run("valid token", func(t *testing.T) {
		_, c := run("Bearer " + token)
		assert.False(t, c.IsAborted())
		assert.Equal(t, "user-1", GetUserID(c))
		assert.Equal(t, "ravi@example.com", GetUserEmail(c))
	})

	t.Run("missing header", func(t *testing.T) {
		w, c := run("")
		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w, _ := run("Basic " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w, c := run("Bearer not-a-token")
		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, GetUserID(c))
	})
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, "header %q", tc.header)
		assert.Equal(t, tc.token, token, "header %q", tc.header)
	}
}
