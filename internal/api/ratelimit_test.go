package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthRateLimit(t *testing.T) {
	ts := setupTestServer(t)

	// Hammer the login endpoint from one IP until the bucket runs dry.
	var limited bool
	for i := 0; i < 15; i++ {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "reader@example.com",
			"password": "wrong-password-here",
		}, "X-Real-IP: 203.0.113.9")
		if resp.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}

	assert.True(t, limited, "repeated auth attempts must hit the rate limit")
}

func TestGetClientIP(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", getClientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7")
	assert.Equal(t, "203.0.113.9", getClientIP(r))
}
