package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colhub/hubsync/pkg/errors"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	var out struct {
		Value int `json:"value"`
	}

	c := New("colhub", &BasicAuth{Username: "alice", Password: "secret"})
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, 42, out.Value)

	bad := New("colhub", &BasicAuth{Username: "alice", Password: "wrong"})
	err := bad.GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))

	var authErr *errors.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "colhub", authErr.Endpoint)
	assert.Equal(t, "basic", authErr.Method)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		wantUnavailable bool
		wantParse       bool
	}{
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", wantUnavailable: true},
		{name: "throttled", status: http.StatusTooManyRequests, wantUnavailable: true},
		{name: "bad request", status: http.StatusBadRequest, body: "bad query"},
		{name: "malformed json", status: http.StatusOK, body: "{not json", wantParse: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out map[string]any
			err := New("scihub", nil).GetJSON(context.Background(), srv.URL, &out)
			require.Error(t, err)
			assert.Equal(t, tt.wantUnavailable, errors.IsEndpointUnavailable(err))

			if tt.wantParse {
				var parseErr *errors.ParseError
				assert.True(t, errors.As(err, &parseErr))
				return
			}
			var apiErr *errors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "scihub", apiErr.Endpoint)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.body, apiErr.Message)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New("slow", nil, WithTimeout(50*time.Millisecond))
	assert.Equal(t, 50*time.Millisecond, c.Timeout())

	var out map[string]any
	err := c.GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
	assert.Equal(t, "slow", c.Endpoint())
}

func TestClient_InvalidURL(t *testing.T) {
	_, err := New("x", nil).Get(context.Background(), "://bad")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDecodeResponse_TruncatesBody(t *testing.T) {
	long := strings.Repeat("x", maxErrorBody+100)
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusInternalServerError)
	_, _ = rec.WriteString(long)

	err := DecodeResponse(rec.Result(), &struct{}{})
	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Len(t, apiErr.Message, maxErrorBody+3)
}
