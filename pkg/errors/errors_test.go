package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/colhub/hubsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestConfigError(t *testing.T) {
	t.Run("with component", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "params",
			Message:   "endpoints.colhub.api_url is required",
		}
		assert.Equal(t, "configuration error in params: endpoints.colhub.api_url is required", err.Error())
		assert.True(t, pkgerrors.IsConfig(err))
	})

	t.Run("without component", func(t *testing.T) {
		err := pkgerrors.NewConfigError("", "no endpoints", nil)
		assert.Equal(t, "configuration error: no endpoints", err.Error())
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("file missing")
		err := pkgerrors.NewConfigError("params", "cannot read", base)
		assert.ErrorIs(t, err, base)
		assert.ErrorIs(t, err, pkgerrors.ErrConfig)
	})
}

func TestQueryError(t *testing.T) {
	base := &pkgerrors.APIError{Endpoint: "colhub.met.no", StatusCode: 503, Message: "maintenance"}
	err := pkgerrors.NewQueryError("colhub.met.no", "sentinel-1/mainland/SLC_iw/201901", base)

	assert.Contains(t, err.Error(), "sentinel-1/mainland/SLC_iw/201901")
	assert.Contains(t, err.Error(), "colhub.met.no")
	assert.True(t, pkgerrors.IsQuery(err))
	assert.True(t, pkgerrors.IsEndpointUnavailable(err))
	assert.False(t, pkgerrors.IsWrite(err))

	var apiErr *pkgerrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 503, apiErr.StatusCode)
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		unavailable bool
	}{
		{"server error", 500, true},
		{"rate limited", 429, true},
		{"bad request", 400, false},
		{"transport failure", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pkgerrors.APIError{Endpoint: "scihub.copernicus.eu", StatusCode: tt.status, Message: "boom"}
			assert.Equal(t, tt.unavailable, pkgerrors.IsEndpointUnavailable(err))
			assert.Contains(t, err.Error(), "scihub.copernicus.eu")
		})
	}
}

func TestAuthenticationError(t *testing.T) {
	err := &pkgerrors.AuthenticationError{Endpoint: "colhub.met.no", Method: "basic", Message: "invalid credentials"}
	assert.Equal(t, "authentication error for colhub.met.no (basic): invalid credentials", err.Error())
	assert.True(t, pkgerrors.IsUnauthorized(fmt.Errorf("wrapped: %w", err)))
}

func TestWriteError(t *testing.T) {
	base := errors.New("no space left on device")
	err := pkgerrors.WrapWrite("/data/out.txt", base)

	assert.True(t, pkgerrors.IsWrite(err))
	assert.ErrorIs(t, err, base)
	assert.Nil(t, pkgerrors.WrapWrite("/data/out.txt", nil))
}

func TestReconcileError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		base := errors.New("permission denied")
		err := pkgerrors.NewReconcileError("/out/201901", "read reference", base)
		assert.Equal(t, "reconcile /out/201901: read reference: permission denied", err.Error())
		assert.True(t, pkgerrors.IsReconcile(err))
	})

	t.Run("without cause", func(t *testing.T) {
		err := pkgerrors.NewReconcileError("/out/201901", "missing candidate", nil)
		assert.Equal(t, "reconcile /out/201901: missing candidate", err.Error())
	})
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "read",
			Path:      "/tmp/test.json",
			Message:   "permission denied",
			Err:       errors.New("permission denied"),
		}
		assert.Contains(t, err.Error(), "read")
		assert.Contains(t, err.Error(), "/tmp/test.json")
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("network error")
		err := pkgerrors.WrapIO("walk", "/out", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "walk", ioErr.Operation)
		assert.Equal(t, "/out", ioErr.Path)
		assert.Nil(t, pkgerrors.WrapIO("walk", "/out", nil))
	})
}

func TestParseError(t *testing.T) {
	err := pkgerrors.WrapParse("geojson", "aois/mainland.geojson", errors.New("unexpected EOF"))
	assert.Equal(t, "parse error in geojson file aois/mainland.geojson: unexpected EOF", err.Error())

	err = pkgerrors.NewParseError("json", "", "bad feed", nil)
	assert.Equal(t, "json parse error: bad feed", err.Error())
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("month_scope", "weekly", "must be all or first")
	assert.Equal(t, "validation failed for field month_scope: must be all or first", err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))
}
