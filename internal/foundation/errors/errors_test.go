package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryPackaging, "write failed").
			Fatal().
			WithContext("phase", "packaging").
			Build()

		assert.Equal(t, CategoryPackaging, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "write failed", err.Message())

		phase, ok := err.Context().GetString("phase")
		require.True(t, ok)
		assert.Equal(t, "packaging", phase)
	})

	t.Run("Wrapped chain", func(t *testing.T) {
		cause := stdErrors.New("disk full")
		err := WrapError(cause, CategoryFileSystem, "write output").Build()
		wrapped := fmt.Errorf("export: %w", err)

		assert.True(t, IsClassified(wrapped))
		assert.True(t, HasCategory(wrapped, CategoryFileSystem))
		assert.ErrorIs(t, wrapped, cause)
		assert.Equal(t, CategoryInternal, GetCategory(cause))
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := AssetError("bad payload").Build()
		derived := base.WithContext("asset", "image-1.png")

		_, inBase := base.Context().Get("asset")
		assert.False(t, inBase)
		name, _ := derived.Context().GetString("asset")
		assert.Equal(t, "image-1.png", name)
		assert.Equal(t, SeverityWarning, derived.Severity())
	})
}

func TestCLIErrorAdapter(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, 0},
		{"validation", ValidationError("no pages").Build(), 2},
		{"config", ConfigError("bad file").Build(), 7},
		{"packaging", PackagingError("zip").Build(), 11},
		{"canceled", CanceledError("stop").Build(), 130},
		{"plain", stdErrors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, a.ExitCodeFor(tt.err))
		})
	}

	msg := a.FormatError(ValidationError("site has no pages").WithContext("phase", "load").WithContext("file", "site.yaml").Build())
	assert.Equal(t, "Error: site has no pages (file=site.yaml, phase=load)", msg)
}

func TestHTTPErrorAdapter(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	a.WriteErrorResponse(rec, req, NewError(CategoryNotFound, "blob not found").WithContext("id", "x").Build())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"blob not found","code":"not_found","details":{"id":"x"}}`, rec.Body.String())
}
