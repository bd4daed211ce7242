package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("error string includes type and cause", func(t *testing.T) {
		err := NewParsingError("bad workbook", fmt.Errorf("zip: not a valid zip file"))
		assert.Equal(t, "[PARSING] bad workbook: zip: not a valid zip file", err.Error())
	})

	t.Run("error string without cause", func(t *testing.T) {
		err := NewConfigError("missing base dir", nil)
		assert.Equal(t, "[CONFIG] missing base dir", err.Error())
	})

	t.Run("sentinels survive wrapping", func(t *testing.T) {
		err := fmt.Errorf("clean total stock: %w", SheetNotFound("stock.xlsx", "Table 1"))
		assert.True(t, stderrors.Is(err, ErrSheetNotFound))
		assert.True(t, IsType(err, ErrTypeParsing))
		assert.False(t, IsType(err, ErrTypeStorage))

		var appErr *AppError
		require.True(t, As(err, &appErr))
		assert.Equal(t, "Table 1", appErr.Context["sheet"])
		assert.Equal(t, "stock.xlsx", appErr.Context["workbook"])
	})

	t.Run("column not found", func(t *testing.T) {
		err := ColumnNotFound("estimates", "Year")
		assert.True(t, Is(err, ErrColumnNotFound))
		assert.Contains(t, err.Error(), `"Year"`)
	})

	t.Run("with context on zero value", func(t *testing.T) {
		err := (&AppError{Type: ErrTypeRender, Message: "x"}).WithContext("chart", "flow")
		assert.Equal(t, "flow", err.Context["chart"])
	})
}

func TestProblemDetailsMarshal(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Resource Not Found", "", "/missing.html").
		WithExtension("request_id", "abc")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeNotFound, got["type"])
	assert.Equal(t, float64(404), got["status"])
	assert.Equal(t, "/missing.html", got["instance"])
	assert.Equal(t, "abc", got["request_id"])
	assert.NotContains(t, got, "detail")
}

func TestErrorToProblem(t *testing.T) {
	h := NewErrorHandler(nil)
	req := httptest.NewRequest(http.MethodGet, "/plots_country.html", nil)

	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"not found", NewNotFoundError("no page", nil), http.StatusNotFound, TypeNotFound},
		{"parsing", NewParsingError("bad sheet", ErrNoRows), http.StatusUnprocessableEntity, TypeDataCorrupted},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.status, pd.Status)
			assert.Equal(t, tt.typ, pd.Type)
			assert.Equal(t, "/plots_country.html", pd.Instance)
		})
	}
}

func TestHandlerResponses(t *testing.T) {
	h := NewErrorHandler(nil)

	tests := []struct {
		name   string
		call   func(w http.ResponseWriter, r *http.Request)
		status int
	}{
		{"not found", h.NotFound, http.StatusNotFound},
		{"method not allowed", h.MethodNotAllowed, http.StatusMethodNotAllowed},
		{"too many requests", h.TooManyRequests, http.StatusTooManyRequests},
		{"handle error", func(w http.ResponseWriter, r *http.Request) {
			h.HandleError(w, r, NewNotFoundError("gone", nil))
		}, http.StatusNotFound},
		{"panic", func(w http.ResponseWriter, r *http.Request) {
			h.HandlePanic(w, r, "kaboom")
		}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.call(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "json")
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	NewErrorHandler(nil).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}
