package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"billiard/internal/engine"
	"billiard/internal/repository"
)

func TestNumberField(t *testing.T) {
	body := map[string]any{
		"num":     2.5,
		"str":     " 12000 ",
		"bad":     "twelve",
		"bool":    true,
		"nan":     "NaN",
		"nothing": nil,
	}

	assert.Equal(t, 2.5, numberField(body, "num", 0))
	assert.Equal(t, 12000.0, numberField(body, "str", 0))
	assert.Equal(t, 1.0, numberField(body, "bad", 1))
	assert.Equal(t, 1.0, numberField(body, "bool", 1))
	assert.Equal(t, 7.0, numberField(body, "nan", 7))
	assert.Equal(t, 3.0, numberField(body, "nothing", 3))
	assert.Equal(t, 0.0, numberField(body, "missing", 0))
	assert.False(t, math.IsNaN(numberField(body, "nan", 0)))
}

func TestStringField(t *testing.T) {
	body := map[string]any{"id": "sess_1", "num": 42.0, "obj": map[string]any{}}

	assert.Equal(t, "sess_1", stringField(body, "id"))
	assert.Equal(t, "42", stringField(body, "num"))
	assert.Equal(t, "", stringField(body, "obj"))
	assert.Equal(t, "", stringField(body, "missing"))
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: engine.ErrNotFound, want: http.StatusNotFound},
		{err: engine.ErrOrderNotFound, want: http.StatusNotFound},
		{err: fmt.Errorf("%w: bad table", engine.ErrInvalidInput), want: http.StatusBadRequest},
		{err: engine.ErrAlreadyClosed, want: http.StatusConflict},
		{err: engine.ErrSessionClosed, want: http.StatusConflict},
		{err: fmt.Errorf("checkout: write document: %w", repository.ErrConflict), want: http.StatusConflict},
		{err: errors.New("disk full"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapErrorToHTTPStatus(tt.err), tt.err.Error())
	}
}
