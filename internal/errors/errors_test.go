package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"goviz/domain/core"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := NotFound("dataset")
	wrapped := Wrap(base, "loading chart data")

	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Equal(t, "loading chart data: dataset not found", wrapped.Error())

	plain := Wrapf(fmt.Errorf("disk full"), "store %s", "a.csv")
	assert.Equal(t, CodeInternalError, GetCode(plain))
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad field"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("dataset"), http.StatusNotFound},
		{core.NewNotFoundError("dataset", "x"), http.StatusNotFound},
		{InvalidInput("no file"), http.StatusBadRequest},
		{UnsupportedFormat(".exe"), http.StatusUnsupportedMediaType},
		{TooLarge(10, 1), http.StatusRequestEntityTooLarge},
		{Unprocessable("parse failed", nil), http.StatusUnprocessableEntity},
		{StorageError("write", nil), http.StatusInternalServerError},
		{core.NewUnknownColumnError("age", []string{"grade"}), http.StatusBadRequest},
		{core.NewInsufficientDataError("no numeric columns"), http.StatusUnprocessableEntity},
		{core.ErrEmptyData, http.StatusUnprocessableEntity},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
