package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, code.HTTPStatus(), string(code))
	}
}

func TestCodeOfWrappedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("gone"))
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, "gone", MessageOf(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := errors.New("disk on fire")
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("root")
	err := Wrap(CodeInternal, "query failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query failed")
}
