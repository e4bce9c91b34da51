package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindDomain:          http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindUpstream:        http.StatusBadGateway,
		KindInternal:        http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status())
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("settle: %w", NotFound("payment not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.Equal(t, "payment not found", PublicMessage(err))
}

func TestPublicMessageHidesInternal(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.3:3306: connection refused")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal server error", PublicMessage(err))
}

func TestUpstreamUnwraps(t *testing.T) {
	cause := errors.New("timeout")
	err := Upstream("payment gateway unavailable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "payment gateway unavailable", PublicMessage(err))
}
