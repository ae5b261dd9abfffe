package venueerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCauseAndKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, Internal, "publish fill")

	assert.Equal(t, Internal, KindOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestAsFindsWrappedVenueError(t *testing.T) {
	ve := Newf(NotFound, "client %d does not exist", 7)
	wrapped := fmt.Errorf("outer context: %w", ve)

	found, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ve, found)
}

func TestHTTPStatusAndBody(t *testing.T) {
	clientErr := Newf(Conflict, "email already in use")
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindOf(clientErr)))
	assert.Equal(t, "email already in use", HTTPBody(clientErr))

	internalErr := Wrap(errors.New("disk full"), Internal, "write row")
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindOf(internalErr)))
	assert.Equal(t, genericInternalBody, HTTPBody(internalErr))
}

func TestKindOfDefaultsToInternalForBareErrors(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("unstructured")))
}
