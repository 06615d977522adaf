package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesKind(t *testing.T) {
	errDouble := State("an open session already exists")
	wrapped := fmt.Errorf("clock in: %w", errDouble)

	assert.True(t, errors.Is(wrapped, ErrState))
	assert.True(t, errors.Is(wrapped, errDouble))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, State("another state error")))
}

func TestRepository(t *testing.T) {
	cause := errors.New("connection refused")
	err := Repository("create shift", cause)

	assert.True(t, errors.Is(err, ErrRepository))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "create shift: connection refused", err.Error())
	assert.Nil(t, Repository("noop", nil))
}

func TestRepository_KeepsClassifiedErrors(t *testing.T) {
	missing := NotFound("shift not found")
	err := Repository("get shift", fmt.Errorf("lookup: %w", missing))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrRepository))
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("wrap: %w", Validation("bad")))
	assert.True(t, ok)
	assert.Equal(t, KindValidation, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
