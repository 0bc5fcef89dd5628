package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("revision %d not found", 4)))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("submit: %w", Conflict("already submitted"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindNotFound))
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := errors.New("invalid api key")
	err := Upstream("question generation failed", cause)

	assert.True(t, Is(err, KindUpstreamFailure))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "question generation failed: invalid api key", err.Error())
}
