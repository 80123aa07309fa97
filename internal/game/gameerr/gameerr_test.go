package gameerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/gameerr"
)

func TestInvalidStateError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", gameerr.NewInvalidState("resolve attack", "won"))
	assert.True(t, errors.Is(err, gameerr.ErrInvalidState))
	assert.False(t, errors.Is(err, gameerr.ErrConfiguration))
	assert.Equal(t, "wrapped: resolve attack: not allowed in state won", err.Error())

	var ise *gameerr.InvalidStateError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "won", ise.State)
}

func TestViolations_EmptyIsNil(t *testing.T) {
	v := gameerr.NewViolations("combat")
	v.Addf(false, "never")
	assert.NoError(t, v.Err())
}

func TestViolations_CollectsAll(t *testing.T) {
	v := gameerr.NewViolations("progression")
	v.Addf(true, "target_level must be >= 1, got %d", 0)
	v.Addf(true, "xp_per_win must be > 0, got %d", -3)
	err := v.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, gameerr.ErrConfiguration))
	assert.Equal(t,
		"progression configuration invalid: target_level must be >= 1, got 0; xp_per_win must be > 0, got -3",
		err.Error())
}
