package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vismatch/go-backend/pkg/e"
)

func TestSession_StartFromIdle(t *testing.T) {
	s := NewSession()

	next, err := s.Start()

	require.NoError(t, err)
	assert.Equal(t, StateLoading, next.State)
	assert.Equal(t, StateIdle, s.State, "переход не должен менять исходную сессию")
}

func TestSession_StartWhileLoading(t *testing.T) {
	s := Session{State: StateLoading}

	_, err := s.Start()

	assert.ErrorIs(t, err, e.ErrSearchInFlight)
}

func TestSession_RestartAfterTerminalStates(t *testing.T) {
	for _, state := range []SessionState{StateSuccess, StateError} {
		s := Session{State: state, Message: "old", Results: []RankedProduct{{ID: 1}}}

		next, err := s.Start()

		require.NoError(t, err)
		assert.Equal(t, StateLoading, next.State)
		assert.Empty(t, next.Message)
		assert.Nil(t, next.Results)
	}
}

func TestSession_OkOnlyFromLoading(t *testing.T) {
	results := []RankedProduct{{ID: 1, Similarity: 0.9}}

	next, err := (Session{State: StateLoading}).Ok(results)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, next.State)
	assert.Equal(t, results, next.Results)

	_, err = NewSession().Ok(results)
	assert.ErrorIs(t, err, e.ErrInvalidTransition)
}

func TestSession_FailOnlyFromLoading(t *testing.T) {
	next, err := (Session{State: StateLoading}).Fail("quota exceeded")
	require.NoError(t, err)
	assert.Equal(t, StateError, next.State)
	assert.Equal(t, "quota exceeded", next.Message)

	_, err = (Session{State: StateSuccess}).Fail("late failure")
	assert.ErrorIs(t, err, e.ErrInvalidTransition)
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
}
