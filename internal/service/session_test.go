package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Confirm(t *testing.T) {
	s := NewSession()
	require.Equal(t, StateAwaitingInput, s.State())

	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Confirm()
	}()

	assert.Equal(t, StateConfirmed, s.Wait(time.Second))
	assert.Equal(t, StateConfirmed, s.State())
}

func TestSession_Cancel(t *testing.T) {
	s := NewSession()

	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Cancel()
	}()

	assert.Equal(t, StateCancelled, s.Wait(time.Second))
}

func TestSession_Timeout(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateTimedOut, s.Wait(10*time.Millisecond))
	assert.Equal(t, StateTimedOut, s.State())
}

func TestSession_FirstTransitionWins(t *testing.T) {
	s := NewSession()
	assert.True(t, s.Confirm())

	// Все последующие переходы игнорируются
	assert.False(t, s.Cancel())
	assert.False(t, s.Confirm())
	assert.Equal(t, StateConfirmed, s.State())
}

func TestSession_LateInputAfterTimeout(t *testing.T) {
	s := NewSession()
	require.Equal(t, StateTimedOut, s.Wait(time.Millisecond))

	assert.False(t, s.Confirm(), "input after timeout must be ignored")
	assert.Equal(t, StateTimedOut, s.State())
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()

	s := r.Register("user-1")
	require.NotNil(t, s)

	got, ok := r.Get("user-1")
	require.True(t, ok)
	assert.Same(t, s, got)

	// Повторная регистрация заменяет сессию того же пользователя
	replacement := r.Register("user-1")
	got, ok = r.Get("user-1")
	require.True(t, ok)
	assert.Same(t, replacement, got)

	r.Remove("user-1")
	_, ok = r.Get("user-1")
	assert.False(t, ok)
}
