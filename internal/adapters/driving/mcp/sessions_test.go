package mcp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func newSession(id string) *mockSession {
	return &mockSession{run: &domain.LocateRun{ID: id}}
}

func TestSessionCache_EvictsOldest(t *testing.T) {
	cache := newSessionCache(3)

	var sessions []*mockSession
	for i := range 5 {
		s := newSession(fmt.Sprintf("run-%d", i))
		sessions = append(sessions, s)
		cache.put(s.run.ID, s)
	}

	assert.True(t, sessions[0].closed)
	assert.True(t, sessions[1].closed)
	assert.False(t, sessions[2].closed)
	assert.Equal(t, 3, cache.len())

	_, err := cache.get("run-0")
	assert.ErrorIs(t, err, ErrUnknownSession)
	got, err := cache.get("run-4")
	require.NoError(t, err)
	assert.Same(t, sessions[4], got)
}

func TestSessionCache_GetRefreshesRecency(t *testing.T) {
	cache := newSessionCache(2)
	a, b, c := newSession("a"), newSession("b"), newSession("c")

	cache.put("a", a)
	cache.put("b", b)
	_, err := cache.get("a")
	require.NoError(t, err)
	cache.put("c", c)

	assert.False(t, a.closed, "a was used after b")
	assert.True(t, b.closed)
}

func TestSessionCache_ReplaceClosesPrevious(t *testing.T) {
	cache := newSessionCache(2)
	first, second := newSession("run"), newSession("run")

	cache.put("run", first)
	cache.put("run", second)
	cache.put("run", second)

	assert.True(t, first.closed)
	assert.False(t, second.closed)
	assert.Equal(t, 1, cache.len())
}

func TestSessionCache_CloseAll(t *testing.T) {
	cache := newSessionCache(maxSessions)
	a, b := newSession("a"), newSession("b")
	cache.put("a", a)
	cache.put("b", b)

	require.NoError(t, cache.closeAll())

	assert.True(t, a.closed)
	assert.True(t, b.closed)
	_, err := cache.get("a")
	assert.ErrorIs(t, err, ErrUnknownSession)
}
