package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduleAndCancel(t *testing.T) {
	s := New(func(userID int64) error { return nil }, zap.NewNop())

	require.NoError(t, s.Schedule(1, 30*time.Minute))
	assert.True(t, s.Scheduled(1))
	assert.False(t, s.Scheduled(2))

	s.Cancel(1)
	assert.False(t, s.Scheduled(1))

	// cancelling an absent entry is a no-op
	s.Cancel(1)
}

func TestScheduleReplacesExistingEntry(t *testing.T) {
	s := New(func(userID int64) error { return nil }, zap.NewNop())

	require.NoError(t, s.Schedule(1, 30*time.Minute))
	require.NoError(t, s.Schedule(1, 5*time.Minute))

	assert.True(t, s.Scheduled(1))
	assert.Len(t, s.entries, 1)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestEntriesAreIndependentPerUser(t *testing.T) {
	s := New(func(userID int64) error { return nil }, zap.NewNop())

	require.NoError(t, s.Schedule(1, 5*time.Minute))
	require.NoError(t, s.Schedule(2, 10*time.Minute))

	s.Cancel(1)
	assert.False(t, s.Scheduled(1))
	assert.True(t, s.Scheduled(2))
}
