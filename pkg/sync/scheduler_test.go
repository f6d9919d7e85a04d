package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalFromEnv(t *testing.T) {
	logger := &testLogger{}

	t.Setenv("SYNC_INTERVAL_MINUTES", "")
	assert.Equal(t, 60*time.Minute, IntervalFromEnv(logger))

	t.Setenv("SYNC_INTERVAL_MINUTES", "15")
	assert.Equal(t, 15*time.Minute, IntervalFromEnv(logger))

	for _, bad := range []string{"abc", "0", "-5"} {
		t.Setenv("SYNC_INTERVAL_MINUTES", bad)
		assert.Equal(t, 60*time.Minute, IntervalFromEnv(logger), bad)
	}
}

func TestStartCronRejectsBadExpressions(t *testing.T) {
	s := NewScheduler(nil, &testLogger{})
	require.Error(t, s.StartCron(context.Background(), ""))
	require.Error(t, s.StartCron(context.Background(), "* * *"))
	require.Error(t, s.StartCron(context.Background(), "not a cron at all ok"))
}

func TestStartCronStopsOnContextCancel(t *testing.T) {
	gdb := setupInternalDB(t)
	source := newFakeSource()
	populateFreshSource(source)
	manager := NewManager(testConfig(false), gdb, source, &testLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		// Fires every second, so at least one run completes before cancel.
		done <- NewScheduler(manager, &testLogger{}).StartCron(ctx, "* * * * * *")
	}()

	time.Sleep(1500 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("cron scheduler did not stop after cancel")
	}

	entries, err := manager.Ledger().Entries("", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
