package jobrun

import (
	"testing"
	"time"

	"github.com/mauv0809/teaching-prom/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite journal for testing.
func setupTestDB(t *testing.T) Store {
	t.Helper()

	db, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(db)
}

func TestRecordStartAndFinish(t *testing.T) {
	store := setupTestDB(t)
	started := time.UnixMilli(1_700_000_000_000)

	run := &Run{
		ExecID:      "exec-1",
		Job:         "short_running_job",
		MeanRunTime: 60 * time.Second,
		StdDev:      10 * time.Second,
		StartedAt:   started,
	}
	require.NoError(t, store.RecordStart(run))

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "exec-1", runs[0].ExecID)
	assert.False(t, runs[0].Finished())
	assert.Empty(t, runs[0].Outcome)
	assert.Equal(t, 60*time.Second, runs[0].MeanRunTime)
	assert.True(t, started.Equal(runs[0].StartedAt))

	finished := started.Add(58 * time.Second)
	run.RunTime = 58 * time.Second
	run.Outcome = "success"
	run.FinishedAt = &finished
	require.NoError(t, store.RecordFinish(run))

	runs, err = store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Finished())
	assert.Equal(t, "success", runs[0].Outcome)
	assert.Equal(t, 58*time.Second, runs[0].RunTime)
	assert.True(t, finished.Equal(*runs[0].FinishedAt))
}

func TestRecordStart_RejectsDuplicateExecID(t *testing.T) {
	store := setupTestDB(t)
	run := &Run{ExecID: "dup", Job: "j", StartedAt: time.Now()}
	require.NoError(t, store.RecordStart(run))
	assert.Error(t, store.RecordStart(run))
}

func TestRecordFinish_Errors(t *testing.T) {
	store := setupTestDB(t)
	now := time.Now()

	assert.Error(t, store.RecordFinish(&Run{ExecID: "unfinished"}), "a run without FinishedAt is rejected")
	assert.Error(t, store.RecordFinish(&Run{ExecID: "unknown", Outcome: "success", FinishedAt: &now}), "an unknown run is rejected")
}

func TestRecentOrderAndLimit(t *testing.T) {
	store := setupTestDB(t)
	base := time.UnixMilli(1_700_000_000_000)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.RecordStart(&Run{ExecID: id, Job: "j", StartedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	runs, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ExecID)
	assert.Equal(t, "b", runs[1].ExecID)
}

func TestCountByOutcome(t *testing.T) {
	store := setupTestDB(t)
	now := time.Now()
	for i, outcome := range []string{"success", "success", "failure", ""} {
		run := &Run{ExecID: string(rune('a' + i)), Job: "j", StartedAt: now}
		require.NoError(t, store.RecordStart(run))
		if outcome == "" {
			continue
		}
		run.Outcome = outcome
		run.FinishedAt = &now
		require.NoError(t, store.RecordFinish(run))
	}

	counts, err := store.CountByOutcome()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"success": 2, "failure": 1}, counts)
}
