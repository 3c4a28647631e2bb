package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/teaching-prom/internal/config"
	"github.com/mauv0809/teaching-prom/internal/jobrun"
	"github.com/mauv0809/teaching-prom/internal/metrics"
	"github.com/mauv0809/teaching-prom/internal/pubsub"
	"github.com/mauv0809/teaching-prom/internal/pushgateway"
	"github.com/mauv0809/teaching-prom/internal/sampling"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortJob = config.JobProfile{Name: "short_running_job", MeanRunTime: 60 * time.Second, StdDev: 10 * time.Second}

// fakeSleeper records requested durations and returns immediately. After
// limit calls it cancels the loop through cancel.
type fakeSleeper struct {
	mu     sync.Mutex
	calls  []time.Duration
	limit  int
	cancel context.CancelFunc
}

func (f *fakeSleeper) sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	f.calls = append(f.calls, d)
	n := len(f.calls)
	f.mu.Unlock()
	if f.limit > 0 && n >= f.limit && f.cancel != nil {
		f.cancel()
	}
	return ctx.Err()
}

func (f *fakeSleeper) durations() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.calls...)
}

func newTestSimulator(m metrics.Metrics, p pushgateway.Pusher, jobs ...config.JobProfile) *Simulator {
	s := New(m, p, sampling.New(1), 3, jobs)
	ids := 0
	s.newID = func() string {
		ids++
		return fmt.Sprintf("exec-%d", ids)
	}
	return s
}

func TestSimulateRequest(t *testing.T) {
	m := metrics.NewMock()
	s := newTestSimulator(m, pushgateway.NewMock())

	for i := 0; i < 50; i++ {
		_, err := s.SimulateRequest()
		require.NoError(t, err)
	}

	obs := m.Observations()
	require.Len(t, obs, 50)
	for _, o := range obs {
		assert.Equal(t, RequestMethod, o.Labels[metrics.LabelMethod])
		assert.Equal(t, RequestPath, o.Labels[metrics.LabelPath])
		assert.Contains(t, sampling.HTTPStatusTable.Values(), o.Labels[metrics.LabelStatus])
		assert.InDelta(t, RequestMeanSeconds, o.Value, 6*RequestStdDevSeconds)
	}
}

func TestRunRequests_SleepsForSampledLatency(t *testing.T) {
	m := metrics.NewMock()
	s := newTestSimulator(m, pushgateway.NewMock())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fs := &fakeSleeper{limit: 10, cancel: cancel}
	s.sleep = fs.sleep

	require.NoError(t, s.runRequests(ctx))

	obs := m.Observations()
	sleeps := fs.durations()
	require.Len(t, obs, 10)
	require.Len(t, sleeps, 10)
	for i := range obs {
		assert.Equal(t, secondsToDuration(obs[i].Value), sleeps[i])
	}
}

func TestRunRequests_ContinuesOnSinkError(t *testing.T) {
	m := metrics.NewMock()
	m.ObserveRequestDurationFunc = func(prometheus.Labels, float64) error {
		return metrics.ErrLabelMismatch
	}
	s := newTestSimulator(m, pushgateway.NewMock())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.sleep = (&fakeSleeper{limit: 3, cancel: cancel}).sleep

	require.NoError(t, s.runRequests(ctx))
	assert.Len(t, m.Observations(), 3)
}

func TestSecondsToDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), secondsToDuration(-0.2))
	assert.Equal(t, time.Duration(0), secondsToDuration(0))
	assert.Equal(t, 300*time.Millisecond, secondsToDuration(0.3))
}

func TestSimulateSeasonalCount(t *testing.T) {
	m := metrics.NewMock()
	s := newTestSimulator(m, pushgateway.NewMock())

	// A quarter period into the cycle the wave sits at its crest.
	crest := time.Unix(150, 0)
	for i := 0; i < 20; i++ {
		v, inc, err := s.SimulateSeasonalCount(crest)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, float64(SeasonalMinAmplitude)-1e-6)
		assert.Less(t, v, float64(SeasonalMaxAmplitude))
		assert.InDelta(t, v*SeasonalScale, inc, 1e-6)
	}

	// Three quarters in the wave is negative and nothing is counted.
	trough := time.Unix(450, 0)
	v, inc, err := s.SimulateSeasonalCount(trough)
	require.NoError(t, err)
	assert.Less(t, v, 0.0)
	assert.Equal(t, 0.0, inc)

	calls := m.Rhythm()
	require.Len(t, calls, 21)
	assert.Equal(t, prometheus.Labels{
		metrics.LabelComponent: SeasonalComponent,
		metrics.LabelAction:    SeasonalAction,
	}, calls[0].Labels)
	for _, c := range calls {
		assert.GreaterOrEqual(t, c.Value, 0.0)
	}
}

func TestRunSeasonal_StopsOnCancel(t *testing.T) {
	m := metrics.NewMock()
	s := New(m, pushgateway.NewMock(), sampling.New(2), 200, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, s.runSeasonal(ctx))

	n := len(m.Rhythm())
	assert.Greater(t, n, 1)
	assert.LessOrEqual(t, n, 30, "the limiter should pace the loop at the sampling rate")
}

func TestRunJob_PushesStartAndOutcome(t *testing.T) {
	pusher := pushgateway.NewMock()
	journal := jobrun.NewMock()
	publisher := pubsub.NewMock()
	s := newTestSimulator(metrics.NewMock(), pusher, shortJob).WithJournal(journal).WithPublisher(publisher)
	fs := &fakeSleeper{}
	s.sleep = fs.sleep

	run, err := s.RunJob(context.Background(), shortJob)
	require.NoError(t, err)

	assert.Equal(t, "exec-1", run.ExecID)
	assert.Equal(t, shortJob.Name, run.Job)
	assert.Contains(t, []string{sampling.OutcomeFailure, sampling.OutcomeSuccess}, run.Outcome)
	assert.True(t, run.Finished())
	assert.Equal(t, []time.Duration{run.RunTime}, fs.durations())

	transitions := pusher.Transitions()
	require.Len(t, transitions, 2)
	grouping := map[string]string{GroupingKeyID: "exec-1"}
	assert.Equal(t, pushgateway.Transition{Job: shortJob.Name, Status: StatusStart, Grouping: grouping}, transitions[0])
	assert.Equal(t, pushgateway.Transition{Job: shortJob.Name, Status: run.Outcome, Grouping: grouping}, transitions[1])

	require.Len(t, journal.Starts(), 1)
	require.Len(t, journal.Finishes(), 1)
	assert.Equal(t, run.Outcome, journal.Finishes()[0].Outcome)

	events, err := publisher.Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, StatusStart, events[0].Status)
	assert.Equal(t, 0.0, events[0].RunTimeSeconds)
	assert.Equal(t, run.Outcome, events[1].Status)
	assert.InDelta(t, run.RunTime.Seconds(), events[1].RunTimeSeconds, 1e-9)
}

func TestRunJob_NewExecIDEachCycle(t *testing.T) {
	pusher := pushgateway.NewMock()
	s := newTestSimulator(metrics.NewMock(), pusher, shortJob)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.sleep = (&fakeSleeper{limit: 3, cancel: cancel}).sleep

	require.NoError(t, s.runJob(ctx, shortJob))

	ids := map[string]int{}
	for _, tr := range pusher.Transitions() {
		ids[tr.Grouping[GroupingKeyID]]++
	}
	// Two complete cycles push twice each; the third is cancelled after its start.
	assert.Equal(t, map[string]int{"exec-1": 2, "exec-2": 2, "exec-3": 1}, ids)
}

func TestRunJob_CollaboratorFailuresAreNotFatal(t *testing.T) {
	pusher := pushgateway.NewMock()
	pusher.PushJobTransitionFunc = func(context.Context, string, string, map[string]string) error {
		return errors.New("gateway unreachable")
	}
	journal := jobrun.NewMock()
	journal.RecordStartFunc = func(*jobrun.Run) error { return errors.New("disk full") }
	publisher := pubsub.NewMock()
	publisher.PublishFunc = func(context.Context, pubsub.JobTransitionEvent) error { return errors.New("no topic") }

	s := newTestSimulator(metrics.NewMock(), pusher, shortJob).WithJournal(journal).WithPublisher(publisher)
	s.sleep = (&fakeSleeper{}).sleep

	run, err := s.RunJob(context.Background(), shortJob)
	require.NoError(t, err)
	assert.NotEmpty(t, run.Outcome)
	assert.Len(t, pusher.Transitions(), 2)
	assert.Len(t, journal.Finishes(), 1)
}

func TestRunJob_CancelledWhileRunning(t *testing.T) {
	pusher := pushgateway.NewMock()
	journal := jobrun.NewMock()
	s := newTestSimulator(metrics.NewMock(), pusher, shortJob).WithJournal(journal)

	ctx, cancel := context.WithCancel(context.Background())
	s.sleep = (&fakeSleeper{limit: 1, cancel: cancel}).sleep

	run, err := s.RunJob(ctx, shortJob)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, run.Finished())
	assert.Len(t, pusher.Transitions(), 1)
	assert.Empty(t, journal.Finishes())
}

func TestRunJob_NegativeRunTimeIsClamped(t *testing.T) {
	profile := config.JobProfile{Name: "jittery", MeanRunTime: 0, StdDev: 10 * time.Second}
	s := newTestSimulator(metrics.NewMock(), pushgateway.NewMock(), profile)
	s.sleep = (&fakeSleeper{}).sleep

	for i := 0; i < 50; i++ {
		run, err := s.RunJob(context.Background(), profile)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, run.RunTime, time.Duration(0))
	}
}

func TestStartStop(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, err := metrics.NewService(reg)
	require.NoError(t, err)
	pusher := pushgateway.NewMock()
	jobs := []config.JobProfile{
		{Name: "a", MeanRunTime: 5 * time.Millisecond, StdDev: time.Millisecond},
		{Name: "b", MeanRunTime: 10 * time.Millisecond, StdDev: time.Millisecond},
	}
	s := New(svc, pusher, sampling.NewRandom(), 50, jobs)

	h := s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return testutil.CollectAndCount(svc.RequestDuration) > 0 &&
			testutil.CollectAndCount(svc.Rhythm) > 0 &&
			len(pusher.Transitions()) >= 4
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, h.Stop())

	pushed := len(pusher.Transitions())
	rhythm := testutil.ToFloat64(svc.Rhythm.WithLabelValues(SeasonalComponent, SeasonalAction))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, pushed, len(pusher.Transitions()), "no pushes after Stop")
	assert.Equal(t, rhythm, testutil.ToFloat64(svc.Rhythm.WithLabelValues(SeasonalComponent, SeasonalAction)))

	seen := map[string]bool{}
	for _, tr := range pusher.Transitions() {
		seen[tr.Job] = true
	}
	assert.True(t, seen["a"] && seen["b"], "every profile runs its own loop")
}

func TestStart_ParentContextCancellation(t *testing.T) {
	s := New(metrics.NewMock(), pushgateway.NewMock(), sampling.New(3), 10, []config.JobProfile{shortJob})
	ctx, cancel := context.WithCancel(context.Background())
	h := s.Start(ctx)
	cancel()

	done := make(chan error, 1)
	go func() { done <- h.Wait() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loops did not stop after the parent context was cancelled")
	}
}
