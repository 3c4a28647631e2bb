package simulation

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/teaching-prom/internal/config"
	"github.com/mauv0809/teaching-prom/internal/jobrun"
	"github.com/mauv0809/teaching-prom/internal/pubsub"
	"github.com/mauv0809/teaching-prom/internal/sampling"
)

// RunJob performs one execution of profile: it pushes the start transition,
// sleeps for a sampled run time and pushes the sampled outcome. Collaborator
// failures are logged; only cancellation of ctx is returned, in which case
// the run is left without an outcome.
func (s *Simulator) RunJob(ctx context.Context, profile config.JobProfile) (*jobrun.Run, error) {
	run := &jobrun.Run{
		ExecID:      s.newID(),
		Job:         profile.Name,
		MeanRunTime: profile.MeanRunTime,
		StdDev:      profile.StdDev,
		StartedAt:   s.now(),
	}

	s.transition(ctx, run, StatusStart)
	if s.journal != nil {
		if err := s.journal.RecordStart(run); err != nil {
			log.Error("Failed to journal job start", "job", run.Job, "exec_id", run.ExecID, "error", err)
		}
	}

	run.RunTime = max(s.sampler.Duration(profile.MeanRunTime, profile.StdDev), 0)
	log.Info("Executing job", "job", run.Job, "exec_id", run.ExecID, "runtime_s", run.RunTime.Seconds())
	if err := s.sleep(ctx, run.RunTime); err != nil {
		return run, err
	}

	run.Outcome = sampling.Pick(s.sampler, sampling.JobOutcomeTable)
	finished := s.now()
	run.FinishedAt = &finished
	log.Info("Done job", "job", run.Job, "exec_id", run.ExecID, "runtime_s", run.RunTime.Seconds(), "result", run.Outcome)

	s.transition(ctx, run, run.Outcome)
	if s.journal != nil {
		if err := s.journal.RecordFinish(run); err != nil {
			log.Error("Failed to journal job finish", "job", run.Job, "exec_id", run.ExecID, "error", err)
		}
	}
	return run, nil
}

// transition pushes status for run and fans it out to the publisher.
func (s *Simulator) transition(ctx context.Context, run *jobrun.Run, status string) {
	grouping := map[string]string{GroupingKeyID: run.ExecID}
	if err := s.pusher.PushJobTransition(ctx, run.Job, status, grouping); err != nil {
		log.Error("Failed to push job status", "job", run.Job, "status", status, "exec_id", run.ExecID, "error", err)
	}

	if s.publisher == nil {
		return
	}
	event := pubsub.JobTransitionEvent{
		ExecID: run.ExecID,
		Job:    run.Job,
		Status: status,
		At:     s.now(),
	}
	if status != StatusStart {
		event.RunTimeSeconds = run.RunTime.Seconds()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error("Failed to publish job transition", "job", run.Job, "status", status, "error", err)
	}
}

func (s *Simulator) runJob(ctx context.Context, profile config.JobProfile) error {
	for ctx.Err() == nil {
		if _, err := s.RunJob(ctx, profile); err != nil {
			break
		}
	}
	log.Debug("Job loop stopped", "job", profile.Name)
	return nil
}
