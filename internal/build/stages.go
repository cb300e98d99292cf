package build

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
	"git.home.luguber.info/inful/gallerybuilder/internal/metrics"
)

// StageName identifies a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageRenderIndex  StageName = "render_index"
	StageCollections  StageName = "collections"
	StageStaticAssets StageName = "static_assets"
)

// stageDef pairs a stage name with its executing function.
type stageDef struct {
	Name StageName
	Fn   func(ctx context.Context, r *Report) error
}

// StageError records which stage a failure came from.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return "stage " + string(e.Stage) + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// runStages executes stages in order, recording timing. Under fail_fast the first
// failing stage stops the run; under best_effort later stages still run.
func runStages(ctx context.Context, policy config.BuildPolicy, rec metrics.Recorder, r *Report, stages []stageDef) error {
	var errs []error
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return &StageError{Stage: st.Name, Err: err}
		}

		t0 := time.Now()
		err := st.Fn(ctx, r)
		dur := time.Since(t0)
		r.StageDurations[st.Name] = dur
		rec.ObserveStageDuration(string(st.Name), dur)

		attrs := []any{logfields.BuildID(r.BuildID), logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur.Milliseconds()))}
		switch {
		case err == nil:
			rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
			slog.Debug("Stage complete", attrs...)
			continue
		case errors.Is(err, context.Canceled):
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
		default:
			rec.IncStageResult(string(st.Name), metrics.ResultFailed)
		}
		slog.Error("Stage failed", append(attrs, logfields.Error(err))...)

		se := &StageError{Stage: st.Name, Err: err}
		r.addError(se)
		if policy != config.PolicyBestEffort {
			return se
		}
		errs = append(errs, se)
	}
	return errors.Join(errs...)
}
