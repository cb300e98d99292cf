package watch

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
)

// Trigger names why a rebuild ran.
const (
	TriggerInitial  = "initial"
	TriggerChange   = "change"
	TriggerSchedule = "schedule"
)

// Options configures Run.
type Options struct {
	Input     string
	Resources string
	Debounce  time.Duration
	Interval  time.Duration // 0 disables periodic rebuilds
}

// RebuildFunc performs one build. Errors are logged and watching continues.
type RebuildFunc func(ctx context.Context, trigger string) error

// Run builds once, then rebuilds on source changes and on the optional interval
// until ctx is canceled. Rebuilds are serialized; triggers arriving during a
// build are coalesced into one follow-up build.
func Run(ctx context.Context, opts Options, rebuild RebuildFunc) error {
	triggers := make(chan string, 1)
	send := func(trigger string) {
		select {
		case triggers <- trigger:
		default:
		}
	}
	send(TriggerInitial)

	w, err := NewWatcher(opts.Debounce, func() { send(TriggerChange) }, opts.Input, opts.Resources)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	if err := w.Start(ctx); err != nil {
		return err
	}

	if opts.Interval > 0 {
		s, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := s.Every(opts.Interval, func() { send(TriggerSchedule) }); err != nil {
			return err
		}
		s.Start()
		defer func() {
			if err := s.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case trigger := <-triggers:
			slog.Info("Rebuilding", logfields.Trigger(trigger))
			if err := rebuild(ctx, trigger); err != nil {
				slog.Error("Rebuild failed", logfields.Trigger(trigger), logfields.Error(err))
			}
		}
	}
}
