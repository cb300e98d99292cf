package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	"git.home.luguber.info/inful/gallerybuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SourceFlags `embed:""`
	BuildFlags  `embed:""`
	Debounce    time.Duration `help:"Quiet period after a change before rebuilding (default from watch.debounce)"`
	Interval    time.Duration `help:"Also rebuild on this interval (0 disables)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	w.SourceFlags.apply(cfg)
	w.BuildFlags.apply(cfg)
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}
	if w.Interval > 0 {
		cfg.Watch.Interval = w.Interval
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return runWatch(ctx, g, cfg)
}

func runWatch(ctx context.Context, g *Global, cfg *config.Config) error {
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	opts := watch.Options{
		Input:     cfg.Input,
		Resources: cfg.Resources,
		Debounce:  cfg.Watch.Debounce,
		Interval:  cfg.Watch.Interval,
	}
	return watch.Run(ctx, opts, func(ctx context.Context, trigger string) error {
		report, err := p.run(ctx, trigger)
		if report != nil {
			_, _ = fmt.Fprintln(g.out(), report.Summary())
		}
		return err
	})
}
