package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/gallerybuilder/internal/build"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	"git.home.luguber.info/inful/gallerybuilder/internal/eventstore"
	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
	"git.home.luguber.info/inful/gallerybuilder/internal/metrics"
	"git.home.luguber.info/inful/gallerybuilder/internal/render"
	"git.home.luguber.info/inful/gallerybuilder/internal/thumbnail"
)

// BuildFlags tune a single build.
type BuildFlags struct {
	DryRun  bool   `name:"dry-run" help:"Plan the build and report what would be written without touching the output directory"`
	Policy  string `help:"Failure policy: fail_fast stops at the first error, best_effort builds everything it can"`
	Workers int    `help:"Number of concurrent workers (0 = number of CPUs)" default:"-1"`
}

func (f *BuildFlags) apply(cfg *config.Config) {
	if f.DryRun {
		cfg.Build.DryRun = true
	}
	if f.Policy != "" {
		cfg.Build.Policy = config.NormalizeBuildPolicy(f.Policy)
	}
	if f.Workers >= 0 {
		cfg.Build.Workers = f.Workers
	}
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SourceFlags `embed:""`
	BuildFlags  `embed:""`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	b.SourceFlags.apply(cfg)
	b.BuildFlags.apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	report, err := p.run(ctx, "cli")
	if report != nil {
		_, _ = fmt.Fprintln(g.out(), report.Summary())
	}
	return err
}

// pipeline holds the collaborators that outlive a single build.
type pipeline struct {
	cfg      *config.Config
	codec    thumbnail.Codec
	recorder *metrics.PrometheusRecorder
	store    *eventstore.SQLiteStore
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	codec := thumbnail.NewImagingCodec()
	codec.MaxWidth = cfg.Thumbnails.MaxWidth
	codec.MaxHeight = cfg.Thumbnails.MaxHeight
	codec.Quality = cfg.Thumbnails.Quality

	p := &pipeline{cfg: cfg, codec: codec}
	if cfg.Metrics.Textfile != "" {
		p.recorder = metrics.NewPrometheusRecorder(nil)
	}
	if cfg.History.Database != "" {
		store, err := eventstore.NewSQLiteStore(cfg.History.Database)
		if err != nil {
			return nil, err
		}
		p.store = store
	}
	return p, nil
}

// run assembles the gallery and builds it. Templates are reloaded every run so
// edits in the resources directory are picked up by watch.
func (p *pipeline) run(ctx context.Context, trigger string) (*build.Report, error) {
	g, err := gallery.Assemble(p.cfg.Input)
	if err != nil {
		return nil, err
	}
	templates, err := render.Load(p.cfg.Resources)
	if err != nil {
		return nil, err
	}

	opts := []build.Option{build.WithTrigger(trigger)}
	if p.recorder != nil {
		opts = append(opts, build.WithRecorder(p.recorder))
	}
	if p.store != nil {
		opts = append(opts, build.WithEventStore(p.store))
	}
	report, err := build.New(p.cfg, templates, p.codec, opts...).Build(ctx, g)

	if p.store != nil && p.cfg.History.Keep > 0 {
		if n, perr := p.store.Prune(context.WithoutCancel(ctx), p.cfg.History.Keep); perr != nil {
			slog.Warn("Failed to prune build history", logfields.Error(perr))
		} else if n > 0 {
			slog.Debug("Pruned build history", logfields.Count(int(n)))
		}
	}

	if p.recorder != nil {
		if werr := p.recorder.WriteTextfile(p.cfg.Metrics.Textfile); werr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(p.cfg.Metrics.Textfile), logfields.Error(werr))
		}
	}
	return report, err
}

func (p *pipeline) Close() {
	if p.store == nil {
		return
	}
	if err := p.store.Close(); err != nil {
		slog.Warn("Failed to close build history", logfields.Error(err))
	}
}
