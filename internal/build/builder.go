package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	"git.home.luguber.info/inful/gallerybuilder/internal/eventstore"
	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/layout"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
	"git.home.luguber.info/inful/gallerybuilder/internal/metrics"
	"git.home.luguber.info/inful/gallerybuilder/internal/render"
	"git.home.luguber.info/inful/gallerybuilder/internal/thumbnail"
)

// Builder writes galleries to one output root. It is safe to call Build
// repeatedly; concurrent calls must target different output roots.
type Builder struct {
	output    string
	siteTitle string
	workers   int
	policy    config.BuildPolicy
	dryRun    bool
	trigger   string

	templates *render.Templates
	codec     thumbnail.Codec
	recorder  metrics.Recorder
	events    eventstore.Store
}

// Option customises a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder (default metrics.NoopRecorder).
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithEventStore records build history in store.
func WithEventStore(store eventstore.Store) Option {
	return func(b *Builder) { b.events = store }
}

// WithTrigger labels recorded builds (cli, watch, schedule).
func WithTrigger(trigger string) Option {
	return func(b *Builder) { b.trigger = trigger }
}

// New returns a Builder for cfg. Templates and codec are required collaborators.
func New(cfg *config.Config, templates *render.Templates, codec thumbnail.Codec, opts ...Option) *Builder {
	b := &Builder{
		output:    cfg.Output,
		siteTitle: cfg.Site.Title,
		workers:   cfg.Build.Workers,
		policy:    cfg.Build.Policy,
		dryRun:    cfg.Build.DryRun,
		trigger:   "cli",
		templates: templates,
		codec:     codec,
		recorder:  metrics.NoopRecorder{},
	}
	if b.workers <= 0 {
		b.workers = runtime.NumCPU()
	}
	if b.policy == "" {
		b.policy = config.PolicyFailFast
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build writes g to the output root and returns what was done. The returned
// error is the first failure (fail_fast) or all failures joined (best_effort);
// the report is returned in both cases.
func (b *Builder) Build(ctx context.Context, g *gallery.Gallery) (*Report, error) {
	report := newReport(uuid.NewString(), b.dryRun)
	report.Collections = len(g.Collections)
	b.recorder.SetCollections(len(g.Collections))

	log := slog.With(logfields.BuildID(report.BuildID))
	log.Info("Build started",
		logfields.Path(g.Root),
		logfields.Output(b.output),
		logfields.Count(len(g.Collections)),
		logfields.Policy(string(b.policy)),
		slog.Bool("dry_run", b.dryRun))
	b.emit(ctx, report.BuildID, func() (eventstore.Event, error) {
		return eventstore.NewBuildStarted(report.BuildID, eventstore.BuildStartedMeta{
			Input:   g.Root,
			Output:  b.output,
			Policy:  string(b.policy),
			Workers: b.workers,
			DryRun:  b.dryRun,
			Trigger: b.trigger,
		})
	})

	stages := []stageDef{
		{StageRenderIndex, func(ctx context.Context, r *Report) error { return b.renderIndex(ctx, g, r) }},
		{StageCollections, func(ctx context.Context, r *Report) error { return b.buildCollections(ctx, g, r) }},
		{StageStaticAssets, b.writeStaticAssets},
	}
	err := runStages(ctx, b.policy, b.recorder, report, stages)

	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		outcome = OutcomeCanceled
	case b.policy == config.PolicyBestEffort:
		outcome = OutcomePartial
	default:
		outcome = OutcomeFailed
	}
	report.finish(outcome)
	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(string(outcome))

	if err != nil && outcome != OutcomePartial {
		stage := ""
		var se *StageError
		if errors.As(err, &se) {
			stage = string(se.Stage)
		}
		b.emit(ctx, report.BuildID, func() (eventstore.Event, error) {
			return eventstore.NewBuildFailed(report.BuildID, stage, err.Error())
		})
		log.Error("Build failed", logfields.Error(err), logfields.DurationMS(float64(report.Duration().Milliseconds())))
		return report, err
	}

	b.emit(ctx, report.BuildID, func() (eventstore.Event, error) {
		return eventstore.NewBuildCompleted(report.BuildID, b.reportData(report))
	})
	log.Info("Build finished",
		slog.String("outcome", string(outcome)),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, err
}

func (b *Builder) renderIndex(_ context.Context, g *gallery.Gallery, r *Report) error {
	overview, err := render.NewGalleryData(b.siteTitle, b.siteTitle, g)
	if err != nil {
		return err
	}
	page, err := b.templates.Gallery(overview)
	if err != nil {
		return err
	}
	if err := b.writePage(b.outputPath(layout.GalleryPage), page, r); err != nil {
		return err
	}

	index := overview
	index.PageTitle = "Collections - " + b.siteTitle
	page, err = b.templates.Collections(index)
	if err != nil {
		return err
	}
	return b.writePage(b.outputPath(layout.CollectionsPage), page, r)
}

// buildCollections plans every collection up front, then runs pages, thumbnails
// and copies as independent tasks on one pool.
func (b *Builder) buildCollections(ctx context.Context, g *gallery.Gallery, r *Report) error {
	var (
		tasks    []task
		planErrs []error
		plans    []*CollectionPlan
	)
	for _, c := range g.Collections {
		p, err := PlanCollection(c, b.output)
		if err != nil {
			err = fmt.Errorf("collection %s: %w", c.Path, err)
			if b.policy != config.PolicyBestEffort {
				return err
			}
			planErrs = append(planErrs, err)
			r.add(func(r *Report) { r.FailedCollections = append(r.FailedCollections, c.Path) })
			continue
		}
		plans = append(plans, p)
		r.add(func(r *Report) { r.ThumbnailsFresh += len(c.Images) - len(p.Thumbnails) })
		slog.Debug("Planned collection",
			logfields.BuildID(r.BuildID),
			logfields.Collection(c.Path),
			logfields.Jobs(len(p.Thumbnails)))
		tasks = append(tasks, b.collectionTasks(p, r)...)
	}

	started := time.Now()
	failed := newFailureSet()
	poolErr := runPool(ctx, b.workers, b.policy, wrapFailures(tasks, failed))

	for _, p := range plans {
		if failed.has(p.Collection.Path) {
			r.add(func(r *Report) { r.FailedCollections = append(r.FailedCollections, p.Collection.Path) })
			continue
		}
		if poolErr != nil && b.policy != config.PolicyBestEffort {
			continue
		}
		b.emit(ctx, r.BuildID, func() (eventstore.Event, error) {
			return eventstore.NewCollectionBuilt(r.BuildID, eventstore.CollectionBuiltData{
				Collection:  p.Collection.Path,
				Fingerprint: p.Collection.Fingerprint,
				Images:      len(p.Collection.Images),
				Thumbnails:  len(p.Thumbnails),
				Originals:   len(p.Copies),
				DurationMS:  time.Since(started).Milliseconds(),
			})
		})
	}

	return errors.Join(append(planErrs, poolErr)...)
}

func (b *Builder) collectionTasks(p *CollectionPlan, r *Report) []task {
	c := p.Collection
	tasks := make([]task, 0, 1+len(p.Thumbnails)+len(p.Copies))

	tasks = append(tasks, task{name: c.Path, fn: func(context.Context) error {
		data, err := render.NewCollectionPageData(b.siteTitle, c)
		if err != nil {
			return fmt.Errorf("collection %s: %w", c.Path, err)
		}
		page, err := b.templates.Collection(data)
		if err != nil {
			return fmt.Errorf("collection %s: %w", c.Path, err)
		}
		if err := b.writePage(p.Page, page, r); err != nil {
			return fmt.Errorf("collection %s: %w", c.Path, err)
		}
		return nil
	}})

	for _, job := range p.Thumbnails {
		tasks = append(tasks, task{name: c.Path, fn: func(ctx context.Context) error {
			return b.generateThumbnail(ctx, job, r)
		}})
	}

	for _, cp := range p.Copies {
		tasks = append(tasks, task{name: c.Path, fn: func(context.Context) error {
			if b.dryRun {
				if stale := thumbnail.NeedsUpdate(cp.Source, cp.Output); stale {
					r.add(func(r *Report) { r.Originals++ })
				} else {
					r.add(func(r *Report) { r.OriginalsFresh++ })
				}
				return nil
			}
			copied, err := copyIfStale(cp.Source, cp.Output)
			if err != nil {
				return fmt.Errorf("collection %s: copy %s: %w", c.Path, filepath.Base(cp.Source), err)
			}
			if copied {
				b.recorder.IncFilesWritten("original")
				r.add(func(r *Report) { r.Originals++ })
			} else {
				r.add(func(r *Report) { r.OriginalsFresh++ })
			}
			return nil
		}})
	}
	return tasks
}

func (b *Builder) generateThumbnail(ctx context.Context, job thumbnail.Job, r *Report) error {
	if b.dryRun {
		r.add(func(r *Report) { r.Thumbnails++ })
		return nil
	}
	t0 := time.Now()
	err := b.codec.Generate(ctx, job)
	if err != nil {
		b.recorder.ObserveThumbnailDuration(time.Since(t0), metrics.ResultFailed)
		slog.Warn("Thumbnail failed",
			logfields.BuildID(r.BuildID),
			logfields.Collection(job.Collection),
			logfields.Image(job.Image),
			logfields.Error(err))
		return fmt.Errorf("collection %s: thumbnail %s: %w", job.Collection, job.Image, err)
	}
	b.recorder.ObserveThumbnailDuration(time.Since(t0), metrics.ResultSuccess)
	b.recorder.IncFilesWritten("thumbnail")
	r.add(func(r *Report) { r.Thumbnails++ })
	return nil
}

func (b *Builder) writeStaticAssets(_ context.Context, r *Report) error {
	for _, asset := range b.templates.Static() {
		if b.dryRun {
			r.add(func(r *Report) { r.Assets++ })
			continue
		}
		written, err := writeIfChanged(b.outputPath(asset.Name), asset.Content)
		if err != nil {
			return err
		}
		if written {
			b.recorder.IncFilesWritten("asset")
			r.add(func(r *Report) { r.Assets++ })
		}
	}
	return nil
}

// outputPath maps a slash separated layout path to a path under the output root.
func (b *Builder) outputPath(rel string) string {
	return filepath.Join(b.output, filepath.FromSlash(rel))
}

// writePage writes one rendered page.
func (b *Builder) writePage(path string, content []byte, r *Report) error {
	if b.dryRun {
		r.add(func(r *Report) { r.Pages++ })
		return nil
	}
	written, err := writeIfChanged(path, content)
	if err != nil {
		return err
	}
	if written {
		b.recorder.IncFilesWritten("page")
		r.add(func(r *Report) { r.Pages++ })
	} else {
		r.add(func(r *Report) { r.PagesUnchanged++ })
	}
	return nil
}

// emit records a history event. History failures are logged, never fatal.
func (b *Builder) emit(ctx context.Context, buildID string, build func() (eventstore.Event, error)) {
	if b.events == nil {
		return
	}
	ev, err := build()
	if err == nil {
		err = eventstore.Emit(context.WithoutCancel(ctx), b.events, ev)
	}
	if err != nil {
		slog.Warn("Failed to record build event", logfields.BuildID(buildID), logfields.Error(err))
	}
}

func (b *Builder) reportData(r *Report) eventstore.BuildReportData {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := eventstore.BuildReportData{
		Outcome:     string(r.Outcome),
		Collections: r.Collections,
		Pages:       r.Pages,
		Thumbnails:  r.Thumbnails,
		Originals:   r.Originals,
		Skipped:     r.ThumbnailsFresh + r.OriginalsFresh + r.PagesUnchanged,
		DurationMS:  r.Duration().Milliseconds(),
	}
	for _, err := range r.Errors {
		data.Errors = append(data.Errors, err.Error())
	}
	return data
}

// failureSet remembers which collections had a failing task.
type failureSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newFailureSet() *failureSet { return &failureSet{seen: make(map[string]struct{})} }

func (f *failureSet) mark(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[name] = struct{}{}
}

func (f *failureSet) has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.seen[name]
	return ok
}

func wrapFailures(tasks []task, failed *failureSet) []task {
	out := make([]task, len(tasks))
	for i, t := range tasks {
		out[i] = task{name: t.name, fn: func(ctx context.Context) error {
			err := t.fn(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				failed.mark(t.name)
			}
			return err
		}}
	}
	return out
}
