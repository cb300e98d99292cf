package build

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Outcome is the final result state of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomePartial  Outcome = "partial" // best_effort run with failures
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report captures what a build did. Counters are safe for concurrent updates.
type Report struct {
	BuildID        string
	DryRun         bool
	Start          time.Time
	End            time.Time
	Outcome        Outcome
	StageDurations map[StageName]time.Duration

	mu                sync.Mutex
	Collections       int
	Pages             int // pages written (changed content only)
	PagesUnchanged    int
	Thumbnails        int // thumbnails generated
	ThumbnailsFresh   int // thumbnails already up to date
	Originals         int // originals and descriptors copied
	OriginalsFresh    int
	Assets            int
	Errors            []error
	FailedCollections []string
}

func newReport(buildID string, dryRun bool) *Report {
	return &Report{
		BuildID:        buildID,
		DryRun:         dryRun,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
	}
}

func (r *Report) add(fn func(r *Report)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

func (r *Report) addError(err error) {
	r.add(func(r *Report) { r.Errors = append(r.Errors, err) })
}

func (r *Report) finish(outcome Outcome) {
	r.End = time.Now()
	r.Outcome = outcome
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// Summary renders a one-line human readable description.
func (r *Report) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d collections, %d pages written (%d unchanged), %d thumbnails generated (%d fresh), %d originals copied (%d fresh)",
		r.Outcome, r.Collections, r.Pages, r.PagesUnchanged, r.Thumbnails, r.ThumbnailsFresh, r.Originals, r.OriginalsFresh)
	if r.DryRun {
		b.WriteString(" [dry run]")
	}
	if n := len(r.Errors); n > 0 {
		fmt.Fprintf(&b, ", %d errors", n)
	}
	return b.String()
}
