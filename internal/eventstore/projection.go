// Package eventstore records build history in SQLite and projects it into summaries.
package eventstore

import (
	"context"
	"encoding/json"
	"slices"
	"time"
)

const (
	buildStatusRunning = "running"
	buildStatusFailed  = "failed"
)

// BuildSummary is a read model summarizing a completed or in-progress build.
type BuildSummary struct {
	BuildID      string           `json:"build_id"`
	Status       string           `json:"status"` // running, success, partial, failed
	Trigger      string           `json:"trigger,omitempty"`
	Input        string           `json:"input,omitempty"`
	Output       string           `json:"output,omitempty"`
	DryRun       bool             `json:"dry_run,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
	Duration     time.Duration    `json:"duration,omitempty"`
	Collections  int              `json:"collections"`
	ErrorStage   string           `json:"error_stage,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Report       *BuildReportData `json:"report,omitempty"`
	// Descriptors maps each built collection path to its descriptor fingerprint.
	Descriptors map[string]string `json:"descriptors,omitempty"`
}

// History returns summaries of at most limit builds, newest first. A limit <= 0
// returns all builds.
func History(ctx context.Context, store Store, limit int) ([]*BuildSummary, error) {
	ids, err := store.RecentBuilds(ctx, limit)
	if err != nil {
		return nil, err
	}
	var events []Event
	for _, id := range ids {
		evs, err := store.GetByBuildID(ctx, id)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}
	return Summarize(events, limit), nil
}

// LastDescriptors returns the descriptor fingerprints recorded by the most
// recent non-dry-run build that wrote any collection. It returns nil when no
// such build exists.
func LastDescriptors(ctx context.Context, store Store) (map[string]string, error) {
	builds, err := History(ctx, store, 0)
	if err != nil {
		return nil, err
	}
	for _, b := range builds {
		if b.DryRun || len(b.Descriptors) == 0 {
			continue
		}
		return b.Descriptors, nil
	}
	return nil, nil
}

// Summarize folds events into per-build summaries, newest first.
func Summarize(events []Event, limit int) []*BuildSummary {
	builds := make(map[string]*BuildSummary)
	var order []*BuildSummary
	for _, event := range events {
		id := event.BuildID()
		if id == "" {
			continue
		}
		summary, ok := builds[id]
		if !ok {
			summary = &BuildSummary{BuildID: id, Status: buildStatusRunning, StartedAt: event.Timestamp()}
			builds[id] = summary
			order = append(order, summary)
		}
		apply(summary, event)
	}

	slices.SortStableFunc(order, func(a, b *BuildSummary) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

func apply(summary *BuildSummary, event Event) {
	switch event.Type() {
	case TypeBuildStarted:
		summary.StartedAt = event.Timestamp()
		var meta BuildStartedMeta
		if err := json.Unmarshal(event.Payload(), &meta); err == nil {
			summary.Trigger = meta.Trigger
			summary.Input = meta.Input
			summary.Output = meta.Output
			summary.DryRun = meta.DryRun
		}

	case TypeCollectionBuilt:
		summary.Collections++
		var data CollectionBuiltData
		if err := json.Unmarshal(event.Payload(), &data); err == nil && data.Fingerprint != "" {
			if summary.Descriptors == nil {
				summary.Descriptors = make(map[string]string)
			}
			summary.Descriptors[data.Collection] = data.Fingerprint
		}

	case TypeBuildCompleted:
		finish(summary, event.Timestamp())
		var report BuildReportData
		if err := json.Unmarshal(event.Payload(), &report); err == nil {
			summary.Report = &report
			if report.Outcome != "" {
				summary.Status = report.Outcome
			}
			if report.Collections > summary.Collections {
				summary.Collections = report.Collections
			}
		}

	case TypeBuildFailed:
		finish(summary, event.Timestamp())
		summary.Status = buildStatusFailed
		var payload struct {
			Stage string `json:"stage"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ErrorStage = payload.Stage
			summary.ErrorMessage = payload.Error
		}
	}
}

func finish(summary *BuildSummary, at time.Time) {
	summary.CompletedAt = &at
	summary.Duration = at.Sub(summary.StartedAt)
}
