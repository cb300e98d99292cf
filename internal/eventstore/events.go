package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/gallerybuilder/internal/foundation/errors"
)

// Event type names as stored in the events table.
const (
	TypeBuildStarted    = "BuildStarted"
	TypeCollectionBuilt = "CollectionBuilt"
	TypeBuildCompleted  = "BuildCompleted"
	TypeBuildFailed     = "BuildFailed"
)

// BuildStartedMeta describes how a build was invoked.
type BuildStartedMeta struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Policy  string `json:"policy"`
	Workers int    `json:"workers"`
	DryRun  bool   `json:"dry_run"`
	Trigger string `json:"trigger,omitempty"` // cli|watch|schedule
}

// BuildStarted is emitted when a build begins.
type BuildStarted struct {
	BaseEvent
	Config BuildStartedMeta `json:"config"`
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, meta BuildStartedMeta) (*BuildStarted, error) {
	payload, err := marshal(buildID, TypeBuildStarted, meta)
	if err != nil {
		return nil, err
	}
	return &BuildStarted{
		BaseEvent: newBase(buildID, TypeBuildStarted, payload),
		Config:    meta,
	}, nil
}

// CollectionBuiltData summarises the output produced for one collection.
type CollectionBuiltData struct {
	Collection  string `json:"collection"`
	Fingerprint string `json:"fingerprint,omitempty"` // descriptor revision
	Images      int    `json:"images"`
	Thumbnails  int    `json:"thumbnails"`
	Originals   int    `json:"originals"`
	DurationMS  int64  `json:"duration_ms"`
}

// CollectionBuilt is emitted after a collection's page, thumbnails and originals are written.
type CollectionBuilt struct {
	BaseEvent
	Data CollectionBuiltData
}

// NewCollectionBuilt creates a CollectionBuilt event.
func NewCollectionBuilt(buildID string, data CollectionBuiltData) (*CollectionBuilt, error) {
	payload, err := marshal(buildID, TypeCollectionBuilt, data)
	if err != nil {
		return nil, err
	}
	return &CollectionBuilt{
		BaseEvent: newBase(buildID, TypeCollectionBuilt, payload),
		Data:      data,
	}, nil
}

// BuildReportData is the final tally of a build.
type BuildReportData struct {
	Outcome     string   `json:"outcome"`
	Collections int      `json:"collections"`
	Pages       int      `json:"pages"`
	Thumbnails  int      `json:"thumbnails"`
	Originals   int      `json:"originals"`
	Skipped     int      `json:"skipped"`
	Errors      []string `json:"errors,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
}

// BuildCompleted is emitted when a build finishes, successfully or partially.
type BuildCompleted struct {
	BaseEvent
	Report BuildReportData
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, report BuildReportData) (*BuildCompleted, error) {
	payload, err := marshal(buildID, TypeBuildCompleted, report)
	if err != nil {
		return nil, err
	}
	return &BuildCompleted{
		BaseEvent: newBase(buildID, TypeBuildCompleted, payload),
		Report:    report,
	}, nil
}

// BuildFailed is emitted when a build aborts.
type BuildFailed struct {
	BaseEvent
	Stage string
	Error string
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID, stage, message string) (*BuildFailed, error) {
	payload, err := marshal(buildID, TypeBuildFailed, map[string]string{
		"stage": stage,
		"error": message,
	})
	if err != nil {
		return nil, err
	}
	return &BuildFailed{
		BaseEvent: newBase(buildID, TypeBuildFailed, payload),
		Stage:     stage,
		Error:     message,
	}, nil
}

func newBase(buildID, eventType string, payload []byte) BaseEvent {
	return BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   payload,
	}
}

func marshal(buildID, eventType string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, errors.HistoryError("failed to marshal event payload").
			WithCause(err).
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return payload, nil
}
