package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := t.Context()

	started, err := NewBuildStarted("b1", BuildStartedMeta{Input: "in", Output: "out", Policy: "fail_fast", Trigger: "cli"})
	require.NoError(t, err)
	require.NoError(t, Emit(ctx, store, started))

	built, err := NewCollectionBuilt("b1", CollectionBuiltData{Collection: "Fuji", Fingerprint: "fp-1", Images: 2, Thumbnails: 2})
	require.NoError(t, err)
	require.NoError(t, Emit(ctx, store, built))

	done, err := NewBuildCompleted("b1", BuildReportData{Outcome: "success", Collections: 1, Pages: 3, Thumbnails: 2})
	require.NoError(t, err)
	require.NoError(t, Emit(ctx, store, done))

	history, err := History(ctx, store, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)

	s := history[0]
	assert.Equal(t, "b1", s.BuildID)
	assert.Equal(t, "success", s.Status)
	assert.Equal(t, "cli", s.Trigger)
	assert.Equal(t, "in", s.Input)
	assert.Equal(t, 1, s.Collections)
	require.NotNil(t, s.CompletedAt)
	require.NotNil(t, s.Report)
	assert.Equal(t, 2, s.Report.Thumbnails)
	assert.Equal(t, map[string]string{"Fuji": "fp-1"}, s.Descriptors)
}

func TestLastDescriptors(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := t.Context()

	last, err := LastDescriptors(ctx, store)
	require.NoError(t, err)
	assert.Nil(t, last)

	record := func(id string, dryRun bool, fingerprints map[string]string) {
		started, err := NewBuildStarted(id, BuildStartedMeta{DryRun: dryRun})
		require.NoError(t, err)
		require.NoError(t, Emit(ctx, store, started))
		for coll, fp := range fingerprints {
			built, err := NewCollectionBuilt(id, CollectionBuiltData{Collection: coll, Fingerprint: fp})
			require.NoError(t, err)
			require.NoError(t, Emit(ctx, store, built))
		}
		done, err := NewBuildCompleted(id, BuildReportData{Outcome: "success"})
		require.NoError(t, err)
		require.NoError(t, Emit(ctx, store, done))
	}

	record("b1", false, map[string]string{"Fuji": "fp-1", "Alps": "fp-a"})
	record("b2", true, map[string]string{"Fuji": "fp-2"})

	last, err = LastDescriptors(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Fuji": "fp-1", "Alps": "fp-a"}, last, "dry runs are skipped")

	record("b3", false, map[string]string{"Fuji": "fp-3"})
	last, err = LastDescriptors(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Fuji": "fp-3"}, last)
}

func TestSummarize_FailedAndOrdering(t *testing.T) {
	base := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	events := []Event{
		&BaseEvent{EventBuildID: "old", EventType: TypeBuildStarted, EventTimestamp: base, EventPayload: []byte(`{}`)},
		&BaseEvent{EventBuildID: "old", EventType: TypeBuildFailed, EventTimestamp: base.Add(time.Second),
			EventPayload: []byte(`{"stage":"collections","error":"decode failed"}`)},
		&BaseEvent{EventBuildID: "new", EventType: TypeBuildStarted, EventTimestamp: base.Add(time.Hour), EventPayload: []byte(`{}`)},
		&BaseEvent{EventBuildID: "", EventType: TypeBuildStarted, EventTimestamp: base},
	}

	all := Summarize(events, 0)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].BuildID)
	assert.Equal(t, buildStatusRunning, all[0].Status)
	assert.Nil(t, all[0].CompletedAt)

	assert.Equal(t, "old", all[1].BuildID)
	assert.Equal(t, buildStatusFailed, all[1].Status)
	assert.Equal(t, "collections", all[1].ErrorStage)
	assert.Equal(t, "decode failed", all[1].ErrorMessage)
	assert.Equal(t, time.Second, all[1].Duration)

	limited := Summarize(events, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].BuildID)
}

func TestBaseEventDecode(t *testing.T) {
	ev, err := NewCollectionBuilt("b", CollectionBuiltData{Collection: "Fuji", Images: 4})
	require.NoError(t, err)

	var data CollectionBuiltData
	require.NoError(t, ev.Decode(&data))
	assert.Equal(t, "Fuji", data.Collection)
	assert.Equal(t, 4, data.Images)
}
