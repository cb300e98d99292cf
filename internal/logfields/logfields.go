package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCollection = "collection"
	KeyImage      = "image"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyFile       = "file"
	KeyJobs       = "jobs"
	KeyCount      = "count"
	KeyTrigger    = "trigger"
	KeyPolicy     = "policy"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Collection(name string) slog.Attr { return slog.String(KeyCollection, name) }
func Image(name string) slog.Attr      { return slog.String(KeyImage, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func File(name string) slog.Attr       { return slog.String(KeyFile, name) }
func Jobs(n int) slog.Attr             { return slog.Int(KeyJobs, n) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Trigger(t string) slog.Attr       { return slog.String(KeyTrigger, t) }
func Policy(p string) slog.Attr        { return slog.String(KeyPolicy, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
