package config

import "strings"

// BuildPolicy selects how the build reacts to a failing collection or thumbnail.
type BuildPolicy string

const (
	// PolicyFailFast stops at the first failure and returns it.
	PolicyFailFast BuildPolicy = "fail_fast"
	// PolicyBestEffort attempts every unit of work and returns all failures joined.
	PolicyBestEffort BuildPolicy = "best_effort"
)

// NormalizeBuildPolicy canonicalizes user input. Unknown values are returned
// lower-cased so validation can report them.
func NormalizeBuildPolicy(raw string) BuildPolicy {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch strings.ReplaceAll(v, "-", "_") {
	case string(PolicyFailFast):
		return PolicyFailFast
	case string(PolicyBestEffort):
		return PolicyBestEffort
	default:
		return BuildPolicy(v)
	}
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NormalizeLogLevel maps raw input to a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat maps raw input to a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(raw), "json") {
		return LogFormatJSON
	}
	return LogFormatText
}
