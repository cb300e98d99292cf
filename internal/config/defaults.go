package config

import "time"

// Default values applied to unset fields.
const (
	DefaultSiteTitle       = "Gallery"
	DefaultThumbnailWidth  = 400
	DefaultThumbnailHeight = 400
	DefaultThumbnailQual   = 40
	DefaultWatchDebounce   = 500 * time.Millisecond
)

// ApplyDefaults fills zero values. Explicit values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Thumbnails.MaxWidth == 0 {
		cfg.Thumbnails.MaxWidth = DefaultThumbnailWidth
	}
	if cfg.Thumbnails.MaxHeight == 0 {
		cfg.Thumbnails.MaxHeight = DefaultThumbnailHeight
	}
	if cfg.Thumbnails.Quality == 0 {
		cfg.Thumbnails.Quality = DefaultThumbnailQual
	}
	if cfg.Build.Policy == "" {
		cfg.Build.Policy = PolicyFailFast
	} else {
		cfg.Build.Policy = NormalizeBuildPolicy(string(cfg.Build.Policy))
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
