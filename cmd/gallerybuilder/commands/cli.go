// Package commands implements the gallerybuilder command line.
package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
	"git.home.luguber.info/inful/gallerybuilder/internal/version"
)

// Global is shared state passed to every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer // user-facing output; logs go to stderr
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"gallerybuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Generate the gallery site from a directory of collections"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Scan    ScanCmd    `cmd:"" help:"List the collections found in the input directory without writing anything"`
	Verify  VerifyCmd  `cmd:"" help:"Check that every local link in the generated site resolves"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever the input directory changes"`
	History HistoryCmd `cmd:"" help:"Show recent builds from the build history database"`
}

// NewParser returns the kong parser for cli.
func NewParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("gallerybuilder"),
		kong.Description("Static photo gallery generator"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	}
	return kong.New(cli, append(base, opts...)...)
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(c.Verbose, config.LoggingConfig{})
	return nil
}

// setupLogging installs the default slog handler. -v wins over the configured level.
func setupLogging(verbose bool, cfg config.LoggingConfig) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		_ = level.UnmarshalText([]byte(cfg.Level))
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// SourceFlags override the input, output and resources locations of the configuration.
type SourceFlags struct {
	Input     string `short:"i" help:"Directory containing one subdirectory per collection"`
	Output    string `short:"o" help:"Output directory for the generated site"`
	Resources string `short:"r" help:"Directory with template and stylesheet overrides"`
}

func (f *SourceFlags) apply(cfg *config.Config) {
	if f.Input != "" {
		cfg.Input = f.Input
	}
	if f.Output != "" {
		cfg.Output = f.Output
	}
	if f.Resources != "" {
		cfg.Resources = f.Resources
	}
}

// loadConfig reads the configuration file. A missing file at the default
// location is not an error; flags then supply the required values.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if errors.Is(err, config.ErrNotFound) && root.Config == config.DefaultPath {
		slog.Debug("No configuration file, using defaults", logfields.Path(root.Config))
		cfg, err = config.Load("")
	}
	if err != nil {
		return nil, err
	}
	setupLogging(root.Verbose, cfg.Logging)
	return cfg, nil
}
