package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/gallerybuilder/internal/eventstore"
	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
)

// ScanCmd implements the 'scan' command.
type ScanCmd struct {
	Input    string `short:"i" help:"Directory containing one subdirectory per collection"`
	Database string `short:"d" help:"Build history database to compare descriptors against (defaults to history.database)"`
}

func (s *ScanCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if s.Input != "" {
		cfg.Input = s.Input
	}
	if cfg.Input == "" {
		return fmt.Errorf("%w: input is required", errInvalidUsage)
	}
	db := cfg.History.Database
	if s.Database != "" {
		db = s.Database
	}

	gal, err := gallery.Assemble(cfg.Input)
	if err != nil {
		return err
	}
	built, err := lastDescriptors(context.Background(), db)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tSLUG\tIMAGES\tFEATURED\tDESCRIPTOR\tTITLE")
	for _, c := range gal.Collections {
		slug, err := c.Slug()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			c.Date, slug, len(c.Images), len(c.Featured), descriptorState(built, c), c.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "%d collections\n", len(gal.Collections))
	return nil
}

// lastDescriptors reads the fingerprints of the last real build. A missing
// database yields nil rather than creating an empty one.
func lastDescriptors(ctx context.Context, db string) (map[string]string, error) {
	if db == "" {
		return nil, nil
	}
	if _, err := os.Stat(db); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	store, err := eventstore.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return eventstore.LastDescriptors(ctx, store)
}

// descriptorState compares c's descriptor against the last build: new,
// changed or unchanged. "-" means there is nothing to compare.
func descriptorState(built map[string]string, c *gallery.Collection) string {
	switch {
	case built == nil || c.Fingerprint == "":
		return "-"
	case built[c.Path] == "":
		return "new"
	case built[c.Path] != c.Fingerprint:
		return "changed"
	default:
		return "unchanged"
	}
}
