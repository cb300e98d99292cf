package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/gallerybuilder/internal/eventstore"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Database string `short:"d" help:"Build history database (defaults to history.database)"`
	Limit    int    `short:"n" help:"Number of builds to show (0 = all)" default:"10"`
	JSON     bool   `name:"json" help:"Print summaries as JSON"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	db := cfg.History.Database
	if h.Database != "" {
		db = h.Database
	}
	if db == "" {
		return fmt.Errorf("%w: history.database is not configured", errInvalidUsage)
	}

	store, err := eventstore.NewSQLiteStore(db)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := eventstore.History(context.Background(), store, h.Limit)
	if err != nil {
		return err
	}

	if h.JSON {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(builds)
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tSTATUS\tTRIGGER\tCOLLECTIONS\tDURATION\tBUILD")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			b.StartedAt.Local().Format(time.DateTime), b.Status, b.Trigger, b.Collections,
			b.Duration.Round(time.Millisecond), b.BuildID)
	}
	return tw.Flush()
}
