package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/gallerybuilder/internal/verify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Output string `short:"o" help:"Generated site directory (defaults to the configured output)"`
}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if v.Output != "" {
		cfg.Output = v.Output
	}
	if cfg.Output == "" {
		return fmt.Errorf("%w: output is required", errInvalidUsage)
	}

	result, err := verify.Check(context.Background(), cfg.Output)
	if err != nil {
		return err
	}
	out := g.out()
	for _, b := range result.Broken {
		_, _ = fmt.Fprintln(out, b)
	}
	_, _ = fmt.Fprintf(out, "%d pages, %d links, %d broken\n", result.Pages, result.Links, len(result.Broken))
	if !result.OK() {
		return fmt.Errorf("%w: %d broken", verify.ErrBrokenLinks, len(result.Broken))
	}
	return nil
}
