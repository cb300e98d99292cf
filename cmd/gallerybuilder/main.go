package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/gallerybuilder/cmd/gallerybuilder/commands"
	"git.home.luguber.info/inful/gallerybuilder/internal/foundation/errors"
)

func main() {
	cli := &commands.CLI{}
	parser, err := commands.NewParser(cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	if err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.HandleError(commands.Classify(err))
	}
}
