package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bodot/cmd/bodot/commands"
	berrors "git.home.luguber.info/inful/bodot/internal/errors"
	"git.home.luguber.info/inful/bodot/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("bodot"),
		kong.Description("Export every preset of a Godot project into a versioned build folder."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := parser.Run(&commands.Global{Context: ctx, Logger: slog.Default()}, cli)
	stop()
	berrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
