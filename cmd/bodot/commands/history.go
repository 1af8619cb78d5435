package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	berrors "git.home.luguber.info/inful/bodot/internal/errors"
	"git.home.luguber.info/inful/bodot/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit   int    `short:"n" help:"Number of builds to list" default:"10"`
	BuildID string `arg:"" optional:"" name:"build-id" help:"Show the events of one build"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	env, err := openProject(g, root)
	if err != nil {
		return err
	}
	defer env.close()

	if env.project.HistoryFile == "" {
		return berrors.New(berrors.CategoryConfig, berrors.SeverityError,
			"No build history configured. Set historyFile in "+env.store.Path())
	}
	store, err := history.NewSQLiteStore(env.resolve(env.project.HistoryFile))
	if err != nil {
		return berrors.WrapError(err, berrors.CategoryFileSystem, "failed to open build history")
	}
	defer func() { _ = store.Close() }()

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	if h.BuildID != "" {
		events, err := store.GetByBuildID(g.ctx(), h.BuildID)
		if err != nil {
			return berrors.WrapError(err, berrors.CategoryRuntime, "failed to read build history")
		}
		if len(events) == 0 {
			return berrors.New(berrors.CategoryValidation, berrors.SeverityError, "no build with id "+h.BuildID)
		}
		_, _ = fmt.Fprintln(tw, "TIME\tEVENT\tPAYLOAD")
		for _, e := range events {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Type, e.Payload)
		}
		return nil
	}

	builds, err := store.Recent(g.ctx(), h.Limit)
	if err != nil {
		return berrors.WrapError(err, berrors.CategoryRuntime, "failed to read build history")
	}
	if len(builds) == 0 {
		env.printer.Info("No builds recorded yet")
		return nil
	}
	_, _ = fmt.Fprintln(tw, "BUILD\tVERSION\tSTARTED\tLAST EVENT")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.BuildID, b.Version, b.Started.Local().Format(time.DateTime), b.LastEvent)
	}
	return nil
}
