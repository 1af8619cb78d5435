package commands

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bodot/internal/build"
	"git.home.luguber.info/inful/bodot/internal/engine"
	"git.home.luguber.info/inful/bodot/internal/history"
	"git.home.luguber.info/inful/bodot/internal/logfields"
	"git.home.luguber.info/inful/bodot/internal/metrics"
	"git.home.luguber.info/inful/bodot/internal/notify"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Overwrite   bool   `help:"Replace an existing build of the current version"`
	Zip         bool   `help:"Archive every preset folder into a zip inside it"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this file after the build" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	env, err := openProject(g, root)
	if err != nil {
		return err
	}
	defer env.close()

	runner := g.Runner
	if runner == nil {
		runner = engine.NewBinaryRunner()
	}
	builder := build.NewBuilder(build.Options{
		WorkDir:   env.dir,
		Overwrite: b.Overwrite,
		Zip:       b.Zip,
	}, runner).WithPrinter(env.printer)

	var registry *prometheus.Registry
	if b.MetricsFile != "" {
		registry = prometheus.NewRegistry()
		builder.WithRecorder(metrics.NewPrometheusRecorder(registry))
	}

	if env.project.HistoryFile != "" {
		store, err := history.NewSQLiteStore(env.resolve(env.project.HistoryFile))
		if err != nil {
			slog.Warn("Build history disabled", logfields.Path(env.project.HistoryFile), logfields.Error(err))
		} else {
			defer func() { _ = store.Close() }()
			builder.WithHistory(store)
		}
	}

	if url := env.project.Notify.NATSURL; url != "" {
		pub, err := notify.NewNATSPublisher(url, env.project.NotifySubject())
		if err != nil {
			slog.Warn("Build notifications disabled", slog.String("url", url), logfields.Error(err))
		} else {
			defer func() { _ = pub.Close() }()
			builder.WithPublisher(pub)
		}
	}

	report, runErr := builder.Run(g.ctx(), env.project)

	if registry != nil {
		if err := metrics.WriteTextfile(b.MetricsFile, registry); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(b.MetricsFile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	env.printer.Success(fmt.Sprintf("Built %s for %d preset(s) into %s", report.Version, len(report.Presets), report.Root))
	if report.PatchBumped {
		env.printer.Info("Next version: " + env.project.SemanticVersion())
	}
	return nil
}
