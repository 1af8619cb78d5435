package commands

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/bodot/internal/config"
	"git.home.luguber.info/inful/bodot/internal/console"
	berrors "git.home.luguber.info/inful/bodot/internal/errors"
	"git.home.luguber.info/inful/bodot/internal/logfields"
)

// ConfigCmd implements the 'config' command.
type ConfigCmd struct {
	Setting string `arg:"" optional:"" help:"Setting name, e.g. ProjectName or MajorVersion"`
	Value   string `arg:"" optional:"" help:"New value"`
}

func (c *ConfigCmd) Run(g *Global, root *CLI) error {
	if c.Setting == "" {
		printSettings(console.New(g.out()))
		return berrors.MissingArgument("setting")
	}
	setting, err := config.ParseSetting(c.Setting)
	if err != nil {
		printSettings(console.New(g.out()))
		return err
	}
	if c.Value == "" {
		return berrors.MissingArgument("value")
	}

	env, err := openProject(g, root)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.store.Check(); err != nil {
		return berrors.ConfigUnreadable(env.store.Path(), err)
	}

	if err := setting.Apply(env.project, c.Value); err != nil {
		return err
	}
	if err := env.store.Save(env.project); err != nil {
		return berrors.ConfigWriteFailed(env.store.Path(), err)
	}

	slog.Debug("Configuration updated", logfields.Setting(setting.String()))
	env.printer.Success("Configured " + setting.String() + "=" + c.Value)
	return nil
}

func printSettings(p *console.Printer) {
	names := make([]string, 0, len(config.Settings()))
	for _, s := range config.Settings() {
		names = append(names, s.String())
	}
	p.Info("Configurable settings: " + strings.Join(names, ", "))
}
