package commands

import (
	"os"

	"git.home.luguber.info/inful/bodot/internal/config"
	"git.home.luguber.info/inful/bodot/internal/version"
	"git.home.luguber.info/inful/bodot/internal/vcs"
)

// InfoCmd implements the 'info' command.
type InfoCmd struct{}

func (i *InfoCmd) Run(g *Global, root *CLI) error {
	env, err := openProject(g, root)
	if err != nil {
		return err
	}
	defer env.close()

	p := env.printer
	p.Banner(version.Version)

	data, err := config.Encode(env.project)
	if err != nil {
		return err
	}
	p.Out(string(data))
	p.Out("Version: " + env.project.SemanticVersion())
	if commit, err := vcs.HeadCommit(env.dir); err == nil {
		p.Out("Commit:  " + vcs.ShortHash(commit))
	}
	p.Out("")

	if !env.store.Exists() {
		p.Warn("No config found in current directory")
	}
	enginePath, err := env.project.ResolveEnginePath()
	if info, statErr := os.Stat(enginePath); err != nil || statErr != nil || info.IsDir() {
		p.Warn("Godot binary path is invalid")
	}
	if err := env.project.ValidateVersion(); err != nil {
		p.Warn("Semantic version " + env.project.SemanticVersion() + " is invalid")
	}
	return nil
}
