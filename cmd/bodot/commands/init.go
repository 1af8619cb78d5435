package commands

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"

	"git.home.luguber.info/inful/bodot/internal/console"
	berrors "git.home.luguber.info/inful/bodot/internal/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct{}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	env, err := openProject(g, root)
	if err != nil {
		return err
	}
	defer env.close()

	q := newPrompter(g.in(), env.printer)
	project := env.project

	if project.ProjectName, err = q.ask("What is the name of your project?"); err != nil {
		return err
	}
	meta, err := q.ask("What is the meta version of your project?")
	if err != nil {
		return err
	}
	if meta == "" {
		project.MetaVersion = nil
	} else {
		project.MetaVersion = &meta
	}
	project.EngineBinaryPath, err = q.askUntil(
		"What is the path to your godot binary?",
		"Could not find a valid godot binary at specified path, please try again",
		func(in string) bool { return isFile(in) },
	)
	if err != nil {
		return err
	}
	project.ExportOutputPath, err = q.askUntil(
		"What is the path to export your project to?",
		"Could not find the specified directory, please try again",
		func(in string) bool { return isDir(env.resolve(in)) },
	)
	if err != nil {
		return err
	}

	if err := env.store.Replace(project); err != nil {
		return berrors.ConfigWriteFailed(env.store.Path(), err)
	}
	env.printer.Success("Successfully configured project")
	return nil
}

// prompter reads trimmed answers line by line.
type prompter struct {
	scanner *bufio.Scanner
	printer *console.Printer
}

func newPrompter(r io.Reader, p *console.Printer) *prompter {
	return &prompter{scanner: bufio.NewScanner(r), printer: p}
}

func (q *prompter) ask(question string) (string, error) {
	q.printer.Info(question)
	if !q.scanner.Scan() {
		if err := q.scanner.Err(); err != nil {
			return "", berrors.WrapError(err, berrors.CategoryRuntime, "failed to read answer")
		}
		return "", berrors.New(berrors.CategoryValidation, berrors.SeverityError, "input ended before setup was complete")
	}
	return strings.TrimSpace(q.scanner.Text()), nil
}

func (q *prompter) askUntil(question, retry string, valid func(string) bool) (string, error) {
	answer, err := q.ask(question)
	for err == nil && !valid(answer) {
		q.printer.Warn(retry)
		answer, err = q.ask(question)
	}
	return answer, err
}

func isFile(path string) bool {
	expanded, err := homedir.Expand(path)
	if err != nil || path == "" {
		return false
	}
	info, err := os.Stat(expanded)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

