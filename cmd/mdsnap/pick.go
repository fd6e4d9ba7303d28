package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// PickCmd defines the command-line arguments for the pick subcommand
type PickCmd struct {
	Paths  []string `arg:"positional" help:"paths to start with already picked"`
	From   string   `arg:"--from" help:"TOML manifest of paths to start with already picked"`
	Output *string  `arg:"-o,--output" help:"file to write, - for stdout, empty for the clipboard"`
}

// RunPick executes the pick subcommand. Aborting the picker writes nothing.
func (a *App) RunPick(cmd PickCmd) error {
	if len(cmd.Paths) > 0 || cmd.From != "" {
		if err := a.selectPaths(cmd.Paths, cmd.From); err != nil {
			return err
		}
	}

	m, err := newPickModel(a.Session)
	if err != nil {
		return err
	}

	// the TUI draws on stderr so the document can go to stdout
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return err
	}
	fm, ok := final.(pickModel)
	if !ok {
		return fmt.Errorf("could not get final picker state")
	}
	if fm.exitState != ExitStateConfirm {
		return nil
	}
	if fm.status != "" {
		a.Logger.Warn("some picks were skipped", "err", fm.status)
	}

	return a.pack(a.destination(cmd.Output), false)
}
