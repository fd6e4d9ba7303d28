package main

import (
	"github.com/hayeah/mdsnap/tree"
)

// TreeCmd defines the command-line arguments for the tree subcommand
type TreeCmd struct {
	Paths   []string `arg:"positional" help:"files or directories to include, relative to the root"`
	From    string   `arg:"--from" help:"TOML manifest with [[file]] path entries to include"`
	Output  *string  `arg:"-o,--output" help:"file to write, - for stdout, empty for the clipboard"`
	Metrics bool     `arg:"-m,--metrics" help:"print the tree's token count to stderr"`
}

// RunTree executes the tree subcommand
func (a *App) RunTree(cmd TreeCmd) error {
	if err := a.selectPaths(cmd.Paths, cmd.From); err != nil {
		return err
	}

	m := a.startMetrics(cmd.Metrics)
	out, missing, err := a.Session.Tree()
	for _, e := range missing {
		a.Logger.Warn("skipped", "err", e)
	}
	if err != nil {
		return err
	}
	if err := a.IO.Write(a.destination(cmd.Output), tree.Export(out)); err != nil {
		return err
	}
	return a.printMetrics(m)
}
