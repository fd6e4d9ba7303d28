package main

import (
	"fmt"

	"github.com/hayeah/mdsnap/collect"
)

// LsCmd defines the command-line arguments for the ls subcommand
type LsCmd struct {
	Paths []string `arg:"positional" help:"files or directories to expand, relative to the root"`
	From  string   `arg:"--from" help:"TOML manifest with [[file]] path entries to include"`
	Dirs  bool     `arg:"-d,--dirs" help:"list directories as well as files"`
}

// RunLs executes the ls subcommand
func (a *App) RunLs(cmd LsCmd) error {
	if err := a.selectPaths(cmd.Paths, cmd.From); err != nil {
		return err
	}

	c := collect.New(a.Session.Root(), a.Ignore, a.Logger)

	var listed []string
	var errs []error
	if cmd.Dirs {
		listed, errs = c.Visit(a.Session.Selection())
	} else {
		refs, collectErrs := c.Collect(a.Session.Selection())
		for _, ref := range refs {
			listed = append(listed, ref.Path)
		}
		errs = collectErrs
	}

	for _, e := range errs {
		a.Logger.Warn("skipped", "err", e)
	}
	for _, p := range listed {
		if _, err := fmt.Fprintln(a.IO.Stdout, p); err != nil {
			return err
		}
	}
	return nil
}
