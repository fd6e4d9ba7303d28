package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hayeah/mdsnap/internal/docio"
	"github.com/hayeah/mdsnap/internal/watcher"
)

// PackCmd defines the command-line arguments for the pack subcommand
type PackCmd struct {
	Paths   []string `arg:"positional" help:"files or directories to include, relative to the root"`
	From    string   `arg:"--from" help:"TOML manifest with [[file]] path entries to include"`
	Output  *string  `arg:"-o,--output" help:"file to write, - for stdout, empty for the clipboard; a .zst suffix compresses"`
	Metrics bool     `arg:"-m,--metrics" help:"print a token breakdown to stderr"`
	Watch   bool     `arg:"-w,--watch" help:"pack again whenever a file under the root changes"`
}

// RunPack executes the pack subcommand
func (a *App) RunPack(ctx context.Context, cmd PackCmd) error {
	if err := a.selectPaths(cmd.Paths, cmd.From); err != nil {
		return err
	}

	dest := a.destination(cmd.Output)
	if err := a.pack(dest, cmd.Metrics); err != nil {
		return err
	}

	if cmd.Watch {
		return a.watch(ctx, dest, cmd.Metrics)
	}
	return nil
}

// pack writes the document for the session selection to dest, then the token
// chart when withMetrics is set.
func (a *App) pack(dest string, withMetrics bool) error {
	m := a.startMetrics(withMetrics)
	doc, result, err := a.Session.PackString()
	for _, missing := range result.Missing {
		a.Logger.Warn("skipped", "err", missing)
	}
	if err != nil {
		return err
	}

	if err := a.IO.Write(dest, doc); err != nil {
		return err
	}
	stderrf("packed %d files into %s (%d unreadable, %d warnings)\n",
		result.Sections, docio.Describe(dest), len(result.Failures), len(result.Warnings))
	return a.printMetrics(m)
}

// watch re-packs after every batch of changes until ctx is cancelled.
func (a *App) watch(ctx context.Context, dest string, withMetrics bool) error {
	root := a.Session.RootDir()
	if root == "" {
		return fmt.Errorf("--watch needs a root directory on disk")
	}

	// writing the document must not trigger another pack
	self := ""
	if dest != docio.Stdio && dest != "" {
		if abs, err := filepath.Abs(dest); err == nil {
			if rel, err := filepath.Rel(root, abs); err == nil {
				self = filepath.ToSlash(rel)
			}
		}
	}

	w, err := watcher.New(root, 300*time.Millisecond, a.Ignore, a.Logger)
	if err != nil {
		return err
	}

	stderrf("watching %s, press Ctrl+C to stop\n", root)
	return w.Run(ctx, func(paths []string) {
		changed := 0
		for _, p := range paths {
			if p != self {
				changed++
			}
		}
		if changed == 0 {
			return
		}
		a.Logger.Info("files changed", "count", changed)
		if err := a.pack(dest, withMetrics); err != nil {
			a.Logger.Error("pack failed", "err", err)
		}
	})
}
