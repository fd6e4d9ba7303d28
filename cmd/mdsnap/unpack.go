package main

import (
	"fmt"

	"github.com/hayeah/mdsnap"
	"github.com/hayeah/mdsnap/internal/docio"
	"github.com/hayeah/mdsnap/provider"
)

// UnpackCmd defines the command-line arguments for the unpack subcommand
type UnpackCmd struct {
	Input     string `arg:"positional" default:"-" help:"document to read, - for stdin; a .zst suffix is decompressed"`
	Clipboard bool   `arg:"-c,--clipboard" help:"read the document from the clipboard"`
	Target    string `arg:"-t,--target" help:"directory to write into (default: the root)"`
	DryRun    bool   `arg:"-n,--dry-run" help:"report what would be written without touching any file"`
}

// RunUnpack executes the unpack subcommand
func (a *App) RunUnpack(cmd UnpackCmd) error {
	src := cmd.Input
	if cmd.Clipboard {
		src = ""
	}
	doc, err := a.IO.Read(src)
	if err != nil {
		return err
	}

	var target provider.Provider = a.Session.Root()
	if cmd.Target != "" {
		if target, err = provider.NewOS(cmd.Target); err != nil {
			return err
		}
	}

	report := mdsnap.Unpack(target, doc, mdsnap.UnpackOptions{
		DryRun: cmd.DryRun,
		Logger: a.Logger,
	})
	for _, f := range report.Failures {
		stderrf("error: %v\n", f)
	}
	if report.NoMatches() {
		a.Logger.Warn("document has no file sections", "source", docio.Describe(src))
	}
	stderrf("%s\n", report)

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d files could not be written", len(report.Failures), report.Matched)
	}
	return nil
}
