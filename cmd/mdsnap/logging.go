package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
	"github.com/mattn/go-isatty"
)

// newLogger logs to w, in color when w is a terminal
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(devslog.NewHandler(w, &devslog.Options{
			HandlerOptions:    opts,
			MaxSlicePrintSize: 10,
			SortKeys:          true,
			TimeFormat:        "[15:04:05]",
		})), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
