package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hayeah/mdsnap"
	"github.com/hayeah/mdsnap/ignore"
	"github.com/hayeah/mdsnap/internal/docio"
	"github.com/hayeah/mdsnap/internal/metrics"
	"github.com/hayeah/mdsnap/internal/metrics/chart"
	"golang.org/x/term"
)

// App holds everything the subcommands share
type App struct {
	Args    Args
	Config  *Config
	Session *mdsnap.Session
	Ignore  ignore.Matcher
	IO      *docio.IO
	Counter metrics.Counter
	Logger  *slog.Logger
}

// selectPaths adds the command-line paths and the manifest entries to the
// session. Paths that cannot be resolved are logged and skipped.
func (a *App) selectPaths(paths []string, manifest string) error {
	if manifest != "" {
		listed, err := LoadManifest(manifest)
		if err != nil {
			return err
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: pass paths to include, or . for the whole root", mdsnap.ErrEmptySelection)
	}

	if err := a.Session.Select(paths...); err != nil {
		a.Logger.Warn("some paths were skipped", "err", err)
	}
	return nil
}

// destination resolves the output: the flag, then the config, then stdout
func (a *App) destination(flag *string) string {
	switch {
	case flag != nil:
		return *flag
	case a.Config.Output != nil:
		return *a.Config.Output
	default:
		return docio.Stdio
	}
}

// startMetrics gives the session a fresh collector when enabled, so every
// pack is counted on its own. Disabled, the session counts nothing.
func (a *App) startMetrics(enabled bool) *metrics.Metrics {
	var m *metrics.Metrics
	if enabled {
		m = metrics.New(a.Counter, runtime.NumCPU())
	}
	a.Session.SetMetrics(m)
	return m
}

func (a *App) printMetrics(m *metrics.Metrics) error {
	if m == nil {
		return nil
	}
	return chart.Print(a.IO.Stderr, m, chart.DefaultOptions(termWidth))
}

func absDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return abs, nil
}

// termWidth returns the width of the terminal, or 80 as a fallback.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func stderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
