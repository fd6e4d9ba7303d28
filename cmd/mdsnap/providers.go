package main

import (
	"log/slog"
	"os"

	"github.com/hayeah/mdsnap"
	"github.com/hayeah/mdsnap/ignore"
	"github.com/hayeah/mdsnap/internal/docio"
	"github.com/hayeah/mdsnap/internal/metrics"
	"github.com/hayeah/mdsnap/provider"
)

// ProvideLogger builds the stderr logger
func ProvideLogger(args Args) (*slog.Logger, error) {
	return newLogger(os.Stderr, args.LogLevel)
}

// ProvideConfig loads the project config from the root
func ProvideConfig(args Args) (*Config, error) {
	return LoadConfig(args.Root)
}

// ProvideRoot opens the root directory
func ProvideRoot(args Args) (*provider.FS, error) {
	return provider.NewOS(args.Root)
}

// ProvideIgnore combines .gitignore rules with the exclude globs from the
// config and the command line.
func ProvideIgnore(args Args, cfg *Config, root *provider.FS) (ignore.Matcher, error) {
	var matchers ignore.Any

	if cfg.UseGitignore() && !args.NoGitignore {
		gi, err := ignore.NewIgnore(root.Filesystem())
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, gi)
	}

	if patterns := append(append([]string{}, cfg.Exclude...), args.Exclude...); len(patterns) > 0 {
		globs, err := ignore.NewGlobs(patterns)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, globs)
	}
	return matchers, nil
}

// ProvideCounter picks the token estimator, flag first
func ProvideCounter(args Args, cfg *Config) (metrics.Counter, error) {
	estimator := args.TokenEstimator
	if estimator == "" {
		estimator = cfg.TokenEstimator
	}
	return metrics.NewCounter(estimator)
}

// ProvideSession opens a session on the root
func ProvideSession(args Args, root *provider.FS, ig ignore.Matcher, logger *slog.Logger) (*mdsnap.Session, error) {
	dir, err := absDir(args.Root)
	if err != nil {
		return nil, err
	}
	return mdsnap.NewSession(root, mdsnap.Options{
		Dir:    dir,
		Ignore: ig,
		Logger: logger,
	}), nil
}

// ProvideIO binds document I/O to the process streams
func ProvideIO() *docio.IO {
	return docio.NewIO()
}
