// Package watcher reports changes under a directory tree, debounced into
// batches.
package watcher

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hayeah/mdsnap/ignore"
	"github.com/hayeah/mdsnap/internal/set"
)

// Watcher watches every directory under a root. fsnotify does not recurse,
// so directories created later are added as they appear.
type Watcher struct {
	root     string
	debounce time.Duration
	ignore   ignore.Matcher
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
}

// New creates a Watcher for root. ig may be nil; ignored directories are not
// watched and ignored paths never show up in a batch.
func New(root string, debounce time.Duration, ig ignore.Matcher, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		debounce: debounce,
		ignore:   ig,
		logger:   logger,
		fsw:      fsw,
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers batches of changed root-relative paths to onChange until ctx
// is done. A batch is sent once no event has arrived for the debounce period.
// onChange runs on the Run goroutine, so batches never overlap. The watcher
// is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer w.fsw.Close()

	pending := set.NewOrdered[string]()
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if rel, ok := w.handleEvent(event); ok {
				pending.Add(rel)
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)

		case <-timer.C:
			if pending.Len() == 0 {
				continue
			}
			paths := pending.Values()
			pending.Clear()
			onChange(paths)
		}
	}
}

// handleEvent returns the root-relative path of a relevant event
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	isDir := false
	if event.Has(fsnotify.Create) {
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			isDir = true
		}
	}

	if w.ignore != nil && w.ignore.Match(rel, isDir) {
		return "", false
	}

	if isDir {
		if err := w.addTree(event.Name); err != nil {
			w.logger.Warn("failed to watch new directory", "path", rel, "err", err)
		}
	}

	w.logger.Debug("change", "path", rel, "op", event.Op.String())
	return rel, true
}

// addTree watches dir and its descendant directories
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.ignore != nil {
			rel, err := filepath.Rel(w.root, p)
			if err == nil && w.ignore.Match(filepath.ToSlash(rel), true) {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", p, err)
		}
		return nil
	})
}
