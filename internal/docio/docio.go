// Package docio moves documents between the CLI and their destinations: files,
// standard streams and the system clipboard. Files ending in ".zst" are zstd
// compressed.
package docio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/klauspost/compress/zstd"
)

// Stdio names standard output as a destination and standard input as a source.
const Stdio = "-"

// ZstdExt marks compressed documents.
const ZstdExt = ".zst"

// ErrClipboardUnavailable is returned when no clipboard utility is installed.
var ErrClipboardUnavailable = errors.New("clipboard is not available")

// Clipboard reads and writes the system clipboard
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard uses the platform clipboard
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnavailable
	}
	return clipboard.ReadAll()
}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// IO resolves document sources and destinations
type IO struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer // status output such as the token chart
	Clipboard Clipboard
}

// NewIO returns an IO bound to the process streams and the system clipboard
func NewIO() *IO {
	return &IO{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: SystemClipboard{},
	}
}

// Describe names a destination for status messages
func Describe(dest string) string {
	switch dest {
	case "":
		return "clipboard"
	case Stdio:
		return "stdout"
	default:
		return dest
	}
}

// Write stores doc at dest: Stdio for standard output, "" for the clipboard,
// otherwise a file path. Parent directories of a file are created.
func (d *IO) Write(dest, doc string) error {
	switch dest {
	case Stdio:
		_, err := io.WriteString(d.Stdout, doc)
		return err
	case "":
		if err := d.Clipboard.WriteAll(doc); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		return nil
	}

	content := []byte(doc)
	if IsCompressed(dest) {
		var err error
		if content, err = Compress(content); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// Read loads a document from src: Stdio for standard input, "" for the
// clipboard, otherwise a file path.
func (d *IO) Read(src string) (string, error) {
	switch src {
	case Stdio:
		content, err := io.ReadAll(d.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), nil
	case "":
		doc, err := d.Clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return doc, nil
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}
	if IsCompressed(src) {
		if content, err = Decompress(content); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", src, err)
		}
	}
	return string(content), nil
}

// IsCompressed reports whether p names a zstd document
func IsCompressed(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ZstdExt)
}

// Compress encodes content as a zstd frame
func Compress(content []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(content, nil), nil
}

// Decompress decodes zstd frames
func Decompress(content []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(content, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
