package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFile is read from the root directory when present.
const ConfigFile = ".mdsnap.toml"

// Config holds per-project defaults. Command-line flags take precedence.
type Config struct {
	Exclude        []string `toml:"exclude"`
	Gitignore      *bool    `toml:"gitignore"`
	TokenEstimator string   `toml:"token_estimator"`
	Output         *string  `toml:"output"`
}

// UseGitignore reports whether .gitignore rules apply; the default is yes.
func (c *Config) UseGitignore() bool {
	return c.Gitignore == nil || *c.Gitignore
}

// LoadConfig reads ConfigFile from root. A missing file yields an empty
// Config.
func LoadConfig(root string) (*Config, error) {
	var cfg Config
	p := filepath.Join(root, ConfigFile)

	md, err := toml.DecodeFile(p, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", p, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", p, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// ManifestEntry is one [[file]] table of a selection manifest
type ManifestEntry struct {
	Path string `toml:"path"`
}

// Manifest is a selection stored as TOML:
//
//	[[file]]
//	path = "src/main.go"
type Manifest struct {
	Files []ManifestEntry `toml:"file"`
}

// ParseManifest returns the paths listed in a manifest, in order
func ParseManifest(r io.Reader) ([]string, error) {
	var m Manifest
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	paths := make([]string, 0, len(m.Files))
	for i, f := range m.Files {
		p := strings.TrimSpace(f.Path)
		if p == "" {
			return nil, fmt.Errorf("file entry %d has no path", i+1)
		}
		if strings.Contains(p, "#") {
			return nil, fmt.Errorf("line ranges are not supported: %s", p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// LoadManifest reads a manifest file
func LoadManifest(p string) ([]string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	paths, err := ParseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return paths, nil
}
