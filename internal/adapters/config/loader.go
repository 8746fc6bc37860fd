// Package config provides the configuration loader for memo.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// DirPrefix marks string values that are resolved against the directory of
// the configuration file at load time.
const DirPrefix = "?/"

// FileConfigLoader implements ports.ConfigLoader for JSON and YAML documents.
type FileConfigLoader struct {
	log ports.Logger
}

// NewLoader creates a configuration loader.
func NewLoader(log ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{log: log}
}

// Load reads and parses the configuration file at path. The returned config
// carries the xxhash64 digest of the raw bytes, so any edit to the file
// invalidates stored results even when the parsed tree is unchanged.
func (l *FileConfigLoader) Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigUnreadable, err), "path", path)
	}
	hash := fmt.Sprintf("%016x", xxhash.Sum64(data))

	doc, err := parse(path, data)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigUnreadable, err), "path", path)
	}
	rewriteDirPaths(doc, filepath.Dir(abs))

	cfg := &domain.Config{Doc: doc, Hash: hash, Path: abs}
	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.log.Debug(fmt.Sprintf("loaded configuration %s (hash %s)", path, hash))
	return cfg, nil
}

// parse picks the decoder by file extension. Everything that is not .yaml or
// .yml is treated as JSON.
func parse(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, zerr.With(errors.Join(domain.ErrConfigMalformed, err), "path", path)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, zerr.With(errors.Join(domain.ErrConfigMalformed, err), "path", path)
		}
	}
	// Both decoders leave the map nil for empty documents and top-level null.
	if doc == nil {
		err := zerr.With(domain.ErrConfigMalformed, "path", path)
		return nil, zerr.With(err, "reason", "top-level value is not a mapping")
	}
	return doc, nil
}

// rewriteDirPaths replaces every string value prefixed with DirPrefix by a
// path relative to the configuration file's directory. Keys are never
// rewritten.
func rewriteDirPaths(node any, dir string) any {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			v[k] = rewriteDirPaths(child, dir)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = rewriteDirPaths(child, dir)
		}
		return v
	case string:
		if rest, ok := strings.CutPrefix(v, DirPrefix); ok {
			return filepath.Join(dir, rest)
		}
		return v
	default:
		return node
	}
}
