package domain

import (
	"fmt"
	"math"

	"go.trai.ch/zerr"
)

// Reserved top-level configuration keys. Every other top-level key is a
// command scope.
const (
	// KeyResultFile names the result file the run writes.
	KeyResultFile = "result_file"
	// KeyRepeat sets the number of repetitions of the run.
	KeyRepeat = "repeat"
	// KeySeed sets the base seed commands derive their seeds from.
	KeySeed = "seed"
	// KeySetup holds the mapping handed to the registry's setup hook.
	KeySetup = "setup"
)

// Config is a parsed configuration document together with the provenance of
// its raw bytes. The hash covers the bytes on disk, so any textual edit
// invalidates stored results even when it parses to the same tree.
type Config struct {
	Doc  map[string]any
	Hash string
	Path string
}

// Validate checks the types of the reserved keys so that malformed documents
// fail at load time rather than mid-run.
func (c *Config) Validate() error {
	if raw, ok := c.Doc[KeyResultFile]; ok {
		if _, isString := raw.(string); !isString {
			return zerr.With(zerr.With(ErrConfigMalformed, "key", KeyResultFile), "type", fmt.Sprintf("%T", raw))
		}
	}
	if raw, ok := c.Doc[KeyRepeat]; ok {
		if n, isInt := asInt(raw); !isInt || n < 1 {
			return zerr.With(ErrInvalidRepeat, "repeat", fmt.Sprint(raw))
		}
	}
	if raw, ok := c.Doc[KeySeed]; ok {
		if _, isInt := asInt(raw); !isInt {
			return zerr.With(zerr.With(ErrConfigMalformed, "key", KeySeed), "type", fmt.Sprintf("%T", raw))
		}
	}
	if raw, ok := c.Doc[KeySetup]; ok {
		if _, isMap := raw.(map[string]any); !isMap {
			return zerr.With(zerr.With(ErrConfigMalformed, "key", KeySetup), "type", fmt.Sprintf("%T", raw))
		}
	}
	return nil
}

// Scope resolves the configuration scope for a command. A missing entry is an
// empty scope. A string entry is a single level of indirection to another
// top-level mapping; deeper chains are not followed.
func (c *Config) Scope(name string) (map[string]any, error) {
	raw, ok := c.Doc[name]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	if alias, isString := raw.(string); isString {
		target, found := c.Doc[alias]
		if !found {
			return nil, zerr.With(zerr.With(ErrScopeIndirection, "scope", name), "alias", alias)
		}
		m, isMap := target.(map[string]any)
		if !isMap {
			return nil, zerr.With(zerr.With(ErrScopeIndirection, "scope", name), "alias", alias)
		}
		return m, nil
	}
	m, isMap := raw.(map[string]any)
	if !isMap {
		return nil, zerr.With(zerr.With(ErrScopeNotMapping, "scope", name), "type", fmt.Sprintf("%T", raw))
	}
	return m, nil
}

// MergedScope resolves the scope for a command and merges it over the given
// defaults. The document always wins.
func (c *Config) MergedScope(name string, defaults map[string]any) (map[string]any, error) {
	scope, err := c.Scope(name)
	if err != nil {
		return nil, err
	}
	return Merge(defaults, scope), nil
}

// ResultFile returns the configured result file path, when present.
func (c *Config) ResultFile() (string, bool) {
	s, ok := c.Doc[KeyResultFile].(string)
	return s, ok && s != ""
}

// Repeat returns the configured number of repetitions, defaulting to 1.
func (c *Config) Repeat() int {
	raw, ok := c.Doc[KeyRepeat]
	if !ok {
		return 1
	}
	n, isInt := asInt(raw)
	if !isInt || n < 1 {
		return 1
	}
	return n
}

// Seed returns the configured base seed, when present.
func (c *Config) Seed() (int64, bool) {
	raw, ok := c.Doc[KeySeed]
	if !ok {
		return 0, false
	}
	n, isInt := asInt(raw)
	if !isInt {
		return 0, false
	}
	return int64(n), true
}

// Setup returns the mapping handed to the registry's setup hook, when
// present.
func (c *Config) Setup() (map[string]any, bool) {
	m, ok := c.Doc[KeySetup].(map[string]any)
	return m, ok
}

// Merge deep-merges overlay onto base and returns the result. Mappings merge
// key by key; any other overlay value replaces the base value outright.
// Neither input is modified.
func Merge(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		bm, baseIsMap := out[k].(map[string]any)
		om, overlayIsMap := v.(map[string]any)
		if baseIsMap && overlayIsMap {
			out[k] = Merge(bm, om)
			continue
		}
		out[k] = v
	}
	return out
}

// asInt normalizes the integer representations the JSON and YAML parsers
// produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
