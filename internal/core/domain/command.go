package domain

import "unique"

// CommandName is an interned command identifier. Command names are repeated
// heavily across store keys, statuses and spans, so they share storage
// through a unique.Handle.
type CommandName struct {
	h unique.Handle[string]
}

// NewCommandName interns a command name.
func NewCommandName(s string) CommandName {
	return CommandName{
		h: unique.Make(s),
	}
}

// NewCommandNames interns a slice of command names in order.
func NewCommandNames(names []string) []CommandName {
	out := make([]CommandName, len(names))
	for i, n := range names {
		out[i] = NewCommandName(n)
	}
	return out
}

// String returns the underlying command name.
func (c CommandName) String() string {
	var zero unique.Handle[string]
	if c.h == zero {
		return ""
	}
	return c.h.Value()
}

// IsZero reports whether the name was never set.
func (c CommandName) IsZero() bool {
	var zero unique.Handle[string]
	return c.h == zero
}

// MarshalText implements encoding.TextMarshaler.
func (c CommandName) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CommandName) UnmarshalText(text []byte) error {
	c.h = unique.Make(string(text))
	return nil
}

// ShowCommandName is the reserved name of the built-in command that renders a
// result store in display form. It cannot be registered by command packs.
const ShowCommandName = "show"
