package domain

import (
	"strconv"
	"strings"
)

// ProvenanceKey is the reserved entry name under which a result store records
// the configuration snapshot it was computed from. Commands can never be
// registered under it.
const ProvenanceKey = "configuration"

// Provenance identifies the configuration a result store was computed from.
type Provenance struct {
	Hash string `json:"hash"`
	Path string `json:"path"`
}

// CommandStatus represents the lifecycle state of a command within one
// repetition of a run.
type CommandStatus string

const (
	// StatusUnscheduled indicates the command has not been looked at yet.
	StatusUnscheduled CommandStatus = "unscheduled"
	// StatusRunning indicates the command is resolving its scope, dependencies or result.
	StatusRunning CommandStatus = "running"
	// StatusCached indicates a stored result was reused without executing.
	StatusCached CommandStatus = "cached"
	// StatusComputed indicates the command executed and produced a fresh result.
	StatusComputed CommandStatus = "computed"
	// StatusFailed indicates the command failed and the repetition was aborted.
	StatusFailed CommandStatus = "failed"
)

// IsTerminal checks if a status is a terminal state (Cached, Computed, Failed).
func (s CommandStatus) IsTerminal() bool {
	switch s {
	case StatusCached, StatusComputed, StatusFailed:
		return true
	default:
		return false
	}
}

// RepetitionPlaceholder is substituted with the repetition index in result
// file paths when a run repeats.
const RepetitionPlaceholder = "$"

// ExpandRepetition substitutes the repetition index into a result path
// template. Paths without the placeholder are returned unchanged.
func ExpandRepetition(template string, index int) string {
	return strings.ReplaceAll(template, RepetitionPlaceholder, strconv.Itoa(index))
}

// HasRepetitionPlaceholder reports whether a result path template keeps
// repetitions in separate files.
func HasRepetitionPlaceholder(template string) bool {
	return strings.Contains(template, RepetitionPlaceholder)
}
