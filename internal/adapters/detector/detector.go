// Package detector resolves settings from the process environment.
package detector

import (
	"os"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// Settings are the environment variables the tool honors. Command line flags
// take precedence over all of them.
type Settings struct {
	LogLevel  string `env:"MEMO_LOG_LEVEL"`
	LogFormat string `env:"MEMO_LOG_FORMAT"`
}

// FromEnv reads Settings from the process environment.
func FromEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, zerr.Wrap(err, "failed to parse environment settings")
	}
	return s, nil
}

// IsInteractive reports whether stderr is attached to a terminal and the
// process is not running under CI. Logs go to stderr, so that is the stream
// that decides.
func IsInteractive() bool {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	return isTTY && !isCI
}

// ResolveFormat applies the user override to the detected environment.
// userFlag should be one of: "pretty", "json", "auto", or empty.
func ResolveFormat(userFlag string, interactive bool) string {
	switch userFlag {
	case "pretty":
		return "pretty"
	case "json":
		return "json"
	default:
		if interactive {
			return "pretty"
		}
		return "json"
	}
}
