package onion

import (
	"fmt"
	"log/slog"
)

// WarnMode controls what happens when an optional resource (a dotenv file,
// a configs directory, the extra directory) does not exist. It never affects
// the merge result, only whether the condition is reported.
type WarnMode int

const (
	// WarnSilent records the condition at debug level only.
	WarnSilent WarnMode = iota
	// WarnLog reports the condition at warn level and continues.
	WarnLog
	// WarnEscalate turns the condition into a MissingPathError, aborting
	// the load.
	WarnEscalate
)

func (m WarnMode) String() string {
	switch m {
	case WarnSilent:
		return "silent"
	case WarnLog:
		return "log"
	case WarnEscalate:
		return "escalate"
	default:
		return fmt.Sprintf("WarnMode(%d)", int(m))
	}
}

// MissingPathError occurs under WarnEscalate when a dotenv file or config
// directory named in the loader's inputs does not exist.
type MissingPathError struct {
	Kind string // "dotenv file" or "config directory"
	Path string
}

// Error implements the error interface.
func (e MissingPathError) Error() string {
	return fmt.Sprintf("%s does not exist: %s", e.Kind, e.Path)
}

// reportMissing applies the configured WarnMode to a missing optional
// resource. It returns a non-nil error only under WarnEscalate.
func reportMissing(mode WarnMode, logger *slog.Logger, kind, path string) error {
	switch mode {
	case WarnEscalate:
		return MissingPathError{Kind: kind, Path: path}
	case WarnLog:
		logger.Warn(kind+" does not exist", "path", path)
	default:
		logger.Debug(kind+" does not exist", "path", path)
	}
	return nil
}
