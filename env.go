package onion

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ExtraDirEnv is the well-known environment variable that supplies the extra
// config directory when one is not passed explicitly.
const ExtraDirEnv = "ONION_CONFIG_EXTRA_DIR"

// MissingEnvError occurs when one or more required environment variables are
// not set. It carries every missing name, not just the first, and is raised
// before any config file is read.
type MissingEnvError struct {
	Names []string
}

// Error implements the error interface.
func (e MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Names, ", "))
}

// loadDotenvFiles loads each dotenv file into the process environment, in
// order. Later files override earlier ones, and dotenv values override
// pre-existing environment variables (godotenv.Overload). This is the one
// process-wide side effect of the loader: the environment is populated once
// per Load and never rolled back.
//
// A missing file is not fatal; it is reported per WarnMode.
func loadDotenvFiles(paths []string, mode WarnMode, logger *slog.Logger) error {
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			if err := reportMissing(mode, logger, "dotenv file", path); err != nil {
				return err
			}
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("dotenv file %s: %w", path, err)
		}
	}
	return nil
}

// checkRequiredEnvs verifies every name in required is set, collecting the
// complete list of missing names before failing.
func checkRequiredEnvs(required []string, lookup func(string) (string, bool)) error {
	var missing []string
	for _, name := range required {
		if _, ok := lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return MissingEnvError{Names: missing}
	}
	return nil
}
