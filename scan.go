package onion

import (
	"os"
	"path/filepath"
	"strings"
)

// scanConfigDir lists the recognized config files (.yml, .yaml, .json)
// directly inside dir, in lexicographic filename order. That order is the
// contract callers rely on to control precedence within a directory
// (1.base.yml before 2.extra.yml). Subdirectories are not recursed into.
//
// A non-existent directory yields a nil slice and ok=false; the caller
// decides what that means per WarnMode.
func scanConfigDir(dir string) (paths []string, ok bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	// os.ReadDir sorts by filename, which is exactly the ordering contract.
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !recognizedConfigFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, true, nil
}

func recognizedConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml", ".json":
		return true
	default:
		return false
	}
}
