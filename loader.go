package onion

import (
	"fmt"
)

// Loader merges dotenv files, environment variables and directories of
// YAML/JSON config files into a single mapping, then decodes and validates
// it as T. A Loader's inputs are fixed at construction; Load may be called
// any number of times and re-runs the whole pipeline from scratch each time.
type Loader[T any] struct {
	opts options
}

// New constructs a Loader for the schema type T.
func New[T any](opts ...Option) *Loader[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader[T]{opts: o}
}

// Load is a one-shot convenience: New[T](opts...).Load().
func Load[T any](opts ...Option) (T, error) {
	return New[T](opts...).Load()
}

// Load runs the pipeline and returns the validated configuration:
//
//  1. Load every dotenv file, in order, into the process environment
//     (later files win; existing variables are overridden).
//  2. Check required environment variables; all missing names are reported
//     together, before any config file is read.
//  3. Merge every recognized file from every configs directory, in caller
//     order, into an accumulator seeded by the config data mapping.
//  4. Overlay the extra directory (explicit, else ONION_CONFIG_EXTRA_DIR)
//     with precedence over every configs directory.
//  5. Apply the pre-load hook to the merged mapping.
//  6. Decode the mapping into T and run its constraint checks.
//
// Any stage failure aborts the remaining stages; no partial result is
// surfaced. Dotenv ingestion mutates the process-wide environment table, so
// two loaders running concurrently in one process race last-writer-wins on
// identical keys.
func (l *Loader[T]) Load() (T, error) {
	var zero T

	if err := loadDotenvFiles(l.opts.envFiles, l.opts.warnMode, l.opts.logger); err != nil {
		return zero, err
	}
	if err := checkRequiredEnvs(l.opts.requiredEnvs, l.opts.lookupEnv); err != nil {
		return zero, err
	}

	acc := deepCopy(l.opts.configData)
	for _, dir := range l.opts.configsDirs {
		var err error
		acc, err = l.mergeDir(acc, dir)
		if err != nil {
			return zero, err
		}
	}

	if dir := l.extraDir(); dir != "" {
		var err error
		acc, err = l.mergeDir(acc, dir)
		if err != nil {
			return zero, err
		}
	}

	if l.opts.hook != nil {
		var err error
		acc, err = l.opts.hook(acc)
		if err != nil {
			return zero, fmt.Errorf("pre-load hook: %w", err)
		}
		if acc == nil {
			acc = make(Map)
		}
	}

	cfg, err := decodeSchema[T](acc)
	if err != nil {
		return zero, err
	}
	if err := validateSchema(cfg); err != nil {
		return zero, err
	}
	return cfg, nil
}

// mergeDir merges every recognized file in dir into acc, in lexicographic
// filename order. A missing directory contributes nothing and is handled
// per WarnMode; a malformed file aborts the load.
func (l *Loader[T]) mergeDir(acc Map, dir string) (Map, error) {
	paths, ok, err := scanConfigDir(dir)
	if err != nil {
		return nil, fmt.Errorf("config directory %s: %w", dir, err)
	}
	if !ok {
		if err := reportMissing(l.opts.warnMode, l.opts.logger, "config directory", dir); err != nil {
			return nil, err
		}
		return acc, nil
	}

	for _, path := range paths {
		m, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		acc = merge(acc, m)
	}
	return acc, nil
}

// extraDir resolves the extra overlay directory: the explicit option wins,
// otherwise the ONION_CONFIG_EXTRA_DIR environment variable, otherwise none.
func (l *Loader[T]) extraDir() string {
	if l.opts.extraDir != "" {
		return l.opts.extraDir
	}
	if dir, ok := l.opts.lookupEnv(ExtraDirEnv); ok {
		return dir
	}
	return ""
}
