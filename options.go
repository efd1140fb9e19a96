package onion

import (
	"log/slog"
	"os"
)

// PreLoadHook transforms the fully merged Map immediately before schema
// validation. It may add, remove, or rewrite any key. Returning an error
// aborts the load; returning nil data is treated as an empty Map.
type PreLoadHook func(Map) (Map, error)

type options struct {
	configData   Map
	configsDirs  []string
	extraDir     string
	envFiles     []string
	requiredEnvs []string
	hook         PreLoadHook
	warnMode     WarnMode
	logger       *slog.Logger
	lookupEnv    func(string) (string, bool)
}

func defaultOptions() options {
	return options{
		configsDirs: []string{"configs"},
		envFiles:    []string{".env"},
		warnMode:    WarnSilent,
		logger:      slog.Default(),
		lookupEnv:   os.LookupEnv,
	}
}

// Option configures a Loader.
type Option func(*options)

// WithConfigData seeds the accumulator with a base mapping. It has the
// lowest precedence: every file-derived value overrides it. The mapping is
// deep-copied on each Load, so the caller's copy is never mutated.
func WithConfigData(data Map) Option {
	return func(o *options) { o.configData = data }
}

// WithConfigsDirs sets the ordered list of config directories. Later
// directories override earlier ones. Defaults to a single "configs"
// directory relative to the working directory.
func WithConfigsDirs(dirs ...string) Option {
	return func(o *options) { o.configsDirs = dirs }
}

// WithExtraDir sets the extra config directory, which overrides every
// directory given to WithConfigsDirs. When unset, the ONION_CONFIG_EXTRA_DIR
// environment variable is consulted instead.
func WithExtraDir(dir string) Option {
	return func(o *options) { o.extraDir = dir }
}

// WithEnvFiles sets the ordered list of dotenv files to load into the
// process environment. Later files win for identical keys. Defaults to a
// single ".env" in the working directory.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) { o.envFiles = paths }
}

// WithRequiredEnvs names environment variables that must be set after dotenv
// ingestion. All missing names are reported together as a MissingEnvError.
func WithRequiredEnvs(names ...string) Option {
	return func(o *options) { o.requiredEnvs = names }
}

// WithPreLoadHook installs the pre-load hook. The default is the identity
// transformation.
func WithPreLoadHook(hook PreLoadHook) Option {
	return func(o *options) { o.hook = hook }
}

// WithWarnMode controls how missing optional resources are reported.
func WithWarnMode(mode WarnMode) Option {
	return func(o *options) { o.warnMode = mode }
}

// WithLogger sets the logger used for WarnMode reporting. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLookupEnv replaces the environment lookup used by the required-env
// check and the extra-directory fallback. Intended for tests; dotenv
// ingestion always writes to the real process environment.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		if lookup != nil {
			o.lookupEnv = lookup
		}
	}
}
