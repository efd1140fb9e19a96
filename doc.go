// Package onion provides a layered configuration loader for Go applications.
//
// It merges environment variables, dotenv files, and directories of
// YAML/JSON config files into a single nested mapping, applies an optional
// pre-load hook, and decodes the result into a typed, constraint-checked
// configuration struct.
//
// # Layering
//
// A single Load call runs six ordered stages:
//  1. Dotenv files load into the process environment (later files win)
//  2. Required environment variables are checked (all missing names reported)
//  3. Config directories merge in order into the seed mapping
//  4. The extra directory overlays everything (set explicitly or via
//     the ONION_CONFIG_EXTRA_DIR environment variable)
//  5. The pre-load hook transforms the merged mapping
//  6. The mapping decodes into the schema type and constraints run
//
// Within a directory, files merge in lexicographic filename order, so
// callers control precedence by naming: 1.base.yml, 2.extra.yml. Nested
// mappings merge recursively; every other value type (scalars, sequences)
// is replaced wholesale by later layers.
//
// # Schema
//
// Schemas are plain structs controlled through tags:
//   - `config:"key"` - maps the field to a key in the merged mapping
//   - `required:"true"` - the decoded field must be non-zero
//   - `check:"<expr>"` - an expr-lang expression that must evaluate to true;
//     it is compiled with the enclosing struct as its environment, so checks
//     can reference sibling fields
//   - `secret:"true"` - the field is masked by PrettyString
//
// Field types cover strings, booleans, numbers, slices, nested structs,
// time.Duration, time.Time, decimal.Decimal, resource.Quantity, and any
// type implementing encoding.TextUnmarshaler (uuid.UUID, net/url, ...).
// A schema of map[string]any accepts anything.
//
// # Quick Start
//
//	type Config struct {
//		Env   string `config:"env"`
//		Debug bool   `config:"debug"`
//
//		App struct {
//			Name string `config:"name" required:"true"`
//			Port int    `config:"port" check:"Port >= 1 && Port <= 65535"`
//		} `config:"app"`
//	}
//
//	cfg, err := onion.Load[Config](
//		onion.WithConfigsDirs("configs"),
//		onion.WithEnvFiles(".env"),
//		onion.WithRequiredEnvs("APP_SECRET"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(onion.PrettyString(cfg)) // secrets are masked
//
// # Error Handling
//
// Errors are typed and fail-fast: MissingEnvError lists every unset
// required variable, ParseError wraps the malformed file and its path,
// SchemaError enumerates every constraint violation, and MissingPathError
// surfaces missing optional resources under WarnEscalate. A load either
// completes fully or returns an error; no partial configuration is exposed.
//
// Dotenv ingestion writes to the process-wide environment table. It happens
// once per Load and is never rolled back; concurrent loaders in one process
// race last-writer-wins on identical keys.
package onion
