package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigSection is where the preprocessor's settings live in book.toml.
const ConfigSection = "preprocessor.indexing"

// ErrInvalidConfig is returned when the indexing table has values of the
// wrong type. It is fatal: the author's intent cannot be honored.
var ErrInvalidConfig = errors.New("invalid indexing configuration")

// Config holds the [preprocessor.indexing] settings.
type Config struct {
	SeeInstead      map[string]string `mapstructure:"see_instead"`
	NestUnder       map[string]string `mapstructure:"nest_under"`
	UseChapterNames bool              `mapstructure:"use_chapter_names"`
	SuppressHead    bool              `mapstructure:"suppress_head"`
	SkipRenderer    []string          `mapstructure:"skip_renderer"`
}

// hostKeys are set by mdBook itself on every preprocessor table.
var hostKeys = []string{"command", "renderer", "before", "after", "optional"}

const configSchema = `{
  "type": "object",
  "properties": {
    "see_instead": {"type": "object", "additionalProperties": {"type": "string"}},
    "nest_under": {"type": "object", "additionalProperties": {"type": "string"}},
    "use_chapter_names": {"type": "boolean"},
    "suppress_head": {"type": "boolean"},
    "skip_renderer": {
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    }
  }
}`

func compileConfigSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("indexing.json", strings.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("failed to load config schema: %w", err)
	}
	schema, err := compiler.Compile("indexing.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	return schema, nil
}

// ParseConfig validates and decodes the indexing table. A nil table yields
// the zero Config. Unknown keys are returned so the caller can report them.
func ParseConfig(raw map[string]any) (Config, []string, error) {
	var cfg Config
	if raw == nil {
		return cfg, nil, nil
	}

	// Round-trip through JSON so tables decoded from TOML (int64, time
	// values) validate the same way as the host's JSON.
	data, err := json.Marshal(raw)
	if err != nil {
		return cfg, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return cfg, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	schema, err := compileConfigSchema()
	if err != nil {
		return cfg, nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return cfg, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToSliceHookFunc(","),
		Metadata:   &md,
		Result:     &cfg,
	})
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return cfg, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for i, name := range cfg.SkipRenderer {
		cfg.SkipRenderer[i] = strings.TrimSpace(name)
	}

	var unknown []string
	for _, key := range md.Unused {
		if !slices.Contains(hostKeys, key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)

	return cfg, unknown, nil
}

// Skips reports whether indexing is disabled for backend.
func (c Config) Skips(backend string) bool {
	return slices.Contains(c.SkipRenderer, backend)
}

// Rules returns the redirect and nesting rules.
func (c Config) Rules() Rules {
	return Rules{SeeInstead: c.SeeInstead, NestUnder: c.NestUnder}
}
