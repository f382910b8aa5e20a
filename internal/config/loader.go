package config

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/msi/internal/domain/model"
)

// EnvConfigPath names the env var holding an optional YAML config path.
const EnvConfigPath = "MSI_CONFIG"

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MSI_CONFIG is set
//  3. env (prefix MSI_)
//
// A cancelled ctx stops loading between layers.
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "load config"), ErrLoadConfig)
	}
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "read %s", path), ErrLoadConfig)
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "load config"), ErrLoadConfig)
		}
	}

	// MSI_K_FACTOR -> k_factor. Flat keys keep underscores intact.
	envProvider := env.Provider("MSI_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "msi_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read environment"), ErrLoadConfig)
	}
	// "config" is the path of the file itself, not a key.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode config"), ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags and the engine parameters.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Mark(errors.Wrap(err, "validate config"), ErrInvalidConfig)
	}
	if c.EngineConfig == "" {
		if err := c.Engine().Validate(); err != nil {
			return errors.Mark(err, ErrInvalidConfig)
		}
	}
	return nil
}

// IsInvalid reports whether err means the configuration cannot be used,
// either because it failed validation or because the engine rejected it.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, model.ErrConfigInvalid)
}
