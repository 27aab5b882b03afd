package conduit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Settings is the process-wide configuration, loaded once at startup and
// injected into every component that needs it. It satisfies Config.
type Settings struct {
	App      AppSettings      `koanf:"app"`
	Database DatabaseSettings `koanf:"database"`
}

type AppSettings struct {
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	JWTSecret string `koanf:"jwt_secret"`
}

type DatabaseSettings struct {
	DSN string `koanf:"dsn"`
}

var _ Config = (*Settings)(nil)

// envPrefix and envSeparator make CONDUIT_APP__JWT_SECRET override
// app.jwt_secret from the YAML files.
const (
	envPrefix    = "CONDUIT_"
	envSeparator = "__"
)

// environmentVar selects which overlay file is layered on top of
// config/base.yml when no explicit paths are given.
const environmentVar = "APP_ENVIRONMENT"

// DefaultConfigPaths returns the layered configuration files read when the
// caller passes none: config/base.yml, then the overlay named by
// APP_ENVIRONMENT (default "local").
func DefaultConfigPaths() []string {
	environment := os.Getenv(environmentVar)
	if environment == "" {
		environment = "local"
	}

	return []string{
		filepath.Join("config", "base.yml"),
		filepath.Join("config", environment+".yml"),
	}
}

// LoadSettings reads the given YAML files in order, later files overriding
// earlier ones, then applies CONDUIT_-prefixed environment overrides.
func LoadSettings(paths ...string) (*Settings, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to load configuration file").
				WithMetadata(map[string]any{"path": path})
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, envPrefix)
		key = strings.ReplaceAll(key, envSeparator, ".")
		return strings.ToLower(key)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to load environment overrides")
	}

	settings := &Settings{
		App: AppSettings{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Database: DatabaseSettings{
			DSN: "file:conduit.db?_pragma=foreign_keys(1)",
		},
	}

	if err := k.Unmarshal("", settings); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to unmarshal configuration")
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate rejects configurations the server cannot start with. The
// signing secret has no default on purpose.
func (s *Settings) Validate() error {
	err := validation.ValidateStruct(&s.App,
		validation.Field(&s.App.Host, validation.Required),
		validation.Field(&s.App.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.App.JWTSecret, validation.Required),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid application settings")
	}

	err = validation.ValidateStruct(&s.Database,
		validation.Field(&s.Database.DSN, validation.Required),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid database settings")
	}

	return nil
}

func (s *Settings) GetSigningKey() string {
	return s.App.JWTSecret
}

func (s *Settings) GetIssuer() string {
	return TokenIssuer
}

func (s *Settings) GetAudience() string {
	return TokenAudience
}

func (s *Settings) GetTokenExpiration() time.Duration {
	return TokenTTL
}

func (s *Settings) GetListenAddr() string {
	return fmt.Sprintf("%s:%d", s.App.Host, s.App.Port)
}

func (s *Settings) GetDatabaseDSN() string {
	return s.Database.DSN
}
