package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	EnvVars EnvVars  `json:"env"`
	Sources *Sources `json:"-"`
}

// EnvVars holds environment variables required by the application.
// Fields tagged `optional:"true"` are skipped by CheckConfigEnvFields.
type EnvVars struct {
	Port             string        `env:"PORT" envDefault:"8080"`
	MeiliHost        string        `env:"MEILI_HOST" optional:"true"`
	MeiliAPIKey      string        `env:"MEILI_API_KEY" optional:"true"`
	MeiliIndex       string        `env:"MEILI_INDEX" envDefault:"rccc"`
	BackendURL       string        `env:"BACKEND_URL" optional:"true"`
	BackendTimeout   time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	RedisURL         string        `env:"REDIS_URL" optional:"true"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	PageSize         int           `env:"PAGE_SIZE" envDefault:"10"`
	SearchLimit      int           `env:"SEARCH_LIMIT" envDefault:"1000"`
	ScriptConversion string        `env:"SCRIPT_CONVERSION" envDefault:"s2t"`
	SanitizeSnippets bool          `env:"SANITIZE_SNIPPETS" optional:"true"`
	SourcesFile      string        `env:"SOURCES_FILE" envDefault:"configs/sources.yaml"`
	RateLimitRPS     int           `env:"RATE_LIMIT_RPS" envDefault:"10"`
	AllowedOrigins   []string      `env:"ALLOWED_ORIGINS" envSeparator:"," optional:"true"`
}

// LoadConfig parses environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	var config Config
	if err := env.Parse(&config.EnvVars); err != nil {
		return nil, err
	}
	return &config, nil
}

// CheckConfigEnvFields validates that all required EnvVars fields are set.
func (c *Config) CheckConfigEnvFields() error {
	return checkFieldsRecursive(reflect.ValueOf(c.EnvVars))
}

// Validate checks the relationships between fields that CheckConfigEnvFields
// cannot express: a search backend must be reachable one way or the other.
func (c *Config) Validate() error {
	e := c.EnvVars
	if e.MeiliHost == "" && e.BackendURL == "" {
		return errors.New("one of $MEILI_HOST or $BACKEND_URL must be set")
	}
	if e.MeiliHost != "" && !govalidator.IsURL(e.MeiliHost) {
		return fmt.Errorf("$MEILI_HOST is not a valid URL: %q", e.MeiliHost)
	}
	if e.BackendURL != "" && !govalidator.IsURL(e.BackendURL) {
		return fmt.Errorf("$BACKEND_URL is not a valid URL: %q", e.BackendURL)
	}
	if e.PageSize <= 0 {
		return fmt.Errorf("$PAGE_SIZE must be positive, got %d", e.PageSize)
	}
	if e.RateLimitRPS <= 0 {
		return fmt.Errorf("$RATE_LIMIT_RPS must be positive, got %d", e.RateLimitRPS)
	}
	return nil
}

func checkFieldsRecursive(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := v.Type().Field(i)
		if fieldType.Tag.Get("optional") == "true" {
			continue
		}
		if isZeroValue(field) {
			return fmt.Errorf("$%s must be set", fieldType.Name)
		}
		if field.Kind() == reflect.Struct {
			if err := checkFieldsRecursive(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func isZeroValue(v reflect.Value) bool {
	return v.IsZero()
}
