package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

// Config is the runtime configuration of the API server.
type Config struct {
	Mode   string       `koanf:"mode" validate:"oneof=dev prod"`
	Server ServerConfig `koanf:"server"`
	DB     DBConfig     `koanf:"db"`
	Auth   AuthConfig   `koanf:"auth"`
	CORS   CORSConfig   `koanf:"cors"`
	Review ReviewConfig `koanf:"review"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
}

type DBConfig struct {
	Driver string `koanf:"driver" validate:"oneof=postgres sqlite"`
	URL    string `koanf:"url" validate:"required"`
}

// AuthConfig selects how bearer tokens are verified. With Domain set, tokens
// are RS256 tokens issued by that Auth0 tenant; otherwise they are HS256
// tokens signed with Secret.
type AuthConfig struct {
	Domain   string        `koanf:"domain" validate:"required_without=Secret"`
	Audience string        `koanf:"audience" validate:"required_with=Domain"`
	Secret   string        `koanf:"secret" validate:"required_without=Domain"`
	TokenTTL time.Duration `koanf:"token_ttl" validate:"min=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type ReviewConfig struct {
	SessionSize     int     `koanf:"session_size" validate:"min=1,max=200"`
	GradesPerMinute float64 `koanf:"grades_per_minute" validate:"gt=0"`
	GradeBurst      int     `koanf:"grade_burst" validate:"min=1"`
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// IsDevelopment reports whether the server runs in dev mode.
func (c Config) IsDevelopment() bool {
	return c.Mode == ModeDev
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Mode: DetectMode(),
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			Driver: "postgres",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Review: ReviewConfig{
			SessionSize:     20,
			GradesPerMinute: 120,
			GradeBurst:      20,
		},
	}
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"mode":         "mode",
	"host":         "server.host",
	"port":         "server.port",
	"db-driver":    "db.driver",
	"db-url":       "db.url",
	"session-size": "review.session_size",
}

// envKeys maps environment variables to config keys. The unprefixed names
// are the ones older deployments already set.
var (
	envKeys = map[string]string{
		"LERN_MODE":              "mode",
		"LERN_HOST":              "server.host",
		"LERN_PORT":              "server.port",
		"LERN_SHUTDOWN_TIMEOUT":  "server.shutdown_timeout",
		"LERN_DB_DRIVER":         "db.driver",
		"LERN_DB_URL":            "db.url",
		"LERN_AUTH0_DOMAIN":      "auth.domain",
		"LERN_AUTH0_AUDIENCE":    "auth.audience",
		"LERN_JWT_SECRET":        "auth.secret",
		"LERN_TOKEN_TTL":         "auth.token_ttl",
		"LERN_ALLOWED_ORIGINS":   "cors.allowed_origins",
		"LERN_SESSION_SIZE":      "review.session_size",
		"LERN_GRADES_PER_MINUTE": "review.grades_per_minute",
		"LERN_GRADE_BURST":       "review.grade_burst",
	}
	legacyEnvKeys = map[string]string{
		"DB_URL":         "db.url",
		"PORT":           "server.port",
		"AUTH0_DOMAIN":   "auth.domain",
		"AUTH0_AUDIENCE": "auth.audience",
		"JWT_SECRET_KEY": "auth.secret",
	}
)

// BindFlags registers the config flags on fs with their default values.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "path to a YAML config file")
	fs.String("mode", d.Mode, "run mode (dev or prod)")
	fs.String("host", d.Server.Host, "listen host")
	fs.Int("port", d.Server.Port, "listen port")
	fs.String("db-driver", d.DB.Driver, "database driver (postgres or sqlite)")
	fs.String("db-url", d.DB.URL, "database DSN or SQLite file path")
	fs.Int("session-size", d.Review.SessionSize, "maximum cards per study batch")
}

// Load builds the configuration from, in increasing precedence, the
// defaults, an optional YAML file, the environment and fs. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "load config file %s", path)
			}
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envMapper(legacyEnvKeys)), nil); err != nil {
		return nil, errors.Wrap(err, "load legacy environment")
	}
	if err := k.Load(env.ProviderWithValue("LERN_", ".", envMapper(envKeys)), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	if fs != nil {
		flags := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(flags, nil); err != nil {
			return nil, errors.Wrap(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func envMapper(keys map[string]string) func(string, string) (string, interface{}) {
	return func(name, value string) (string, interface{}) {
		key, ok := keys[name]
		if !ok || value == "" {
			return "", nil
		}
		if key == "cors.allowed_origins" {
			var origins []string
			for _, o := range strings.Split(value, ",") {
				if o = strings.TrimSpace(o); o != "" {
					origins = append(origins, o)
				}
			}
			return key, origins
		}
		return key, value
	}
}
