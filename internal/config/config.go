// Package config provides file- and environment-driven configuration for babelex.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backends an ontology can be served from.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendHTTP     = "http"
)

// DotEnvFile is loaded from the working directory when present.
const DotEnvFile = ".env"

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	Backend        string
	EdgesFile      string
	SensesFile     string
	DatabaseURL    Secret
	DBMaxConns     int
	OntologyURL    string
	OntologyAPIKey Secret
	Workers        int
	LogLevel       string
	LogFormat      string
	MetricsFile    string
	Delimiter      string
	DumpDelimiter  string
	ListenHost     string
	Port           string
	APIKey         Secret
	CORSOrigins    []string
}

// fileConfig mirrors Config in the YAML file. Empty fields keep their defaults.
type fileConfig struct {
	Backend     string `yaml:"backend"`
	EdgesFile   string `yaml:"edges_file"`
	SensesFile  string `yaml:"senses_file"`
	DatabaseURL string `yaml:"database_url"`
	DBMaxConns  int    `yaml:"db_max_conns"`
	Ontology    struct {
		URL    string `yaml:"url"`
		APIKey string `yaml:"api_key"`
	} `yaml:"ontology"`
	Workers     int      `yaml:"workers"`
	LogLevel    string   `yaml:"log_level"`
	LogFormat   string   `yaml:"log_format"`
	MetricsFile string   `yaml:"metrics_file"`
	Delimiter   string   `yaml:"delimiter"`
	DumpDelim   string   `yaml:"dump_delimiter"`
	ListenHost  string   `yaml:"listen_host"`
	Port        string   `yaml:"port"`
	APIKey      string   `yaml:"api_key"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		Backend:       BackendFile,
		DBMaxConns:    16,
		Workers:       runtime.GOMAXPROCS(0),
		LogLevel:      "info",
		LogFormat:     "text",
		Delimiter:     "tab",
		DumpDelimiter: "tab",
		ListenHost:    "127.0.0.1",
		Port:          "3040",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the environment, in that
// order of precedence, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", DotEnvFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setString(&c.Backend, fc.Backend)
	setString(&c.EdgesFile, fc.EdgesFile)
	setString(&c.SensesFile, fc.SensesFile)
	setString(&c.OntologyURL, fc.Ontology.URL)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.MetricsFile, fc.MetricsFile)
	setString(&c.Delimiter, fc.Delimiter)
	setString(&c.DumpDelimiter, fc.DumpDelim)
	setString(&c.ListenHost, fc.ListenHost)
	setString(&c.Port, fc.Port)

	if fc.DatabaseURL != "" {
		c.DatabaseURL = Secret(fc.DatabaseURL)
	}
	if fc.Ontology.APIKey != "" {
		c.OntologyAPIKey = Secret(fc.Ontology.APIKey)
	}
	if fc.APIKey != "" {
		c.APIKey = Secret(fc.APIKey)
	}
	if fc.DBMaxConns != 0 {
		c.DBMaxConns = fc.DBMaxConns
	}
	if fc.Workers != 0 {
		c.Workers = fc.Workers
	}
	if len(fc.CORSOrigins) > 0 {
		c.CORSOrigins = trimAll(fc.CORSOrigins)
	}

	return nil
}

func (c *Config) applyEnv() error {
	c.Backend = envOrDefault("BABELEX_BACKEND", c.Backend)
	c.EdgesFile = envOrDefault("EDGES_FILE", c.EdgesFile)
	c.SensesFile = envOrDefault("SENSES_FILE", c.SensesFile)
	c.DatabaseURL = Secret(envOrDefault("DATABASE_URL", c.DatabaseURL.Value()))
	c.OntologyURL = envOrDefault("ONTOLOGY_URL", c.OntologyURL)
	c.OntologyAPIKey = Secret(envOrDefault("ONTOLOGY_API_KEY", c.OntologyAPIKey.Value()))
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOrDefault("LOG_FORMAT", c.LogFormat)
	c.MetricsFile = envOrDefault("METRICS_FILE", c.MetricsFile)
	c.Delimiter = envOrDefault("DELIMITER", c.Delimiter)
	c.DumpDelimiter = envOrDefault("DUMP_DELIMITER", c.DumpDelimiter)
	c.ListenHost = envOrDefault("LISTEN_HOST", c.ListenHost)
	c.Port = envOrDefault("PORT", c.Port)
	c.APIKey = Secret(envOrDefault("API_KEY", c.APIKey.Value()))

	maxConns, err := envInt("DB_MAX_CONNS", c.DBMaxConns)
	if err != nil {
		return err
	}
	c.DBMaxConns = maxConns

	workers, err := envInt("WORKERS", c.Workers)
	if err != nil {
		return err
	}
	c.Workers = workers

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = trimAll(strings.Split(origins, ","))
	}

	return nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}

	return n, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
