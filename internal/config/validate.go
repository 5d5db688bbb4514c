package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lexiconlab/babelex/internal/records"
)

// Validate checks every value that is set. It does not require the settings
// of a particular backend; see RequireBackend and RequireDatabase.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateOntologyURL(); err != nil {
		return err
	}

	if err := c.validateWorkers(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if _, err := records.ParseFormat(c.Delimiter); err != nil {
		return fmt.Errorf("DELIMITER: %w", err)
	}

	if _, err := records.ParseFormat(c.DumpDelimiter); err != nil {
		return fmt.Errorf("DUMP_DELIMITER: %w", err)
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	return c.validateCORS()
}

// RequireBackend checks that the selected backend has what it needs to open.
func (c *Config) RequireBackend() error {
	switch c.Backend {
	case BackendFile:
		if c.EdgesFile == "" {
			return fmt.Errorf("EDGES_FILE is required when BABELEX_BACKEND is %s", BackendFile)
		}
	case BackendPostgres:
		return c.RequireDatabase()
	case BackendHTTP:
		if c.OntologyURL == "" {
			return fmt.Errorf("ONTOLOGY_URL is required when BABELEX_BACKEND is %s", BackendHTTP)
		}
	}

	return nil
}

// RequireDatabase checks that DATABASE_URL is set.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	return nil
}

// Format returns the dialect of the ID, cluster and output files.
func (c *Config) Format() records.Format {
	return parseOrDefault(c.Delimiter)
}

// DumpFormat returns the dialect of the ontology dump files, which is
// independent of Format.
func (c *Config) DumpFormat() records.Format {
	return parseOrDefault(c.DumpDelimiter)
}

func parseOrDefault(name string) records.Format {
	f, err := records.ParseFormat(name)
	if err != nil {
		return records.MySQL
	}

	return f
}

func (c *Config) validateBackend() error {
	switch c.Backend {
	case BackendFile, BackendPostgres, BackendHTTP:
		return nil
	default:
		return fmt.Errorf("BABELEX_BACKEND must be 'file', 'postgres' or 'http', got %q", c.Backend)
	}
}

func (c *Config) validateDatabase() error {
	if c.DBMaxConns < 2 || c.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be an integer between 2 and 200")
	}

	if c.DatabaseURL.Value() == "" {
		return nil
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	dbHost := dbURL.Hostname()
	if !isLoopback(dbHost) && dbURL.Query().Get("sslmode") == "disable" {
		return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbHost)
	}

	return nil
}

func (c *Config) validateOntologyURL() error {
	if c.OntologyURL == "" {
		return nil
	}

	u, err := url.ParseRequestURI(c.OntologyURL)
	if err != nil {
		return fmt.Errorf("ONTOLOGY_URL is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("ONTOLOGY_URL scheme must be http:// or https://")
	}

	if !isLoopback(u.Hostname()) && u.Scheme != "https" && c.OntologyAPIKey.Value() != "" {
		return fmt.Errorf("ONTOLOGY_URL must use HTTPS when sending ONTOLOGY_API_KEY to a non-localhost server")
	}

	return nil
}

func (c *Config) validateWorkers() error {
	if c.Workers < 1 || c.Workers > 256 {
		return fmt.Errorf("WORKERS must be an integer between 1 and 256, got %d", c.Workers)
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Only loopback: the API has no per-user authorization.
	if !isLoopback(c.ListenHost) {
		return fmt.Errorf("LISTEN_HOST must be a loopback address (127.0.0.1, ::1, or localhost), got %q", c.ListenHost)
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
