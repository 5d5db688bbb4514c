package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lexiconlab/babelex/client"
	"github.com/lexiconlab/babelex/internal/api"
	"github.com/lexiconlab/babelex/internal/config"
	"github.com/lexiconlab/babelex/internal/db"
	"github.com/lexiconlab/babelex/internal/dbpool"
	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/extract"
	"github.com/lexiconlab/babelex/internal/metrics"
	"github.com/lexiconlab/babelex/internal/ontology"
	"github.com/lexiconlab/babelex/internal/service"
	"github.com/lexiconlab/babelex/internal/store"
)

// globalFlags holds the persistent flags that override the loaded configuration.
type globalFlags struct {
	config      string
	backend     string
	workers     int
	logLevel    string
	delimiter   string
	dumpDelim   string
	metricsFile string
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	flags globalFlags
	cfg   *config.Config
	log   *logrus.Logger
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.config)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = a.flags.backend
	}
	if flags.Changed("workers") {
		cfg.Workers = a.flags.workers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if flags.Changed("delimiter") {
		cfg.Delimiter = a.flags.delimiter
	}
	if flags.Changed("dump-delimiter") {
		cfg.DumpDelimiter = a.flags.dumpDelim
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = a.flags.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	a.cfg = cfg
	a.log = newLogger(cfg, cmd.ErrOrStderr())

	return nil
}

func newLogger(cfg *config.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}

// backend is an opened ontology plus whatever must be released with it.
type backend struct {
	ontology      domain.Ontology
	health        api.HealthChecker
	schemaVersion int
	close         func()
}

// healthFunc adapts a probe function to api.HealthChecker.
type healthFunc func(ctx context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// openBackend opens the configured ontology backend behind an OntologyService.
func (a *app) openBackend(ctx context.Context) (*backend, error) {
	if err := a.cfg.RequireBackend(); err != nil {
		return nil, err
	}

	b := &backend{close: func() {}}
	var raw domain.Ontology

	switch a.cfg.Backend {
	case config.BackendFile:
		mem, err := ontology.LoadMemory(a.cfg.EdgesFile, a.cfg.SensesFile, a.cfg.DumpFormat())
		if err != nil {
			return nil, err
		}
		a.log.WithFields(logrus.Fields{"synsets": mem.Len(), "edges_file": a.cfg.EdgesFile}).Info("ontology loaded")
		raw = mem

	case config.BackendPostgres:
		pool, err := a.openPool(ctx)
		if err != nil {
			return nil, err
		}
		raw = store.NewOntologyStore(store.Base{Pool: pool, Log: a.log})
		b.health = pool
		b.schemaVersion = db.SchemaVersion()
		b.close = pool.Close

	case config.BackendHTTP:
		c := client.New(a.cfg.OntologyURL, client.WithAPIKey(a.cfg.OntologyAPIKey.Value()))
		raw = c
		b.health = healthFunc(func(ctx context.Context) error {
			_, err := c.Health(ctx)
			return err
		})
	}

	b.ontology = service.NewOntologyService(raw, a.log)

	return b, nil
}

// openPool connects to DATABASE_URL and checks the schema is current.
func (a *app) openPool(ctx context.Context) (*dbpool.Pool, error) {
	pool, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}

	if err := db.CheckSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func (a *app) connect(ctx context.Context) (*dbpool.Pool, error) {
	if err := a.cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	pool, err := dbpool.NewPool(ctx, a.cfg.DatabaseURL.Value(), int32(a.cfg.DBMaxConns)) //nolint:gosec // validated to 2..200.
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return pool, nil
}

// runExtraction opens the backend, runs fn on a fresh driver and writes the
// metrics textfile whatever the outcome.
func (a *app) runExtraction(ctx context.Context, fn func(graph domain.Ontology, d *extract.Driver) (extract.Summary, error)) error {
	b, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	_, runErr := fn(b.ontology, extract.NewDriver(a.cfg.Workers, a.log))

	return errors.Join(runErr, a.writeMetrics())
}

func (a *app) writeMetrics() error {
	if a.cfg.MetricsFile == "" {
		return nil
	}

	if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}

	return nil
}
