package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semcred/compiler"
	"github.com/c360studio/semcred/config"
	"github.com/c360studio/semcred/credential"
	"github.com/c360studio/semcred/mapper"
	"github.com/c360studio/semcred/metric"
	"github.com/c360studio/semcred/sap"
	"github.com/c360studio/semcred/storage"
)

// App wires configuration into the compiler, mapper, issuer and optional
// credential storage.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// Metrics
	registry *metric.Registry

	// Master data
	dir *sap.Directory

	// Storage, opened on first use
	conn *storage.Conn
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: metric.NewRegistry(),
		dir:      sap.SampleDirectory(),
	}
}

// Compiler builds a compiler from the compile section. outputDir and
// keepGoing override the configured values when set.
func (a *App) Compiler(outputDir string, keepGoing bool) (*compiler.Compiler, error) {
	cfg, err := a.cfg.Compile.CompilerConfig()
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if keepGoing {
		cfg.KeepGoing = true
	}
	return compiler.New(cfg,
		compiler.WithLogger(a.logger),
		compiler.WithMetrics(a.registry.Metrics),
	), nil
}

// Mapper builds a mapper over the sample master data.
func (a *App) Mapper(opts ...mapper.Option) (*mapper.Mapper, error) {
	configured, err := a.cfg.Mapping.Options()
	if err != nil {
		return nil, err
	}
	all := append(configured,
		mapper.WithLogger(a.logger),
		mapper.WithMetrics(a.registry.Metrics),
	)
	return mapper.New(a.dir, append(all, opts...)...), nil
}

// Issuer builds the dual-track issuer.
func (a *App) Issuer(opts ...credential.Option) *credential.Issuer {
	all := append(a.cfg.Issuer.Options(), credential.WithMetrics(a.registry.Metrics))
	return credential.NewIssuer(a.cfg.Issuer.DID, a.cfg.Issuer.SchemaBase, append(all, opts...)...)
}

// StorageEnabled reports whether a NATS URL is configured.
func (a *App) StorageEnabled() bool {
	return a.cfg.NATS.URL != ""
}

// Save stores doc under key and publishes it, connecting on first use.
func (a *App) Save(ctx context.Context, key storage.Key, doc any) error {
	if !a.StorageEnabled() {
		return fmt.Errorf("storage disabled: set nats.url")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()

	if a.conn == nil {
		conn, err := storage.Connect(ctx, a.cfg.NATS.URL, a.logger)
		if err != nil {
			return err
		}
		a.conn = conn
	}
	if err := a.conn.Save(ctx, key, doc); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (a *App) timeout() time.Duration {
	if a.cfg.NATS.Timeout > 0 {
		return a.cfg.NATS.Timeout
	}
	return 10 * time.Second
}

// Close releases the storage connection, if any.
func (a *App) Close() {
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
}
