// Package sapapi serves a simulated SAP OData API over the sample trade
// scenarios, together with endpoints that map those documents to W3C
// Verifiable Credentials.
package sapapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semcred/mapper"
	"github.com/c360studio/semcred/metric"
	"github.com/c360studio/semcred/sap"
)

// Component implements the sap-api component.
type Component struct {
	name     string
	config   Config
	store    *sap.Store
	dir      *sap.Directory
	mapper   *mapper.Mapper
	registry *metric.Registry
	logger   *slog.Logger

	// Lifecycle state machine
	// States: 0=stopped, 1=starting, 2=running, 3=stopping
	state     atomic.Int32
	startTime time.Time
	mu        sync.RWMutex
	server    *http.Server
	addr      net.Addr
	served    chan struct{}
}

const (
	stateStopped  = 0
	stateStarting = 1
	stateRunning  = 2
	stateStopping = 3
)

// Option configures a Component.
type Option func(*Component)

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Component) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry attaches a metrics registry. Requests are counted on it and,
// when enabled in Config, exposed on /metrics.
func WithRegistry(r *metric.Registry) Option {
	return func(c *Component) {
		c.registry = r
	}
}

// WithMapper replaces the credential mapper. The default maps against the
// component's directory.
func WithMapper(m *mapper.Mapper) Option {
	return func(c *Component) {
		c.mapper = m
	}
}

// NewComponent constructs a sap-api Component serving store and dir.
func NewComponent(config Config, store *sap.Store, dir *sap.Directory, opts ...Option) (*Component, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil || dir == nil {
		return nil, fmt.Errorf("store and directory are required")
	}

	c := &Component{
		name:   "sap-api",
		config: config,
		store:  store,
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mapper == nil {
		c.mapper = mapper.New(dir, mapper.WithLogger(c.logger), mapper.WithMetrics(c.metrics()))
	}
	return c, nil
}

func (c *Component) metrics() *metric.Metrics {
	if c.registry == nil {
		return nil
	}
	return c.registry.Metrics
}

// Initialize prepares the component for startup.
func (c *Component) Initialize() error {
	c.logger.Debug("Initialized sap-api",
		"addr", c.config.Addr,
		"scenarios", len(c.store.Scenarios()))
	return nil
}

// Start binds the listen address and serves in the background. It returns
// once the listener is open.
func (c *Component) Start(ctx context.Context) error {
	if !c.state.CompareAndSwap(stateStopped, stateStarting) {
		current := c.state.Load()
		if current == stateRunning || current == stateStarting {
			return fmt.Errorf("component already running or starting")
		}
		return fmt.Errorf("component in invalid state: %d", current)
	}

	defer func() {
		if c.state.Load() == stateStarting {
			c.state.Store(stateStopped)
		}
	}()

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", c.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", c.config.Addr, err)
	}

	mux := http.NewServeMux()
	c.RegisterHTTPHandlers(mux)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: c.config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ErrorLog:          slog.NewLogLogger(c.logger.Handler(), slog.LevelWarn),
	}
	served := make(chan struct{})

	c.mu.Lock()
	c.server = server
	c.addr = ln.Addr()
	c.served = served
	c.startTime = time.Now()
	c.mu.Unlock()

	go func() {
		defer close(served)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("HTTP server failed", "addr", ln.Addr().String(), "error", err)
		}
	}()

	c.state.Store(stateRunning)
	c.logger.Info("sap-api started", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the HTTP server down, waiting up to timeout for in-flight
// requests.
func (c *Component) Stop(timeout time.Duration) error {
	if !c.state.CompareAndSwap(stateRunning, stateStopping) {
		current := c.state.Load()
		if current == stateStopped || current == stateStopping {
			return nil
		}
		return fmt.Errorf("component in unexpected state: %d", current)
	}
	defer c.state.Store(stateStopped)

	c.mu.Lock()
	server, served := c.server, c.served
	c.server = nil
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		server.Close()
		return fmt.Errorf("shutdown: %w", err)
	}
	<-served

	c.logger.Info("sap-api stopped")
	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (c *Component) Addr() net.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.addr
}

// HealthStatus describes the component's lifecycle state.
type HealthStatus struct {
	Healthy   bool          `json:"healthy"`
	Status    string        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	LastCheck time.Time     `json:"last_check"`
}

// Health returns the current health status.
func (c *Component) Health() HealthStatus {
	state := c.state.Load()
	running := state == stateRunning

	c.mu.RLock()
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	switch state {
	case stateStarting:
		status = "starting"
	case stateRunning:
		status = "running"
	case stateStopping:
		status = "stopping"
	}

	var uptime time.Duration
	if running {
		uptime = time.Since(startTime)
	}
	return HealthStatus{
		Healthy:   running,
		Status:    status,
		Uptime:    uptime,
		LastCheck: time.Now(),
	}
}
