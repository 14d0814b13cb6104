package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Conn is a NATS connection with the credential store on it.
type Conn struct {
	nc     *nats.Conn
	store  *Store
	logger *slog.Logger
}

// Connect dials url and opens the credential bucket.
func Connect(ctx context.Context, url string, logger *slog.Logger) (*Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url, nats.Name("semcred"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	store, err := NewStore(ctx, js)
	if err != nil {
		nc.Close()
		return nil, err
	}

	logger.Info("Connected to NATS", "url", url, "bucket", BucketCredentials)
	return &Conn{nc: nc, store: store, logger: logger}, nil
}

// Store returns the credential store.
func (c *Conn) Store() *Store {
	return c.store
}

// Save stores doc and announces it.
func (c *Conn) Save(ctx context.Context, key Key, doc any) error {
	rev, err := c.store.Put(ctx, key, doc)
	if err != nil {
		return err
	}
	if err := Publish(ctx, c.nc, key, doc); err != nil {
		return err
	}
	c.logger.Debug("Stored credential", "key", key.String(), "revision", rev, "subject", key.Subject())
	return nil
}

// Close drains and closes the connection.
func (c *Conn) Close() {
	if err := c.nc.Drain(); err != nil {
		c.logger.Warn("NATS drain failed", "error", err)
	}
	c.nc.Close()
}
