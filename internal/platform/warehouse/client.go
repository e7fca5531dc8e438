// Package warehouse connects to the provisioned cluster over the Postgres
// wire protocol.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5"

	"github.com/imamik/dwhprov/internal/config"
)

// ErrNoEndpoint is returned when the document has no endpoint yet.
var ErrNoEndpoint = errors.New("no endpoint in provisioning document; run apply first")

// Conn is the subset of *pgx.Conn used here.
// This interface can be mocked for testing.
type Conn interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Dialer opens a connection for a connection string.
type Dialer func(ctx context.Context, connString string) (Conn, error)

func dialPgx(ctx context.Context, connString string) (Conn, error) {
	return pgx.Connect(ctx, connString)
}

// Client checks connectivity to the warehouse.
type Client struct {
	cfg  *config.RedshiftConfig
	dial Dialer
}

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces the pgx connector.
func WithDialer(d Dialer) Option {
	return func(c *Client) {
		c.dial = d
	}
}

// New creates a client for the cluster described by cfg.
func New(cfg *config.RedshiftConfig, opts ...Option) *Client {
	c := &Client{cfg: cfg, dial: dialPgx}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConnString builds a postgres:// URL for the cluster. TLS is required.
func ConnString(cfg *config.RedshiftConfig) (string, error) {
	if cfg.Endpoint == "" {
		return "", ErrNoEndpoint
	}
	port := cfg.DBPort
	if port == "" {
		port = config.DefaultDBPort
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:   net.JoinHostPort(cfg.Endpoint, port),
		Path:   "/" + cfg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", "require")
	q.Set("connect_timeout", "10")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Ping opens a connection, pings the server and closes the connection.
func (c *Client) Ping(ctx context.Context) error {
	connString, err := ConnString(c.cfg)
	if err != nil {
		return err
	}

	conn, err := c.dial(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.cfg.Endpoint, err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("failed to ping %s: %w", c.cfg.Endpoint, err)
	}

	if err := conn.Close(ctx); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}
