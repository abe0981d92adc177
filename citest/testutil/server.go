// Package testutil provides helpers for end-to-end tests against a real
// eventgate listener.
package testutil

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/eventgate/eventgate/internal/config"
	"github.com/eventgate/eventgate/internal/server"
)

// TestServer wraps a running server instance for tests.
type TestServer struct {
	Server  *server.Server
	BaseURL string
	Config  *server.Config
}

// TestServerOption configures the test server.
type TestServerOption func(*server.Config)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) TestServerOption {
	return func(c *server.Config) {
		c.CookieName = name
	}
}

// WithEventRoutes adds configured ingress routes.
func WithEventRoutes(routes ...config.EventRoute) TestServerOption {
	return func(c *server.Config) {
		c.Events = append(c.Events, routes...)
	}
}

// StartTestServer starts a server on a free localhost port and waits for it
// to accept requests.
func StartTestServer(opts ...TestServerOption) (*TestServer, error) {
	port, err := freePort()
	if err != nil {
		return nil, err
	}

	cfg := server.DefaultConfig()
	cfg.Hostname = "127.0.0.1"
	cfg.Port = port
	for _, opt := range opts {
		opt(cfg)
	}

	srv := server.New(cfg)
	go func() {
		_ = srv.Start()
	}()

	ts := &TestServer{
		Server:  srv,
		BaseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		Config:  cfg,
	}

	if err := ts.waitReady(); err != nil {
		return nil, err
	}
	return ts, nil
}

// waitReady polls the session listing until the server responds.
func (ts *TestServer) waitReady() error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxElapsedTime = 5 * time.Second

	return backoff.Retry(func() error {
		resp, err := http.Get(ts.BaseURL + "/session")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return nil
	}, policy)
}

// Stop shuts the server down.
func (ts *TestServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ts.Server.Shutdown(ctx)
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
