// Package publish pushes analysis reports to a socket.io server, so a live
// dashboard can follow the analyzer while it watches schedule files.
package publish

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/serialgraph/internal/ctxlog"
	"github.com/vk/serialgraph/internal/render"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// EventName is the socket.io event every report is emitted under.
const EventName = "precedence_report"

// DefaultConnectTimeout bounds the initial connection attempt.
const DefaultConnectTimeout = 15 * time.Second

// Config describes the socket.io endpoint.
type Config struct {
	// URL includes the socket.io path, e.g. http://localhost:3000/socket.io/.
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// endpoint splits the configured URL into the manager base URL and the
// socket.io path.
func (c Config) endpoint() (base, path string, err error) {
	if c.URL == "" {
		return "", "", errors.New("publish url cannot be empty")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return "", "", fmt.Errorf("unsupported publish url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("publish url %q has no host", c.URL)
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), u.Path, nil
}

func (c Config) namespace() string {
	if c.Namespace == "" {
		return "/"
	}
	return c.Namespace
}

// Client is a connected socket.io publisher.
type Client struct {
	io *socket.Socket
}

// Dial connects to the configured server and waits for the connection to be
// acknowledged.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("component", "publisher", "url", cfg.URL)

	base, path, err := cfg.endpoint()
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	manager := socket.NewManager(base, opts)
	io := manager.Socket(cfg.namespace(), opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Publisher connected", "sid", io.Id(), "namespace", cfg.namespace())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("unknown connection error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Publisher connection error", "error", err)
		connectChan <- err
	})

	logger.Debug("Connecting publisher...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Client{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Publish emits r as a precedence_report event.
func (c *Client) Publish(ctx context.Context, r *render.Report) error {
	payload, err := reportPayload(r)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Publishing report.", "event", EventName, "source", r.Source, "sid", c.io.Id())
	c.io.Emit(EventName, payload)
	return nil
}

// Close disconnects from the server.
func (c *Client) Close() error {
	c.io.Disconnect()
	return nil
}

// reportPayload converts r into plain JSON values so the socket.io encoder
// sends the same document as the JSON output.
func reportPayload(r *render.Report) (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return payload, nil
}
