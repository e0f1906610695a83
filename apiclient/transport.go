package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/Alia5/mousekeys/internal/auth"
)

// Config controls dialing, timeouts and the optional API password.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Password     string
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Responder answers requests in place of a server.
type Responder func(path string, payload any, pathParams map[string]string) (string, error)

// Transport speaks the VIIPER management protocol. A request is
// `<path>[ SP <payload>]\x00`; the server answers with one JSON line and
// closes the connection.
type Transport struct {
	addr string
	mock Responder
	cfg  Config
}

// NewTransport returns a transport for addr. A nil cfg uses the defaults.
func NewTransport(addr string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return &Transport{addr: addr, cfg: c}
}

// NewMockTransport returns a transport that never dials and asks responder.
func NewMockTransport(responder Responder) *Transport {
	return &Transport{addr: "mock", mock: responder, cfg: defaultConfig()}
}

// dial connects to the server and, with a password configured, returns the
// encrypted connection.
func (t *Transport) dial(ctx context.Context) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	d := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			slog.Warn("failed to set TCP_NODELAY", "error", err)
		}
	}
	if t.cfg.Password == "" {
		return conn, nil
	}

	key, err := auth.DeriveKey(t.cfg.Password)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	sc, err := auth.Client(conn, key)
	if err != nil {
		conn.Close()
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	return sc, nil
}

// Do sends one request and returns the answer without its trailing newline.
// A []byte or string payload is sent as is, anything else as JSON.
func (t *Transport) Do(ctx context.Context, path string, payload any, pathParams map[string]string) (string, error) {
	if t.mock != nil {
		return t.mock(path, payload, pathParams)
	}
	line := []byte(fillPath(path, pathParams))
	pb, err := toPayloadBytes(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	if len(pb) > 0 {
		line = append(append(line, ' '), pb...)
	}

	conn, err := t.dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	if _, err := conn.Write(append(line, '\x00')); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	if t.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
	resp, err := io.ReadAll(conn)
	if err != nil && len(resp) == 0 {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimSuffix(string(resp), "\n"), nil
}

func fillPath(pattern string, params map[string]string) string {
	out := pattern
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", url.PathEscape(v))
	}
	return strings.ToLower(out)
}

func toPayloadBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	default:
		return json.Marshal(v)
	}
}
