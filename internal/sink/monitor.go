package sink

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Alia5/mousekeys/mousekey"

	"github.com/gorilla/websocket"
)

// MonitorConfig tunes the websocket report monitor.
type MonitorConfig struct {
	Addr         string `help:"Listen address of the websocket report monitor; empty disables it" env:"MOUSEKEYS_MONITOR_ADDR"`
	SendBuf      int    `help:"Per-client queue length before a slow client is dropped" default:"32"`
	BroadcastBuf int    `help:"Hub queue length before reports are dropped" default:"128"`
}

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

// envelope is the wire form of every monitor message.
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

type wsReport struct {
	Buttons uint8 `json:"buttons"`
	X       int8  `json:"x"`
	Y       int8  `json:"y"`
	V       int8  `json:"v"`
	H       int8  `json:"h"`
}

type wsState struct {
	Model       string  `json:"model"`
	Cursor      [2]int8 `json:"cursor"`
	Wheel       [2]int8 `json:"wheel"`
	Buttons     uint8   `json:"buttons"`
	Repeat      uint8   `json:"repeat"`
	WheelRepeat uint8   `json:"wheel_repeat"`
	Accel       uint8   `json:"accel"`
}

// Monitor broadcasts every report as JSON to connected websocket clients.
// Clients that cannot keep up are disconnected.
type Monitor struct {
	logger   *slog.Logger
	snapshot func() mousekey.State
	now      func() time.Time

	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	// done is closed when Run returns.
	done chan struct{}

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	sendBuf int
}

// NewMonitor returns a monitor. snapshot, when set, supplies the
// "state_init" message sent to each new client. Call Run to start it.
func NewMonitor(logger *slog.Logger, cfg MonitorConfig, snapshot func() mousekey.State) *Monitor {
	if cfg.SendBuf <= 0 {
		cfg.SendBuf = 32
	}
	if cfg.BroadcastBuf <= 0 {
		cfg.BroadcastBuf = 128
	}
	return &Monitor{
		logger:     logger,
		snapshot:   snapshot,
		now:        func() time.Time { return time.Now().UTC() },
		broadcast:  make(chan []byte, cfg.BroadcastBuf),
		register:   make(chan *wsClient, 64),
		unregister: make(chan *wsClient, 64),
		done:       make(chan struct{}),
		clients:    make(map[*wsClient]struct{}),
		sendBuf:    cfg.SendBuf,
	}
}

// Run serves hub events until ctx is done, then drops every client.
func (m *Monitor) Run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			for c := range m.clients {
				m.drop(c)
			}
			m.mu.Unlock()
			return

		case c := <-m.register:
			m.mu.Lock()
			m.clients[c] = struct{}{}
			n := len(m.clients)
			m.mu.Unlock()
			m.logger.Info("monitor client connected", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-m.unregister:
			m.remove(c, "unregister")

		case msg := <-m.broadcast:
			var slow []*wsClient
			m.mu.Lock()
			for c := range m.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			m.mu.Unlock()
			for _, c := range slow {
				m.remove(c, "slow_client")
			}
		}
	}
}

// Clients returns the number of registered clients.
func (m *Monitor) Clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// drop closes c. m.mu must be held.
func (m *Monitor) drop(c *wsClient) {
	delete(m.clients, c)
	_ = c.conn.Close()
	close(c.send)
}

func (m *Monitor) remove(c *wsClient, reason string) {
	m.mu.Lock()
	_, ok := m.clients[c]
	if ok {
		m.drop(c)
	}
	n := len(m.clients)
	m.mu.Unlock()
	if ok {
		m.logger.Info("monitor client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
	}
}

// SendMouse queues r for broadcast. It never blocks; a full hub queue drops
// the report.
func (m *Monitor) SendMouse(r mousekey.Report) error {
	msg, err := m.encode("report", wsReport{Buttons: r.Buttons, X: r.X, Y: r.Y, V: r.V, H: r.H})
	if err != nil {
		return err
	}
	select {
	case m.broadcast <- msg:
	default:
		m.logger.Warn("monitor queue full, dropping report")
	}
	return nil
}

func (m *Monitor) Close() error { return nil }

func (m *Monitor) encode(typ string, data any) ([]byte, error) {
	ts := m.now()
	return json.Marshal(envelope{Type: typ, Ts: &ts, Data: data})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// join hands c to the hub. It reports false once the hub has stopped.
func (m *Monitor) join(c *wsClient) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	select {
	case m.register <- c:
		return true
	case <-m.done:
		return false
	}
}

// leave hands c back to the hub, if it is still running.
func (m *Monitor) leave(c *wsClient) {
	select {
	case m.unregister <- c:
	case <-m.done:
	}
}

// ServeHTTP upgrades the request and registers the client.
func (m *Monitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("monitor upgrade failed", "error", err)
		return
	}
	c := &wsClient{monitor: m, conn: conn, send: make(chan []byte, m.sendBuf), remoteAddr: r.RemoteAddr}

	if m.snapshot != nil {
		s := m.snapshot()
		msg, err := m.encode("state_init", wsState{
			Model:       s.Model,
			Cursor:      [2]int8{s.Cursor.X, s.Cursor.Y},
			Wheel:       [2]int8{s.Wheel.X, s.Wheel.Y},
			Buttons:     s.Buttons,
			Repeat:      s.Repeat,
			WheelRepeat: s.WheelRepeat,
			Accel:       s.Accel,
		})
		if err == nil {
			c.send <- msg
		}
	}
	if !m.join(c) {
		_ = conn.Close()
		return
	}

	// The pumps outlive the request; the hub and socket errors end them.
	go c.writePump()
	go c.readPump()
}

type wsClient struct {
	monitor    *Monitor
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.exit("write", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.exit("ping", err)
				return
			}
		}
	}
}

// readPump discards inbound messages and unregisters on the first error.
func (c *wsClient) readPump() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.exit("read", err)
			c.monitor.leave(c)
			return
		}
	}
}

func (c *wsClient) exit(op string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		c.monitor.logger.Debug("monitor pump exiting", "op", op, "remote_addr", c.remoteAddr, "code", ce.Code, "reason", ce.Text)
		return
	}
	c.monitor.logger.Debug("monitor pump exiting", "op", op, "remote_addr", c.remoteAddr, "error", err)
}
