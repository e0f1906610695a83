package sink_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Alia5/mousekeys/device/mouse"
	"github.com/Alia5/mousekeys/internal/sink"
	"github.com/Alia5/mousekeys/mousekey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viiperServer is a minimal VIIPER management endpoint.
type viiperServer struct {
	addr     string
	mu       sync.Mutex
	requests []string
	reports  chan []byte
	failAdd  bool
}

func startViiper(t *testing.T, failAdd bool) *viiperServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	s := &viiperServer{addr: ln.Addr().String(), reports: make(chan []byte, 16), failAdd: failAdd}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()
	return s
}

func (s *viiperServer) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\x00')
	if err != nil {
		return
	}
	line = strings.TrimSuffix(line, "\x00")
	s.mu.Lock()
	s.requests = append(s.requests, line)
	s.mu.Unlock()

	path, _, _ := strings.Cut(line, " ")
	switch path {
	case "bus/create":
		_, _ = io.WriteString(conn, `{"busId":5}`+"\n")
	case "bus/5/add":
		if s.failAdd {
			_, _ = io.WriteString(conn, `{"status":409,"title":"Conflict","detail":"bus full"}`+"\n")
			return
		}
		_, _ = io.WriteString(conn, `{"busId":5,"devId":"1","vid":"0x2e8a","pid":"0x0001","type":"mouse"}`+"\n")
	case "bus/5/remove":
		_, _ = io.WriteString(conn, `{"busId":5,"devId":"1"}`+"\n")
	case "bus/remove":
		_, _ = io.WriteString(conn, `{"busId":5}`+"\n")
	case "bus/5/1":
		for {
			buf := make([]byte, mouse.WireSize)
			if _, err := io.ReadFull(r, buf); err != nil {
				return
			}
			s.reports <- buf
		}
	}
}

func (s *viiperServer) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, l := range s.requests {
		p, _, _ := strings.Cut(l, " ")
		out = append(out, p)
	}
	return out
}

func TestViiperSink(t *testing.T) {
	srv := startViiper(t, false)
	v, err := sink.OpenViiper(context.Background(), sink.ViiperConfig{Addr: srv.addr, IdVendor: 0x2e8a, Timeout: time.Second}, discard(), nil)
	require.NoError(t, err)

	require.NoError(t, v.SendMouse(mousekey.Report{Buttons: 2, X: -3, V: 1}))
	select {
	case got := <-srv.reports:
		assert.Equal(t, []byte{0x02, 0xFD, 0xFF, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}, got)
	case <-time.After(time.Second):
		t.Fatal("no report received")
	}

	require.NoError(t, v.Close())
	assert.Equal(t, []string{"bus/create", "bus/5/add", "bus/5/1", "bus/5/remove", "bus/remove"}, srv.paths())

	srv.mu.Lock()
	add := srv.requests[1]
	srv.mu.Unlock()
	assert.Contains(t, add, `"idVendor":11914`)
	assert.NotContains(t, add, "idProduct")
}

func TestViiperSinkExistingBus(t *testing.T) {
	srv := startViiper(t, false)
	v, err := sink.OpenViiper(context.Background(), sink.ViiperConfig{Addr: srv.addr, Bus: 5, Timeout: time.Second}, discard(), nil)
	require.NoError(t, err)
	require.NoError(t, v.Close())
	assert.ElementsMatch(t, []string{"bus/5/add", "bus/5/1", "bus/5/remove"}, srv.paths(), "a bus it did not create is left alone")
}

func TestViiperSinkAddFailsCleansUp(t *testing.T) {
	srv := startViiper(t, true)
	_, err := sink.OpenViiper(context.Background(), sink.ViiperConfig{Addr: srv.addr, Timeout: time.Second}, discard(), nil)
	assert.ErrorContains(t, err, "409 Conflict: bus full")
	assert.Equal(t, []string{"bus/create", "bus/5/add", "bus/remove"}, srv.paths())
}
