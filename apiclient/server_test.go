package apiclient_test

import (
	"bufio"
	"crypto/hmac"
	"crypto/rand"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"github.com/Alia5/mousekeys/apitypes"
	"github.com/Alia5/mousekeys/internal/auth"

	"github.com/stretchr/testify/require"
)

// fakeServer accepts connections on a loopback listener. Each connection is
// optionally authenticated with password, its request line is sent on lines
// and handle answers it.
type fakeServer struct {
	addr  string
	lines chan string
}

func startFakeServer(t *testing.T, password string, handle func(line string, conn net.Conn)) *fakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	s := &fakeServer{addr: ln.Addr().String(), lines: make(chan string, 16)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
				if password != "" {
					if conn = serverHandshake(conn, password); conn == nil {
						return
					}
				}
				sess := session{Conn: conn, r: bufio.NewReader(conn)}
				line, err := sess.r.ReadString('\x00')
				if err != nil {
					return
				}
				line = line[:len(line)-1]
				s.lines <- line
				handle(line, sess)
			}()
		}
	}()
	return s
}

// session reads through the buffer that consumed the request line.
type session struct {
	net.Conn
	r *bufio.Reader
}

func (s session) Read(p []byte) (int, error) { return s.r.Read(p) }

func serverHandshake(conn net.Conn, password string) net.Conn {
	key, err := auth.DeriveKey(password)
	if err != nil {
		return nil
	}
	hello := make([]byte, len(auth.HandshakeMagic)+auth.NonceSize+32)
	if _, err := io.ReadFull(conn, hello); err != nil {
		return nil
	}
	clientNonce := hello[len(auth.HandshakeMagic) : len(auth.HandshakeMagic)+auth.NonceSize]
	if !hmac.Equal(hello[len(auth.HandshakeMagic)+auth.NonceSize:], auth.Proof(key, clientNonce)) {
		b, _ := json.Marshal(apitypes.ApiError{Status: 401, Title: "Unauthorized", Detail: "invalid password"})
		_, _ = conn.Write(append(b, '\n'))
		return nil
	}
	serverNonce := make([]byte, auth.NonceSize)
	_, _ = rand.Read(serverNonce)
	if _, err := conn.Write(append([]byte("OK\x00"), serverNonce...)); err != nil {
		return nil
	}
	sc, err := auth.WrapConn(conn, auth.SessionKey(key, serverNonce, clientNonce))
	if err != nil {
		return nil
	}
	return sc
}

func reply(resp string) func(string, net.Conn) {
	return func(_ string, conn net.Conn) { _, _ = conn.Write([]byte(resp)) }
}
