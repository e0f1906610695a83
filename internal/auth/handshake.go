package auth

import (
	"bufio"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/Alia5/mousekeys/apitypes"
)

const (
	// HandshakeMagic opens an authenticated connection.
	HandshakeMagic = "eVI1\x00"
	// NonceSize is the length of both handshake nonces.
	NonceSize   = 32
	authContext = "VIIPER-Auth-v1"
	acceptToken = "OK\x00"
)

// ErrUnauthorized is returned when the server drops the handshake.
var ErrUnauthorized = &apitypes.ApiError{Status: 401, Title: "Unauthorized", Detail: "invalid password"}

// Proof returns the HMAC a client sends along with its nonce.
func Proof(key, clientNonce []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(authContext))
	mac.Write(clientNonce)
	return mac.Sum(nil)
}

// Handshake authenticates a fresh connection: it sends the magic, a random
// nonce and its proof, then reads "OK\0" and the server nonce. A problem JSON
// answer is returned as *apitypes.ApiError.
func Handshake(r *bufio.Reader, w io.Writer, key []byte) (clientNonce, serverNonce []byte, err error) {
	if len(key) == 0 {
		return nil, nil, errors.New("handshake: missing key")
	}
	clientNonce = make([]byte, NonceSize)
	if _, err := rand.Read(clientNonce); err != nil {
		return nil, nil, fmt.Errorf("generate client nonce: %w", err)
	}

	msg := append([]byte(HandshakeMagic), clientNonce...)
	msg = append(msg, Proof(key, clientNonce)...)
	if _, err := w.Write(msg); err != nil {
		return nil, nil, fmt.Errorf("write handshake: %w", err)
	}

	prefix := make([]byte, len(acceptToken))
	if _, err := io.ReadFull(r, prefix); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("read handshake response: %w", err)
	}
	if string(prefix) != acceptToken {
		rest, _ := io.ReadAll(r)
		line := strings.TrimSuffix(string(append(prefix, rest...)), "\n")
		var apiErr apitypes.ApiError
		if err := json.Unmarshal([]byte(line), &apiErr); err == nil && (apiErr.Status != 0 || apiErr.Title != "") {
			return nil, nil, &apiErr
		}
		return nil, nil, fmt.Errorf("invalid handshake response from server: %q", line)
	}

	serverNonce = make([]byte, NonceSize)
	if _, err := io.ReadFull(r, serverNonce); err != nil {
		return nil, nil, fmt.Errorf("read server nonce: %w", err)
	}
	return clientNonce, serverNonce, nil
}

// Client runs the handshake on conn and returns the encrypted connection.
func Client(conn net.Conn, key []byte) (net.Conn, error) {
	r := bufio.NewReaderSize(conn, len(acceptToken)+NonceSize)
	clientNonce, serverNonce, err := Handshake(r, conn, key)
	if err != nil {
		return nil, err
	}
	if r.Buffered() > 0 {
		return nil, errors.New("handshake: unexpected data after server nonce")
	}
	return WrapConn(conn, SessionKey(key, serverNonce, clientNonce))
}
