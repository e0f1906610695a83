// Package auth implements the client side of the VIIPER API authentication:
// a PBKDF2 password key, an HMAC handshake and a ChaCha20-Poly1305 framed
// connection keyed per session.
package auth

import (
	"crypto/pbkdf2"
	"crypto/sha256"
	"errors"
)

const (
	pbkdf2Iterations = 100000
	pbkdf2Salt       = "VIIPER-Key-v1"
	sessionContext   = "VIIPER-Session-v1"
)

// ErrEmptyPassword is returned by DeriveKey for an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// DeriveKey stretches a password into the 32 byte API key.
func DeriveKey(password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	return pbkdf2.Key(sha256.New, password, []byte(pbkdf2Salt), pbkdf2Iterations, 32)
}

// SessionKey mixes the API key with both handshake nonces.
func SessionKey(key, serverNonce, clientNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(serverNonce)
	h.Write(clientNonce)
	h.Write([]byte(sessionContext))
	return h.Sum(nil)
}
