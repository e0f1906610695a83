package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// maxFrame bounds a single sealed frame.
const maxFrame = 2 << 20

// Conn seals every Write into one frame: a big-endian uint32 length, a 12 byte
// counter nonce and the ciphertext.
type Conn struct {
	net.Conn
	aead cipher.AEAD

	wmu     sync.Mutex
	counter uint64

	rmu     sync.Mutex
	pending bytes.Buffer
}

// WrapConn returns conn encrypted with the given 32 byte session key.
func WrapConn(conn net.Conn, sessionKey []byte) (*Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn, aead: aead}, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	frame := make([]byte, 4+chacha20poly1305.NonceSize, 4+chacha20poly1305.NonceSize+len(p)+c.aead.Overhead())
	nonce := frame[4:]
	binary.BigEndian.PutUint64(nonce[4:], c.counter)
	c.counter++
	frame = c.aead.Seal(frame, nonce, p, nil)
	binary.BigEndian.PutUint32(frame[:4], uint32(len(frame)-4))

	if _, err := c.Conn.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) Read(p []byte) (int, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()

	if c.pending.Len() == 0 {
		var hdr [4]byte
		if _, err := io.ReadFull(c.Conn, hdr[:]); err != nil {
			return 0, err
		}
		n := binary.BigEndian.Uint32(hdr[:])
		if n > maxFrame || n < chacha20poly1305.NonceSize {
			return 0, io.ErrUnexpectedEOF
		}
		frame := make([]byte, n)
		if _, err := io.ReadFull(c.Conn, frame); err != nil {
			return 0, err
		}
		nonce, ct := frame[:chacha20poly1305.NonceSize], frame[chacha20poly1305.NonceSize:]
		pt, err := c.aead.Open(nil, nonce, ct, nil)
		if err != nil {
			return 0, err
		}
		c.pending.Write(pt)
	}
	return c.pending.Read(p)
}
