package apiclient

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Alia5/mousekeys/apitypes"
	"github.com/Alia5/mousekeys/device"
)

// ErrStreamClosed is returned by writes after Close.
var ErrStreamClosed = errors.New("stream closed")

// DeviceStream is an open input channel to one device.
type DeviceStream struct {
	BusID uint32
	DevID string

	mu           sync.Mutex
	conn         net.Conn
	writeTimeout time.Duration
	closed       bool
}

// OpenStream connects to the stream of an existing device.
func (c *Client) OpenStream(ctx context.Context, busID uint32, devID string) (*DeviceStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(conn, "bus/%d/%s\x00", busID, devID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &DeviceStream{BusID: busID, DevID: devID, conn: conn, writeTimeout: c.transport.cfg.WriteTimeout}, nil
}

// AddDeviceAndConnect adds a device and opens its stream. The device is
// returned even when the stream fails so the caller can remove it.
func (c *Client) AddDeviceAndConnect(ctx context.Context, busID uint32, devType string, o *device.CreateOptions) (*DeviceStream, *apitypes.Device, error) {
	dev, err := c.DeviceAdd(ctx, busID, devType, o)
	if err != nil {
		return nil, nil, err
	}
	stream, err := c.OpenStream(ctx, busID, dev.DevId)
	if err != nil {
		return nil, dev, err
	}
	return stream, dev, nil
}

// WriteBinary marshals v and writes it as one input report.
func (s *DeviceStream) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	_, err = s.conn.Write(data)
	return err
}

// Close closes the stream. Further calls are no-ops.
func (s *DeviceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
