// Package apiclient talks to a VIIPER server: bus and device management over
// the request protocol and raw device streams for input reports.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Alia5/mousekeys/apitypes"
	"github.com/Alia5/mousekeys/device"
)

// Client wraps a Transport with typed calls.
type Client struct{ transport *Transport }

// New returns a client for addr. A nil cfg uses the default timeouts.
func New(addr string, cfg *Config) *Client { return &Client{transport: NewTransport(addr, cfg)} }

// WithTransport returns a client using t.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the server identity and version.
func (c *Client) Ping(ctx context.Context) (*apitypes.PingResponse, error) {
	raw, err := c.transport.Do(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// BusCreate creates a bus. busID 0 lets the server pick the number.
func (c *Client) BusCreate(ctx context.Context, busID uint32) (*apitypes.BusCreateResponse, error) {
	var payload any
	if busID != 0 {
		payload = fmt.Sprintf("%d", busID)
	}
	raw, err := c.transport.Do(ctx, "bus/create", payload, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusCreateResponse](raw)
}

// BusRemove removes a bus and every device on it.
func (c *Client) BusRemove(ctx context.Context, busID uint32) (*apitypes.BusRemoveResponse, error) {
	raw, err := c.transport.Do(ctx, "bus/remove", fmt.Sprintf("%d", busID), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusRemoveResponse](raw)
}

// BusList lists the active bus numbers.
func (c *Client) BusList(ctx context.Context) (*apitypes.BusListResponse, error) {
	raw, err := c.transport.Do(ctx, "bus/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusListResponse](raw)
}

// DeviceAdd attaches a device of devType to busID.
func (c *Client) DeviceAdd(ctx context.Context, busID uint32, devType string, o *device.CreateOptions) (*apitypes.Device, error) {
	if o == nil {
		o = &device.CreateOptions{}
	}
	req := apitypes.DeviceCreateRequest{
		Type:      &devType,
		IdVendor:  o.IdVendor,
		IdProduct: o.IdProduct,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal device create request: %w", err)
	}
	raw, err := c.transport.Do(ctx, "bus/{id}/add", payload, busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.Device](raw)
}

// DeviceRemove detaches device devID from busID.
func (c *Client) DeviceRemove(ctx context.Context, busID uint32, devID string) (*apitypes.DeviceRemoveResponse, error) {
	raw, err := c.transport.Do(ctx, "bus/{id}/remove", devID, busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceRemoveResponse](raw)
}

// Devices lists the devices on busID.
func (c *Client) Devices(ctx context.Context, busID uint32) (*apitypes.DevicesListResponse, error) {
	raw, err := c.transport.Do(ctx, "bus/{id}/list", nil, busParam(busID))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DevicesListResponse](raw)
}

func busParam(busID uint32) map[string]string {
	return map[string]string{"id": fmt.Sprintf("%d", busID)}
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
