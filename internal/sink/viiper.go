package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/mousekeys/apiclient"
	"github.com/Alia5/mousekeys/device"
	"github.com/Alia5/mousekeys/device/mouse"
	"github.com/Alia5/mousekeys/internal/log"
	"github.com/Alia5/mousekeys/mousekey"
)

// ViiperConfig selects the VIIPER server and the virtual mouse to create.
type ViiperConfig struct {
	Addr      string        `help:"VIIPER API address; empty disables the sink" env:"MOUSEKEYS_VIIPER_ADDR"`
	Password  string        `help:"VIIPER API password" env:"MOUSEKEYS_VIIPER_PASSWORD"`
	Bus       uint32        `help:"Bus to attach to; 0 creates a new bus" default:"0"`
	IdVendor  uint16        `help:"USB vendor id of the virtual mouse; 0 keeps the server default" default:"0"`
	IdProduct uint16        `help:"USB product id of the virtual mouse; 0 keeps the server default" default:"0"`
	Timeout   time.Duration `help:"Request timeout" default:"5s"`
}

// Viiper streams reports to a virtual mouse on a VIIPER server.
type Viiper struct {
	client  *apiclient.Client
	stream  *apiclient.DeviceStream
	busID   uint32
	devID   string
	ownBus  bool
	timeout time.Duration
	logger  *slog.Logger
	raw     log.RawLogger
}

// OpenViiper connects to cfg.Addr, ensures a bus, adds a mouse and opens
// its stream.
func OpenViiper(ctx context.Context, cfg ViiperConfig, logger *slog.Logger, raw log.RawLogger) (*Viiper, error) {
	client := apiclient.New(cfg.Addr, &apiclient.Config{
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		Password:     cfg.Password,
	})
	return openViiper(ctx, client, cfg, logger, raw)
}

func openViiper(ctx context.Context, client *apiclient.Client, cfg ViiperConfig, logger *slog.Logger, raw log.RawLogger) (*Viiper, error) {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	v := &Viiper{client: client, busID: cfg.Bus, timeout: cfg.Timeout, logger: logger, raw: raw}

	if v.busID == 0 {
		bus, err := client.BusCreate(ctx, 0)
		if err != nil {
			return nil, fmt.Errorf("create bus: %w", err)
		}
		v.busID, v.ownBus = bus.BusID, true
	}

	var opts device.CreateOptions
	if cfg.IdVendor != 0 {
		opts.IdVendor = &cfg.IdVendor
	}
	if cfg.IdProduct != 0 {
		opts.IdProduct = &cfg.IdProduct
	}
	stream, dev, err := client.AddDeviceAndConnect(ctx, v.busID, "mouse", &opts)
	if dev != nil {
		v.devID = dev.DevId
	}
	if err != nil {
		return nil, errors.Join(fmt.Errorf("add mouse: %w", err), v.cleanup())
	}
	v.stream = stream
	logger.Info("VIIPER mouse attached", "bus", v.busID, "device", v.devID, "vid", dev.Vid, "pid", dev.Pid)
	return v, nil
}

func (v *Viiper) SendMouse(r mousekey.Report) error {
	state := mouse.FromReport(r)
	if err := v.stream.WriteBinary(&state); err != nil {
		return fmt.Errorf("viiper stream: %w", err)
	}
	if b, err := state.MarshalBinary(); err == nil {
		v.raw.Log("viiper", b)
	}
	return nil
}

// Close closes the stream and removes what OpenViiper created.
func (v *Viiper) Close() error {
	var errs []error
	if v.stream != nil {
		errs = append(errs, v.stream.Close())
	}
	errs = append(errs, v.cleanup())
	return errors.Join(errs...)
}

func (v *Viiper) cleanup() error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	var errs []error
	if v.devID != "" {
		if _, err := v.client.DeviceRemove(ctx, v.busID, v.devID); err != nil {
			errs = append(errs, fmt.Errorf("remove device: %w", err))
		}
		v.devID = ""
	}
	if v.ownBus {
		if _, err := v.client.BusRemove(ctx, v.busID); err != nil {
			errs = append(errs, fmt.Errorf("remove bus: %w", err))
		}
		v.ownBus = false
	}
	return errors.Join(errs...)
}
