//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

// evIOCGRAB is _IOW('E', 0x90, int).
const evIOCGRAB = 0x40044590

// Devices reads key events from one or more /dev/input/event* nodes with a
// single epoll loop.
type Devices struct {
	fds    []int
	names  map[int]string
	grab   bool
	logger *slog.Logger
}

// Open opens every path. With grab set the devices are taken exclusively so
// their keys stop reaching other readers.
func Open(paths []string, grab bool, logger *slog.Logger) (*Devices, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input devices given")
	}
	d := &Devices{names: make(map[int]string, len(paths)), grab: grab, logger: logger}
	for _, p := range paths {
		fd, err := unix.Open(p, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		d.fds = append(d.fds, fd)
		d.names[fd] = p
		if grab {
			if err := unix.IoctlSetInt(fd, evIOCGRAB, 1); err != nil {
				d.Close()
				return nil, fmt.Errorf("grab %s: %w", p, err)
			}
		}
		logger.Info("input device opened", "path", p, "grab", grab)
	}
	return d, nil
}

// Run delivers key events to out until ctx is done or a device fails.
func (d *Devices) Run(ctx context.Context, out chan<- Event) error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("epoll_create1: %w", err)
	}
	defer unix.Close(epfd)

	for _, fd := range d.fds {
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
			return fmt.Errorf("epoll_ctl %s: %w", d.names[fd], err)
		}
	}

	ready := make([]unix.EpollEvent, 16)
	buf := make([]byte, EventSize*64)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		// A bounded wait lets cancellation through without closing the fds.
		n, err := unix.EpollWait(epfd, ready, 100)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}
		for _, r := range ready[:n] {
			fd := int(r.Fd)
			if r.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
				return fmt.Errorf("input device %s went away", d.names[fd])
			}
			m, err := unix.Read(fd, buf)
			if err != nil {
				if errors.Is(err, unix.EAGAIN) {
					continue
				}
				return fmt.Errorf("read %s: %w", d.names[fd], err)
			}
			for off := 0; off+EventSize <= m; off += EventSize {
				ev, ok := Decode(buf[off : off+EventSize])
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

// Close releases grabs and closes the devices.
func (d *Devices) Close() error {
	var errs []error
	for _, fd := range d.fds {
		if d.grab {
			_ = unix.IoctlSetInt(fd, evIOCGRAB, 0)
		}
		errs = append(errs, unix.Close(fd))
	}
	d.fds = nil
	return errors.Join(errs...)
}
