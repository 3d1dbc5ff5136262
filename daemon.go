package ledstrip

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"

	"libdb.so/ledstrip/ledserial"
)

// Daemon pushes the configured strip state to the controller over serial.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
}

// NewDaemon creates a new daemon for the given configuration.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run starts the daemon. It blocks until the given context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	port, err := serial.Open(d.cfg.Device, &serial.Mode{
		BaudRate: d.cfg.Baud,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open serial port")
	}
	defer port.Close()

	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		// Close the port on cancelation to unblock any pending read.
		<-ctx.Done()
		port.Close()
		return ctx.Err()
	})

	packets := make(chan ledserial.DevicePacket)
	errg.Go(func() error {
		return d.push(ctx, port, packets)
	})
	errg.Go(func() error {
		return d.readPackets(ctx, port, packets)
	})

	return errg.Wait()
}

// push paints the configured segments into a strip, initializes the
// controller, then writes one frame per tick, holding off until each frame
// is acked.
func (d *Daemon) push(ctx context.Context, port serial.Port, packets <-chan ledserial.DevicePacket) error {
	strip, err := d.cfg.NewStrip()
	if err != nil {
		return err
	}

	d.logger.Debug(
		"initializing strip",
		"pixels", strip.Len())

	if err := ledserial.WriteHostPacket(port, ledserial.InitPacket{
		NumPixels: uint16(strip.Len()),
	}); err != nil {
		return errors.Wrap(err, "failed to initialize strip")
	}

	frameTicker := time.NewTicker(time.Second / time.Duration(d.cfg.Rate))
	defer frameTicker.Stop()

	nextFrame := frameTicker.C

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case p := <-packets:
			switch p := p.(type) {
			case ledserial.AckPacket:
				d.logger.Debug(
					"received ack packet from controller",
					"acked_for", p.Acked)
				nextFrame = frameTicker.C

			case ledserial.ErrorPacket:
				d.logger.Warn(
					"received error packet from controller",
					"message", p.Message)
				return errors.New("controller reported error")

			case ledserial.LogPacket:
				d.logger.Info(
					"received log packet from controller",
					"message", p.Message)

			default:
				return fmt.Errorf("received unknown packet from controller: %s", p.Type())
			}

		case <-nextFrame:
			if err := ledserial.WriteHostPacket(port, ledserial.ShowPacket{
				Pix: strip.Bytes(),
			}); err != nil {
				return errors.Wrap(err, "failed to write frame")
			}

			// Wait for the controller to ack before scheduling another frame.
			nextFrame = nil
		}
	}
}

func (d *Daemon) readPackets(ctx context.Context, port serial.Port, dst chan<- ledserial.DevicePacket) error {
	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		return errors.Wrap(err, "failed to reset read timeout")
	}

	for ctx.Err() == nil {
		p, err := ledserial.ReadDevicePacket(port)
		if err != nil {
			// A short read indicates a timeout. This is expected.
			// Ignore the error and try again.
			if errors.Is(err, io.EOF) {
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}

		d.logger.Debug(
			"received packet from controller",
			"type", p.Type())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case dst <- p:
			// ok
		}
	}

	return ctx.Err()
}
