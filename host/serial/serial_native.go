package serial

import (
	"fmt"

	"github.com/tarm/serial"
)

// NativePort wraps the tarm/serial implementation.
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

var parities = map[string]serial.Parity{
	"":     serial.ParityNone,
	"none": serial.ParityNone,
	"even": serial.ParityEven,
	"odd":  serial.ParityOdd,
}

var stopBits = map[string]serial.StopBits{
	"":    serial.Stop1,
	"1":   serial.Stop1,
	"1.5": serial.Stop1Half,
	"2":   serial.Stop2,
}

// framing maps cfg's line settings onto tarm/serial. Data is always eight
// bits; the board carries parity in a ninth.
func framing(cfg *Config) (*serial.Config, error) {
	parity, ok := parities[cfg.Parity]
	if !ok {
		return nil, fmt.Errorf("unsupported parity %q", cfg.Parity)
	}
	stop, ok := stopBits[cfg.StopBits]
	if !ok {
		return nil, fmt.Errorf("unsupported stop bits %q", cfg.StopBits)
	}
	return &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
		Size:        8,
		Parity:      parity,
		StopBits:    stop,
	}, nil
}

// Open opens a native serial port with cfg's framing.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	sc, err := framing(cfg)
	if err != nil {
		return nil, err
	}
	port, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{port: port, cfg: cfg}, nil
}

func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

func (p *NativePort) Flush() error {
	return p.port.Flush()
}
