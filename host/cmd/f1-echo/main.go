// Command f1-echo checks the board's USART console link end to end: it sends
// numbered frames, waits for the echo firmware to return them and reports
// loss and round-trip time.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"f1hal/config"
	"f1hal/host/echo"
	"f1hal/host/serial"
)

var (
	configPath = flag.String("config", "", "Board description (JSON); defaults apply when empty")
	device     = flag.String("device", "", "Serial device path (overrides the config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides the config)")
	count      = flag.Int("count", 100, "Number of probes")
	size       = flag.Int("size", 16, "Payload bytes per probe")
	timeout    = flag.Duration("timeout", 500*time.Millisecond, "Per-probe timeout")
	verbose    = flag.Bool("verbose", false, "Log every probe")
	jsonLog    = flag.Bool("json", false, "Log as JSON")
)

func main() {
	flag.Parse()

	level := new(slog.LevelVar)
	if *verbose {
		level.Set(slog.LevelDebug)
	}
	opts := &slog.HandlerOptions{Level: level}
	var log *slog.Logger
	if *jsonLog {
		log = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	} else {
		log = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	if err := run(log); err != nil {
		log.Error("echo check failed", "err", err)
		os.Exit(1)
	}
}

func loadBoard() (*config.Board, error) {
	if *configPath == "" {
		return config.Default(), nil
	}
	data, err := os.ReadFile(*configPath)
	if err != nil {
		return nil, err
	}
	return config.Load(data)
}

func run(log *slog.Logger) error {
	board, err := loadBoard()
	if err != nil {
		return err
	}
	cfg := serial.FromBoard(board)
	if *device != "" {
		cfg.Device = *device
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}

	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()
	if err := port.Flush(); err != nil {
		log.Warn("flush failed", "err", err)
	}
	log.Info("link open", "device", cfg.Device, "baud", cfg.Baud, "parity", cfg.Parity, "stop_bits", cfg.StopBits)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &echo.Checker{Port: port, Log: log, Timeout: *timeout}
	rep, err := c.Run(ctx, *count, *size)
	log.Info("done",
		"sent", rep.Sent,
		"received", rep.Received,
		"lost", rep.Lost,
		"corrupt", rep.Corrupt,
		"stray", rep.Stray,
		"rtt_min", rep.MinRTT,
		"rtt_mean", rep.MeanRTT(),
		"rtt_max", rep.MaxRTT,
	)
	if err != nil {
		return err
	}
	if rep.Lost > 0 {
		return fmt.Errorf("%d of %d probes lost", rep.Lost, rep.Sent)
	}
	return nil
}
