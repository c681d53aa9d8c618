// Package echo is the host side of the framed echo link: it sends numbered
// frames to the board, waits for each to come back and keeps score.
package echo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"f1hal/protocol"
)

// Report summarises a run.
type Report struct {
	Sent     int
	Received int
	Lost     int
	Corrupt  int // frames dropped for a bad length or CRC
	Stray    int // valid frames that did not match the outstanding probe

	MinRTT, MaxRTT, TotalRTT time.Duration
}

// MeanRTT is the average round trip of the received frames.
func (r Report) MeanRTT() time.Duration {
	if r.Received == 0 {
		return 0
	}
	return r.TotalRTT / time.Duration(r.Received)
}

// Checker drives one link.
type Checker struct {
	Port    io.ReadWriter
	Log     *slog.Logger
	Timeout time.Duration // per probe

	ring  *protocol.Ring
	start time.Time
	now   func() time.Time
}

func (c *Checker) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func (c *Checker) logger() *slog.Logger {
	if c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

// probe builds the payload for probe i: its index and send time as VLQs,
// padded with a counting pattern to size bytes.
func (c *Checker) probe(i uint32, now time.Time, size int) []byte {
	p := protocol.AppendUVLQ(nil, i)
	p = protocol.AppendUVLQ(p, uint32(now.Sub(c.start)/time.Microsecond))
	for k := 0; len(p) < size; k++ {
		p = append(p, byte(k))
	}
	return p
}

// Run sends count probes of size payload bytes, one at a time. It stops
// early when ctx is done or the port fails.
func (c *Checker) Run(ctx context.Context, count, size int) (Report, error) {
	var rep Report
	if size > protocol.PayloadMax {
		return rep, protocol.ErrPayloadTooLarge
	}
	if c.Timeout <= 0 {
		c.Timeout = time.Second
	}
	c.ring = protocol.NewRing(4 * protocol.FrameMax)
	c.start = c.clock()
	log := c.logger()

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		sent := c.clock()
		payload := c.probe(uint32(i), sent, size)
		frame, err := protocol.AppendFrame(nil, uint8(i), payload)
		if err != nil {
			return rep, err
		}
		if _, err := c.Port.Write(frame); err != nil {
			return rep, err
		}
		rep.Sent++

		got, err := c.await(ctx, uint32(i), &rep)
		if err != nil {
			return rep, err
		}
		if !got {
			rep.Lost++
			log.Warn("probe lost", "index", i)
			continue
		}
		rtt := c.clock().Sub(sent)
		rep.Received++
		rep.TotalRTT += rtt
		if rep.MinRTT == 0 || rtt < rep.MinRTT {
			rep.MinRTT = rtt
		}
		if rtt > rep.MaxRTT {
			rep.MaxRTT = rtt
		}
		log.Debug("probe echoed", "index", i, "rtt", rtt)
	}
	return rep, nil
}

// await reads until the echo of probe index arrives or the probe times out.
func (c *Checker) await(ctx context.Context, index uint32, rep *Report) (bool, error) {
	deadline := time.Now().Add(c.Timeout)
	for time.Now().Before(deadline) {
		for {
			f, ok, err := protocol.Next(c.ring)
			if err != nil {
				rep.Corrupt++
				c.logger().Warn("corrupt frame", "err", err)
				continue
			}
			if !ok {
				break
			}
			if got, _, err := protocol.DecodeUVLQ(f.Payload); err == nil && got == index && f.Seq == uint8(index) {
				return true, nil
			}
			rep.Stray++
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if _, err := c.ring.Fill(c.Port); err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
	}
	return false, nil
}
