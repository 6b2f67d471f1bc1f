// Package sender streams a generated program to a printer over a serial
// port.
//
// Each command line is sent on its own, comments and blank lines stripped,
// and the next line waits for the firmware's "ok". "echo:busy" keep-alives
// are tolerated; an "Error" reply aborts the stream.
package sender

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/roach88/stirgen/internal/stir"
)

// DefaultBaudRate is the usual Marlin USB serial rate.
const DefaultBaudRate = 115200

// readTick bounds each blocking read so cancellation is noticed.
const readTick = 250 * time.Millisecond

// ErrFirmware is returned when the printer answers a line with an error.
var ErrFirmware = errors.New("firmware reported error")

// Open opens a serial port in 8N1 mode at baud.
func Open(name string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, stir.IOFailure("open serial port "+name, err)
	}
	if err := port.SetReadTimeout(readTick); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	return port, nil
}

// Stats summarizes a stream.
type Stats struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
}

// Sender writes command lines to a port and waits for acknowledgements.
type Sender struct {
	port    io.ReadWriter
	pending []byte
	ackWait time.Duration
}

// New wraps port. A zero ackWait waits for each "ok" indefinitely (until
// the context ends); long dwells like "G4 S180" hold the ok back for
// minutes.
func New(port io.ReadWriter, ackWait time.Duration) *Sender {
	return &Sender{port: port, ackWait: ackWait}
}

// Stream sends every command line of program.
func (s *Sender) Stream(ctx context.Context, program io.Reader) (Stats, error) {
	var stats Stats
	sc := bufio.NewScanner(program)
	for sc.Scan() {
		line := StripComment(sc.Text())
		if line == "" {
			stats.Skipped++
			continue
		}
		if strings.HasPrefix(line, "M808") {
			slog.Warn("M808 repeats only run when printed from media; unrolled output streams as-is", "line", line)
		}

		if err := s.send(ctx, line); err != nil {
			return stats, stir.IOFailure(fmt.Sprintf("line %d %q", stats.Sent+stats.Skipped+1, line), err)
		}
		stats.Sent++
	}
	if err := sc.Err(); err != nil {
		return stats, stir.IOFailure("read program", err)
	}
	return stats, nil
}

func (s *Sender) send(ctx context.Context, line string) error {
	if _, err := io.WriteString(s.port, line+"\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	slog.Debug("sent", "line", line)

	var deadline time.Time
	if s.ackWait > 0 {
		deadline = time.Now().Add(s.ackWait)
	}

	for {
		reply, err := s.readLine(ctx, deadline)
		if err != nil {
			return err
		}
		switch {
		case strings.HasPrefix(reply, "ok"):
			return nil
		case strings.HasPrefix(reply, "Error"), strings.HasPrefix(reply, "!!"):
			return fmt.Errorf("%w: %s", ErrFirmware, reply)
		case reply == "":
		default:
			slog.Debug("printer", "reply", reply)
		}
	}
}

// readLine returns the next reply line without its line ending. A read
// returning no data is a timeout tick.
func (s *Sender) readLine(ctx context.Context, deadline time.Time) (string, error) {
	buf := make([]byte, 256)
	for {
		if i := strings.IndexByte(string(s.pending), '\n'); i >= 0 {
			line := strings.TrimRight(string(s.pending[:i]), "\r")
			s.pending = s.pending[i+1:]
			return strings.TrimSpace(line), nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return "", fmt.Errorf("no acknowledgement within %s", s.ackWait)
		}

		n, err := s.port.Read(buf)
		s.pending = append(s.pending, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) && n > 0 {
				continue
			}
			return "", fmt.Errorf("read: %w", err)
		}
	}
}

// StripComment removes a ";" comment and surrounding whitespace.
func StripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
