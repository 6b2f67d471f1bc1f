package sender

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stirgen/internal/stir"
)

// fakePort records written lines and answers each one with the next
// scripted reply.
type fakePort struct {
	mu      sync.Mutex
	written []string
	replies []string
	out     bytes.Buffer
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, strings.TrimSuffix(string(b), "\n"))
	reply := "ok\n"
	if len(p.replies) > 0 {
		reply, p.replies = p.replies[0], p.replies[1:]
	}
	p.out.WriteString(reply)
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out.Len() == 0 {
		return 0, nil // timeout tick
	}
	return p.out.Read(b)
}

const program = `; *** G-code Prefix ***
; Set unit system ([mm] mode)
G21

;Align coordinates to stirrer
G90 ; Absolute Positioning

;Position stirrer
G0 X85.0 Y100.0 F2400.0
`

func TestStream_SendsCommandsOnly(t *testing.T) {
	port := &fakePort{}
	stats, err := New(port, time.Second).Stream(context.Background(), strings.NewReader(program))
	require.NoError(t, err)

	assert.Equal(t, []string{"G21", "G90", "G0 X85.0 Y100.0 F2400.0"}, port.written)
	assert.Equal(t, 3, stats.Sent)
	assert.Equal(t, 6, stats.Skipped)
}

func TestStream_WaitsThroughBusyAndEcho(t *testing.T) {
	port := &fakePort{replies: []string{
		"echo:busy: processing\r\necho:busy: processing\r\nok\r\n",
		"T:20.0 /0.0\nok T:20.0\n",
	}}
	stats, err := New(port, time.Second).Stream(context.Background(), strings.NewReader("G4 S180\nM300 S500 P400\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Sent)
}

func TestStream_FirmwareError(t *testing.T) {
	port := &fakePort{replies: []string{"ok\n", "Error:Unknown command: \"ENC O1 S1\"\n"}}
	stats, err := New(port, time.Second).Stream(context.Background(), strings.NewReader("G21\nENC O1 S1\nG21\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFirmware)
	assert.True(t, stir.IsIOFailure(err))
	assert.Contains(t, err.Error(), "ENC O1 S1")
	assert.Equal(t, 1, stats.Sent)
	assert.Len(t, port.written, 2)
}

type silentPort struct{}

func (silentPort) Write(b []byte) (int, error) { return len(b), nil }
func (silentPort) Read([]byte) (int, error) {
	time.Sleep(time.Millisecond)
	return 0, nil
}

func TestStream_AckTimeout(t *testing.T) {
	_, err := New(silentPort{}, 20*time.Millisecond).Stream(context.Background(), strings.NewReader("G21\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no acknowledgement")
}

func TestStream_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(silentPort{}, 0).Stream(ctx, strings.NewReader("G21\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type brokenPort struct{ silentPort }

func (brokenPort) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestStream_ReadError(t *testing.T) {
	_, err := New(brokenPort{}, time.Second).Stream(context.Background(), strings.NewReader("G21\n"))
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestStripComment(t *testing.T) {
	assert.Equal(t, "G90", StripComment("G90 ; Absolute Positioning"))
	assert.Equal(t, "", StripComment(";Position stirrer"))
	assert.Equal(t, "G21", StripComment("  G21  "))
}
