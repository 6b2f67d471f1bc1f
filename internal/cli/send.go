package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/stirgen/internal/sender"
	"github.com/roach88/stirgen/internal/stir"
)

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Port       string
	Baud       int
	AckTimeout time.Duration

	// OpenPort overrides the serial port opener (for testing).
	// If nil, defaults to sender.Open.
	OpenPort func(name string, baud int) (io.ReadWriteCloser, error)
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	return newSendCommand(&SendOptions{RootOptions: rootOpts})
}

func newSendCommand(opts *SendOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <program.gcode>",
		Short: "Stream a program to a printer over serial",
		Long: `Stream a generated program to a Marlin printer over a serial port,
one command at a time, waiting for "ok" after each.

M808 repeat markers only loop when a program is printed from media;
generate with --compat for programs meant to be streamed.

Example:
  stirgen send stir.gcode --port /dev/ttyUSB0 --baud 115200`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "serial port (required)")
	cmd.Flags().IntVarP(&opts.Baud, "baud", "b", sender.DefaultBaudRate, "baud rate")
	cmd.Flags().DurationVar(&opts.AckTimeout, "ack-timeout", 0, "give up when a command is not acknowledged in time (0 waits forever)")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

func runSend(opts *SendOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	program, err := os.Open(path)
	if err != nil {
		return formatter.Fail(err)
	}
	defer program.Close()

	open := opts.OpenPort
	if open == nil {
		open = func(name string, baud int) (io.ReadWriteCloser, error) {
			return sender.Open(name, baud)
		}
	}
	port, err := open(opts.Port, opts.Baud)
	if err != nil {
		if stir.CodeOf(err) == "" {
			err = stir.IOFailure("open serial port "+opts.Port, err)
		}
		return formatter.Fail(err)
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formatter.VerboseLog("Streaming %s to %s at %d baud", path, opts.Port, opts.Baud)
	stats, err := sender.New(port, opts.AckTimeout).Stream(ctx, program)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(stats)
	}
	fmt.Fprintf(formatter.Writer, "✓ Sent %d command(s) to %s\n", stats.Sent, opts.Port)
	return nil
}
