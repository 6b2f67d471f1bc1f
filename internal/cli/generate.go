package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/stirgen/internal/engine"
	"github.com/roach88/stirgen/internal/profile"
	"github.com/roach88/stirgen/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	profileFlags
	Strict   bool
	Database string

	// IDs overrides the job id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs engine.IDGenerator
}

// GenerateSummary is the success payload of generate.
type GenerateSummary struct {
	*engine.Result
	Program string `json:"program,omitempty"` // set when writing to stdout in JSON mode
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	return newGenerateCommand(&GenerateOptions{RootOptions: rootOpts})
}

func newGenerateCommand(opts *GenerateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [profile.yaml]",
		Short: "Generate a stirring program",
		Long: `Generate a stirring program from a profile file, flags, or both.

Flags override values from the profile. Without --output the program is
written to stdout. Geometry violations are logged; --strict refuses them.

Example:
  stirgen generate resin.yaml -o stir.gcode
  stirgen generate --length 200 --width 200 --height 200 \
    --diameter 30 --speed 10 --time 5 --stir-height 20 --z-final 50`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runGenerate(opts, path, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "refuse profiles that break the geometry schema")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the job in this SQLite history database")

	return cmd
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	p, err := opts.build(cmd, path)
	if err != nil {
		return formatter.Fail(err)
	}

	engineOpts := []engine.Option{engine.WithStrictGeometry(opts.Strict)}
	if opts.IDs != nil {
		engineOpts = append(engineOpts, engine.WithIDGenerator(opts.IDs))
	}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.Fail(&storeError{err})
		}
		defer closeStore(st)
		engineOpts = append(engineOpts, engine.WithRecorder(st))
	}
	gen := engine.New(engineOpts...)

	if p.Output == "" {
		return generateToStdout(formatter, gen, p)
	}

	res, err := gen.Generate(contextOf(cmd), p)
	if err != nil {
		if res != nil {
			// Written but not recorded.
			return formatter.Fail(&storeError{err})
		}
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(GenerateSummary{Result: res})
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %s: %d loops (%s), %d lines, %d bytes\n",
		res.Output, res.LoopCount, res.Motion, res.Lines, res.Bytes)
	if res.JobID != "" {
		formatter.VerboseLog("Recorded job %s", res.JobID)
	}
	return nil
}

// generateToStdout renders p in memory. Text mode prints the raw program;
// JSON mode embeds it in the response.
func generateToStdout(formatter *OutputFormatter, gen *engine.Generator, p *profile.Profile) error {
	prog, err := gen.Render(p)
	if err != nil {
		return formatter.Fail(err)
	}
	slog.Debug("program rendered to stdout", "profile", p.Name, "bytes", len(prog.Bytes))

	if formatter.Format == "json" {
		res, err := prog.Summary("")
		if err != nil {
			return formatter.Fail(err)
		}
		return formatter.Success(GenerateSummary{Result: res, Program: string(prog.Bytes)})
	}
	_, err = formatter.Writer.Write(prog.Bytes)
	return err
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
