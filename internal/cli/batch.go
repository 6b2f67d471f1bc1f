package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/stirgen/internal/engine"
	"github.com/roach88/stirgen/internal/profile"
	"github.com/roach88/stirgen/internal/store"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Jobs     int
	OutDir   string
	Strict   bool
	Database string

	// IDs overrides the job id generator (for testing).
	IDs engine.IDGenerator
}

// BatchSummary is the success payload of batch.
type BatchSummary struct {
	Results []*engine.Result `json:"results"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	return newBatchCommand(&BatchOptions{RootOptions: rootOpts})
}

func newBatchCommand(opts *BatchOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <profile.yaml>...",
		Short: "Generate several profiles concurrently",
		Long: `Generate one program per profile, several at a time.

Profiles without an output path write to <out-dir>/<name>.gcode. The first
failure stops profiles that have not started yet.

Example:
  stirgen batch profiles/*.yaml --out-dir build --jobs 4 --db history.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 4, "profiles generated at once (0 for no limit)")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", ".", "directory for profiles without an output path")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "refuse profiles that break the geometry schema")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record jobs in this SQLite history database")

	return cmd
}

func runBatch(opts *BatchOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	profiles := make([]*profile.Profile, 0, len(paths))
	for _, path := range paths {
		p, err := loadProfile(path)
		if err != nil {
			return formatter.Fail(err)
		}
		if p.Output == "" {
			p.Output = filepath.Join(opts.OutDir, p.Name+".gcode")
		}
		formatter.VerboseLog("Loaded %s from %s", p.Name, path)
		profiles = append(profiles, p)
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

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := engine.New(engineOpts...).GenerateAll(ctx, profiles, opts.Jobs)
	if err != nil {
		slog.Error("batch stopped", "error", err)
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(BatchSummary{Results: results})
	}
	fmt.Fprintf(formatter.Writer, "✓ Generated %d program(s)\n\n", len(results))
	for _, res := range results {
		fmt.Fprintf(formatter.Writer, "  %s: %s, %d loops (%s)\n", res.Name, res.Output, res.LoopCount, res.Motion)
	}
	return nil
}

// contextOf returns the command's context, or Background when the command
// runs outside Execute.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
