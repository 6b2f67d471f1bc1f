package cli

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/stirgen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	Limit      int
	ParamsHash string
	JobID      string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generations",
		Long: `List jobs recorded with --db, newest first.

Example:
  stirgen history --db history.db --limit 10
  stirgen history --db history.db --params <params-hash>
  stirgen history --db history.db --job <job-id>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum jobs to list (0 for all)")
	cmd.Flags().StringVar(&opts.ParamsHash, "params", "", "only jobs with this parameter hash")
	cmd.Flags().StringVar(&opts.JobID, "job", "", "show a single job")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if !fileExists(opts.Database) {
		return formatter.Fail(fmt.Errorf("database %s: %w", opts.Database, fs.ErrNotExist))
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(&storeError{err})
	}
	defer closeStore(st)

	ctx := contextOf(cmd)
	var jobs []store.Job
	switch {
	case opts.JobID != "":
		job, err := st.GetJob(ctx, opts.JobID)
		if err != nil {
			return formatter.Fail(err)
		}
		jobs = []store.Job{job}
	case opts.ParamsHash != "":
		jobs, err = st.JobsByParams(ctx, opts.ParamsHash)
	default:
		jobs, err = st.ListJobs(ctx, opts.Limit)
	}
	if err != nil {
		return formatter.Fail(&storeError{err})
	}

	if formatter.Format == "json" {
		return formatter.Success(jobs)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(formatter.Writer, "No jobs recorded.")
		return nil
	}
	for _, job := range jobs {
		mode := "M808"
		if job.Compatibility {
			mode = "unrolled"
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  %-16s %5d loops  %-12s %-8s %s\n",
			job.CreatedAt.Local().Format(time.DateTime), shortID(job.ID), job.Name,
			job.LoopCount, job.Motion, mode, job.Output)
		formatter.VerboseLog("  params %s  program %s  %d bytes", job.ParamsHash, job.ProgramHash, job.SizeBytes)
	}
	return nil
}

func shortID(s string) string {
	if len(s) > 8 {
		return s[len(s)-8:]
	}
	return s
}
