package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stirgen/internal/profile"
	"github.com/roach88/stirgen/internal/stir"
)

// CheckResult holds the check results of one profile.
type CheckResult struct {
	Profile    string             `json:"profile"`
	Path       string             `json:"path"`
	Valid      bool               `json:"valid"`
	LoopCount  int                `json:"loop_count"`
	Violations profile.Violations `json:"violations,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <profile.yaml>...",
		Short: "Check profiles without generating",
		Long: `Check that each profile resolves and that its stir circle and heights
fit inside the working volume. Nothing is written.

Exits 1 when any profile has a violation.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	results := make([]CheckResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		res, err := checkProfile(path)
		if err != nil {
			return formatter.Fail(err)
		}
		if !res.Valid {
			failed++
		}
		results = append(results, res)
	}

	if formatter.Format == "json" {
		if failed > 0 {
			_ = formatter.Error(ErrCodeGeometry, fmt.Sprintf("%d profile(s) failed geometry check", failed), results)
		} else if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(formatter.Writer, "✓ %s: %d loops\n", res.Path, res.LoopCount)
				continue
			}
			fmt.Fprintf(formatter.Writer, "✗ %s\n", res.Path)
			for _, v := range res.Violations {
				fmt.Fprintf(formatter.Writer, "  %s\n", v)
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d profile(s) failed geometry check", ErrCodeGeometry, failed))
	}
	return nil
}

// checkProfile resolves the profile, so invalid parameters fail here too,
// then runs the geometry schema.
func checkProfile(path string) (CheckResult, error) {
	p, err := loadProfile(path)
	if err != nil {
		return CheckResult{}, err
	}
	req, err := p.Request()
	if err != nil {
		return CheckResult{}, fmt.Errorf("%s: %w", path, err)
	}
	params, err := stir.Resolve(req)
	if err != nil {
		return CheckResult{}, fmt.Errorf("%s: %w", path, err)
	}
	violations, err := profile.Check(p)
	if err != nil {
		return CheckResult{}, err
	}
	return CheckResult{
		Profile:    p.Name,
		Path:       path,
		Valid:      len(violations) == 0,
		LoopCount:  params.LoopCount,
		Violations: violations,
	}, nil
}
