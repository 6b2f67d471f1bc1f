package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/stirgen/internal/profile"
)

// GenerateAll generates every profile concurrently, at most limit at a time
// (limit <= 0 means no limit).
//
// Results are returned in profile order. The first failure cancels jobs that
// have not started yet; profiles already written stay written. The returned
// error is the first non-nil error from the group.
func (g *Generator) GenerateAll(ctx context.Context, profiles []*profile.Profile, limit int) ([]*Result, error) {
	if err := checkDistinctOutputs(profiles); err != nil {
		return nil, err
	}

	results := make([]*Result, len(profiles))
	eg, egctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, p := range profiles {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			res, err := g.Generate(egctx, p)
			if err != nil {
				slog.Error("generation failed", "profile", p.Name, "error", err)
				return fmt.Errorf("%s: %w", p.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	err := eg.Wait()
	return results, err
}

// checkDistinctOutputs rejects batches where two profiles would race on the
// same destination.
func checkDistinctOutputs(profiles []*profile.Profile) error {
	seen := make(map[string]string, len(profiles))
	for _, p := range profiles {
		if p.Output == "" {
			continue
		}
		if other, ok := seen[p.Output]; ok {
			return fmt.Errorf("profiles %q and %q both write %s", other, p.Name, p.Output)
		}
		seen[p.Output] = p.Name
	}
	return nil
}
