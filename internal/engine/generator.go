package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/stirgen/internal/assemble"
	"github.com/roach88/stirgen/internal/canon"
	"github.com/roach88/stirgen/internal/gcode"
	"github.com/roach88/stirgen/internal/profile"
	"github.com/roach88/stirgen/internal/stir"
	"github.com/roach88/stirgen/internal/store"
)

// Recorder persists generated jobs. *store.Store implements it.
type Recorder interface {
	WriteJob(ctx context.Context, job store.Job) (int64, error)
}

// Generator runs profiles through resolve, assemble and write.
//
// A Generator holds no per-job state and is safe for concurrent use when
// its Recorder is.
type Generator struct {
	recorder Recorder
	ids      IDGenerator
	clock    Clock
	strict   bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder records every written program.
func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithIDGenerator replaces the default UUIDv7 job ids.
func WithIDGenerator(ids IDGenerator) Option {
	return func(g *Generator) { g.ids = ids }
}

// WithClock replaces the wall clock used for created_at.
func WithClock(c Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithStrictGeometry makes geometry violations fatal.
func WithStrictGeometry(strict bool) Option {
	return func(g *Generator) { g.strict = strict }
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		ids:   UUIDv7Generator{},
		clock: systemClock{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Program is a fully rendered generation, not yet written anywhere.
type Program struct {
	Name       string
	Params     stir.Params
	Sections   []gcode.Section
	Violations profile.Violations

	// Bytes holds the rendered sections followed by any end code.
	Bytes []byte

	// GeneratedSize is the length of the generated part of Bytes.
	GeneratedSize int
}

// Result describes a written program.
type Result struct {
	JobID       string             `json:"job_id"`
	Name        string             `json:"name"`
	Output      string             `json:"output"`
	LoopCount   int                `json:"loop_count"`
	Motion      string             `json:"motion"`
	Lines       int                `json:"lines"`
	Bytes       int                `json:"bytes"`
	ParamsHash  string             `json:"params_hash"`
	ProgramHash string             `json:"program_hash"`
	Violations  profile.Violations `json:"violations,omitempty"`
}

// Render resolves and assembles p and appends its end code, entirely in
// memory. Nothing is written when Render fails.
func (g *Generator) Render(p *profile.Profile) (*Program, error) {
	req, err := p.Request()
	if err != nil {
		return nil, err
	}

	params, err := stir.Resolve(req)
	if err != nil {
		return nil, err
	}

	violations, err := profile.Check(p)
	if err != nil {
		return nil, err
	}
	for _, v := range violations {
		slog.Warn("geometry violation", "profile", p.Name, "path", v.Path, "message", v.Message)
	}
	if g.strict {
		if err := violations.Err(); err != nil {
			return nil, err
		}
	}
	slog.Info("parameters resolved",
		"profile", p.Name,
		"loops", params.LoopCount,
		"motion", params.Motion,
		"compatibility", params.Compatibility,
	)

	sections := assemble.Assemble(params)

	var buf bytes.Buffer
	if err := gcode.Write(&buf, sections); err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Name, err)
	}
	generated := buf.Len()

	if p.EndCode != "" {
		if err := appendEndCode(&buf, p.EndCode); err != nil {
			return nil, err
		}
	}

	return &Program{
		Name:          p.Name,
		Params:        params,
		Sections:      sections,
		Violations:    violations,
		Bytes:         buf.Bytes(),
		GeneratedSize: generated,
	}, nil
}

// Generate renders p, writes it to p.Output and records the job.
func (g *Generator) Generate(ctx context.Context, p *profile.Profile) (*Result, error) {
	if p.Output == "" {
		return nil, &stir.Error{Code: stir.CodeIOFailure, Field: "output", Message: "no destination file"}
	}

	prog, err := g.Render(p)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(p.Output, prog.Bytes); err != nil {
		return nil, err
	}
	slog.Debug("program written", "profile", p.Name, "output", p.Output, "bytes", len(prog.Bytes))

	return g.record(ctx, prog, p.Output)
}

// Summary describes prog as written to output.
func (prog *Program) Summary(output string) (*Result, error) {
	paramsHash, err := canon.ParamsDigest(prog.Params)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name:        prog.Name,
		Output:      output,
		LoopCount:   prog.Params.LoopCount,
		Motion:      string(prog.Params.Motion),
		Lines:       gcode.CountLines(prog.Sections),
		Bytes:       len(prog.Bytes),
		ParamsHash:  paramsHash,
		ProgramHash: canon.ProgramDigest(prog.Bytes),
		Violations:  prog.Violations,
	}, nil
}

func (g *Generator) record(ctx context.Context, prog *Program, output string) (*Result, error) {
	res, err := prog.Summary(output)
	if err != nil {
		return nil, err
	}

	if g.recorder == nil {
		return res, nil
	}

	paramsJSON, err := canon.ParamsJSON(prog.Params)
	if err != nil {
		return nil, err
	}

	res.JobID = g.ids.Generate()
	seq, err := g.recorder.WriteJob(ctx, store.Job{
		ID:            res.JobID,
		Name:          res.Name,
		ParamsHash:    res.ParamsHash,
		Params:        string(paramsJSON),
		LoopCount:     res.LoopCount,
		Motion:        res.Motion,
		Compatibility: prog.Params.Compatibility,
		Output:        output,
		ProgramHash:   res.ProgramHash,
		SizeBytes:     int64(res.Bytes),
		CreatedAt:     g.clock.Now(),
	})
	if err != nil {
		// The program is already on disk; history is best effort.
		slog.Error("recording job failed", "profile", prog.Name, "error", err)
		return res, fmt.Errorf("record job %s: %w", res.JobID, err)
	}
	slog.Debug("job recorded", "id", res.JobID, "seq", seq)
	return res, nil
}

func appendEndCode(buf *bytes.Buffer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return stir.IOFailure("open end code "+path, err)
	}
	defer f.Close()

	if _, err := gcode.AppendTrailing(buf, f); err != nil {
		return stir.IOFailure("read end code "+path, err)
	}
	return nil
}
