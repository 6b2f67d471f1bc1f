package profile

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/stirgen/internal/stir"
)

//go:embed schema.cue
var schemaCUE string

// geometryDef is the schema definition profiles are checked against. Error
// paths start with it; violations report the field path below it.
const geometryDef = "#Geometry"

// Violation is one geometry rule a profile breaks.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Violations is the result of Check.
type Violations []Violation

// Err returns nil when there are no violations, otherwise a *stir.Error with
// CodeGeometryViolation listing all of them.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.String()
	}
	return &stir.Error{
		Code:    stir.CodeGeometryViolation,
		Message: strings.Join(msgs, "; "),
	}
}

// Check evaluates the profile against the geometry schema: the stir circle
// must fit in the working volume and both heights must stay below its top.
//
// The result is advisory. Generation succeeds for profiles with violations
// unless the caller decides otherwise.
func Check(p *Profile) (Violations, error) {
	// A cue.Context is not safe for concurrent use; batches call Check from
	// several goroutines.
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling geometry schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath(geometryDef))

	data := ctx.Encode(map[string]any{
		"volume": map[string]any{
			"length": p.Volume.Length,
			"width":  p.Volume.Width,
			"height": p.Volume.Height,
		},
		"stir_diameter": p.Stir.Diameter,
		"stir_height":   p.Stir.Height,
		"z_final":       p.ZFinal,
	})
	if err := data.Err(); err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	err := def.Unify(data).Validate(cue.Concrete(true), cue.All())
	if err == nil {
		return nil, nil
	}

	// One violation per field; a field can fail several bounds at once.
	var out Violations
	seen := map[string]bool{}
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		path := e.Path()
		if len(path) > 0 && path[0] == geometryDef {
			path = path[1:]
		}
		v := Violation{
			Path:    strings.Join(path, "."),
			Message: fmt.Sprintf(format, args...),
		}
		if seen[v.Path] {
			continue
		}
		seen[v.Path] = true
		out = append(out, v)
	}
	return out, nil
}
