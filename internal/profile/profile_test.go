package profile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stirgen/internal/stir"
)

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "resin-wash.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "resin-wash", p.Name)
	assert.Equal(t, stir.WorkingVolume{Length: 200, Width: 200, Height: 200}, p.Volume)
	assert.Equal(t, Stir{Diameter: 30, Speed: 10, Time: 5, Height: 20}, p.Stir)
	assert.Equal(t, 50.0, p.ZFinal)
	assert.True(t, p.ReturnToCenter)
	require.NotNil(t, p.Cure)
	assert.Equal(t, stir.Cure{Minutes: 3, Output: "1"}, *p.Cure)
	assert.Equal(t, filepath.Join("testdata", "end.gcode"), p.EndCode)
	assert.Equal(t, filepath.Join("testdata", "out", "resin-wash.gcode"), p.Output)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "typo.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zfinal")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read profile")
}

func TestLoad_DefaultsNameToFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quick-mix.yaml")
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &Profile{
		Volume: stir.WorkingVolume{Length: 100, Width: 100, Height: 100},
		Stir:   Stir{Diameter: 10, Speed: 5, Time: 1, Height: 10},
		ZFinal: 40,
	}))
	writeFile(t, path, buf.String())

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quick-mix", p.Name)
}

func TestDecode_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing volume", "stir: { diameter: 30, speed: 10, time: 5, height: 20 }\n", "volume is required"},
		{"missing stir", "volume: { length: 200, width: 200, height: 200 }\n", "stir is required"},
		{"cure without output", "volume: { length: 200, width: 200, height: 200 }\nstir: { diameter: 30, speed: 10, time: 5, height: 20 }\ncure: { minutes: 3 }\n", "cure.output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEncodeDecode_PreservesProfile(t *testing.T) {
	in := &Profile{
		Name:            "arc",
		Volume:          stir.WorkingVolume{Length: 220, Width: 220, Height: 250},
		Stir:            Stir{Diameter: 40, Speed: 12.5, Time: 2, Height: 15},
		ZFinal:          80,
		TravelSpeed:     50,
		Motion:          "arc",
		HomeBeforeStart: true,
		Cure:            &stir.Cure{Minutes: 1, Output: "uv"},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestProfile_Request(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "resin-wash.yaml"))
	require.NoError(t, err)

	req, err := p.Request()
	require.NoError(t, err)
	assert.Equal(t, stir.MotionFourSegment, req.Motion)
	assert.Equal(t, 30.0, req.StirDiameter)
	assert.True(t, req.ReturnToCenter)

	req.Cure.Minutes = 10
	assert.Equal(t, 3, p.Cure.Minutes, "request must not alias the profile")

	params, err := stir.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, 35, params.LoopCount)
}

func TestProfile_RequestUnknownMotion(t *testing.T) {
	p := &Profile{Motion: "zigzag"}
	_, err := p.Request()
	assert.True(t, stir.IsInvalidParameter(err))
}

func TestCheck_ValidProfile(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "resin-wash.yaml"))
	require.NoError(t, err)

	vs, err := Check(p)
	require.NoError(t, err)
	assert.Empty(t, vs)
	assert.NoError(t, vs.Err())
}

func TestCheck_GeometryViolations(t *testing.T) {
	base := func() *Profile {
		return &Profile{
			Volume: stir.WorkingVolume{Length: 200, Width: 120, Height: 150},
			Stir:   Stir{Diameter: 30, Speed: 10, Time: 5, Height: 20},
			ZFinal: 50,
		}
	}

	tests := []struct {
		name string
		edit func(*Profile)
		path string
	}{
		{"circle wider than width", func(p *Profile) { p.Stir.Diameter = 120 }, "stir_diameter"},
		{"circle wider than length", func(p *Profile) { p.Volume.Width = 400; p.Stir.Diameter = 250 }, "stir_diameter"},
		{"stir height above top", func(p *Profile) { p.Stir.Height = 151 }, "stir_height"},
		{"retract above top", func(p *Profile) { p.ZFinal = 200 }, "z_final"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.edit(p)

			vs, err := Check(p)
			require.NoError(t, err)
			require.Len(t, vs, 1, "%v", vs)
			assert.Equal(t, tt.path, vs[0].Path)
			assert.NotEmpty(t, vs[0].Message)

			gerr := vs.Err()
			require.Error(t, gerr)
			assert.Equal(t, stir.CodeGeometryViolation, stir.CodeOf(gerr))
			assert.Contains(t, gerr.Error(), tt.path)
		})
	}
}

func TestCheck_ReportsAllViolations(t *testing.T) {
	p := &Profile{
		Volume: stir.WorkingVolume{Length: 100, Width: 100, Height: 100},
		Stir:   Stir{Diameter: 150, Speed: 10, Time: 5, Height: 120},
		ZFinal: 130,
	}
	vs, err := Check(p)
	require.NoError(t, err)

	paths := make([]string, len(vs))
	for i, v := range vs {
		paths[i] = v.Path
	}
	assert.ElementsMatch(t, []string{"stir_diameter", "stir_height", "z_final"}, paths)
}
