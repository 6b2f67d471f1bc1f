// Package profile loads stirring profiles and checks their geometry.
//
// A profile is a YAML file holding every input of one generation:
//
//	name: resin-wash
//	volume: { length: 200, width: 200, height: 200 }
//	stir:
//	  diameter: 30   # mm
//	  speed: 10      # mm/s
//	  time: 5        # minutes
//	  height: 20     # mm
//	z_final: 50
//	motion: four-segment   # or arc
//	home: true
//	compatibility: false   # true unrolls the loop for firmware without M808
//	return_to_center: true
//	cure:
//	  minutes: 3
//	  output: "1"
//	end_code: end.gcode
//	output: resin-wash.gcode
//
// Unknown keys are rejected. Relative end_code and output paths resolve
// against the profile file's directory.
package profile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/stirgen/internal/stir"
)

// Profile is one generation's configuration.
type Profile struct {
	// Name labels the job in logs and history. Defaults to the file name.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	Volume stir.WorkingVolume `yaml:"volume" json:"volume"`
	Stir   Stir               `yaml:"stir" json:"stir"`

	// ZFinal is the retract height after stirring, mm.
	ZFinal float64 `yaml:"z_final" json:"z_final"`

	// TravelSpeed is the positioning speed in mm/s. Zero selects the default
	// 2400 mm/min feed.
	TravelSpeed float64 `yaml:"travel_speed,omitempty" json:"travel_speed,omitempty"`

	Motion          string `yaml:"motion,omitempty" json:"motion,omitempty"`
	HomeBeforeStart bool   `yaml:"home,omitempty" json:"home,omitempty"`
	Compatibility   bool   `yaml:"compatibility,omitempty" json:"compatibility,omitempty"`
	ReturnToCenter  bool   `yaml:"return_to_center,omitempty" json:"return_to_center,omitempty"`

	Cure *stir.Cure `yaml:"cure,omitempty" json:"cure,omitempty"`

	// EndCode is a file appended verbatim after the generated program.
	EndCode string `yaml:"end_code,omitempty" json:"end_code,omitempty"`

	// Output is the destination file.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// Stir holds the stirring motion inputs.
type Stir struct {
	Diameter float64 `yaml:"diameter" json:"diameter"` // mm
	Speed    float64 `yaml:"speed" json:"speed"`       // mm/s
	Time     float64 `yaml:"time" json:"time"`         // minutes
	Height   float64 `yaml:"height" json:"height"`     // mm
}

// Load reads and parses a profile file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields, or is missing required fields.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	base := filepath.Dir(path)
	p.EndCode = resolvePath(base, p.EndCode)
	p.Output = resolvePath(base, p.Output)

	return p, nil
}

// Decode parses a profile from r and validates required fields.
func Decode(r io.Reader) (*Profile, error) {
	var p Profile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateProfile(&p); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	return &p, nil
}

// Encode writes p as YAML.
func Encode(w io.Writer, p *Profile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return enc.Close()
}

// Request converts the profile into the resolver's input.
func (p *Profile) Request() (stir.Request, error) {
	motion, err := stir.ParseMotion(p.Motion)
	if err != nil {
		return stir.Request{}, err
	}

	req := stir.Request{
		Volume:          p.Volume,
		ZFinal:          p.ZFinal,
		StirDiameter:    p.Stir.Diameter,
		StirSpeed:       p.Stir.Speed,
		StirTime:        p.Stir.Time,
		StirHeight:      p.Stir.Height,
		TravelSpeed:     p.TravelSpeed,
		Motion:          motion,
		HomeBeforeStart: p.HomeBeforeStart,
		Compatibility:   p.Compatibility,
		ReturnToCenter:  p.ReturnToCenter,
	}
	if p.Cure != nil {
		c := *p.Cure
		req.Cure = &c
	}
	return req, nil
}

// validateProfile checks that required fields are present. Range checks
// belong to stir.Resolve and Check.
func validateProfile(p *Profile) error {
	if p.Volume == (stir.WorkingVolume{}) {
		return fmt.Errorf("volume is required")
	}
	if p.Stir == (Stir{}) {
		return fmt.Errorf("stir is required")
	}
	if p.Cure != nil && p.Cure.Output == "" {
		return fmt.Errorf("cure.output is required when cure is set")
	}
	return nil
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}
