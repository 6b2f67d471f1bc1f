package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stirgen/internal/profile"
	"github.com/roach88/stirgen/internal/stir"
)

// profileFlags are the parameter flags shared by generate and batch. A flag
// overrides the profile value only when it was set on the command line.
type profileFlags struct {
	Name        string
	Length      float64
	Width       float64
	Height      float64
	Diameter    float64
	Speed       float64
	Time        float64
	StirHeight  float64
	ZFinal      float64
	TravelSpeed float64
	Motion      string
	Home        bool
	Compat      bool
	Center      bool
	CureMinutes int
	CureOutput  string
	EndCode     string
	Output      string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.Name, "name", "", "job name recorded in history")
	fl.Float64Var(&f.Length, "length", 0, "working volume X length (mm)")
	fl.Float64Var(&f.Width, "width", 0, "working volume Y width (mm)")
	fl.Float64Var(&f.Height, "height", 0, "working volume Z height (mm)")
	fl.Float64Var(&f.Diameter, "diameter", 0, "stir circle diameter (mm)")
	fl.Float64Var(&f.Speed, "speed", 0, "stir speed (mm/s)")
	fl.Float64Var(&f.Time, "time", 0, "stir duration (min)")
	fl.Float64Var(&f.StirHeight, "stir-height", 0, "Z height while stirring (mm)")
	fl.Float64Var(&f.ZFinal, "z-final", 0, "Z height after stirring (mm)")
	fl.Float64Var(&f.TravelSpeed, "travel-speed", 0, "travel speed (mm/s, 0 for 40)")
	fl.StringVar(&f.Motion, "motion", "", "stir primitive (four-segment|arc)")
	fl.BoolVar(&f.Home, "home", false, "home all axes before positioning")
	fl.BoolVar(&f.Compat, "compat", false, "unroll the loop instead of using M808 repeat markers")
	fl.BoolVar(&f.Center, "return-center", false, "return to the volume center before raising")
	fl.IntVar(&f.CureMinutes, "cure-minutes", 0, "UV cure duration (min)")
	fl.StringVar(&f.CureOutput, "cure-output", "", "enclosure output id switching the UV lights")
	fl.StringVar(&f.EndCode, "end-code", "", "file appended verbatim after the program")
	fl.StringVarP(&f.Output, "output", "o", "", "destination file (stdout when empty)")
}

// build returns the profile from path, or an empty one when path is "",
// with every changed flag applied on top.
func (f *profileFlags) build(cmd *cobra.Command, path string) (*profile.Profile, error) {
	p := &profile.Profile{}
	if path != "" {
		loaded, err := loadProfile(path)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	changed := cmd.Flags().Changed
	set := func(name string, dst *float64, v float64) {
		if changed(name) {
			*dst = v
		}
	}
	set("length", &p.Volume.Length, f.Length)
	set("width", &p.Volume.Width, f.Width)
	set("height", &p.Volume.Height, f.Height)
	set("diameter", &p.Stir.Diameter, f.Diameter)
	set("speed", &p.Stir.Speed, f.Speed)
	set("time", &p.Stir.Time, f.Time)
	set("stir-height", &p.Stir.Height, f.StirHeight)
	set("z-final", &p.ZFinal, f.ZFinal)
	set("travel-speed", &p.TravelSpeed, f.TravelSpeed)

	if changed("name") {
		p.Name = f.Name
	}
	if changed("motion") {
		p.Motion = f.Motion
	}
	if changed("home") {
		p.HomeBeforeStart = f.Home
	}
	if changed("compat") {
		p.Compatibility = f.Compat
	}
	if changed("return-center") {
		p.ReturnToCenter = f.Center
	}
	if changed("end-code") {
		p.EndCode = f.EndCode
	}
	if changed("output") {
		p.Output = f.Output
	}

	if changed("cure-minutes") || changed("cure-output") {
		cure := stir.Cure{}
		if p.Cure != nil {
			cure = *p.Cure
		}
		if changed("cure-minutes") {
			cure.Minutes = f.CureMinutes
		}
		if changed("cure-output") {
			cure.Output = f.CureOutput
		}
		p.Cure = &cure
	}

	if p.Name == "" {
		p.Name = "stir"
	}
	if p.Volume == (stir.WorkingVolume{}) || p.Stir == (profile.Stir{}) {
		return nil, &profileError{fmt.Errorf("no profile given: pass a profile file or --length/--width/--height and --diameter/--speed/--time/--stir-height")}
	}
	return p, nil
}

// loadProfile loads path, keeping a missing file distinct from a malformed one.
func loadProfile(path string) (*profile.Profile, error) {
	p, err := profile.Load(path)
	if err != nil {
		if isNotExist(err) {
			return nil, err
		}
		return nil, &profileError{err}
	}
	return p, nil
}
