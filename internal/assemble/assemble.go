// Package assemble turns resolved stirring parameters into an ordered list
// of G-code sections.
//
// Assemble is a pure function: it performs no I/O and the same Params always
// produce the same sections.
package assemble

import (
	"fmt"

	"github.com/roach88/stirgen/internal/gcode"
	"github.com/roach88/stirgen/internal/stir"
)

// Section titles.
const (
	TitlePrefix    = " *** G-code Prefix ***"
	TitleAlign     = "Align coordinates to stirrer"
	TitlePosition  = "Position stirrer"
	TitleLoopStart = "Start Loop"
	TitleLoopEnd   = "End Loop"
	TitleCleanup   = "Raise stirrer"
)

// Fixed values of the cure stage.
const (
	cureSettleSeconds = 1
	beepFrequency     = 500
	beepDuration      = 400
)

// Assemble builds the full program for p: prefix, alignment, positioning,
// stirring (hardware repeat or unrolled) and cleanup.
func Assemble(p stir.Params) []gcode.Section {
	sections := []gcode.Section{
		prefix(),
		alignment(p),
		positioning(p),
	}
	sections = append(sections, stirring(p)...)
	sections = append(sections, cleanup(p))
	return sections
}

// StirTitle is the heading of the stirring section.
func StirTitle(p stir.Params) string {
	return fmt.Sprintf("Stirring %d times (~%s mins)", p.LoopCount, gcode.FormatNumber(p.StirTime))
}

func prefix() gcode.Section {
	return gcode.NewSection(TitlePrefix,
		gcode.Comment("Set unit system ([mm] mode)"),
		gcode.Cmd("G21"),
	)
}

func alignment(p stir.Params) gcode.Section {
	var lines []gcode.Line
	if p.HomeBeforeStart {
		lines = append(lines, gcode.Cmd("G28").WithComment("Home Position"))
	}
	lines = append(lines, gcode.Cmd("G90").WithComment("Absolute Positioning"))
	return gcode.NewSection(TitleAlign, lines...)
}

func positioning(p stir.Params) gcode.Section {
	start := p.Start()
	return gcode.NewSection(TitlePosition,
		gcode.Cmd("G0", gcode.F("X", start.X), gcode.F("Y", start.Y), gcode.F("F", p.TravelFeed)),
		gcode.Cmd("G0", gcode.F("Z", p.StirHeight), gcode.F("F", p.TravelFeed)),
	)
}

// stirring emits either an M808 repeat block around one revolution or the
// revolution repeated LoopCount times. LoopCount of zero is not special.
func stirring(p stir.Params) []gcode.Section {
	rev := Revolution(p)

	if p.Compatibility {
		lines := make([]gcode.Line, 0, len(rev)*p.LoopCount)
		for range p.LoopCount {
			lines = append(lines, rev...)
		}
		return []gcode.Section{gcode.NewSection(StirTitle(p), lines...)}
	}

	return []gcode.Section{
		gcode.NewSection(TitleLoopStart, gcode.Cmd("M808", gcode.I("L", p.LoopCount))),
		gcode.NewSection(StirTitle(p), rev...),
		gcode.NewSection(TitleLoopEnd, gcode.Cmd("M808")),
	}
}

func cleanup(p stir.Params) gcode.Section {
	var lines []gcode.Line
	if p.ReturnToCenter {
		lines = append(lines, gcode.Cmd("G0", gcode.F("X", p.Center.X), gcode.F("Y", p.Center.Y), gcode.F("F", p.TravelFeed)))
	}
	lines = append(lines, gcode.Cmd("G0", gcode.I("Z", p.ZFinal), gcode.F("F", p.TravelFeed)))

	if c := p.Cure; c != nil {
		lines = append(lines,
			gcode.Cmd("G4", gcode.I("S", cureSettleSeconds)),
			gcode.Cmd("ENC", gcode.S("O", c.Output), gcode.I("S", 1)),
			gcode.Cmd("G4", gcode.I("S", c.Minutes*60)),
			gcode.Cmd("ENC", gcode.S("O", c.Output), gcode.I("S", 0)),
			gcode.Cmd("M300", gcode.I("S", beepFrequency), gcode.I("P", beepDuration)),
		)
	}
	return gcode.NewSection(TitleCleanup, lines...)
}
