package assemble

import (
	"github.com/roach88/stirgen/internal/gcode"
	"github.com/roach88/stirgen/internal/stir"
)

// Revolution returns the moves for one trip around the stir circle, starting
// and ending at p.Start().
func Revolution(p stir.Params) []gcode.Line {
	if p.Motion == stir.MotionArc {
		return []gcode.Line{arc(p)}
	}
	return fourSegment(p)
}

// arc is a clockwise G2 back to the start point. The center offset I points
// from the west start point to the circle center.
func arc(p stir.Params) gcode.Line {
	start := p.Start()
	return gcode.Cmd("G2",
		gcode.F("X", start.X),
		gcode.F("Y", start.Y),
		gcode.F("I", p.StirRadius),
		gcode.I("J", 0),
		gcode.F("F", p.StirFeed),
	)
}

// fourSegment visits north, east, south and west; west is the start point.
func fourSegment(p stir.Params) []gcode.Line {
	c, r := p.Center, p.StirRadius
	points := [4][2]float64{
		{c.X, c.Y + r},
		{c.X + r, c.Y},
		{c.X, c.Y - r},
		{c.X - r, c.Y},
	}
	lines := make([]gcode.Line, 0, len(points))
	for _, pt := range points {
		lines = append(lines, gcode.Cmd("G1", gcode.F("X", pt[0]), gcode.F("Y", pt[1]), gcode.F("F", p.StirFeed)))
	}
	return lines
}
