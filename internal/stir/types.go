package stir

import (
	"fmt"
	"strings"
)

// DefaultTravelFeed is the feed rate (mm/min) for positioning and retract
// moves when the request leaves TravelSpeed unset.
const DefaultTravelFeed = 2400.0

// fourSegmentInflation stretches the time budget for the square path, which
// is longer than the circle it approximates.
const fourSegmentInflation = 1.1

// WorkingVolume is the reachable envelope of the stage in millimeters.
type WorkingVolume struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Point is a coordinate in millimeters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MotionPrimitive selects the move traced once per revolution.
type MotionPrimitive string

const (
	// MotionFourSegment traces the stir circle's cardinal points with four
	// straight moves (north, east, south, west).
	MotionFourSegment MotionPrimitive = "four-segment"

	// MotionArc traces the stir circle with one clockwise arc.
	MotionArc MotionPrimitive = "arc"
)

// DefaultMotion is used when a request leaves Motion empty.
const DefaultMotion = MotionFourSegment

// ParseMotion parses a motion primitive name. The empty string yields
// DefaultMotion.
func ParseMotion(s string) (MotionPrimitive, error) {
	switch MotionPrimitive(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMotion, nil
	case MotionFourSegment, "four_segment", "square":
		return MotionFourSegment, nil
	case MotionArc, "circle":
		return MotionArc, nil
	default:
		return "", invalid("motion", "unknown motion primitive %q (want %q or %q)", s, MotionFourSegment, MotionArc)
	}
}

// Inflation returns the time-budget multiplier for the primitive.
func (m MotionPrimitive) Inflation() float64 {
	if m == MotionFourSegment {
		return fourSegmentInflation
	}
	return 1.0
}

// Cure is the optional UV cure stage run after stirring.
type Cure struct {
	// Minutes to dwell with the auxiliary output asserted.
	Minutes int `json:"minutes" yaml:"minutes"`

	// Output identifies the auxiliary output channel driving the UV lights.
	Output string `json:"output" yaml:"output"`
}

// Request holds the raw physical inputs for one generation.
type Request struct {
	Volume       WorkingVolume
	ZFinal       float64 // retract height after stirring, mm
	StirDiameter float64 // mm
	StirSpeed    float64 // mm/s
	StirTime     float64 // minutes
	StirHeight   float64 // mm
	TravelSpeed  float64 // mm/s; zero selects DefaultTravelFeed

	Motion          MotionPrimitive
	HomeBeforeStart bool
	Compatibility   bool // unrolled loop instead of hardware repeat
	ReturnToCenter  bool

	Cure *Cure
}

// Params are the resolved values the assembler reads. A Params value is
// never modified after Resolve returns it.
type Params struct {
	Center     Point   `json:"center"`
	StirRadius float64 `json:"stir_radius"`
	StirHeight float64 `json:"stir_height"`
	ZFinal     int     `json:"z_final"`
	StirFeed   float64 `json:"stir_feed"`
	TravelFeed float64 `json:"travel_feed"`
	StirTime   float64 `json:"stir_time"`
	LoopCount  int     `json:"loop_count"`

	Motion          MotionPrimitive `json:"motion"`
	HomeBeforeStart bool            `json:"home_before_start"`
	Compatibility   bool            `json:"compatibility"`
	ReturnToCenter  bool            `json:"return_to_center"`

	Cure *Cure `json:"cure,omitempty"`
}

// Start returns the point on the stir circle where each revolution begins
// and ends (the west point).
func (p Params) Start() Point {
	return Point{X: p.Center.X - p.StirRadius, Y: p.Center.Y, Z: p.StirHeight}
}

func (p Params) String() string {
	return fmt.Sprintf("center=(%v,%v,%v) r=%v loops=%d motion=%s",
		p.Center.X, p.Center.Y, p.Center.Z, p.StirRadius, p.LoopCount, p.Motion)
}
