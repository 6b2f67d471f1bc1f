package stir

import (
	"math"
	"strconv"
)

// Resolve derives Params from a Request.
//
// It fails with CodeInvalidParameter before computing anything when an input
// would make the per-loop time undefined or the loop count negative.
func Resolve(req Request) (Params, error) {
	if err := validate(req); err != nil {
		return Params{}, err
	}

	motion, err := ParseMotion(string(req.Motion))
	if err != nil {
		return Params{}, err
	}

	loops, err := LoopCount(req.StirDiameter, req.StirSpeed, req.StirTime, motion)
	if err != nil {
		return Params{}, err
	}

	travel := DefaultTravelFeed
	if req.TravelSpeed > 0 {
		travel = round2(req.TravelSpeed * 60)
	}

	p := Params{
		Center: Point{
			X: round2(req.Volume.Length / 2),
			Y: round2(req.Volume.Width / 2),
			Z: round2(req.Volume.Height / 2),
		},
		StirRadius:      round2(req.StirDiameter / 2),
		StirHeight:      round2(req.StirHeight),
		ZFinal:          int(math.RoundToEven(req.ZFinal)),
		StirFeed:        round2(req.StirSpeed * 60),
		TravelFeed:      travel,
		StirTime:        req.StirTime,
		LoopCount:       loops,
		Motion:          motion,
		HomeBeforeStart: req.HomeBeforeStart,
		Compatibility:   req.Compatibility,
		ReturnToCenter:  req.ReturnToCenter,
	}
	if req.Cure != nil {
		c := *req.Cure
		p.Cure = &c
	}
	return p, nil
}

// LoopCount returns the number of full revolutions that fit in minutes of
// stirring along a circle of the given diameter at speed mm/s.
//
// The four-segment primitive gets a 10% larger time budget. The result is
// rounded half-to-even and may be zero.
func LoopCount(diameter, speed, minutes float64, motion MotionPrimitive) (int, error) {
	if !(diameter > 0) || math.IsInf(diameter, 0) {
		return 0, invalid("stir_diameter", "must be positive, got %v", diameter)
	}
	if !(speed > 0) || math.IsInf(speed, 0) {
		return 0, invalid("stir_speed", "must be positive, got %v", speed)
	}
	if !(minutes >= 0) || math.IsInf(minutes, 0) {
		return 0, invalid("stir_time", "must be zero or positive, got %v", minutes)
	}

	circumference := math.Pi * diameter
	perLoopSeconds := circumference / speed
	totalSeconds := minutes * 60 * motion.Inflation()

	return int(math.RoundToEven(totalSeconds / perLoopSeconds)), nil
}

func validate(req Request) error {
	dims := []struct {
		field string
		v     float64
	}{
		{"volume.length", req.Volume.Length},
		{"volume.width", req.Volume.Width},
		{"volume.height", req.Volume.Height},
	}
	for _, d := range dims {
		if !(d.v > 0) || math.IsInf(d.v, 0) {
			return invalid(d.field, "must be positive, got %v", d.v)
		}
	}

	for _, f := range []struct {
		field string
		v     float64
	}{
		{"z_final", req.ZFinal},
		{"stir_height", req.StirHeight},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.field, "must be finite")
		}
	}

	if req.TravelSpeed < 0 || math.IsNaN(req.TravelSpeed) || math.IsInf(req.TravelSpeed, 0) {
		return invalid("travel_speed", "must be zero (default) or positive, got %v", req.TravelSpeed)
	}

	if req.Cure != nil {
		if req.Cure.Minutes < 0 {
			return invalid("cure.minutes", "must be zero or positive, got %d", req.Cure.Minutes)
		}
		if req.Cure.Output == "" {
			return invalid("cure.output", "required when a cure stage is configured")
		}
	}
	return nil
}

// round2 rounds v to two decimals. strconv rounds the exact binary value and
// breaks exact ties to even.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
