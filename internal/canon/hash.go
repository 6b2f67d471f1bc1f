package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/stirgen/internal/gcode"
	"github.com/roach88/stirgen/internal/stir"
)

// Domain prefixes. The version suffix allows the encoding to change.
const (
	DomainParams  = "stirgen/params/v1"
	DomainProgram = "stirgen/program/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ParamsObject returns the canonical form of p. Decimals are rendered with
// the same formatting the program uses.
func ParamsObject(p stir.Params) map[string]any {
	obj := map[string]any{
		"center": map[string]any{
			"x": gcode.FormatNumber(p.Center.X),
			"y": gcode.FormatNumber(p.Center.Y),
			"z": gcode.FormatNumber(p.Center.Z),
		},
		"stir_radius":       gcode.FormatNumber(p.StirRadius),
		"stir_height":       gcode.FormatNumber(p.StirHeight),
		"z_final":           p.ZFinal,
		"stir_feed":         gcode.FormatNumber(p.StirFeed),
		"travel_feed":       gcode.FormatNumber(p.TravelFeed),
		"stir_time":         gcode.FormatNumber(p.StirTime),
		"loop_count":        p.LoopCount,
		"motion":            string(p.Motion),
		"home_before_start": p.HomeBeforeStart,
		"compatibility":     p.Compatibility,
		"return_to_center":  p.ReturnToCenter,
	}
	if p.Cure != nil {
		obj["cure"] = map[string]any{
			"minutes": p.Cure.Minutes,
			"output":  p.Cure.Output,
		}
	}
	return obj
}

// ParamsJSON returns the canonical JSON of p.
func ParamsJSON(p stir.Params) ([]byte, error) {
	data, err := MarshalCanonical(ParamsObject(p))
	if err != nil {
		return nil, fmt.Errorf("ParamsJSON: %w", err)
	}
	return data, nil
}

// ParamsDigest identifies a resolved parameter set. Equal digests produce
// byte-identical programs.
func ParamsDigest(p stir.Params) (string, error) {
	data, err := ParamsJSON(p)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainParams, data), nil
}

// ProgramDigest identifies the bytes written to a destination, trailing
// content included.
func ProgramDigest(program []byte) string {
	return hashWithDomain(DomainProgram, program)
}
