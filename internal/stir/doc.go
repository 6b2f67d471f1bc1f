// Package stir resolves raw stirring parameters into the normalized values
// used to emit motion.
//
// Resolve is the only entry point. It takes a Request (the configuration
// struct built once by a caller) and returns an immutable Params value:
//
//	params, err := stir.Resolve(stir.Request{
//	    Volume:       stir.WorkingVolume{Length: 200, Width: 200, Height: 200},
//	    ZFinal:       50,
//	    StirDiameter: 30,
//	    StirSpeed:    10, // mm/s
//	    StirTime:     5,  // minutes
//	    StirHeight:   20,
//	    Motion:       stir.MotionArc,
//	})
//	// params.LoopCount == 32
//
// # Rounding
//
// Linear dimensions and feed rates are rounded to two decimals, ZFinal and
// LoopCount to integers. Every rounding is half-to-even on exact ties, so
// values match what the command format has always carried.
//
// # Errors
//
// Resolve returns *Error with CodeInvalidParameter for inputs that would make
// the loop count undefined or negative. Geometric feasibility (stir circle
// inside the working volume, heights below the gantry ceiling) is the
// caller's precondition and is not checked here.
package stir
