// Package engine turns profiles into written programs.
//
// A Generator runs one profile through the whole pipeline:
//
//  1. profile.Profile.Request builds the resolver input
//  2. stir.Resolve computes the loop count and rounded parameters
//  3. profile.Check evaluates the geometry schema (advisory unless strict)
//  4. assemble.Assemble builds the sections
//  5. gcode.Write renders them into memory, then the end code is appended
//  6. the bytes are written to a temp file beside the destination and
//     renamed over it
//  7. the job is recorded when a Recorder is configured
//
// Steps 1 to 5 never touch the destination, so a failure there leaves any
// existing file untouched. A failed recording does not undo the write.
//
// GenerateAll runs several profiles through the same Generator with
// errgroup, at most N at a time.
package engine
