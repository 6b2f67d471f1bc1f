// Package gcode models the line-oriented command format emitted by the
// generator and writes it to a destination.
//
// A program is an ordered list of Sections. Each Section renders as a single
// ";" comment line naming it, its command lines, and one blank line:
//
//	;Position stirrer
//	G0 X85.0 Y100.0 F2400.0
//	G0 Z20.0 F2400.0
//
// Commands are built from Words: a letter immediately followed by its value,
// separated by spaces. Float values render as the shortest decimal that
// round-trips, always with a fractional part ("85.0"); integer values render
// without a decimal point ("L32"). Values are rendered as given and never
// re-rounded.
package gcode
