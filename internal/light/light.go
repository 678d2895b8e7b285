// Package light implements signal emitters: the translation from visual
// states to lamp colors and patterns, plus the drivers that render them.
//
// The [Driver] interface is the lowest-level abstraction, equivalent to a
// GPIO-driven RGB LED: apply a color with a pattern, or go dark.
// [StateEmitter] adapts a driver into the public SignalEmitter contract,
// owning the state-to-signal mapping and the power-on sweep. Two drivers
// ship with the package: [TerminalDriver] renders lamps as styled glyphs
// on a terminal, [LogDriver] logs transitions for headless use.
//
// This package is internal and not part of the public API.
package light

import "fmt"

// Color is an RGB triple for the signal lamp.
type Color struct {
	R, G, B uint8
}

// The lamp palette. Every visual state maps onto one of these.
var (
	Red    = Color{R: 255}
	Green  = Color{G: 255}
	Blue   = Color{B: 255}
	Teal   = Color{G: 255, B: 255}
	Yellow = Color{R: 255, G: 255}
	Purple = Color{R: 255, B: 255}
	White  = Color{R: 255, G: 255, B: 255}
)

// Hex returns the color as a #rrggbb string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Pattern is how a lamp displays its color.
type Pattern string

const (
	// PatternOff means the lamp is dark.
	PatternOff Pattern = "off"

	// PatternSolid means a steady light.
	PatternSolid Pattern = "solid"

	// PatternBlink means a hard on/off cycle, used for attention states.
	PatternBlink Pattern = "blink"

	// PatternGlow means a soft fade in and out, used for passive states.
	PatternGlow Pattern = "glow"
)

// Driver drives a physical or simulated RGB lamp.
//
// Drivers are fire-and-forget from the worker's perspective: a failed
// Apply is logged upstream and the next cycle self-corrects.
type Driver interface {
	// Apply displays the color with the given pattern until the next
	// call.
	Apply(c Color, p Pattern) error

	// Off turns the lamp dark.
	Off() error
}
