package light

import (
	"time"

	"github.com/futurice/buildlight"
)

// defaultSweepStep is the hold time for each color of the power-on sweep.
const defaultSweepStep = 250 * time.Millisecond

// StateEmitter translates visual states into lamp signals on a [Driver].
//
// It implements the public SignalEmitter contract and owns the canonical
// state-to-signal mapping: attention states blink, passive uncertainty
// glows, and only a confirmed healthy aggregate gets a steady light.
type StateEmitter struct {
	driver Driver

	// sweepStep is overridable in tests to keep them fast.
	sweepStep time.Duration
}

// NewStateEmitter wraps a [Driver] in the state-to-signal mapping.
func NewStateEmitter(driver Driver) *StateEmitter {
	return &StateEmitter{
		driver:    driver,
		sweepStep: defaultSweepStep,
	}
}

// SetState displays the signal for the given visual state.
//
// StateStarting triggers the power-on sweep instead of a steady signal;
// every other state maps to a single color and pattern. States outside
// the known set fall back to the ambiguous signal.
func (e *StateEmitter) SetState(state buildlight.VisualState) error {
	if state == buildlight.StateStarting {
		return e.powerOn()
	}

	c, p := stateSignal(state)
	return e.driver.Apply(c, p)
}

// Off turns the lamp dark.
func (e *StateEmitter) Off() error {
	return e.driver.Off()
}

// stateSignal maps a visual state to its lamp color and pattern.
func stateSignal(state buildlight.VisualState) (Color, Pattern) {
	switch state {
	case buildlight.StateHealthy:
		return Green, PatternSolid
	case buildlight.StateDegraded:
		return Yellow, PatternGlow
	case buildlight.StateUnhealthy:
		return Red, PatternBlink
	case buildlight.StateMixed:
		return Teal, PatternGlow
	case buildlight.StateUnreachable:
		return Blue, PatternGlow
	case buildlight.StateAmbiguous:
		return Purple, PatternGlow
	case buildlight.StateShutdown:
		return White, PatternGlow
	default:
		return Purple, PatternGlow
	}
}

// powerOn runs the lamp test sweep: primaries, white flash, dark, then a
// purple glow until the first real cycle lands.
func (e *StateEmitter) powerOn() error {
	sweep := []Color{Red, Green, Blue, White}
	for _, c := range sweep {
		if err := e.driver.Apply(c, PatternSolid); err != nil {
			return err
		}
		time.Sleep(e.sweepStep)
	}
	if err := e.driver.Off(); err != nil {
		return err
	}
	time.Sleep(e.sweepStep)
	return e.driver.Apply(Purple, PatternGlow)
}
