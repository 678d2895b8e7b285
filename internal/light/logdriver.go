package light

import "log/slog"

// LogDriver logs lamp transitions instead of rendering them.
//
// Useful for headless deployments where the visual states are consumed
// from structured logs rather than a terminal or a physical lamp.
type LogDriver struct {
	name   string
	logger *slog.Logger
}

// NewLogDriver creates a [LogDriver] for the named lamp.
func NewLogDriver(name string, logger *slog.Logger) *LogDriver {
	return &LogDriver{
		name:   name,
		logger: logger,
	}
}

// Apply logs the transition.
func (d *LogDriver) Apply(c Color, p Pattern) error {
	d.logger.Info("signal",
		"lamp", d.name,
		"color", c.Hex(),
		"pattern", string(p),
	)
	return nil
}

// Off logs the lamp going dark.
func (d *LogDriver) Off() error {
	d.logger.Info("signal off", "lamp", d.name)
	return nil
}
