package imop

import (
	"fmt"

	"github.com/canvix/canvix/utils"
)

// Supported separable blend modes.
const (
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

// Blend holds the currently active blend mode.
type Blend struct {
	mode string
}

// NewBlend initializes a new Blend without an active mode.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activates one of the supported blend modes.
func (b *Blend) Set(mode string) error {
	modes := []string{Darken, Lighten, Multiply, Screen, Overlay}
	if !utils.Contains(modes, mode) {
		return fmt.Errorf("imop: unsupported blend mode: %q", mode)
	}
	b.mode = mode

	return nil
}

// Get returns the currently active blend mode.
func (b *Blend) Get() string {
	return b.mode
}

// apply blends a single normalized source channel with its backdrop channel.
func (b *Blend) apply(s, d float64) float64 {
	switch b.mode {
	case Darken:
		return utils.Min(s, d)
	case Lighten:
		return utils.Max(s, d)
	case Multiply:
		return s * d
	case Screen:
		return 1 - (1-s)*(1-d)
	case Overlay:
		if d <= 0.5 {
			return 2 * s * d
		}
		return 1 - 2*(1-s)*(1-d)
	}
	return s
}
