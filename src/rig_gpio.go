package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	RigController backend that toggles a GPIO line once per
 *		physical retune, standing in for an antenna relay or
 *		front-end switch.
 *
 * Description:	The line is pulsed high for one retune rather than held
 *		for a transmission's duration, since a receiver simulator
 *		has no transmit state of its own.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOAntennaRelay pulses a single GPIO output line whenever Retuned
// fires, using github.com/warthog618/go-gpiocdev for the kernel gpiod
// character-device interface.
type GPIOAntennaRelay struct {
	line *gpiocdev.Line
}

// NewGPIOAntennaRelay requests offset on chipName (e.g. "gpiochip0")
// as an output line, initially low.
func NewGPIOAntennaRelay(chipName string, offset int) (*GPIOAntennaRelay, error) {
	line, err := gpiocdev.RequestLine(chipName, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("requesting GPIO line %s:%d: %w", chipName, offset, err)
	}
	return &GPIOAntennaRelay{line: line}, nil
}

// Retuned implements RigController by pulsing the relay line: high for
// the duration of the retune notification, then back low. Errors are
// swallowed rather than propagated, matching RigController's
// fire-and-forget contract: a hardware fault here must never affect
// the deterministic tick loop.
func (g *GPIOAntennaRelay) Retuned(receiverIndex, channelIndex int) {
	_ = g.line.SetValue(1)
	_ = g.line.SetValue(0)
}

// Close releases the underlying GPIO line request.
func (g *GPIOAntennaRelay) Close() error {
	return g.line.Close()
}
