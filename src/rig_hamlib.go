package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	RigController backend that issues a real CAT command to
 *		tune a radio to the frequency a channel index maps to.
 *
 * Description:	The natural generalization of a ham-radio CAT-control
 *		library into a multi-channel receiver simulator: where the
 *		teacher only ever compiles against Hamlib indirectly through
 *		its own AX.25 modem stack, this backend drives Hamlib
 *		directly through github.com/xylo04/goHamlib so that running
 *		a simulation can, optionally, retune an attached radio in
 *		lockstep with the simulated receiver.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/xylo04/goHamlib"
)

// Hamlib drives a real (or rigctld-emulated) radio via Hamlib's CAT
// control, mapping each channel index to a synthetic VFO frequency
// with ChannelToFrequencyHz.
type Hamlib struct {
	rig *goHamlib.Rig
}

// NewHamlib opens a Hamlib rig of the given model number on port
// (e.g. "/dev/ttyUSB0" or "localhost:4532" for rigctld), matching the
// construction pattern of every other Hamlib Go binding.
func NewHamlib(model int, port string) (*Hamlib, error) {
	rig := goHamlib.NewRig(model)
	rig.SetConf("rig_pathname", port)

	if err := rig.Open(); err != nil {
		return nil, fmt.Errorf("opening Hamlib rig model %d on %s: %w", model, port, err)
	}
	return &Hamlib{rig: rig}, nil
}

// Retuned implements RigController by issuing SetFreq for
// channelIndex's synthetic frequency on VFO A. receiverIndex is
// ignored: a single physical radio backs whichever receiver is
// configured to drive it.
func (h *Hamlib) Retuned(receiverIndex, channelIndex int) {
	freq := ChannelToFrequencyHz(channelIndex)
	_ = h.rig.SetFreq(goHamlib.VFOA, freq)
}

// Close shuts down the Hamlib rig connection.
func (h *Hamlib) Close() error {
	return h.rig.Close()
}
