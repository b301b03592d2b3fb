package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Optional hardware-in-the-loop sink notified whenever a
 *		receiver retunes, standing in for a real radio's front end.
 *
 * Description:	Every backend here is a pure side-effect observer: none
 *		of them feed anything back into the deterministic tick
 *		loop, so wiring one in never changes simulation results,
 *		only what happens alongside them.
 *
 *------------------------------------------------------------------*/

// RigController is notified whenever a Receiver sets its ActiveIndex:
// when DWELL resumes on a new poll channel after a SWITCH has
// completed, and when a schedule detour begins (before, not after, its
// SWITCH_TO_SCHEDULE ticks). The default is NoopRig, used
// whenever no hardware-in-the-loop backend is configured.
type RigController interface {
	// Retuned is called with the receiver index and the channel index
	// it just switched to.
	Retuned(receiverIndex, channelIndex int)
}

// NoopRig discards every notification. It is the zero-cost default so
// pure simulation runs never pay for hardware plumbing.
type NoopRig struct{}

// Retuned implements RigController.
func (NoopRig) Retuned(int, int) {}

// ChannelToFrequencyHz maps a channel index to a synthetic VFO
// frequency for hardware-in-the-loop demos: a 25 kHz-spaced narrowband
// plan starting at 144.000 MHz, the US 2 meter amateur band's
// conventional FM channel spacing.
func ChannelToFrequencyHz(channelIndex int) float64 {
	const baseHz = 144_000_000.0
	const spacingHz = 25_000.0
	return baseHz + float64(channelIndex)*spacingHz
}
