package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Immutable value carrying sender identity and optional
 *		position, the smallest unit the simulator moves around.
 *
 *------------------------------------------------------------------*/

// Packet is one emission from a Sender, queued on a Channel until a
// Receiver pops it or the loss sweep drops it. Packets never mutate
// after construction.
type Packet struct {
	SenderID string
	X, Y     float64
}

// NewPacket constructs a Packet for the given sender at the given
// simulated position. X and Y are optional; zero values mean "no
// position assigned."
func NewPacket(senderID string, x, y float64) Packet {
	return Packet{SenderID: senderID, X: x, Y: y}
}
