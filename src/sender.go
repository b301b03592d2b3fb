package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Periodic packet source bound to one channel.
 *
 * Description:	A Sender emits at most one packet per tick, once the
 *		configured interval has elapsed since its last emission.
 *		Position is optional; see geo.go for how it is used to
 *		add propagation-distance loss before a packet ever
 *		reaches its channel.
 *
 *------------------------------------------------------------------*/

// Sender is a fixed, periodic source of packets on one channel.
type Sender struct {
	Enabled      bool
	PacketID     string
	IntervalMS   int
	LastEmitMS   int
	Channel      *Channel
	ChannelIndex int

	// X, Y are this sender's simulated position in decimal degrees:
	// X is longitude, Y is latitude (see WithPosition).
	// Zero value (0, 0) is a valid position (off the coast of West
	// Africa) so HasPosition tracks whether one was ever assigned.
	X, Y        float64
	HasPosition bool

	// Propagation, when set, can drop an otherwise-due emission before
	// it reaches Channel at all (see geo.go). Nil means every emission
	// always reaches its channel.
	Propagation *PropagationModel
}

// NewSender constructs an enabled Sender bound to ch.
func NewSender(packetID string, intervalMS, lastEmitMS int, ch *Channel, channelIndex int) *Sender {
	return &Sender{
		Enabled:      true,
		PacketID:     packetID,
		IntervalMS:   intervalMS,
		LastEmitMS:   lastEmitMS,
		Channel:      ch,
		ChannelIndex: channelIndex,
	}
}

// WithPosition assigns a simulated geographic position to the sender,
// x = longitude, y = latitude, both in decimal degrees.
func (s *Sender) WithPosition(x, y float64) *Sender {
	s.X, s.Y = x, y
	s.HasPosition = true
	return s
}

// Tick emits at most one packet this timestep when enabled and the
// interval has elapsed, updating LastEmitMS on emission. Returns the
// emitted packet and true, or the zero Packet and false.
func (s *Sender) Tick(now int) (Packet, bool) {
	if !s.Enabled {
		return Packet{}, false
	}
	if now-s.LastEmitMS <= s.IntervalMS {
		return Packet{}, false
	}
	s.LastEmitMS = now
	p := NewPacket(s.PacketID, s.X, s.Y)

	if s.Propagation != nil && !s.Propagation.InRange(s.HasPosition, s.Y, s.X) {
		// Transmitter still fires on schedule; the emission simply
		// never reaches a channel queue from out here.
		return Packet{}, false
	}

	s.Channel.Append(p)
	return p, true
}
