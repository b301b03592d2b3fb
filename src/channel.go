package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Bounded FIFO of pending packets with a listen flag and
 *		per-channel sent/received/lost counters, and the ordered
 *		bank of channels the whole simulation shares.
 *
 * Description:	A Channel never drops packets on its own initiative —
 *		only ChannelBank.SweepUnlistened, once per tick, decides
 *		that packets left on an unlistened channel are lost.
 *		This keeps loss bookkeeping in exactly one place.
 *
 *------------------------------------------------------------------*/

import "fmt"

// Channel is a single narrowband channel: an ordered queue of pending
// packets, a listening flag managed by at most one Receiver at a time,
// and monotonically nondecreasing counters.
type Channel struct {
	Index     int
	packets   []Packet
	Listening bool

	Sent     int
	Received int
	Lost     int
}

func newChannel(index int) *Channel {
	return &Channel{Index: index}
}

// Append enqueues a packet and increments Sent. Called by a Sender's
// Tick, never directly by a Receiver.
func (c *Channel) Append(p Packet) {
	c.packets = append(c.packets, p)
	c.Sent++
}

// Pop dequeues the oldest packet and increments Received. Returns
// (Packet{}, false) when the channel is empty.
func (c *Channel) Pop() (Packet, bool) {
	if len(c.packets) == 0 {
		return Packet{}, false
	}
	p := c.packets[0]
	c.packets = c.packets[1:]
	c.Received++
	return p, true
}

// MarkLostAll drops every packet currently queued, adding each to Lost.
// This is the "drop all pending" loss semantic: every packet sitting
// unheard in a channel when the bank sweeps is lost in one shot, not
// trickled out one per tick.
func (c *Channel) MarkLostAll() {
	c.Lost += len(c.packets)
	c.packets = nil
}

// Pending reports how many packets currently sit in the queue.
func (c *Channel) Pending() int {
	return len(c.packets)
}

// ErrChannelIndexOutOfRange is returned by operations that take an
// explicit channel index outside [0, N). This is a programmer error,
// fail-fast rather than a recoverable condition.
type ErrChannelIndexOutOfRange struct {
	Index, N int
}

func (e *ErrChannelIndexOutOfRange) Error() string {
	return fmt.Sprintf("channel index %d out of range [0, %d)", e.Index, e.N)
}

// ChannelBank is the fixed-size ordered sequence of channels the
// simulator owns for its whole lifetime. Individual channels are never
// added or removed after construction.
type ChannelBank struct {
	channels []*Channel
}

// NewChannelBank builds a bank of n channels indexed 0..n-1.
func NewChannelBank(n int) *ChannelBank {
	cs := make([]*Channel, n)
	for i := range cs {
		cs[i] = newChannel(i)
	}
	return &ChannelBank{channels: cs}
}

// Len returns the number of channels in the bank.
func (b *ChannelBank) Len() int {
	return len(b.channels)
}

// At returns the channel at idx, or an error if idx is out of range.
// This deliberately fails fast rather than silently remapping an
// out-of-range index to channel 0.
func (b *ChannelBank) At(idx int) (*Channel, error) {
	if idx < 0 || idx >= len(b.channels) {
		return nil, &ErrChannelIndexOutOfRange{Index: idx, N: len(b.channels)}
	}
	return b.channels[idx], nil
}

// Slice returns the contiguous sub-bank [start, end), sharing the same
// underlying *Channel pointers — used to partition the bank across
// receivers in the partitioned coexistence mode.
func (b *ChannelBank) Slice(start, end int) []*Channel {
	return b.channels[start:end]
}

// All returns every channel in index order.
func (b *ChannelBank) All() []*Channel {
	return b.channels
}

// SweepUnlistened runs once per tick, after every receiver has had its
// turn: any channel whose Listening flag is false has all of its
// pending packets dropped. This is the only place packets become lost.
func (b *ChannelBank) SweepUnlistened() {
	for _, c := range b.channels {
		if !c.Listening {
			c.MarkLostAll()
		}
	}
}

// Totals sums Sent/Received/Lost across every channel in the bank.
func (b *ChannelBank) Totals() (sent, received, lost int) {
	for _, c := range b.channels {
		sent += c.Sent
		received += c.Received
		lost += c.Lost
	}
	return
}
