package channelwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func Test_Channel_AppendPop(t *testing.T) {
	ch := newChannel(0)

	_, ok := ch.Pop()
	assert.False(t, ok, "empty channel should not pop anything")

	p1 := NewPacket("A", 0, 0)
	p2 := NewPacket("B", 0, 0)
	ch.Append(p1)
	ch.Append(p2)
	assert.Equal(t, 2, ch.Sent)
	assert.Equal(t, 2, ch.Pending())

	got1, ok := ch.Pop()
	require.True(t, ok)
	assert.Equal(t, p1, got1)

	got2, ok := ch.Pop()
	require.True(t, ok)
	assert.Equal(t, p2, got2)

	assert.Equal(t, 2, ch.Received)
	assert.Equal(t, 0, ch.Pending())
}

func Test_Channel_MarkLostAll(t *testing.T) {
	ch := newChannel(0)
	ch.Append(NewPacket("A", 0, 0))
	ch.Append(NewPacket("B", 0, 0))

	ch.MarkLostAll()

	assert.Equal(t, 0, ch.Pending())
	assert.Equal(t, 2, ch.Lost)

	// A second sweep over an already-empty channel adds nothing.
	ch.MarkLostAll()
	assert.Equal(t, 2, ch.Lost)
}

func Test_ChannelBank_AtOutOfRange(t *testing.T) {
	bank := NewChannelBank(4)

	_, err := bank.At(-1)
	require.Error(t, err)
	var rangeErr *ErrChannelIndexOutOfRange
	assert.ErrorAs(t, err, &rangeErr)

	_, err = bank.At(4)
	require.Error(t, err)

	ch, err := bank.At(3)
	require.NoError(t, err)
	assert.Equal(t, 3, ch.Index)
}

func Test_ChannelBank_SweepUnlistened(t *testing.T) {
	bank := NewChannelBank(3)
	all := bank.All()

	all[0].Listening = true
	all[1].Listening = false

	all[0].Append(NewPacket("A", 0, 0))
	all[1].Append(NewPacket("B", 0, 0))

	bank.SweepUnlistened()

	assert.Equal(t, 1, all[0].Pending(), "listened channel keeps its pending packet")
	assert.Equal(t, 0, all[1].Pending(), "unlistened channel loses its pending packet")
	assert.Equal(t, 1, all[1].Lost)
}

func Test_ChannelBank_Totals(t *testing.T) {
	bank := NewChannelBank(2)
	all := bank.All()
	all[0].Append(NewPacket("A", 0, 0))
	all[0].Append(NewPacket("A", 0, 0))
	all[0].Listening = true
	_, _ = all[0].Pop()
	all[1].Append(NewPacket("B", 0, 0))

	bank.SweepUnlistened()

	sent, received, lost := bank.Totals()
	assert.Equal(t, 3, sent)
	assert.Equal(t, 1, received)
	assert.Equal(t, 1, lost)
}

// Test_ChannelBank_SweepNeverLosesListenedPackets checks the loss
// conservation law: a channel that is listening when the sweep runs
// never has any of its pending packets marked lost.
func Test_ChannelBank_SweepNeverLosesListenedPackets(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		bank := NewChannelBank(n)
		all := bank.All()

		for i, ch := range all {
			listening := rapid.Bool().Draw(t, "listening")
			ch.Listening = listening
			count := rapid.IntRange(0, 5).Draw(t, "pending")
			for j := 0; j < count; j++ {
				ch.Append(NewPacket("S", float64(i), float64(j)))
			}
		}

		before := make([]int, n)
		for i, ch := range all {
			before[i] = ch.Pending()
		}

		bank.SweepUnlistened()

		for i, ch := range all {
			if all[i].Listening {
				assert.Equal(t, before[i], ch.Pending(), "listened channel %d lost packets it shouldn't have", i)
			} else {
				assert.Equal(t, 0, ch.Pending(), "unlistened channel %d kept packets it shouldn't have", i)
			}
		}
	})
}
