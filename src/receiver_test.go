package channelwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBank(n int) []*Channel {
	return NewChannelBank(n).All()
}

func Test_Receiver_DwellReceivesPacket(t *testing.T) {
	channels := newTestBank(4)
	r := NewReceiver(0, channels, 5, 220, nil, nil)

	channels[0].Append(NewPacket("A", 0, 0))

	state, received := r.Step(1, ModeFlags{})
	assert.Equal(t, StateDwell, state)
	assert.True(t, received)
	assert.Contains(t, r.Profiles, "A")
	assert.Equal(t, 0, r.Profiles["A"].ChannelIndex)
}

func Test_Receiver_DwellTimeoutAdvancesPollIndex(t *testing.T) {
	channels := newTestBank(4)
	r := NewReceiver(0, channels, 5, 3, nil, nil)

	var lastState State
	for i := 1; i <= 5; i++ {
		lastState, _ = r.Step(i, ModeFlags{})
	}
	assert.Equal(t, StateSwitch, lastState, "dwell budget exhausted with nothing heard advances to SWITCH")
	assert.Equal(t, 1, r.PollIndex)
}

func Test_Receiver_SwitchReportedForSwitchTimePlusOneTicks(t *testing.T) {
	channels := newTestBank(4)
	r := NewReceiver(0, channels, 3, 1, nil, nil)

	now := 1
	for ; r.State != StateSwitch; now++ {
		r.Step(now, ModeFlags{})
	}
	// SwitchTimer counts up to SwitchTime inclusive of the transition
	// tick itself, which still reports the pre-transition state.
	for i := 0; i < 4; i++ {
		state, _ := r.Step(now, ModeFlags{})
		now++
		assert.Equal(t, StateSwitch, state)
	}
	state, _ := r.Step(now, ModeFlags{})
	assert.Equal(t, StateDwell, state)
}

func Test_Receiver_switchToChannel_outOfRange(t *testing.T) {
	channels := newTestBank(4)
	r := NewReceiver(0, channels, 5, 220, nil, nil)

	err := r.switchToChannel(10)
	require.Error(t, err)
	var rangeErr *ErrChannelIndexOutOfRange
	assert.ErrorAs(t, err, &rangeErr)
}

func Test_Receiver_ScheduleOpportunityDetour(t *testing.T) {
	channels := newTestBank(4)
	r := NewReceiver(0, channels, 5, 220, nil, nil)

	// Seed a profile predicting imminent arrival on channel 2.
	r.Profiles["A"] = &SenderProfile{
		ID:            "A",
		ChannelIndex:  2,
		MinIntervalMS: 1000,
		NextSendMS:    110,
		intervalHistory:   []int{1000},
		intervalFrequency: map[int]int{1000: 1},
	}

	state, _ := r.Step(100, ModeFlags{})
	assert.Equal(t, StateSwitchToSchedule, state)
	assert.Equal(t, 2, r.ActiveIndex)
}

func Test_Receiver_KnownChannelSet_sharedAcrossReceivers(t *testing.T) {
	known := NewKnownChannelSet()
	channelsA := newTestBank(4)
	rA := NewReceiver(0, channelsA, 5, 220, nil, known)
	rB := NewReceiver(1, channelsA, 5, 220, nil, known)

	channelsA[0].Append(NewPacket("A", 0, 0))
	rA.Step(1, ModeFlags{})

	assert.True(t, rB.KnownIndices.Contains(0), "known-channel set is shared by pointer identity")
}

func Test_Receiver_StepScheduleOnly_neverEntersSwitch(t *testing.T) {
	channels := newTestBank(4)
	profiles := map[string]*SenderProfile{
		"A": {
			ID:                "A",
			ChannelIndex:      2,
			MinIntervalMS:     1000,
			NextSendMS:        110,
			intervalHistory:   []int{1000},
			intervalFrequency: map[int]int{1000: 1},
		},
	}
	r := NewReceiver(1, channels, 5, 220, profiles, nil)

	state, _ := r.StepScheduleOnly(100)
	assert.Equal(t, StateSwitchToSchedule, state)

	for i := 0; i < 10; i++ {
		state, _ = r.StepScheduleOnly(101 + i)
		assert.NotEqual(t, StateSwitch, state, "pure-schedule variant must never enter SWITCH")
	}
}
