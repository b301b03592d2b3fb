package channelwatch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewSimulator_appliesDefaults(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{})

	assert.Equal(t, DefaultNumChannels, sim.Bank().Len())
	assert.Len(t, sim.Senders(), DefaultNumSenders)
	assert.Len(t, sim.Receivers(), numReceivers)
}

func Test_Simulator_singleSenderGetsCaught(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{
		NumChannels: 2,
		NumSenders:  1,
		Mode:        ModeAllPolling,
		SwitchTime:  1,
		DwellTime:   50,
		IntervalMS:  200,
		Rand:        rand.New(rand.NewSource(1)),
	})

	sim.Run(5000)

	sent, received, _ := sim.Bank().Totals()
	require.Greater(t, sent, 0)
	assert.Greater(t, received, 0, "a slow-dwelling single-channel-pair receiver should catch at least some packets")
}

func Test_Simulator_partitionedModeIsolatesChannelSubsets(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{
		NumChannels: 10,
		NumSenders:  5,
		Mode:        ModePartitionedBoth,
		Rand:        rand.New(rand.NewSource(2)),
	})

	receivers := sim.Receivers()
	require.Len(t, receivers, 2)

	seenA := make(map[int]bool)
	for _, c := range receivers[0].channels {
		seenA[c.Index] = true
	}
	for _, c := range receivers[1].channels {
		assert.False(t, seenA[c.Index], "partitioned receivers must not share channel %d", c.Index)
	}
}

func Test_Simulator_sharedProfileHandoff(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{
		NumChannels: 4,
		NumSenders:  3,
		Mode:        ModeSharedProfilePolling,
		Rand:        rand.New(rand.NewSource(3)),
	})

	receivers := sim.Receivers()
	require.Len(t, receivers, 2)

	sim.Run(3000)
	for id, prof := range receivers[0].Profiles {
		assert.Same(t, prof, receivers[1].Profiles[id], "profile map must be the same shared instance after a run")
	}
}

func Test_Simulator_sharedKnownChannelSet(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{
		NumChannels: 4,
		NumSenders:  3,
		Mode:        ModeSharedKnownLimitedPoll,
		Rand:        rand.New(rand.NewSource(4)),
	})

	receivers := sim.Receivers()
	require.Len(t, receivers, 2)
	assert.Same(t, receivers[0].KnownIndices, receivers[1].KnownIndices)
}

// Test_Simulator_lossConservation checks the loss conservation law:
// every sent packet is accounted for as received, lost, or still
// pending on a channel that was being listened to when the last
// tick's sweep ran.
func Test_Simulator_lossConservation(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{
		NumChannels: 6,
		NumSenders:  8,
		Mode:        ModeAllPolling,
		Rand:        rand.New(rand.NewSource(5)),
	})

	sim.Run(2000)

	sent, received, lost := sim.Bank().Totals()
	pendingAfterFinalSweep := 0
	for _, c := range sim.Bank().All() {
		pendingAfterFinalSweep += c.Pending()
	}

	assert.Equal(t, sent, received+lost+pendingAfterFinalSweep)
}
