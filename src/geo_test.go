package channelwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tzneal/coordconv"
)

func Test_HemisphereToRune(t *testing.T) {
	assert.Equal(t, 'N', HemisphereToRune(coordconv.HemisphereNorth))
	assert.Equal(t, 'S', HemisphereToRune(coordconv.HemisphereSouth))
	assert.Equal(t, '!', HemisphereToRune(coordconv.HemisphereInvalid))
}

func Test_ToUTM_knownPosition(t *testing.T) {
	// Direwolf's own HQ coordinates, also used as the worked example in
	// cmd/samoyed-ll2utm's usage text.
	utm, err := ToUTM(42.662139, -71.365553)
	require.NoError(t, err)
	assert.EqualValues(t, 19, utm.Zone)
	assert.Equal(t, coordconv.HemisphereNorth, utm.Hemisphere)
}

func Test_DistanceMeters_samePointIsZero(t *testing.T) {
	assert.InDelta(t, 0.0, DistanceMeters(42.0, -71.0, 42.0, -71.0), 1e-6)
}

func Test_DistanceMeters_oneDegreeLatitudeIsRoughlyOneHundredElevenKm(t *testing.T) {
	d := DistanceMeters(0, 0, 1, 0)
	assert.InDelta(t, 111_000, d, 1_000)
}
