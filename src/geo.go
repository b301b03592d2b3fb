package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Geographic propagation loss layered underneath the core
 *		simulation, using the Packet.X/Y position a sender may
 *		optionally carry.
 *
 * Description:	Uses golang/geo's s1.Angle / s2.LatLng for great-circle
 *		distance and coordconv for UTM conversion. A sender with no
 *		assigned position is always in range, so this is purely
 *		additive over a sender's base Tick behavior.
 *
 *------------------------------------------------------------------*/

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

// HemisphereToRune renders a coordconv.Hemisphere the way a UTM
// coordinate line prints it; used by WriteReceiverSitePosition.
func HemisphereToRune(h coordconv.Hemisphere) rune {
	switch h {
	case coordconv.HemisphereNorth:
		return 'N'
	case coordconv.HemisphereSouth:
		return 'S'
	case coordconv.HemisphereInvalid:
		return '!'
	default:
		return '?'
	}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// toLatLng builds an s2.LatLng from a position expressed in decimal
// degrees.
func toLatLng(latDeg, lonDeg float64) s2.LatLng {
	return s2.LatLng{Lat: s1.Angle(degToRad(latDeg)), Lng: s1.Angle(degToRad(lonDeg))}
}

// ToUTM converts a decimal-degree position to UTM easting/northing.
func ToUTM(latDeg, lonDeg float64) (coordconv.UTMCoord, error) {
	return coordconv.DefaultUTMConverter.ConvertFromGeodetic(toLatLng(latDeg, lonDeg), 0)
}

// EarthRadiusMeters is the mean radius used for great-circle distance.
const EarthRadiusMeters = 6_371_000.0

// DistanceMeters returns the great-circle distance between two
// decimal-degree positions using golang/geo's s2 angle between points.
func DistanceMeters(aLatDeg, aLonDeg, bLatDeg, bLonDeg float64) float64 {
	a := s2.PointFromLatLng(toLatLng(aLatDeg, aLonDeg))
	b := s2.PointFromLatLng(toLatLng(bLatDeg, bLonDeg))
	angle := a.Distance(b)
	return float64(angle) * EarthRadiusMeters
}

// PropagationModel drops a sender's emission before it ever reaches a
// channel queue when the sender is positioned beyond MaxRangeMeters
// from ReceiverSiteLat/Lon. With MaxRangeMeters <= 0 the model is
// disabled and every sender is in range, which is the default and
// leaves Tick's base behavior unchanged.
type PropagationModel struct {
	ReceiverSiteLat, ReceiverSiteLon float64
	MaxRangeMeters                  float64
}

// InRange reports whether a sender at (lat, lon) is within range of
// the receiver site. A sender with HasPosition false is always
// considered in range, since position is an optional attribute.
func (m PropagationModel) InRange(hasPosition bool, lat, lon float64) bool {
	if m.MaxRangeMeters <= 0 || !hasPosition {
		return true
	}
	return DistanceMeters(m.ReceiverSiteLat, m.ReceiverSiteLon, lat, lon) <= m.MaxRangeMeters
}
