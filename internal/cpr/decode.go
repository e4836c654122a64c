package cpr

import (
	"fmt"
	"math"
)

// GlobalDecode recovers an unambiguous position from one even and one odd
// coordinate of the same encoding, passed in either order. oddIsLatest names
// the most recently received frame; the result is the position of that frame.
// Surface coordinates only cover a 90 degree span, so a reference (receiver or
// last known position) is required to pick the right quadrant.
func GlobalDecode(a, b Coordinate, oddIsLatest bool, reference *Position) (Position, error) {
	if a.IsOdd == b.IsOdd || a.Surface != b.Surface || a.bits() != b.bits() {
		return Position{}, ErrIncompatiblePair
	}
	surface := a.Surface
	if surface && reference == nil {
		return Position{}, ErrNoReference
	}

	even, odd := a, b
	if a.IsOdd {
		even, odd = b, a
	}
	latest := even
	if oddIsLatest {
		latest = odd
	}

	scale := latest.scale()
	lat0 := float64(even.Latitude)
	lat1 := float64(odd.Latitude)
	lon0 := float64(even.Longitude)
	lon1 := float64(odd.Longitude)

	// Compute the Latitude Index "j"
	j := int(math.Floor((59*lat0-60*lat1)/scale + 0.5))

	rlat0 := latZoneSize(false, surface) * (float64(modInt(j, evenLatZones)) + lat0/scale)
	rlat1 := latZoneSize(true, surface) * (float64(modInt(j, oddLatZones)) + lat1/scale)

	if surface {
		rlat0 = nearestSurfaceLatitude(rlat0, reference.Latitude)
		rlat1 = nearestSurfaceLatitude(rlat1, reference.Latitude)
	} else {
		if rlat0 >= normalizeThresh {
			rlat0 -= 360
		}
		if rlat1 >= normalizeThresh {
			rlat1 -= 360
		}
	}

	if rlat0 < -maxLatitudeDeg || rlat0 > maxLatitudeDeg || rlat1 < -maxLatitudeDeg || rlat1 > maxLatitudeDeg {
		return Position{}, fmt.Errorf("%w: rlat0=%.6f rlat1=%.6f", ErrInvalidLatitude, rlat0, rlat1)
	}

	// Check that both are in the same latitude zone, or abort
	if NL(rlat0) != NL(rlat1) {
		return Position{}, fmt.Errorf("%w: nl0=%d nl1=%d", ErrZoneMismatch, NL(rlat0), NL(rlat1))
	}

	rlat, lonCPR := rlat0, lon0
	if oddIsLatest {
		rlat, lonCPR = rlat1, lon1
	}
	fflag := latest.fflag()
	nl := NL(rlat)

	ni := nFunction(rlat, fflag)
	m := int(math.Floor((lon0*float64(nl-1)-lon1*float64(nl))/scale + 0.5))
	rlon := dlonFunction(rlat, fflag, surface) * (float64(modInt(m, ni)) + lonCPR/scale)

	if surface {
		// Move to the quadrant closest to the reference
		rlon += math.Floor((reference.Longitude-rlon+45)/90) * 90
	}

	return Position{Latitude: rlat, Longitude: normalizeLongitude(rlon)}, nil
}

// nearestSurfaceLatitude picks between the northern and southern candidates
// of a surface latitude, whichever is closer to the reference.
func nearestSurfaceLatitude(rlat, refLat float64) float64 {
	south := rlat - surfaceZone
	if math.Abs(south-refLat) < math.Abs(rlat-refLat) {
		return south
	}
	return rlat
}

// LocalDecode resolves a single coordinate against a reference position known
// to be within half a zone of the target, such as the receiver location or
// the aircraft's previous fix.
func LocalDecode(c Coordinate, reference Position) (Position, error) {
	scale := c.scale()
	fractionalLat := float64(c.Latitude) / scale
	fractionalLon := float64(c.Longitude) / scale

	dlat := latZoneSize(c.IsOdd, c.Surface)
	j := math.Floor(reference.Latitude/dlat) +
		math.Floor(0.5+modFloat(reference.Latitude, dlat)/dlat-fractionalLat)
	rlat := dlat * (j + fractionalLat)

	if rlat < -maxLatitudeDeg || rlat > maxLatitudeDeg {
		return Position{}, fmt.Errorf("%w: rlat=%.6f", ErrInvalidLatitude, rlat)
	}
	if math.Abs(rlat-reference.Latitude) > dlat/2 {
		return Position{}, fmt.Errorf("%w: latitude %.6f from reference %.6f", ErrTooFar, rlat, reference.Latitude)
	}

	dlon := dlonFunction(rlat, c.fflag(), c.Surface)
	m := math.Floor(reference.Longitude/dlon) +
		math.Floor(0.5+modFloat(reference.Longitude, dlon)/dlon-fractionalLon)
	rlon := dlon * (m + fractionalLon)

	if math.Abs(normalizeLongitude(rlon-reference.Longitude)) > dlon/2 {
		return Position{}, fmt.Errorf("%w: longitude %.6f from reference %.6f", ErrTooFar, rlon, reference.Longitude)
	}

	return Position{Latitude: rlat, Longitude: normalizeLongitude(rlon)}, nil
}

// Encode produces the CPR coordinate a transmitter would send for a position.
// bits is 17 for airborne and surface squitters and 12 for coarse TIS-B.
func Encode(lat, lon float64, odd, surface bool, bits int) Coordinate {
	c := Coordinate{IsOdd: odd, Surface: surface, Bits: bits}
	scale := c.scale()
	fflag := c.fflag()

	dlat := latZoneSize(odd, surface)
	yz := math.Floor(scale*modFloat(lat, dlat)/dlat + 0.5)
	rlat := dlat * (yz/scale + math.Floor(lat/dlat))

	dlon := dlonFunction(rlat, fflag, surface)
	xz := math.Floor(scale*modFloat(lon, dlon)/dlon + 0.5)

	mask := uint32(1)<<uint(c.bits()) - 1
	c.Latitude = uint32(int64(yz)) & mask
	c.Longitude = uint32(int64(xz)) & mask
	return c
}
