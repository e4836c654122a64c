package geo

import (
	"math"
	"time"
)

// Earth radii used for great circle distances
const (
	EarthRadiusKm = 6371.0
	EarthRadiusNM = 3440.06
	KmPerNM       = 1.852
)

// DistanceKm returns the great circle distance between two positions in kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return EarthRadiusKm * centralAngle(lat1, lon1, lat2, lon2)
}

// DistanceNM returns the great circle distance in nautical miles.
func DistanceNM(lat1, lon1, lat2, lon2 float64) float64 {
	return EarthRadiusNM * centralAngle(lat1, lon1, lat2, lon2)
}

func centralAngle(lat1, lon1, lat2, lon2 float64) float64 {
	r1, r2 := lat1*math.Pi/180, lat2*math.Pi/180

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	// handle dateline crossing
	for dLon > math.Pi {
		dLon -= 2 * math.Pi
	}
	for dLon < -math.Pi {
		dLon += 2 * math.Pi
	}

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(r1)*math.Cos(r2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// SpeedKmh returns the speed implied by covering distanceKm in elapsed. The
// elapsed time is floored at minElapsed so that frames with identical or
// reordered timestamps do not divide by zero.
func SpeedKmh(distanceKm float64, elapsed, minElapsed time.Duration) float64 {
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	if elapsed <= 0 {
		return math.Inf(1)
	}
	return distanceKm / elapsed.Hours()
}
