package cpr

import "math"

// nlThresholds holds the upper latitude bound of each NL value, starting at
// NL=59 at the equator and counting down. Beyond the last entry NL is 1.
var nlThresholds = [...]float64{
	10.47047130, // 59
	14.82817437, // 58
	18.18626357, // 57
	21.02939493, // 56
	23.54504487, // 55
	25.82924707, // 54
	27.93898710, // 53
	29.91135686, // 52
	31.77209708, // 51
	33.53993436, // 50
	35.22899598, // 49
	36.85025108, // 48
	38.41241892, // 47
	39.92256684, // 46
	41.38651832, // 45
	42.80914012, // 44
	44.19454951, // 43
	45.54626723, // 42
	46.86733252, // 41
	48.16039128, // 40
	49.42776439, // 39
	50.67150166, // 38
	51.89342469, // 37
	53.09516153, // 36
	54.27817472, // 35
	55.44378444, // 34
	56.59318756, // 33
	57.72747354, // 32
	58.84763776, // 31
	59.95459277, // 30
	61.04917774, // 29
	62.13216659, // 28
	63.20427479, // 27
	64.26616523, // 26
	65.31845310, // 25
	66.36171008, // 24
	67.39646774, // 23
	68.42322022, // 22
	69.44242631, // 21
	70.45451075, // 20
	71.45986473, // 19
	72.45884545, // 18
	73.45177442, // 17
	74.43893416, // 16
	75.42056257, // 15
	76.39684391, // 14
	77.36789461, // 13
	78.33374083, // 12
	79.29428225, // 11
	80.24923213, // 10
	81.19801349, // 9
	82.13956981, // 8
	83.07199445, // 7
	83.99173563, // 6
	84.89166191, // 5
	85.75541621, // 4
	86.53536998, // 3
	87.00000000, // 2
}

// NL returns the number of longitude zones for a given latitude using the
// lookup table. The result is symmetric about the equator.
func NL(lat float64) int {
	absLat := math.Abs(lat)
	for i, threshold := range nlThresholds {
		if absLat < threshold {
			return 59 - i
		}
	}
	return 1
}

// nFunction returns the number of longitude zones for the frame parity
func nFunction(lat float64, fflag int) int {
	nl := NL(lat) - fflag
	if nl < 1 {
		nl = 1
	}
	return nl
}

// dlonFunction returns longitude zone width
func dlonFunction(lat float64, fflag int, surface bool) float64 {
	return zoneSpan(surface) / float64(nFunction(lat, fflag))
}
