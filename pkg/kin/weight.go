package kin

import (
	"math"
	"strings"
	"unicode/utf8"
)

// bioSaturation is the biography length at which the weight reaches 1.
const bioSaturation = 1000

// BiographyWeight maps biography length to a visual weight in [0,1].
//
// The curve is sqrt(min(len, 1000) / 1000) over the trimmed text, measured in
// characters: 0 -> 0, 50 -> ~0.22, 200 -> ~0.45, 500 -> ~0.71, 1000+ -> 1.
// Early characters count more than later ones.
func BiographyWeight(bio string) float64 {
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return 0
	}
	n := min(utf8.RuneCountInString(bio), bioSaturation)
	return math.Sqrt(float64(n) / bioSaturation)
}
