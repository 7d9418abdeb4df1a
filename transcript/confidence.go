package transcript

import "math"

// EstimateConfidence averages every element confidence of the non-noise
// blocks. Values outside [0,1] are clamped and NaNs ignored. def is returned
// when no usable confidence exists.
func EstimateConfidence(blocks []ClassifiedBlock, def float64) float64 {
	var sum float64
	var n int
	for _, b := range blocks {
		if b.Role == RoleNoise {
			continue
		}
		for _, c := range b.ElementConfidences {
			if math.IsNaN(c) {
				continue
			}
			sum += math.Max(0, math.Min(1, c))
			n++
		}
	}
	if n == 0 {
		return def
	}
	return sum / float64(n)
}
