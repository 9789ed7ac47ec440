package stats

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Min returns the minimum value
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// NormalizeValue maps v into [0, 1] relative to [min, max].
// A zero-width range maps every value to 0.
func NormalizeValue(v, min, max float64) float64 {
	rangeVal := max - min
	if rangeVal == 0 {
		return 0
	}
	return (v - min) / rangeVal
}

// Normalize normalizes values to [0, 1] range
func Normalize(values []float64) []float64 {
	min := Min(values)
	max := Max(values)

	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = NormalizeValue(v, min, max)
	}
	return result
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
