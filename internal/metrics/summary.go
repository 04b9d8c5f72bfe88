package metrics

import "slices"

// Summary describes a numeric series. All fields are zero for an empty series.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

func Summarize[T int64 | float64](xs []T) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		sorted[i] = float64(x)
		sum += float64(x)
	}
	slices.Sort(sorted)

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return Summary{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}
}

// WPMs projects rates onto their WPM values.
func WPMs(rates []FieldRate) []float64 {
	out := make([]float64, len(rates))
	for i, r := range rates {
		out[i] = r.WPM
	}
	return out
}
