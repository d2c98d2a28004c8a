package regression

import "math"

// Distance is the dynamic-time-warping distance between two series,
// normalized by the warping path length so it is comparable across series
// lengths.
func Distance(a, b []float64) float64 {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return math.Inf(1)
	}
	prev := make([]float64, m+1)
	cur := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = math.Inf(1)
	}
	for i := 1; i <= n; i++ {
		cur[0] = math.Inf(1)
		for j := 1; j <= m; j++ {
			best := math.Min(prev[j], math.Min(prev[j-1], cur[j-1]))
			cur[j] = math.Abs(a[i-1]-b[j-1]) + best
		}
		prev, cur = cur, prev
	}
	return prev[m] / float64(n+m)
}
