package trajectory

// Savitzky-Golay smoothing of per-axis position series, per spec §4.1:
// "smooth positions using a polynomial filter (window 5 or 11 frames,
// polynomial order 2-3), falling back to a centered moving average for
// tracks shorter than the window."
//
// Coefficients below are the standard least-squares Savitzky-Golay
// convolution kernels for a centered window, order-2 polynomial fit
// (identical to order-3 at the center sample, which is all this filter
// ever reports).

var savgolKernel5 = []float64{-3.0 / 35, 12.0 / 35, 17.0 / 35, 12.0 / 35, -3.0 / 35}

var savgolKernel11 = []float64{
	-36.0 / 429, 9.0 / 429, 44.0 / 429, 69.0 / 429, 84.0 / 429, 89.0 / 429,
	84.0 / 429, 69.0 / 429, 44.0 / 429, 9.0 / 429, -36.0 / 429,
}

// SmoothSeries applies a Savitzky-Golay filter to series, choosing an
// 11-point window when the series is long enough, otherwise a 5-point
// window, otherwise a centered moving average fallback for very short
// series. Returns a new slice the same length as series.
func SmoothSeries(series []float64) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}

	var kernel []float64
	switch {
	case n >= 11:
		kernel = savgolKernel11
	case n >= 5:
		kernel = savgolKernel5
	default:
		return movingAverageFallback(series)
	}

	return convolveCentered(series, kernel)
}

// convolveCentered applies kernel centered at each index, clamping to the
// series edges by shrinking the window near the boundary (so the output
// has the same length as the input, with edge samples progressively less
// smoothed rather than discarded).
func convolveCentered(series []float64, kernel []float64) []float64 {
	n := len(series)
	half := len(kernel) / 2
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		lo := i - half
		hi := i + half
		if lo >= 0 && hi < n {
			var sum float64
			for k, w := range kernel {
				sum += w * series[lo+k]
			}
			out[i] = sum
			continue
		}
		// Edge sample: fall back to a shrinking centered moving average so
		// the filter degrades gracefully instead of reading out of range.
		out[i] = centeredMovingAverageAt(series, i, half)
	}
	return out
}

func centeredMovingAverageAt(series []float64, i, half int) float64 {
	n := len(series)
	lo := i - half
	if lo < 0 {
		lo = 0
	}
	hi := i + half
	if hi >= n {
		hi = n - 1
	}
	var sum float64
	count := 0
	for j := lo; j <= hi; j++ {
		sum += series[j]
		count++
	}
	return sum / float64(count)
}

// movingAverageFallback applies a 3-point centered moving average (or the
// series itself if fewer than 3 samples), for tracks too short for any
// Savitzky-Golay window.
func movingAverageFallback(series []float64) []float64 {
	n := len(series)
	if n < 3 {
		out := make([]float64, n)
		copy(out, series)
		return out
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = centeredMovingAverageAt(series, i, 1)
	}
	return out
}

// SmoothTrajectory smooths the x and y series of pt in place.
func SmoothTrajectory(pt *PlayerTrajectory) {
	frames := pt.Frames()
	n := len(frames)
	if n == 0 {
		return
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, f := range frames {
		xs[i] = f.X
		ys[i] = f.Y
	}
	sx := SmoothSeries(xs)
	sy := SmoothSeries(ys)
	for i := 0; i < n; i++ {
		pt.SetSmoothed(i, sx[i], sy[i])
	}
}
