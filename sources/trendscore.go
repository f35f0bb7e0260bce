package sources

// Genuine-trend heuristic floors. Raw news/search-volume APIs return
// non-zero noise for almost any query string; the gate separates noise from
// an actual trend.
const (
	minVolumeFloor   = 0.03  // peak volume below this is noise
	minActivityFloor = 0.005 // the series must still be active now
	trailingWindow   = 7
)

// ExtractTrendScore turns an ordered date -> volume series into a 0-100
// trend score with a trending/rising status. It is provider-agnostic: GDELT
// and NewsAPI series go through the exact same math.
//
// Returns ok=false when the series has fewer than 7 positive observations
// or fails the validity gate (peak too low, recent activity too low, or the
// trailing-7 average decaying below 90% of the overall average).
func ExtractTrendScore(series VolumeSeries) (score int, status string, ok bool) {
	values := make([]float64, 0, len(series))
	for _, p := range series {
		if p.Value > 0 {
			values = append(values, p.Value)
		}
	}
	if len(values) < trailingWindow {
		return 0, "", false
	}

	var max, sum float64
	for _, v := range values {
		if v > max {
			max = v
		}
		sum += v
	}
	overallAvg := sum / float64(len(values))

	var trailingSum float64
	for _, v := range values[len(values)-trailingWindow:] {
		trailingSum += v
	}
	trailingAvg := trailingSum / float64(trailingWindow)

	recent := values[len(values)-1]

	// Validity gate: genuine peak, still active, not clearly decaying.
	if max <= minVolumeFloor || recent <= minActivityFloor || trailingAvg < overallAvg*0.9 {
		return 0, "", false
	}

	// Values below 10 follow the provider's fraction-of-volume convention
	// and are scaled to a percentage; larger values are used directly.
	base := recent
	if recent < 10 {
		base = recent * 100
	}
	score = clampScore(int(base))

	// Momentum bonus for series accelerating above their own baseline.
	switch {
	case trailingAvg > overallAvg*1.1:
		score += 20
	case trailingAvg > overallAvg:
		score += 10
	}
	score = clampScore(score)

	// Any validated signal scores at least 10.
	if score < 10 {
		score = 10
	}

	status = "rising"
	if score > 50 {
		status = "trending"
	}
	return score, status, true
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
