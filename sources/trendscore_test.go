package sources

import "testing"

func seriesOf(values ...float64) VolumeSeries {
	series := make(VolumeSeries, 0, len(values))
	for _, v := range values {
		series = append(series, VolumePoint{Date: "2026-01-01", Value: v})
	}
	return series
}

func TestExtractTrendScoreTooFewObservations(t *testing.T) {
	// Zeroes do not count as observations.
	series := seriesOf(0, 0, 0, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5)
	if _, _, ok := ExtractTrendScore(series); ok {
		t.Error("expected no trend with fewer than 7 positive observations")
	}
}

func TestExtractTrendScoreNoiseGate(t *testing.T) {
	cases := []struct {
		name   string
		series VolumeSeries
	}{
		{"peak below volume floor", seriesOf(0.01, 0.02, 0.02, 0.01, 0.02, 0.02, 0.01, 0.02)},
		{"series went quiet", seriesOf(0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.001)},
		{"clearly decaying", seriesOf(9, 9, 9, 9, 9, 9, 9, 1, 1, 1, 1, 1, 1, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if score, _, ok := ExtractTrendScore(tc.series); ok {
				t.Errorf("expected gate to reject series, got score %d", score)
			}
		})
	}
}

func TestExtractTrendScoreFractionScaling(t *testing.T) {
	// Flat series of 0.4: recent < 10, so the fraction convention applies
	// and 0.4 scales to 40. Flat means no momentum bonus.
	series := seriesOf(0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4)
	score, status, ok := ExtractTrendScore(series)
	if !ok {
		t.Fatal("expected a valid trend")
	}
	if score != 40 {
		t.Errorf("score = %d, want 40", score)
	}
	if status != "rising" {
		t.Errorf("status = %q, want rising", status)
	}
}

func TestExtractTrendScoreMomentumBonus(t *testing.T) {
	// Trailing average well above the overall average earns +20 and, with
	// recent 0.4 -> base 40, lands at 60 which flips the status to trending.
	series := seriesOf(0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4)
	score, status, ok := ExtractTrendScore(series)
	if !ok {
		t.Fatal("expected a valid trend")
	}
	if score != 60 {
		t.Errorf("score = %d, want 60", score)
	}
	if status != "trending" {
		t.Errorf("status = %q, want trending", status)
	}
}

func TestExtractTrendScoreAbsoluteValuesNotScaled(t *testing.T) {
	// Values >= 10 are used directly, and the score caps at 100.
	series := seriesOf(50, 50, 50, 50, 50, 50, 150)
	score, _, ok := ExtractTrendScore(series)
	if !ok {
		t.Fatal("expected a valid trend")
	}
	if score != 100 {
		t.Errorf("score = %d, want 100", score)
	}
}

func TestExtractTrendScoreFloor(t *testing.T) {
	// Tiny but genuine signal still scores at least 10. Recent 0.04 scales
	// to 4, the series is flat so no bonus, the floor lifts it to 10.
	series := seriesOf(0.04, 0.04, 0.04, 0.04, 0.04, 0.04, 0.04)
	score, _, ok := ExtractTrendScore(series)
	if !ok {
		t.Fatal("expected a valid trend")
	}
	if score != 10 {
		t.Errorf("score = %d, want 10", score)
	}
}
