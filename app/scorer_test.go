package app

import (
	"os"
	"path/filepath"
	"testing"

	"bazaar-radar/logging"
)

func heuristicScorer() *OpportunityScorer {
	return NewOpportunityScorer("does-not-exist.json", logging.NewNop())
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestHeuristicScore(t *testing.T) {
	s := heuristicScorer()

	// 50 baseline + 12 trend + 20 holiday + 10 comfortable temp - 1 rain.
	opp := s.Score(Features{
		TrendScore:      intPtr(80),
		Temperature:     floatPtr(25),
		RainProbability: floatPtr(0.1),
		IsHoliday:       true,
	})
	if opp.Score != 91 {
		t.Errorf("score = %d, want 91", opp.Score)
	}
}

func TestHeuristicScoreBounds(t *testing.T) {
	s := heuristicScorer()

	high := s.Score(Features{
		TrendScore:  intPtr(100),
		Temperature: floatPtr(36),
		IsHoliday:   true,
	})
	if high.Score != 100 {
		t.Errorf("score = %d, want clamp at 100", high.Score)
	}

	low := s.Score(Features{
		TrendScore:      intPtr(0),
		Temperature:     floatPtr(25),
		RainProbability: floatPtr(1.0),
	})
	// 50 - 20 trend + 10 temp - 10 rain.
	if low.Score != 30 {
		t.Errorf("score = %d, want 30", low.Score)
	}
}

func TestScoreDefaultsWithNoSignals(t *testing.T) {
	s := heuristicScorer()

	opp := s.Score(Features{})
	// Neutral defaults: trend 50, temp 25 (+10), no rain, no holiday.
	if opp.Score != 60 {
		t.Errorf("score = %d, want 60", opp.Score)
	}
	if opp.Explanation != "Baseline conditions" {
		t.Errorf("explanation = %q, want Baseline conditions", opp.Explanation)
	}
}

func TestScoreExplanations(t *testing.T) {
	s := heuristicScorer()

	cases := []struct {
		name     string
		features Features
		want     string
	}{
		{
			"all factors",
			Features{TrendScore: intPtr(80), Temperature: floatPtr(36), RainProbability: floatPtr(0.8), IsHoliday: true},
			"High search interest, Holiday/festival period, Hot weather expected, High rain probability",
		},
		{
			"low interest cold",
			Features{TrendScore: intPtr(20), Temperature: floatPtr(10)},
			"Low search interest, Cold weather expected",
		},
		{
			"moderate with light rain",
			Features{TrendScore: intPtr(50), Temperature: floatPtr(25), RainProbability: floatPtr(0.2)},
			"Moderate search interest, Low rain probability",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Score(tc.features).Explanation; got != tc.want {
				t.Errorf("explanation = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestModelArtifactScoring(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	// Identity-on-trend model: score equals the trend score.
	artifact := `{"intercept": 0, "weights": [1, 0, 0, 0]}`
	if err := os.WriteFile(path, []byte(artifact), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewOpportunityScorer(path, logging.NewNop())
	if s.model == nil {
		t.Fatal("expected model artifact to load")
	}

	opp := s.Score(Features{TrendScore: intPtr(73)})
	if opp.Score != 73 {
		t.Errorf("score = %d, want 73", opp.Score)
	}
}

func TestCorruptModelFallsBackToHeuristic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	cases := []string{
		`{"intercept": 0, "weights": [1, 2]}`, // wrong arity
		`not json at all`,
	}
	for _, artifact := range cases {
		if err := os.WriteFile(path, []byte(artifact), 0o644); err != nil {
			t.Fatal(err)
		}
		s := NewOpportunityScorer(path, logging.NewNop())
		if s.model != nil {
			t.Errorf("artifact %q should not load", artifact)
		}

		opp := s.Score(Features{TrendScore: intPtr(80), Temperature: floatPtr(25), RainProbability: floatPtr(0.1), IsHoliday: true})
		if opp.Score != 91 {
			t.Errorf("fallback score = %d, want 91", opp.Score)
		}
	}
}
