package app

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/friendsofgo/errors"
	"go.uber.org/zap"

	"bazaar-radar/database/types"
	"bazaar-radar/helpers"
)

// Features are the signal inputs to the opportunity scorer. Nil fields fall
// back to neutral defaults: trend 50, temperature 25, rain 0.
type Features struct {
	TrendScore      *int
	Temperature     *float64
	RainProbability *float64
	IsHoliday       bool
}

// linearModel is the trained regression artifact: score = intercept +
// weights · [trend, temperature, rain, holiday].
type linearModel struct {
	Intercept float64   `json:"intercept"`
	Weights   []float64 `json:"weights"`
}

// OpportunityScorer turns signal features into a 0-100 opportunity score
// with a human readable explanation. It prefers the trained model artifact
// and degrades to a hand-tuned heuristic when the artifact is missing or
// malformed.
type OpportunityScorer struct {
	model  *linearModel
	logger *zap.SugaredLogger

	fallbackOnce sync.Once
}

// NewOpportunityScorer loads the model artifact from modelPath. A missing
// or unreadable artifact is not an error: the scorer runs on the heuristic
// instead.
func NewOpportunityScorer(modelPath string, logger *zap.SugaredLogger) *OpportunityScorer {
	s := &OpportunityScorer{logger: logger}

	model, err := loadModel(modelPath)
	if err != nil {
		logger.Warnw("opportunity model unavailable, using heuristic scoring", "path", modelPath, "error", err)
		return s
	}
	s.model = model
	logger.Infow("opportunity model loaded", "path", modelPath)
	return s
}

func loadModel(path string) (*linearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read model artifact")
	}
	var model linearModel
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, errors.Wrap(err, "failed to decode model artifact")
	}
	if len(model.Weights) != 4 {
		return nil, errors.Errorf("model artifact has %d weights, want 4", len(model.Weights))
	}
	return &model, nil
}

// Score computes the opportunity score and explanation for one feature set.
func (s *OpportunityScorer) Score(f Features) types.Opportunity {
	trend := 50
	if f.TrendScore != nil {
		trend = *f.TrendScore
	}
	temp := 25.0
	if f.Temperature != nil {
		temp = *f.Temperature
	}
	rain := 0.0
	if f.RainProbability != nil {
		rain = *f.RainProbability
	}

	var raw float64
	if s.model != nil {
		holiday := 0.0
		if f.IsHoliday {
			holiday = 1.0
		}
		raw = s.model.Intercept +
			s.model.Weights[0]*float64(trend) +
			s.model.Weights[1]*temp +
			s.model.Weights[2]*rain +
			s.model.Weights[3]*holiday
	} else {
		s.fallbackOnce.Do(func() {
			s.logger.Infow("scoring with heuristic fallback")
		})
		raw = heuristicScore(trend, temp, rain, f.IsHoliday)
	}

	return types.Opportunity{
		Score:       helpers.Clamp(int(raw), 0, 100),
		Explanation: explain(f, trend, temp, rain),
	}
}

// heuristicScore is the hand-tuned substitute for the trained model.
// Baseline 50, adjusted by trend deviation, holidays, comfortable or
// extreme temperatures and rain.
func heuristicScore(trend int, temp, rain float64, holiday bool) float64 {
	score := 50 + float64(trend-50)*0.4
	if holiday {
		score += 20
	}
	if temp >= 20 && temp <= 30 {
		score += 10
	} else if temp > 30 || temp < 10 {
		score += 15
	}
	score -= rain * 10
	return score
}

// explain builds the human readable factor list for a score. Only observed
// signals contribute factors; with nothing observed the score is baseline.
func explain(f Features, trend int, temp, rain float64) string {
	var factors []string

	if f.TrendScore != nil {
		if trend > 70 {
			factors = append(factors, "High search interest")
		} else if trend < 30 {
			factors = append(factors, "Low search interest")
		} else {
			factors = append(factors, "Moderate search interest")
		}
	}

	if f.IsHoliday {
		factors = append(factors, "Holiday/festival period")
	}

	if temp > 35 {
		factors = append(factors, "Hot weather expected")
	} else if temp < 15 {
		factors = append(factors, "Cold weather expected")
	}

	if rain > 0.7 {
		factors = append(factors, "High rain probability")
	} else if rain > 0 && rain < 0.3 {
		factors = append(factors, "Low rain probability")
	}

	if len(factors) == 0 {
		return "Baseline conditions"
	}
	return strings.Join(factors, ", ")
}
