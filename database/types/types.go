// Package types contains the computed, in-memory value types passed between
// the rule evaluators, the opportunity scorer and the persistence layer.
// Nothing in this package is persisted directly; candidates that survive the
// deduplication gate are converted to models.Alert rows.
package types

import (
	"encoding/json"

	"github.com/friendsofgo/errors"

	models "bazaar-radar/database/models_pkg"
)

// AlertContext is the closed set of per-rule context payloads. Each variant
// carries the statically-known fields of the rule that produced it, so a
// malformed payload fails at construction rather than at read time.
type AlertContext interface {
	// Kind returns a stable discriminator for the payload shape.
	Kind() string
}

// WeatherContext is attached to weather opportunity alerts.
type WeatherContext struct {
	WeatherType     string   `json:"weather_type"` // "rain" or "hot"
	HoursAhead      int      `json:"hours_ahead"`
	RainProbability *float64 `json:"rain_probability,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	City            string   `json:"city"`
	Suggestion      string   `json:"suggestion,omitempty"`
}

func (WeatherContext) Kind() string { return "weather" }

// TrendContext is attached to social trend and industry trend alerts.
type TrendContext struct {
	TrendScore int    `json:"trend_score"`
	Status     string `json:"status,omitempty"`
	Source     string `json:"source,omitempty"`
	Industry   string `json:"industry,omitempty"`
	Location   string `json:"location,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (TrendContext) Kind() string { return "trend" }

// EventContext is attached to event spike alerts.
type EventContext struct {
	EventType string `json:"event_type"`
	City      string `json:"city"`
}

func (EventContext) Kind() string { return "event" }

// StockoutContext is attached to competitor stockout alerts.
type StockoutContext struct {
	CompetitorCount   int    `json:"competitor_count"`
	OpportunityWindow string `json:"opportunity_window"`
}

func (StockoutContext) Kind() string { return "stockout" }

// FestivalContext is attached to festival boost alerts.
type FestivalContext struct {
	HolidayName  string `json:"holiday_name"`
	HolidayDate  string `json:"holiday_date"`
	FestivalType string `json:"festival_type"`
}

func (FestivalContext) Kind() string { return "festival" }

// SentimentContext is attached to sentiment peak alerts.
type SentimentContext struct {
	SentimentScore       int     `json:"sentiment_score"`
	RecommendedDuration  string  `json:"recommended_duration"`
	ExpectedROIMultiplier float64 `json:"expected_roi_multiplier"`
}

func (SentimentContext) Kind() string { return "sentiment" }

// PrimingContext is attached to festival priming promotion alerts.
type PrimingContext struct {
	HolidayName string `json:"holiday_name"`
	HolidayDate string `json:"holiday_date"`
	DaysUntil   int    `json:"days_until"`
	WindowType  string `json:"window_type"`
}

func (PrimingContext) Kind() string { return "priming" }

// FootfallContext is attached to footfall window alerts.
type FootfallContext struct {
	CurrentHour int    `json:"current_hour"`
	IsWeekend   bool   `json:"is_weekend"`
	WindowType  string `json:"window_type"`
}

func (FootfallContext) Kind() string { return "footfall" }

// InactivityContext is attached to competitor inactivity promotion alerts.
type InactivityContext struct {
	WindowType  string `json:"window_type"`
	CurrentHour int    `json:"current_hour"`
	Advantage   string `json:"advantage"`
}

func (InactivityContext) Kind() string { return "inactivity" }

// IndustryTrend is one trending keyword within a market category.
type IndustryTrend struct {
	Keyword  string `json:"keyword"`
	Score    int    `json:"trend_score"`
	Status   string `json:"status"`
	Industry string `json:"industry"`
	Category string `json:"category,omitempty"` // "seasonal" or "general" for clothes
	Season   string `json:"season,omitempty"`
	Source   string `json:"source"`
}

// Opportunity is the scorer output attached to a candidate.
type Opportunity struct {
	Score       int    `json:"score"`       // 0-100
	Explanation string `json:"explanation"` // human readable
}

// AlertCandidate is a proposed, not-yet-persisted notification produced by a
// rule evaluator. Candidates flow through the deduplication gate before
// being committed as alerts.
type AlertCandidate struct {
	UserID   uint
	Type     models.AlertType
	Priority models.AlertPriority
	Title    string
	Message  string
	Keyword  *string // nil for user-level suggestion candidates
	Category *string

	Context         AlertContext
	PredictedImpact float64
	ConfidenceScore float64 // 0-1

	Opportunity *Opportunity // set by the scorer, optional
}

// Validate checks the candidate invariants: non-empty type, title and
// message, confidence in [0,1].
func (c *AlertCandidate) Validate() error {
	if c.Type == "" {
		return errors.New("alert candidate missing type")
	}
	if c.Title == "" || c.Message == "" {
		return errors.New("alert candidate missing title or message")
	}
	if c.ConfidenceScore < 0 || c.ConfidenceScore > 1 {
		return errors.Errorf("confidence score %.2f out of range [0,1]", c.ConfidenceScore)
	}
	return nil
}

// ToAlert converts a surviving candidate into a persistable alert row.
func (c *AlertCandidate) ToAlert() (*models.Alert, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var ctxData []byte
	if c.Context != nil {
		var err error
		ctxData, err = json.Marshal(c.Context)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode alert context")
		}
	}

	impact := c.PredictedImpact
	alert := &models.Alert{
		UserID:          c.UserID,
		Type:            c.Type,
		Priority:        c.Priority,
		Status:          models.StatusNew,
		Title:           c.Title,
		Message:         c.Message,
		Keyword:         c.Keyword,
		Category:        c.Category,
		ContextData:     ctxData,
		PredictedImpact: &impact,
		ConfidenceScore: c.ConfidenceScore,
	}
	if c.Opportunity != nil {
		score := c.Opportunity.Score
		alert.OpportunityScore = &score
		alert.ScoreExplanation = c.Opportunity.Explanation
	}
	return alert, nil
}
