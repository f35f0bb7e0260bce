package app

import (
	"strings"
	"testing"
	"time"

	models "bazaar-radar/database/models_pkg"
	"bazaar-radar/database/types"
	"bazaar-radar/logging"
	"bazaar-radar/sources"
)

func testUser() *models.User {
	return &models.User{ID: 7, LocationCity: "Mumbai", LocationCountry: "IN", IsActive: true}
}

func rainSnapshot(prob float64, hoursAhead int) *SignalSnapshot {
	return &SignalSnapshot{
		Forecast: []sources.HourlyForecast{
			{HoursAhead: hoursAhead, Temperature: 28, RainProbability: prob},
		},
		Trends:         map[string]sources.TrendScore{},
		IndustryTrends: map[string][]types.IndustryTrend{},
	}
}

func candidatesOfType(cands []types.AlertCandidate, alertType models.AlertType) []types.AlertCandidate {
	var out []types.AlertCandidate
	for _, c := range cands {
		if c.Type == alertType {
			out = append(out, c)
		}
	}
	return out
}

func TestRainDemandForTrackedKeyword(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())

	cands := d.weatherDemand(testUser(), "umbrella", rainSnapshot(0.75, 3), "Mumbai")
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}

	c := cands[0]
	if c.Type != models.AlertWeatherOpportunity {
		t.Errorf("type = %s, want weather_opportunity", c.Type)
	}
	if c.Priority != models.PriorityHigh {
		t.Errorf("priority = %s, want high", c.Priority)
	}
	if c.Keyword == nil || *c.Keyword != "umbrella" {
		t.Errorf("keyword = %v, want umbrella", c.Keyword)
	}
	if c.PredictedImpact != 37.5 {
		t.Errorf("predicted impact = %v, want 37.5", c.PredictedImpact)
	}
	if c.ConfidenceScore != 0.75 {
		t.Errorf("confidence = %v, want 0.75", c.ConfidenceScore)
	}

	ctx, ok := c.Context.(types.WeatherContext)
	if !ok {
		t.Fatalf("context is %T, want WeatherContext", c.Context)
	}
	if ctx.WeatherType != "rain" || ctx.HoursAhead != 3 {
		t.Errorf("context = %+v", ctx)
	}
}

func TestRainDemandThresholds(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())

	cases := []struct {
		name string
		snap *SignalSnapshot
	}{
		{"probability at threshold", rainSnapshot(0.7, 3)},
		{"too far ahead", rainSnapshot(0.9, 8)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if cands := d.weatherDemand(testUser(), "umbrella", tc.snap, "Mumbai"); len(cands) != 0 {
				t.Errorf("candidates = %d, want 0", len(cands))
			}
		})
	}

	// Keyword outside the rain lexicon never fires.
	if cands := d.weatherDemand(testUser(), "laptop", rainSnapshot(0.9, 3), "Mumbai"); len(cands) != 0 {
		t.Errorf("candidates = %d, want 0 for unrelated keyword", len(cands))
	}
}

func TestHotWeatherDemand(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())
	snap := &SignalSnapshot{
		Forecast: []sources.HourlyForecast{{HoursAhead: 6, Temperature: 36.5}},
	}

	cands := d.weatherDemand(testUser(), "ice cream", snap, "Mumbai")
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	c := cands[0]
	if c.Priority != models.PriorityMedium {
		t.Errorf("priority = %s, want medium", c.Priority)
	}
	if c.PredictedImpact != 30 || c.ConfidenceScore != 0.7 {
		t.Errorf("impact = %v confidence = %v, want 30 / 0.7", c.PredictedImpact, c.ConfidenceScore)
	}
}

func TestAutomaticRainSuggestion(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())
	now := time.Now()

	// No rain-related keyword tracked: the suggestion fires with no keyword.
	cands := d.Detect(testUser(), []string{"laptop"}, rainSnapshot(0.8, 2), now)
	suggestions := candidatesOfType(cands, models.AlertWeatherOpportunity)
	if len(suggestions) != 1 {
		t.Fatalf("weather candidates = %d, want 1", len(suggestions))
	}
	s := suggestions[0]
	if s.Keyword != nil {
		t.Errorf("suggestion keyword = %v, want nil", s.Keyword)
	}
	if s.Title != "🌧️ Rain Alert: Consider Tracking Umbrella Products" {
		t.Errorf("title = %q", s.Title)
	}
	ctx := s.Context.(types.WeatherContext)
	if ctx.Suggestion != "Add 'umbrella' keyword" {
		t.Errorf("suggestion = %q", ctx.Suggestion)
	}

	// Once an umbrella keyword is tracked the suggestion stops and the
	// keyword rule takes over.
	cands = d.Detect(testUser(), []string{"umbrella"}, rainSnapshot(0.8, 2), now)
	weather := candidatesOfType(cands, models.AlertWeatherOpportunity)
	if len(weather) != 1 {
		t.Fatalf("weather candidates = %d, want 1", len(weather))
	}
	if weather[0].Keyword == nil || *weather[0].Keyword != "umbrella" {
		t.Errorf("keyword = %v, want umbrella", weather[0].Keyword)
	}
}

func TestEventDemandStub(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())

	cands := d.eventDemand(testUser(), "snacks", "Mumbai")
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	c := cands[0]
	if c.Type != models.AlertEventSpike || c.PredictedImpact != 25 || c.ConfidenceScore != 0.6 {
		t.Errorf("candidate = %+v", c)
	}
	ctx := c.Context.(types.EventContext)
	if ctx.EventType != "local_event" || ctx.City != "Mumbai" {
		t.Errorf("context = %+v", ctx)
	}

	if cands := d.eventDemand(testUser(), "laptop", "Mumbai"); len(cands) != 0 {
		t.Errorf("unrelated keyword fired the event rule")
	}
}

func TestSocialTrendDemand(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())
	snap := &SignalSnapshot{
		Trends: map[string]sources.TrendScore{
			"sneakers": {Keyword: "sneakers", Score: 85, Status: "trending", Source: "gdelt"},
			"laptop":   {Keyword: "laptop", Score: 70, Status: "trending", Source: "gdelt"},
		},
	}

	cands := d.socialTrendDemand(testUser(), "sneakers", snap)
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	if cands[0].PredictedImpact != 68 {
		t.Errorf("impact = %v, want 68", cands[0].PredictedImpact)
	}
	if cands[0].ConfidenceScore != 0.85 {
		t.Errorf("confidence = %v, want 0.85", cands[0].ConfidenceScore)
	}

	// Score 70 does not cross the strictly-greater threshold.
	if cands := d.socialTrendDemand(testUser(), "laptop", snap); len(cands) != 0 {
		t.Errorf("threshold score fired the social trend rule")
	}
}

func TestCompetitorStockoutStub(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())

	cands := d.competitorStockouts(testUser(), "sneakers")
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	ctx := cands[0].Context.(types.StockoutContext)
	if ctx.CompetitorCount != 1 || ctx.OpportunityWindow != "24 hours" {
		t.Errorf("context = %+v", ctx)
	}
}

func TestFestivalDemand(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())
	now := time.Date(2026, 10, 28, 12, 0, 0, 0, time.UTC)
	snap := &SignalSnapshot{
		Holidays: []sources.Holiday{
			{Name: "Diwali", Date: now.AddDate(0, 0, 5)},
			{Name: "Christmas Day", Date: now.AddDate(0, 0, 58)},
		},
	}

	cands := d.festivalDemand(testUser(), "sweets", snap, now)
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1 (only the holiday inside 7 days)", len(cands))
	}
	c := cands[0]
	if c.Type != models.AlertFestivalBoost || c.PredictedImpact != 60 || c.ConfidenceScore != 0.8 {
		t.Errorf("candidate = %+v", c)
	}
	ctx := c.Context.(types.FestivalContext)
	if ctx.FestivalType != "diwali" {
		t.Errorf("festival type = %q, want diwali", ctx.FestivalType)
	}

	// Keyword outside the diwali lexicon.
	if cands := d.festivalDemand(testUser(), "laptop", snap, now); len(cands) != 0 {
		t.Errorf("unrelated keyword fired the festival rule")
	}
}

func TestIndustryTrendAlerts(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())
	snap := &SignalSnapshot{
		IndustryTrends: map[string][]types.IndustryTrend{
			"electronics": {
				{Keyword: "tv", Score: 90, Status: "trending", Industry: "electronics", Source: "gdelt"},
				{Keyword: "smartphone", Score: 85, Status: "trending", Industry: "electronics", Source: "gdelt"},
				{Keyword: "laptop", Score: 75, Status: "trending", Industry: "electronics", Source: "gdelt"},
				{Keyword: "camera", Score: 72, Status: "trending", Industry: "electronics", Source: "gdelt"},
			},
		},
	}

	cands := d.industryTrendAlerts(testUser(), []string{"laptop"}, snap, "Mumbai")
	if len(cands) != 3 {
		t.Fatalf("candidates = %d, want top 3 only", len(cands))
	}

	byKeyword := make(map[string]types.AlertCandidate)
	for _, c := range cands {
		byKeyword[*c.Keyword] = c
	}
	if _, ok := byKeyword["camera"]; ok {
		t.Error("fourth trend should not produce a candidate")
	}
	if byKeyword["tv"].Priority != models.PriorityHigh {
		t.Errorf("tv priority = %s, want high (score > 80)", byKeyword["tv"].Priority)
	}
	if byKeyword["laptop"].Priority != models.PriorityMedium {
		t.Errorf("laptop priority = %s, want medium", byKeyword["laptop"].Priority)
	}

	// Untracked keyword gets a tracking suggestion; the tracked one does not.
	tvCtx := byKeyword["tv"].Context.(types.TrendContext)
	if tvCtx.Suggestion != "Track 'tv' keyword" {
		t.Errorf("tv suggestion = %q", tvCtx.Suggestion)
	}
	laptopCtx := byKeyword["laptop"].Context.(types.TrendContext)
	if laptopCtx.Suggestion != "" {
		t.Errorf("laptop suggestion = %q, want none for a tracked keyword", laptopCtx.Suggestion)
	}
	if !strings.Contains(byKeyword["smartphone"].Message, "Add 'smartphone' to your tracked keywords") {
		t.Errorf("smartphone message = %q", byKeyword["smartphone"].Message)
	}

	if byKeyword["tv"].PredictedImpact != 45 {
		t.Errorf("tv impact = %v, want 45", byKeyword["tv"].PredictedImpact)
	}
}

func TestDetectWithNoTrackedKeywords(t *testing.T) {
	d := NewDemandDetector(logging.NewNop())
	now := time.Now()

	cands := d.Detect(testUser(), nil, rainSnapshot(0.8, 2), now)
	for _, c := range cands {
		if c.Type == models.AlertCompetitorStockout || c.Type == models.AlertEventSpike {
			t.Errorf("keyword rule %s fired without tracked keywords", c.Type)
		}
	}
	if len(candidatesOfType(cands, models.AlertWeatherOpportunity)) != 1 {
		t.Error("automatic rain suggestion should still fire")
	}
}
