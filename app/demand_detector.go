package app

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	models "bazaar-radar/database/models_pkg"
	"bazaar-radar/database/types"
	"bazaar-radar/helpers"
)

// DemandDetector evaluates the demand-peak rules: weather opportunities,
// event spikes, social trends, competitor stockouts, festival boosts and
// industry trends. Every rule is a pure function of the user context, the
// tracked keywords and the signal snapshot; an absent signal simply means
// the rule does not fire.
type DemandDetector struct {
	logger *zap.SugaredLogger
}

// NewDemandDetector creates a demand peak detector.
func NewDemandDetector(logger *zap.SugaredLogger) *DemandDetector {
	return &DemandDetector{logger: logger}
}

// Detect runs all demand rules for one user and returns the resulting
// alert candidates. With no tracked keywords only the keyword-independent
// checks run (automatic weather suggestions, industry trends).
func (d *DemandDetector) Detect(user *models.User, keywords []string, snap *SignalSnapshot, now time.Time) []types.AlertCandidate {
	var candidates []types.AlertCandidate

	city := user.City()

	candidates = append(candidates, d.automaticWeatherSuggestions(user, keywords, snap, city)...)
	candidates = append(candidates, d.industryTrendAlerts(user, keywords, snap, city)...)

	if len(keywords) == 0 {
		d.logger.Infow("no tracked keywords, keyword-independent checks only", "user_id", user.ID)
		return candidates
	}

	for _, keyword := range keywords {
		candidates = append(candidates, d.weatherDemand(user, keyword, snap, city)...)
		candidates = append(candidates, d.eventDemand(user, keyword, city)...)
		candidates = append(candidates, d.socialTrendDemand(user, keyword, snap)...)
		candidates = append(candidates, d.competitorStockouts(user, keyword)...)
		candidates = append(candidates, d.festivalDemand(user, keyword, snap, now)...)
	}

	return candidates
}

// automaticWeatherSuggestions fires even when the user tracks nothing
// relevant: predicted rain or heat produces a keyword-less suggestion to
// start tracking the matching products. One suggestion per weather type
// per run.
func (d *DemandDetector) automaticWeatherSuggestions(user *models.User, keywords []string, snap *SignalSnapshot, city string) []types.AlertCandidate {
	var candidates []types.AlertCandidate

	for _, hour := range firstN(snap.Forecast, 6) {
		if hour.RainProbability > 0.7 && hour.HoursAhead <= 6 {
			if !anyKeywordMatches(keywords, rainKeywords) {
				rain := hour.RainProbability
				candidates = append(candidates, types.AlertCandidate{
					UserID:   user.ID,
					Type:     models.AlertWeatherOpportunity,
					Priority: models.PriorityHigh,
					Title:    "🌧️ Rain Alert: Consider Tracking Umbrella Products",
					Message: fmt.Sprintf("Rain predicted in %d hours (%.0f%% probability) in %s. "+
						"Add 'umbrella' or 'raincoat' to your tracked keywords to get automatic alerts!",
						hour.HoursAhead, rain*100, city),
					Context: types.WeatherContext{
						WeatherType:     "rain",
						HoursAhead:      hour.HoursAhead,
						RainProbability: &rain,
						City:            city,
						Suggestion:      "Add 'umbrella' keyword",
					},
					PredictedImpact: rain * 50,
					ConfidenceScore: rain,
				})
			}
			break // one rain suggestion per check
		}
	}

	for _, hour := range firstN(snap.Forecast, 12) {
		if hour.Temperature > 35 && hour.HoursAhead <= 12 {
			if !anyKeywordMatches(keywords, hotKeywords) {
				temp := hour.Temperature
				candidates = append(candidates, types.AlertCandidate{
					UserID:   user.ID,
					Type:     models.AlertWeatherOpportunity,
					Priority: models.PriorityMedium,
					Title:    "☀️ Hot Weather: Consider Tracking Summer Products",
					Message: fmt.Sprintf("High temperature (%.0f°C) expected in %d hours in %s. "+
						"Add 'cold drink' or 'ice cream' to your keywords for automatic alerts!",
						temp, hour.HoursAhead, city),
					Context: types.WeatherContext{
						WeatherType: "hot",
						HoursAhead:  hour.HoursAhead,
						Temperature: &temp,
						City:        city,
						Suggestion:  "Add 'cold drink' keyword",
					},
					PredictedImpact: 30,
					ConfidenceScore: 0.7,
				})
			}
			break
		}
	}

	return candidates
}

// weatherDemand fires the keyword-specific rain and heat rules.
func (d *DemandDetector) weatherDemand(user *models.User, keyword string, snap *SignalSnapshot, city string) []types.AlertCandidate {
	var candidates []types.AlertCandidate

	for _, hour := range firstN(snap.Forecast, 6) {
		if hour.RainProbability > 0.7 && hour.HoursAhead <= 6 && matchesAny(keyword, rainKeywords) {
			rain := hour.RainProbability
			candidates = append(candidates, types.AlertCandidate{
				UserID:   user.ID,
				Type:     models.AlertWeatherOpportunity,
				Priority: models.PriorityHigh,
				Title:    fmt.Sprintf("Rain Alert: %s Demand Spike Expected", keyword),
				Message: fmt.Sprintf("Rain predicted in %d hours (%.0f%% probability). "+
					"Expected spike in %s demand. Stock up now!",
					hour.HoursAhead, rain*100, keyword),
				Keyword: &keyword,
				Context: types.WeatherContext{
					WeatherType:     "rain",
					HoursAhead:      hour.HoursAhead,
					RainProbability: &rain,
					City:            city,
				},
				PredictedImpact: rain * 50,
				ConfidenceScore: rain,
			})
		}

		if hour.Temperature > 35 && hour.HoursAhead <= 12 && matchesAny(keyword, hotKeywords) {
			temp := hour.Temperature
			candidates = append(candidates, types.AlertCandidate{
				UserID:   user.ID,
				Type:     models.AlertWeatherOpportunity,
				Priority: models.PriorityMedium,
				Title:    fmt.Sprintf("Hot Weather: %s Demand Increase", keyword),
				Message: fmt.Sprintf("High temperature (%.0f°C) expected. "+
					"Increase visibility of %s products.", temp, keyword),
				Keyword: &keyword,
				Context: types.WeatherContext{
					WeatherType: "hot",
					HoursAhead:  hour.HoursAhead,
					Temperature: &temp,
					City:        city,
				},
				PredictedImpact: 30,
				ConfidenceScore: 0.7,
			})
		}
	}

	return candidates
}

// eventDemand is a placeholder heuristic: it fires whenever the keyword
// matches the event lexicon. Wiring a real event source (Eventbrite or
// similar) would replace the unconditional trigger with actual local event
// data.
func (d *DemandDetector) eventDemand(user *models.User, keyword, city string) []types.AlertCandidate {
	if !matchesAny(keyword, eventKeywords) {
		return nil
	}
	return []types.AlertCandidate{{
		UserID:   user.ID,
		Type:     models.AlertEventSpike,
		Priority: models.PriorityMedium,
		Title:    fmt.Sprintf("Local Event Detected: %s Opportunity", keyword),
		Message: fmt.Sprintf("Local events detected in %s. "+
			"Boost visibility of %s products.", city, keyword),
		Keyword: &keyword,
		Context: types.EventContext{
			EventType: "local_event",
			City:      city,
		},
		PredictedImpact: 25,
		ConfidenceScore: 0.6,
	}}
}

// socialTrendDemand fires when the keyword's normalized trend score
// crosses the high-trend threshold.
func (d *DemandDetector) socialTrendDemand(user *models.User, keyword string, snap *SignalSnapshot) []types.AlertCandidate {
	trend, ok := snap.TrendFor(keyword)
	if !ok || trend.Score <= 70 {
		return nil
	}
	return []types.AlertCandidate{{
		UserID:   user.ID,
		Type:     models.AlertSocialTrend,
		Priority: models.PriorityHigh,
		Title:    fmt.Sprintf("Trending: %s on Social Media", keyword),
		Message: fmt.Sprintf("%s is trending (score: %d/100). "+
			"Capitalize on this trend by increasing visibility and stock.", keyword, trend.Score),
		Keyword: &keyword,
		Context: types.TrendContext{
			TrendScore: trend.Score,
			Status:     trend.Status,
			Source:     trend.Source,
		},
		PredictedImpact: float64(trend.Score) * 0.8,
		ConfidenceScore: float64(trend.Score) / 100,
	}}
}

// competitorStockouts is a placeholder heuristic: it fires for every
// tracked keyword. A real competitor monitoring integration would gate it
// on observed out-of-stock signals.
func (d *DemandDetector) competitorStockouts(user *models.User, keyword string) []types.AlertCandidate {
	return []types.AlertCandidate{{
		UserID:   user.ID,
		Type:     models.AlertCompetitorStockout,
		Priority: models.PriorityHigh,
		Title:    fmt.Sprintf("Competitor Stockout: %s Opportunity", keyword),
		Message: fmt.Sprintf("Competitor stockout detected for %s. "+
			"Increase visibility of your in-stock products now!", keyword),
		Keyword: &keyword,
		Context: types.StockoutContext{
			CompetitorCount:   1,
			OpportunityWindow: "24 hours",
		},
		PredictedImpact: 40,
		ConfidenceScore: 0.7,
	}}
}

// festivalDemand fires when an upcoming holiday maps to a festival lexicon
// that intersects the keyword.
func (d *DemandDetector) festivalDemand(user *models.User, keyword string, snap *SignalSnapshot, now time.Time) []types.AlertCandidate {
	var candidates []types.AlertCandidate

	for _, holiday := range snap.Holidays {
		if holiday.Date.After(now.AddDate(0, 0, 7)) {
			continue // festival boost window is the next 7 days
		}
		festival, lexicon, ok := festivalFor(holiday.Name)
		if !ok || !matchesAny(keyword, lexicon) {
			continue
		}

		candidates = append(candidates, types.AlertCandidate{
			UserID:   user.ID,
			Type:     models.AlertFestivalBoost,
			Priority: models.PriorityHigh,
			Title:    fmt.Sprintf("%s: %s Demand Boost", holiday.Name, keyword),
			Message: fmt.Sprintf("%s is coming up. "+
				"Expected boost in %s demand. Stock and promote now!", holiday.Name, keyword),
			Keyword: &keyword,
			Context: types.FestivalContext{
				HolidayName:  holiday.Name,
				HolidayDate:  holiday.Date.Format("2006-01-02"),
				FestivalType: festival,
			},
			PredictedImpact: 60,
			ConfidenceScore: 0.8,
		})
	}

	return candidates
}

// industryTrendAlerts surfaces the top trending keywords within the user's
// market categories. Clothing trends get seasonal framing.
func (d *DemandDetector) industryTrendAlerts(user *models.User, keywords []string, snap *SignalSnapshot, city string) []types.AlertCandidate {
	var candidates []types.AlertCandidate

	tracked := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		tracked[strings.ToLower(kw)] = true
	}

	for industry, trends := range snap.IndustryTrends {
		for _, trend := range firstN(trends, 3) {
			if trend.Score <= 70 {
				continue
			}

			priority := models.PriorityMedium
			if trend.Score > 80 {
				priority = models.PriorityHigh
			}

			alreadyTracked := tracked[strings.ToLower(trend.Keyword)]
			title := fmt.Sprintf("%s Trend: %s is %s",
				helpers.TitleCase(industry), helpers.TitleCase(trend.Keyword), helpers.TitleCase(trend.Status))

			var msg strings.Builder
			fmt.Fprintf(&msg, "%s is currently %s in %s (trend score: %d/100). ",
				helpers.TitleCase(trend.Keyword), trend.Status, industry, trend.Score)
			if industry == "clothes" {
				if trend.Season != "" {
					fmt.Fprintf(&msg, "Perfect for %s season. ", trend.Season)
				}
				if trend.Category == "seasonal" {
					fmt.Fprintf(&msg, "Stock up on %s now to capture seasonal demand!", trend.Keyword)
				} else {
					fmt.Fprintf(&msg, "Consider adding %s to your inventory or boosting visibility!", trend.Keyword)
				}
				if !alreadyTracked {
					fmt.Fprintf(&msg, " Add '%s' to your tracked keywords for automatic alerts.", trend.Keyword)
				}
			} else {
				msg.WriteString("High demand expected. Consider boosting visibility or stock!")
				if !alreadyTracked {
					fmt.Fprintf(&msg, " Add '%s' to your tracked keywords.", trend.Keyword)
				}
			}

			suggestion := ""
			if !alreadyTracked {
				suggestion = fmt.Sprintf("Track '%s' keyword", trend.Keyword)
			}

			kw := trend.Keyword
			cat := industry
			candidates = append(candidates, types.AlertCandidate{
				UserID:   user.ID,
				Type:     models.AlertSocialTrend,
				Priority: priority,
				Title:    title,
				Message:  msg.String(),
				Keyword:  &kw,
				Category: &cat,
				Context: types.TrendContext{
					TrendScore: trend.Score,
					Status:     trend.Status,
					Source:     trend.Source,
					Industry:   industry,
					Location:   city,
					Suggestion: suggestion,
				},
				PredictedImpact: float64(trend.Score) * 0.5,
				ConfidenceScore: float64(trend.Score) / 100,
			})
		}
	}

	return candidates
}

// firstN returns at most the first n elements of s.
func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
