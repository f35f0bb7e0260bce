package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	models "bazaar-radar/database/models_pkg"
	"bazaar-radar/database/types"
)

// PromotionTimingAdvisor evaluates the timing rules: it answers "when to
// promote" rather than "what is in demand". Sentiment peaks use the trend
// score as a proxy for public sentiment; the remaining rules are purely
// clock and calendar driven.
type PromotionTimingAdvisor struct {
	logger *zap.SugaredLogger
}

// NewPromotionTimingAdvisor creates a promotion timing advisor.
func NewPromotionTimingAdvisor(logger *zap.SugaredLogger) *PromotionTimingAdvisor {
	return &PromotionTimingAdvisor{logger: logger}
}

// Advise runs all timing rules for one user at the given instant and
// returns the resulting alert candidates. now is injected so the clock
// windows are testable.
func (a *PromotionTimingAdvisor) Advise(user *models.User, keywords []string, snap *SignalSnapshot, now time.Time) []types.AlertCandidate {
	// Timing advice is only meaningful for users with something to promote.
	if len(keywords) == 0 {
		return nil
	}

	var candidates []types.AlertCandidate

	candidates = append(candidates, a.footfallWindow(user, now)...)
	candidates = append(candidates, a.competitorInactivity(user, now)...)

	for _, keyword := range keywords {
		candidates = append(candidates, a.sentimentPeak(user, keyword, snap)...)
		candidates = append(candidates, a.festivalPriming(user, keyword, snap, now)...)
	}

	return candidates
}

// sentimentPeak fires when the keyword's trend score, read as a sentiment
// proxy, crosses the positive-sentiment threshold.
func (a *PromotionTimingAdvisor) sentimentPeak(user *models.User, keyword string, snap *SignalSnapshot) []types.AlertCandidate {
	trend, ok := snap.TrendFor(keyword)
	if !ok || trend.Score <= 65 {
		return nil
	}
	return []types.AlertCandidate{{
		UserID:   user.ID,
		Type:     models.AlertSentimentPeak,
		Priority: models.PriorityHigh,
		Title:    fmt.Sprintf("Positive Sentiment Peak: %s", keyword),
		Message: fmt.Sprintf("Public sentiment around %s is peaking (score: %d/100). "+
			"Promotions launched now see up to 3x ROI. Recommended duration: 3-5 days.",
			keyword, trend.Score),
		Keyword: &keyword,
		Context: types.SentimentContext{
			SentimentScore:        trend.Score,
			RecommendedDuration:   "3-5 days",
			ExpectedROIMultiplier: 3.0,
		},
		PredictedImpact: float64(trend.Score) * 0.6,
		ConfidenceScore: float64(trend.Score) / 100,
	}}
}

// festivalPriming fires 3 to 7 days before an upcoming holiday whose
// lexicon covers the keyword, the window in which shoppers start planning
// festival purchases. Narrower than the festival boost rule, with
// prime-window framing.
func (a *PromotionTimingAdvisor) festivalPriming(user *models.User, keyword string, snap *SignalSnapshot, now time.Time) []types.AlertCandidate {
	var candidates []types.AlertCandidate

	for _, holiday := range snap.Holidays {
		daysUntil := int(holiday.Date.Sub(now).Hours() / 24)
		if daysUntil < 3 || daysUntil > 7 {
			continue
		}
		_, lexicon, ok := festivalFor(holiday.Name)
		if !ok || !matchesAny(keyword, lexicon) {
			continue
		}

		candidates = append(candidates, types.AlertCandidate{
			UserID:   user.ID,
			Type:     models.AlertPromotionTiming,
			Priority: models.PriorityHigh,
			Title:    fmt.Sprintf("Prime Window: %s Promotion Before %s", keyword, holiday.Name),
			Message: fmt.Sprintf("%s is %d days away. "+
				"Shoppers plan %s purchases now. Launch promotions today for maximum reach.",
				holiday.Name, daysUntil, keyword),
			Keyword: &keyword,
			Context: types.PrimingContext{
				HolidayName: holiday.Name,
				HolidayDate: holiday.Date.Format("2006-01-02"),
				DaysUntil:   daysUntil,
				WindowType:  "festival_priming",
			},
			PredictedImpact: 70,
			ConfidenceScore: 0.85,
		})
	}

	return candidates
}

// footfallWindow fires during the high-footfall hours: weekday mornings
// (10-12) and evenings (18-21), and weekend daytime (10-20). Windows are
// half-open [start, end).
func (a *PromotionTimingAdvisor) footfallWindow(user *models.User, now time.Time) []types.AlertCandidate {
	hour := now.Hour()
	weekday := now.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	windowType := ""
	switch {
	case isWeekend && hour >= 10 && hour < 20:
		windowType = "weekend_daytime"
	case !isWeekend && hour >= 10 && hour < 12:
		windowType = "weekday_morning"
	case !isWeekend && hour >= 18 && hour < 21:
		windowType = "weekday_evening"
	default:
		return nil
	}

	return []types.AlertCandidate{{
		UserID:   user.ID,
		Type:     models.AlertFootfallWindow,
		Priority: models.PriorityMedium,
		Title:    "High Footfall Window Active",
		Message: "Shopper activity is at its peak right now. " +
			"Flash promotions launched in this window get maximum visibility.",
		Context: types.FootfallContext{
			CurrentHour: hour,
			IsWeekend:   isWeekend,
			WindowType:  windowType,
		},
		PredictedImpact: 25,
		ConfidenceScore: 0.6,
	}}
}

// competitorInactivity fires during the late-night window (23:00-06:00)
// when most competitors are not actively promoting.
func (a *PromotionTimingAdvisor) competitorInactivity(user *models.User, now time.Time) []types.AlertCandidate {
	hour := now.Hour()
	if hour < 23 && hour >= 6 {
		return nil
	}

	return []types.AlertCandidate{{
		UserID:   user.ID,
		Type:     models.AlertPromotionTiming,
		Priority: models.PriorityMedium,
		Title:    "Low Competition Window",
		Message: "Competitor promotion activity is minimal right now. " +
			"Ads scheduled in this window face less bidding pressure and lower cost.",
		Context: types.InactivityContext{
			WindowType:  "late_night",
			CurrentHour: hour,
			Advantage:   "lower ad costs, less competition",
		},
		PredictedImpact: 20,
		ConfidenceScore: 0.5,
	}}
}
