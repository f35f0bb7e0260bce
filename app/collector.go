package app

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/friendsofgo/errors"
	"go.uber.org/zap"

	models "bazaar-radar/database/models_pkg"
	"bazaar-radar/database/types"
	"bazaar-radar/sources"
)

// Forecast/holiday horizons used by the rule evaluators.
const (
	forecastHoursAhead = 24
	holidayDaysAhead   = 14
	// trendWorkers bounds concurrent trend lookups; adapters are
	// independent and blocking, nothing downstream races their outputs.
	trendWorkers = 4
	// industryScanLimit caps how many lexicon keywords are scanned per
	// category in one run.
	industryScanLimit = 15
)

// WeatherSource supplies hourly forecasts for a city.
type WeatherSource interface {
	Forecast(ctx context.Context, city, country string, hoursAhead int) (*sources.Forecast, error)
}

// HolidaySource supplies upcoming holidays for a country.
type HolidaySource interface {
	Upcoming(ctx context.Context, country string, daysAhead int) ([]sources.Holiday, error)
}

// TrendSource supplies a normalized trend score for a keyword.
type TrendSource interface {
	TrendScore(ctx context.Context, keyword, country string) (sources.TrendScore, error)
}

// SignalSnapshot bundles every normalized signal observed for one user in
// one pipeline run. Snapshots are ephemeral: computed fresh per run and
// discarded when the run ends.
type SignalSnapshot struct {
	Forecast       []sources.HourlyForecast
	Holidays       []sources.Holiday
	Trends         map[string]sources.TrendScore    // keyed by lowercase keyword
	IndustryTrends map[string][]types.IndustryTrend // keyed by market category
}

// TrendFor returns the trend score collected for a keyword, if any.
func (s *SignalSnapshot) TrendFor(keyword string) (sources.TrendScore, bool) {
	ts, ok := s.Trends[strings.ToLower(keyword)]
	return ts, ok
}

// Collector fans the per-user signal fetches out across the source
// adapters and gathers the results into a snapshot. A failing source leaves
// its slot empty; it never fails the collection.
type Collector struct {
	weather  WeatherSource
	holidays HolidaySource
	trends   TrendSource
	fallback TrendSource // consulted when the primary trend source has no signal
	logger   *zap.SugaredLogger
}

// NewCollector creates a signal collector. fallback may be nil.
func NewCollector(weather WeatherSource, holidays HolidaySource, trends, fallback TrendSource, logger *zap.SugaredLogger) *Collector {
	return &Collector{
		weather:  weather,
		holidays: holidays,
		trends:   trends,
		fallback: fallback,
		logger:   logger,
	}
}

// Collect gathers all signals for one user: the city forecast, the holiday
// window, a trend score per tracked keyword and the industry trend scan for
// the user's market categories.
func (c *Collector) Collect(ctx context.Context, user *models.User, keywords []string) *SignalSnapshot {
	snap := &SignalSnapshot{
		Trends:         make(map[string]sources.TrendScore),
		IndustryTrends: make(map[string][]types.IndustryTrend),
	}

	city := user.City()
	country := user.Country()

	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		forecast, err := c.weather.Forecast(ctx, city, country, forecastHoursAhead)
		if err != nil {
			return // no weather signal this run
		}
		mu.Lock()
		snap.Forecast = forecast.Hours
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		holidays, err := c.holidays.Upcoming(ctx, country, holidayDaysAhead)
		if err != nil {
			return
		}
		mu.Lock()
		snap.Holidays = holidays
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		trends := c.collectTrends(ctx, keywords, country)
		mu.Lock()
		snap.Trends = trends
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		industry := c.collectIndustryTrends(ctx, user.MarketCategories, country)
		mu.Lock()
		snap.IndustryTrends = industry
		mu.Unlock()
	}()

	wg.Wait()
	return snap
}

// ScanIndustry runs the industry trend scan for a single market category
// on demand. Unknown categories are an error.
func (c *Collector) ScanIndustry(ctx context.Context, industry, country string) ([]types.IndustryTrend, error) {
	results := c.collectIndustryTrends(ctx, []string{industry}, country)
	trends, ok := results[strings.ToLower(industry)]
	if !ok {
		return nil, errors.Errorf("unknown industry %q", industry)
	}
	return trends, nil
}

// TrendScore resolves a single keyword on demand through the same
// primary-then-fallback chain the pipeline uses. The Collector itself
// satisfies TrendSource for callers outside the pipeline.
func (c *Collector) TrendScore(ctx context.Context, keyword, country string) (sources.TrendScore, error) {
	return c.resolveTrend(ctx, keyword, country)
}

// resolveTrend asks the primary trend source first and falls back when it
// reports no signal. Invalid input (keyword too short) is not retried.
func (c *Collector) resolveTrend(ctx context.Context, keyword, country string) (sources.TrendScore, error) {
	ts, err := c.trends.TrendScore(ctx, keyword, country)
	if err == nil {
		return ts, nil
	}
	if errors.Is(err, sources.ErrKeywordTooShort) || c.fallback == nil {
		return sources.TrendScore{}, err
	}
	return c.fallback.TrendScore(ctx, keyword, country)
}

// collectTrends resolves trend scores for the tracked keywords with a
// bounded worker pool.
func (c *Collector) collectTrends(ctx context.Context, keywords []string, country string) map[string]sources.TrendScore {
	results := make(map[string]sources.TrendScore)
	if len(keywords) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, trendWorkers)

	for _, keyword := range keywords {
		wg.Add(1)
		go func(kw string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ts, err := c.resolveTrend(ctx, kw, country)
			if err != nil {
				return
			}
			mu.Lock()
			results[strings.ToLower(kw)] = ts
			mu.Unlock()
		}(keyword)
	}
	wg.Wait()
	return results
}

// collectIndustryTrends scans each market category's lexicon for trending
// keywords, strongest first. Clothing gets the seasonal treatment.
func (c *Collector) collectIndustryTrends(ctx context.Context, categories []string, country string) map[string][]types.IndustryTrend {
	results := make(map[string][]types.IndustryTrend)

	for _, category := range categories {
		cat := strings.ToLower(category)
		scan := industryKeywords[cat]
		season := ""
		seasonal := map[string]bool{}

		if cat == "clothes" {
			season = currentSeason()
			for _, kw := range seasonalClothingKeywords[season] {
				seasonal[kw] = true
			}
			scan = append(append([]string{}, seasonalClothingKeywords[season]...), scan...)
		}
		if len(scan) == 0 {
			c.logger.Warnw("no lexicon for market category", "category", category)
			continue
		}
		if len(scan) > industryScanLimit {
			scan = scan[:industryScanLimit]
		}

		var mu sync.Mutex
		var wg sync.WaitGroup
		sem := make(chan struct{}, trendWorkers)
		var trends []types.IndustryTrend

		for _, keyword := range scan {
			wg.Add(1)
			go func(kw string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				ts, err := c.resolveTrend(ctx, kw, country)
				if err != nil || ts.Score <= 10 {
					return
				}
				trend := types.IndustryTrend{
					Keyword:  kw,
					Score:    ts.Score,
					Status:   ts.Status,
					Industry: cat,
					Source:   ts.Source,
				}
				if cat == "clothes" {
					if seasonal[kw] {
						trend.Category = "seasonal"
						trend.Season = season
					} else {
						trend.Category = "general"
					}
				}
				mu.Lock()
				trends = append(trends, trend)
				mu.Unlock()
			}(keyword)
		}
		wg.Wait()

		sort.Slice(trends, func(i, j int) bool { return trends[i].Score > trends[j].Score })
		results[cat] = trends
	}
	return results
}
