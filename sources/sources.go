// Package sources wraps the external data providers (weather, holidays,
// news/search volume) behind uniform adapters.
//
// Every adapter applies a bounded timeout and collapses timeouts, non-2xx
// responses, unparseable bodies and missing credentials into ErrUnavailable.
// Callers treat ErrUnavailable as "no signal": a failing provider never
// aborts a pipeline run.
package sources

import (
	"net/http"
	"time"

	"github.com/friendsofgo/errors"
)

var (
	// ErrUnavailable means the provider could not supply data right now.
	// The corresponding signal is simply absent downstream.
	ErrUnavailable = errors.New("source unavailable")

	// ErrKeywordTooShort is returned before any network call when the
	// query does not meet the provider's minimum input length.
	ErrKeywordTooShort = errors.New("keyword must be at least 3 characters")

	// ErrNoTrend means volume data was fetched but failed the
	// genuine-trend validity gate. Treated the same as ErrUnavailable by
	// the rule evaluators.
	ErrNoTrend = errors.New("no genuine trend in series")
)

// minKeywordLen is enforced before calling out, to avoid provider-side
// errors and wasted quota on junk queries.
const minKeywordLen = 3

// VolumePoint is one observation in a provider's volume time series.
type VolumePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// VolumeSeries is an ordered date -> volume series. All providers are
// normalized to this shape before trend extraction.
type VolumeSeries []VolumePoint

// TrendScore is a normalized 0-100 measure of search/news volume intensity
// for a keyword.
type TrendScore struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"trend_score"` // 0-100
	Status  string `json:"status"`      // "trending", "rising", "low"
	Source  string `json:"source"`      // "gdelt", "newsapi"
}

// HourlyForecast is one normalized hourly weather observation.
type HourlyForecast struct {
	HoursAhead      int       `json:"hours_ahead"`
	Temperature     float64   `json:"temperature"`      // celsius
	RainProbability float64   `json:"rain_probability"` // 0-1
	Timestamp       time.Time `json:"timestamp"`
}

// Forecast is the normalized hourly forecast for a city.
type Forecast struct {
	City  string           `json:"city"`
	Hours []HourlyForecast `json:"forecast"`
}

// Holiday is one upcoming public holiday or festival.
type Holiday struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func validateKeyword(keyword string) error {
	if len(keyword) < minKeywordLen {
		return ErrKeywordTooShort
	}
	return nil
}
