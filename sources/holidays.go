package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"bazaar-radar/cache"
)

const calendarificBaseURL = "https://calendarific.com/api/v2"

// HolidayClient fetches holiday calendars from Calendarific.
type HolidayClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	redis   *cache.RedisClient
	logger  *zap.SugaredLogger
}

// NewHolidayClient creates a new Calendarific adapter.
func NewHolidayClient(apiKey string, timeout time.Duration, redis *cache.RedisClient, logger *zap.SugaredLogger) *HolidayClient {
	return &HolidayClient{
		apiKey:  apiKey,
		baseURL: calendarificBaseURL,
		client:  newHTTPClient(timeout),
		redis:   redis,
		logger:  logger,
	}
}

type calendarificResponse struct {
	Response struct {
		Holidays []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Date        struct {
				ISO string `json:"iso"`
			} `json:"date"`
		} `json:"holidays"`
	} `json:"response"`
}

// yearHolidays fetches (or serves from cache) the full holiday calendar for
// a country and year.
func (c *HolidayClient) yearHolidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	if c.apiKey == "" {
		c.logger.Warnw("holiday fetch skipped", "country", country, "reason", "missing api key")
		return nil, ErrUnavailable
	}

	cacheKey := fmt.Sprintf("holidays:%s:%d", country, year)
	if c.redis != nil {
		var cached []Holiday
		if err := c.redis.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("country", country)
	params.Set("year", fmt.Sprintf("%d", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/holidays?"+params.Encode(), nil)
	if err != nil {
		return nil, ErrUnavailable
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warnw("holiday fetch failed", "country", country, "error", err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnw("holiday fetch failed", "country", country, "status", resp.StatusCode)
		return nil, ErrUnavailable
	}

	var payload calendarificResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warnw("holiday response unparseable", "country", country, "error", err)
		return nil, ErrUnavailable
	}

	holidays := make([]Holiday, 0, len(payload.Response.Holidays))
	for _, h := range payload.Response.Holidays {
		// ISO dates may carry a time component; keep the date part only.
		iso := strings.SplitN(h.Date.ISO, "T", 2)[0]
		date, err := time.Parse("2006-01-02", iso)
		if err != nil {
			continue
		}
		holidays = append(holidays, Holiday{
			Name:        h.Name,
			Date:        date,
			Description: h.Description,
		})
	}

	if c.redis != nil {
		_ = c.redis.Set(ctx, cacheKey, holidays, 24*time.Hour)
	}

	c.logger.Infow("holidays fetched", "country", country, "year", year, "count", len(holidays))
	return holidays, nil
}

// Upcoming returns holidays within the next daysAhead days, sorted by date.
func (c *HolidayClient) Upcoming(ctx context.Context, country string, daysAhead int) ([]Holiday, error) {
	today := time.Now().Truncate(24 * time.Hour)
	end := today.AddDate(0, 0, daysAhead)

	holidays, err := c.yearHolidays(ctx, country, today.Year())
	if err != nil {
		return nil, err
	}
	// A window near year end spills into the next calendar year.
	if end.Year() != today.Year() {
		if next, err := c.yearHolidays(ctx, country, end.Year()); err == nil {
			holidays = append(holidays, next...)
		}
	}

	var upcoming []Holiday
	for _, h := range holidays {
		if !h.Date.Before(today) && !h.Date.After(end) {
			upcoming = append(upcoming, h)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	return upcoming, nil
}
