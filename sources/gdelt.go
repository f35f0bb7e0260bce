package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"bazaar-radar/cache"
)

const gdeltBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// keywordNormalizations widens queries that are too narrow for news volume
// searches as typed.
var keywordNormalizations = map[string]string{
	"cake":    "cake dessert",
	"laptop":  "laptop computer",
	"phone":   "smartphone",
	"tv":      "television",
	"t-shirt": "tshirt",
	"t shirt": "tshirt",
}

// GDELTClient fetches news volume time series from the GDELT doc API.
// GDELT needs no credentials, which makes it the primary trend source.
type GDELTClient struct {
	baseURL string
	client  *http.Client
	redis   *cache.RedisClient
	logger  *zap.SugaredLogger
}

// NewGDELTClient creates a new GDELT adapter.
func NewGDELTClient(timeout time.Duration, redis *cache.RedisClient, logger *zap.SugaredLogger) *GDELTClient {
	return &GDELTClient{
		baseURL: gdeltBaseURL,
		client:  newHTTPClient(timeout),
		redis:   redis,
		logger:  logger,
	}
}

// gdeltTimelineResponse mirrors mode=timelinevolinfo output.
type gdeltTimelineResponse struct {
	Timeline []struct {
		Data []struct {
			Date  string  `json:"date"`
			Value float64 `json:"value"`
		} `json:"data"`
	} `json:"timeline"`
}

// FetchVolume returns the raw news volume series for a keyword. Keywords
// under 3 characters are rejected before any network call.
func (c *GDELTClient) FetchVolume(ctx context.Context, keyword, country string) (VolumeSeries, error) {
	if err := validateKeyword(keyword); err != nil {
		return nil, err
	}

	normalized := keyword
	if mapped, ok := keywordNormalizations[strings.ToLower(strings.TrimSpace(keyword))]; ok {
		normalized = mapped
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("%q AND %s", normalized, country))
	params.Set("mode", "timelinevolinfo")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, ErrUnavailable
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warnw("gdelt fetch failed", "keyword", keyword, "error", err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnw("gdelt fetch failed", "keyword", keyword, "status", resp.StatusCode)
		return nil, ErrUnavailable
	}

	var payload gdeltTimelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warnw("gdelt response unparseable", "keyword", keyword, "error", err)
		return nil, ErrUnavailable
	}
	if len(payload.Timeline) == 0 {
		c.logger.Infow("gdelt returned empty timeline", "keyword", keyword)
		return nil, ErrUnavailable
	}

	series := make(VolumeSeries, 0, len(payload.Timeline[0].Data))
	for _, p := range payload.Timeline[0].Data {
		series = append(series, VolumePoint{Date: p.Date, Value: p.Value})
	}

	c.logger.Infow("gdelt volume fetched", "keyword", keyword, "points", len(series))
	return series, nil
}

// TrendScore fetches the volume series for a keyword and extracts a
// normalized trend score. ErrNoTrend means data arrived but failed the
// genuine-trend gate.
func (c *GDELTClient) TrendScore(ctx context.Context, keyword, country string) (TrendScore, error) {
	cacheKey := fmt.Sprintf("trend:gdelt:%s:%s", strings.ToLower(keyword), country)
	if c.redis != nil {
		var cached TrendScore
		if err := c.redis.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	series, err := c.FetchVolume(ctx, keyword, country)
	if err != nil {
		return TrendScore{}, err
	}

	score, status, ok := ExtractTrendScore(series)
	if !ok {
		c.logger.Infow("gdelt series failed trend gate", "keyword", keyword, "points", len(series))
		return TrendScore{}, ErrNoTrend
	}

	ts := TrendScore{Keyword: keyword, Score: score, Status: status, Source: "gdelt"}
	if c.redis != nil {
		_ = c.redis.Set(ctx, cacheKey, ts, 30*time.Minute)
	}
	return ts, nil
}
