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

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIClient maps article counts over a date range into a trend score.
// It serves as the fallback source when GDELT yields no genuine trend.
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	redis   *cache.RedisClient
	logger  *zap.SugaredLogger
}

// NewNewsAPIClient creates a new NewsAPI adapter.
func NewNewsAPIClient(apiKey string, timeout time.Duration, redis *cache.RedisClient, logger *zap.SugaredLogger) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		client:  newHTTPClient(timeout),
		redis:   redis,
		logger:  logger,
	}
}

type newsAPIResponse struct {
	TotalResults int `json:"totalResults"`
}

// TrendScore estimates a 0-100 trend score for a keyword from the article
// count published over the last lookback window.
func (c *NewsAPIClient) TrendScore(ctx context.Context, keyword, country string) (TrendScore, error) {
	if err := validateKeyword(keyword); err != nil {
		return TrendScore{}, err
	}
	if c.apiKey == "" {
		c.logger.Warnw("newsapi fetch skipped", "keyword", keyword, "reason", "missing api key")
		return TrendScore{}, ErrUnavailable
	}

	cacheKey := fmt.Sprintf("trend:newsapi:%s", strings.ToLower(keyword))
	if c.redis != nil {
		var cached TrendScore
		if err := c.redis.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	const lookbackDays = 7
	now := time.Now()

	params := url.Values{}
	params.Set("q", keyword)
	params.Set("from", now.AddDate(0, 0, -lookbackDays).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("sortBy", "popularity")
	params.Set("language", "en")
	params.Set("apiKey", c.apiKey)
	params.Set("pageSize", "100")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return TrendScore{}, ErrUnavailable
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warnw("newsapi fetch failed", "keyword", keyword, "error", err)
		return TrendScore{}, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnw("newsapi fetch failed", "keyword", keyword, "status", resp.StatusCode)
		return TrendScore{}, ErrUnavailable
	}

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warnw("newsapi response unparseable", "keyword", keyword, "error", err)
		return TrendScore{}, ErrUnavailable
	}

	score := articleCountScore(payload.TotalResults, lookbackDays)
	status := "low"
	if score > 50 {
		status = "trending"
	} else if score > 20 {
		status = "rising"
	}

	ts := TrendScore{Keyword: keyword, Score: score, Status: status, Source: "newsapi"}
	if c.redis != nil {
		_ = c.redis.Set(ctx, cacheKey, ts, 30*time.Minute)
	}

	c.logger.Infow("newsapi trend fetched", "keyword", keyword, "articles", payload.TotalResults, "score", score)
	return ts, nil
}

// articleCountScore maps articles-per-day into score bands. More coverage
// means a higher score, normalized for the lookback period.
func articleCountScore(articleCount, days int) int {
	perDay := float64(articleCount) / float64(days)

	switch {
	case perDay >= 50:
		return clampScore(min(100, 80+int((perDay-50)/2)))
	case perDay >= 20:
		return min(80, 50+int(perDay-20))
	case perDay >= 10:
		return min(50, 30+int((perDay-10)*2))
	case perDay >= 5:
		return min(30, 15+int((perDay-5)*3))
	case perDay >= 1:
		return min(15, 5+int(perDay*2))
	default:
		return max(0, int(perDay*5))
	}
}
