package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"bazaar-radar/cache"
	"bazaar-radar/helpers"
)

const openWeatherBaseURL = "http://api.openweathermap.org/data/2.5"

// WeatherClient fetches hourly forecasts from OpenWeatherMap.
type WeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	redis   *cache.RedisClient
	logger  *zap.SugaredLogger
}

// NewWeatherClient creates a new OpenWeatherMap adapter. An empty apiKey is
// allowed; every fetch then reports ErrUnavailable.
func NewWeatherClient(apiKey string, timeout time.Duration, redis *cache.RedisClient, logger *zap.SugaredLogger) *WeatherClient {
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		client:  newHTTPClient(timeout),
		redis:   redis,
		logger:  logger,
	}
}

// openWeatherForecastResponse mirrors the provider's 3-hour-interval
// forecast payload. Only the fields we read are declared.
type openWeatherForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			ID int `json:"id"`
		} `json:"weather"`
		Rain *struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

// Forecast returns the hourly forecast for a city up to hoursAhead hours.
func (c *WeatherClient) Forecast(ctx context.Context, city, country string, hoursAhead int) (*Forecast, error) {
	if c.apiKey == "" {
		c.logger.Warnw("weather fetch skipped", "city", city, "reason", "missing api key")
		return nil, ErrUnavailable
	}

	cacheKey := fmt.Sprintf("weather:%s:%s", city, country)
	if c.redis != nil {
		var cached Forecast
		if err := c.redis.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s,%s", city, country))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, ErrUnavailable
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warnw("weather fetch failed", "city", city, "error", err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnw("weather fetch failed", "city", city, "status", resp.StatusCode)
		return nil, ErrUnavailable
	}

	var payload openWeatherForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warnw("weather response unparseable", "city", city, "error", err)
		return nil, ErrUnavailable
	}
	if len(payload.List) == 0 {
		c.logger.Warnw("weather fetch returned no forecast", "city", city)
		return nil, ErrUnavailable
	}

	forecast := &Forecast{City: city}
	now := time.Now()
	for _, entry := range payload.List {
		at := time.Unix(entry.Dt, 0)
		hoursDiff := at.Sub(now).Hours()
		if hoursDiff > float64(hoursAhead) {
			break
		}

		rainProb := 0.0
		if entry.Rain != nil {
			// Normalize the 3h rain volume into a pseudo-probability.
			rainProb = helpers.ClampF(entry.Rain.ThreeHours/3.0, 0, 1)
		} else if len(entry.Weather) > 0 {
			// Thunderstorm/drizzle/rain/snow condition codes.
			if id := entry.Weather[0].ID; id >= 200 && id < 600 {
				rainProb = 0.5
			}
		}

		forecast.Hours = append(forecast.Hours, HourlyForecast{
			HoursAhead:      int(hoursDiff),
			Temperature:     entry.Main.Temp,
			RainProbability: rainProb,
			Timestamp:       at,
		})
	}

	if c.redis != nil {
		_ = c.redis.Set(ctx, cacheKey, forecast, 10*time.Minute)
	}

	c.logger.Infow("weather fetched", "city", city, "hours", len(forecast.Hours))
	return forecast, nil
}
