package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/friendsofgo/errors"

	"bazaar-radar/logging"
)

func newTestGDELTClient(serverURL string) *GDELTClient {
	c := NewGDELTClient(5*time.Second, nil, logging.NewNop())
	c.baseURL = serverURL
	return c
}

func gdeltBody(values ...float64) string {
	points := make([]string, 0, len(values))
	for i, v := range values {
		points = append(points, fmt.Sprintf(`{"date":"2026-08-%02d","value":%g}`, i+1, v))
	}
	return fmt.Sprintf(`{"timeline":[{"data":[%s]}]}`, strings.Join(points, ","))
}

func TestGDELTShortKeywordRejectedBeforeFetch(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := newTestGDELTClient(server.URL)
	_, err := c.TrendScore(context.Background(), "tv", "IN")
	if !errors.Is(err, ErrKeywordTooShort) {
		t.Errorf("err = %v, want ErrKeywordTooShort", err)
	}
	if called {
		t.Error("short keywords must not hit the network")
	}
}

func TestGDELTKeywordNormalization(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("query")
		fmt.Fprint(w, gdeltBody(0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4))
	}))
	defer server.Close()

	c := newTestGDELTClient(server.URL)
	if _, err := c.TrendScore(context.Background(), "cake", "IN"); err != nil {
		t.Fatalf("TrendScore: %v", err)
	}
	if !strings.Contains(query, "cake dessert") {
		t.Errorf("query = %q, want the widened form of cake", query)
	}
}

func TestGDELTTrendScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, gdeltBody(0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4))
	}))
	defer server.Close()

	c := newTestGDELTClient(server.URL)
	ts, err := c.TrendScore(context.Background(), "umbrella", "IN")
	if err != nil {
		t.Fatalf("TrendScore: %v", err)
	}
	if ts.Score != 60 {
		t.Errorf("score = %d, want 60", ts.Score)
	}
	if ts.Status != "trending" {
		t.Errorf("status = %q, want trending", ts.Status)
	}
	if ts.Source != "gdelt" {
		t.Errorf("source = %q, want gdelt", ts.Source)
	}
}

func TestGDELTNoGenuineTrend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Peak stays below the volume floor.
		fmt.Fprint(w, gdeltBody(0.01, 0.02, 0.02, 0.01, 0.02, 0.02, 0.01, 0.02))
	}))
	defer server.Close()

	c := newTestGDELTClient(server.URL)
	_, err := c.TrendScore(context.Background(), "umbrella", "IN")
	if !errors.Is(err, ErrNoTrend) {
		t.Errorf("err = %v, want ErrNoTrend", err)
	}
}

func TestGDELTProviderErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"timeline":[`)
		}},
		{"empty timeline", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"timeline":[]}`)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			c := newTestGDELTClient(server.URL)
			_, err := c.TrendScore(context.Background(), "umbrella", "IN")
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("err = %v, want ErrUnavailable", err)
			}
		})
	}
}
