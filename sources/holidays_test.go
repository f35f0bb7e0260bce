package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/friendsofgo/errors"

	"bazaar-radar/logging"
)

func TestUpcomingHolidaysWindow(t *testing.T) {
	now := time.Now()
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("country"); got != "IN" {
			t.Errorf("country = %q, want IN", got)
		}
		// Deliberately out of date order; one ISO date carries a time part.
		fmt.Fprintf(w, `{"response":{"holidays":[
			{"name":"Far Future Day","date":{"iso":"%s"}},
			{"name":"Ten Days Out","date":{"iso":"%sT00:00:00"}},
			{"name":"Tomorrow Fest","description":"local festival","date":{"iso":"%s"}},
			{"name":"Long Gone","date":{"iso":"%s"}}
		]}}`, day(30), day(10), day(1), day(-5))
	}))
	defer server.Close()

	c := NewHolidayClient("test-key", 5*time.Second, nil, logging.NewNop())
	c.baseURL = server.URL

	upcoming, err := c.Upcoming(context.Background(), "IN", 14)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	// Near year end the window spans two calendar years and the fake server
	// answers for both, so compare names rather than raw counts.
	names := make(map[string]bool)
	for _, h := range upcoming {
		names[h.Name] = true
	}
	if len(names) != 2 || !names["Tomorrow Fest"] || !names["Ten Days Out"] {
		t.Fatalf("upcoming = %v, want only the two holidays inside the 14-day window", names)
	}
	if upcoming[0].Name != "Tomorrow Fest" {
		t.Errorf("first = %q, want the soonest holiday", upcoming[0].Name)
	}
}

func TestUpcomingHolidaysMissingKey(t *testing.T) {
	c := NewHolidayClient("", 5*time.Second, nil, logging.NewNop())
	_, err := c.Upcoming(context.Background(), "IN", 14)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
