package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bazaar-radar/database"
	models "bazaar-radar/database/models_pkg"
	"bazaar-radar/logging"
)

type fakeWebhookRegistry struct {
	hooks  []models.AlertWebhook
	nextID uint
}

func (f *fakeWebhookRegistry) ListWebhooks(ctx context.Context, userID uint) ([]models.AlertWebhook, error) {
	var out []models.AlertWebhook
	for _, h := range f.hooks {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeWebhookRegistry) AddWebhook(ctx context.Context, hook *models.AlertWebhook) error {
	f.nextID++
	hook.ID = f.nextID
	f.hooks = append(f.hooks, *hook)
	return nil
}

func (f *fakeWebhookRegistry) DeleteWebhook(ctx context.Context, userID, hookID uint) error {
	for i, h := range f.hooks {
		if h.ID == hookID && h.UserID == userID {
			f.hooks = append(f.hooks[:i], f.hooks[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

type fakeInvalidator struct {
	userIDs []uint
}

func (f *fakeInvalidator) InvalidateCache(ctx context.Context, userID uint) {
	f.userIDs = append(f.userIDs, userID)
}

func newWebhookTestServer() (*Server, *fakeWebhookRegistry, *fakeInvalidator) {
	registry := &fakeWebhookRegistry{}
	invalidator := &fakeInvalidator{}
	s := &Server{
		webhooks:  registry,
		hookCache: invalidator,
		logger:    logging.NewNop(),
	}
	return s, registry, invalidator
}

func TestAddWebhookInvalidatesHookCache(t *testing.T) {
	s, registry, invalidator := newWebhookTestServer()

	body := `{"user_id": 7, "name": "ops", "url": "https://hooks.example.com/alerts"}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleAddWebhook(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	var created models.AlertWebhook
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == 0 || created.UserID != 7 || !created.IsActive {
		t.Errorf("created = %+v", created)
	}
	if len(registry.hooks) != 1 {
		t.Fatalf("stored hooks = %d, want 1", len(registry.hooks))
	}
	if len(invalidator.userIDs) != 1 || invalidator.userIDs[0] != 7 {
		t.Errorf("invalidated users = %v, want [7]", invalidator.userIDs)
	}
}

func TestAddWebhookRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing url", `{"user_id": 7, "name": "ops"}`},
		{"missing user", `{"url": "https://hooks.example.com/alerts"}`},
		{"non-http scheme", `{"user_id": 7, "url": "ftp://hooks.example.com"}`},
		{"not a url", `{"user_id": 7, "url": "not a url"}`},
		{"malformed json", `{"user_id": `},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, registry, invalidator := newWebhookTestServer()
			req := httptest.NewRequest(http.MethodPost, "/api/webhooks", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			s.handleAddWebhook(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if len(registry.hooks) != 0 {
				t.Errorf("stored hooks = %d, want 0", len(registry.hooks))
			}
			if len(invalidator.userIDs) != 0 {
				t.Errorf("cache invalidated on rejected input")
			}
		})
	}
}

func TestDeleteWebhook(t *testing.T) {
	s, registry, invalidator := newWebhookTestServer()
	registry.hooks = []models.AlertWebhook{
		{ID: 5, UserID: 7, URL: "https://hooks.example.com/alerts", IsActive: true},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/webhooks/5?user_id=7", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()
	s.handleDeleteWebhook(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(registry.hooks) != 0 {
		t.Errorf("stored hooks = %d, want 0", len(registry.hooks))
	}
	if len(invalidator.userIDs) != 1 || invalidator.userIDs[0] != 7 {
		t.Errorf("invalidated users = %v, want [7]", invalidator.userIDs)
	}
}

func TestDeleteWebhookNotFound(t *testing.T) {
	s, _, invalidator := newWebhookTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/api/webhooks/99?user_id=7", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	s.handleDeleteWebhook(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if len(invalidator.userIDs) != 0 {
		t.Errorf("cache invalidated for a missing webhook")
	}
}

func TestListWebhooksScopedToUser(t *testing.T) {
	s, registry, _ := newWebhookTestServer()
	registry.hooks = []models.AlertWebhook{
		{ID: 1, UserID: 7, URL: "https://hooks.example.com/a"},
		{ID: 2, UserID: 8, URL: "https://hooks.example.com/b"},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks?user_id=7", nil)
	rec := httptest.NewRecorder()
	s.handleListWebhooks(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var hooks []models.AlertWebhook
	if err := json.NewDecoder(rec.Body).Decode(&hooks); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(hooks) != 1 || hooks[0].ID != 1 {
		t.Errorf("hooks = %+v, want only user 7's hook", hooks)
	}

	// Missing user_id is rejected.
	rec = httptest.NewRecorder()
	s.handleListWebhooks(rec, httptest.NewRequest(http.MethodGet, "/api/webhooks", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
