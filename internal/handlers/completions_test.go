package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/biohackher/vitality-api/internal/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestToggleProtocol_TogglesAndEnqueues(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	itemID := uuid.New()
	toggler := &fakeToggler{result: true}
	q := &fakeJobQueue{}
	inv := &fakeInvalidator{}
	h := NewCompletionHandler(toggler, inv, q, zap.NewNop())

	body := strings.NewReader(`{"protocol_item_id":"` + itemID.String() + `","date":"2026-09-02"}`)
	req := httptest.NewRequest("POST", "/protocol", body)
	req = authedRequest(req, userID)
	rec := httptest.NewRecorder()

	h.ToggleProtocol(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var resp ToggleResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Completed {
		t.Error("expected completed = true")
	}
	if resp.ItemID != itemID.String() {
		t.Errorf("item id = %s", resp.ItemID)
	}

	jobs := q.enqueued()
	if len(jobs) != 1 {
		t.Fatalf("enqueued jobs = %d, want 1", len(jobs))
	}
	if jobs[0].Reason != queue.ReasonProtocolCompletion {
		t.Errorf("job reason = %s", jobs[0].Reason)
	}
	if jobs[0].NotBefore == nil {
		t.Error("expected debounced job to carry NotBefore")
	}

	// Snapshot invalidation covers the day and the enclosing week
	if len(inv.calls) != 1 || inv.calls[0] != "2026-09-02/2026-08-31" {
		t.Errorf("invalidations = %v", inv.calls)
	}
}

func TestToggleProtocol_InvalidItemID(t *testing.T) {
	t.Parallel()

	h := NewCompletionHandler(&fakeToggler{}, nil, nil, zap.NewNop())

	body := strings.NewReader(`{"protocol_item_id":"not-a-uuid","date":"2026-09-02"}`)
	req := httptest.NewRequest("POST", "/protocol", body)
	req = authedRequest(req, uuid.New())
	rec := httptest.NewRecorder()

	h.ToggleProtocol(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestToggleMeal_ValidatesMealType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mealType string
		want     int
	}{
		{"breakfast", "breakfast", http.StatusOK},
		{"dinner", "dinner", http.StatusOK},
		{"snack rejected", "snack", http.StatusBadRequest},
		{"empty rejected", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewCompletionHandler(&fakeToggler{result: true}, nil, nil, zap.NewNop())

			body := strings.NewReader(`{"meal_type":"` + tt.mealType + `","date":"2026-09-02"}`)
			req := httptest.NewRequest("POST", "/meal", body)
			req = authedRequest(req, uuid.New())
			rec := httptest.NewRecorder()

			h.ToggleMeal(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestToggleEssential_ValidatesCatalogID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		essentialID string
		want        int
	}{
		{"hydration", "hydration", http.StatusOK},
		{"morning sunlight", "morning_sunlight", http.StatusOK},
		{"unknown rejected", "cold_plunge", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewCompletionHandler(&fakeToggler{result: true}, nil, nil, zap.NewNop())

			body := strings.NewReader(`{"essential_id":"` + tt.essentialID + `","date":"2026-09-02"}`)
			req := httptest.NewRequest("POST", "/essential", body)
			req = authedRequest(req, uuid.New())
			rec := httptest.NewRecorder()

			h.ToggleEssential(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestToggleEssential_RequiresUser(t *testing.T) {
	t.Parallel()

	h := NewCompletionHandler(&fakeToggler{}, nil, nil, zap.NewNop())

	body := strings.NewReader(`{"essential_id":"hydration","date":"2026-09-02"}`)
	req := httptest.NewRequest("POST", "/essential", body)
	rec := httptest.NewRecorder()

	h.ToggleEssential(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestToggleMeal_UntoggleReportsFalse(t *testing.T) {
	t.Parallel()

	h := NewCompletionHandler(&fakeToggler{result: false}, nil, nil, zap.NewNop())

	body := strings.NewReader(`{"meal_type":"lunch","date":"2026-09-02"}`)
	req := httptest.NewRequest("POST", "/meal", body)
	req = authedRequest(req, uuid.New())
	rec := httptest.NewRecorder()

	h.ToggleMeal(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var resp ToggleResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Completed {
		t.Error("expected completed = false after untoggle")
	}
}
