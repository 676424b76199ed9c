package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stridelabs/coach-gateway/internal/icu"
	"go.uber.org/zap"
)

// fakeCreds is a CredentialResolver fake. calls counts Resolve invocations
// so tests can assert validation ran before credential resolution.
type fakeCreds struct {
	creds *icu.Credentials
	err   error
	calls int
}

func (f *fakeCreds) Resolve(_ context.Context, _ string) (*icu.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

func noCreds() *fakeCreds { return &fakeCreds{} }

func dataOf(t *testing.T, res Result) map[string]any {
	t.Helper()
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	data, ok := res.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected map data, got %T", res.Data)
	}
	return data
}

// --- get_activities ---

func TestActivitiesTool_MockFilterAndLimit(t *testing.T) {
	fixedNow(t, "2026-06-15")
	tool := NewActivitiesTool(noCreds(), icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{
		"limit":         2.0,
		"activity_type": "Run",
	})

	data := dataOf(t, res)
	if data["source"] != "mock" {
		t.Errorf("expected mock source, got %v", data["source"])
	}
	activities := data["activities"].([]icu.Activity)
	if len(activities) != 2 {
		t.Fatalf("expected exactly 2 activities, got %d", len(activities))
	}
	for _, a := range activities {
		if a.Type != "Run" {
			t.Errorf("type filter leaked a %s", a.Type)
		}
	}
	if data["count"] != 2 {
		t.Errorf("count should match the filtered list, got %v", data["count"])
	}
}

func TestActivitiesTool_LimitClamped(t *testing.T) {
	fixedNow(t, "2026-06-15")
	tool := NewActivitiesTool(noCreds(), icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{"limit": 500.0})
	data := dataOf(t, res)
	if data["count"].(int) > 100 {
		t.Errorf("limit should clamp to 100, got %v", data["count"])
	}

	res = tool.Handle(context.Background(), "ath_1", map[string]any{"limit": -1.0})
	if res.Success || res.Code != CodeInvalidInput {
		t.Errorf("negative limit should be INVALID_INPUT, got %+v", res)
	}
}

func TestActivitiesTool_SchemaRejectsWrongType(t *testing.T) {
	tool := NewActivitiesTool(noCreds(), icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{"limit": "two"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Code != CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", res.Code)
	}
}

func TestActivitiesTool_VaultErrorIsNotMockFallback(t *testing.T) {
	fixedNow(t, "2026-06-15")
	resolver := &fakeCreds{err: errors.New("credential row corrupted")}
	tool := NewActivitiesTool(resolver, icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{})
	if res.Success {
		t.Fatal("vault failure must not silently fall back to mock data")
	}
	if res.Code != "GET_ACTIVITIES_ERROR" {
		t.Errorf("expected GET_ACTIVITIES_ERROR, got %s", res.Code)
	}
}

func TestActivitiesTool_LiveFilterParity(t *testing.T) {
	fixedNow(t, "2026-06-15")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/activities") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "i1", "name": "Morning Run", "type": "Run", "start_date_local": "2026-06-14T07:00:00", "moving_time": 3000, "icu_training_load": 55.0},
			{"id": "i2", "name": "Spin", "type": "Ride", "start_date_local": "2026-06-13T07:00:00", "moving_time": 3600, "icu_training_load": 60.0},
			{"id": "i3", "name": "Tempo Run", "type": "Run", "start_date_local": "2026-06-12T07:00:00", "moving_time": 2700, "icu_training_load": 68.0},
		})
	}))
	defer srv.Close()

	resolver := &fakeCreds{creds: &icu.Credentials{ExternalAthleteID: "i12345", APIKey: "secret-key"}}
	tool := NewActivitiesTool(resolver, icu.NewClient(srv.URL, zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{
		"activity_type": "run",
		"limit":         1.0,
	})
	data := dataOf(t, res)
	if data["source"] != "intervals.icu" {
		t.Errorf("expected live source, got %v", data["source"])
	}
	activities := data["activities"].([]icu.Activity)
	if len(activities) != 1 || activities[0].ID != "i1" {
		t.Errorf("live path should share filter semantics with mock, got %v", activities)
	}
}

// --- get_wellness_data ---

func TestWellnessTool_MockDailyRecords(t *testing.T) {
	fixedNow(t, "2026-06-15")
	tool := NewWellnessTool(noCreds(), icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{
		"oldest": "2026-06-01",
		"newest": "2026-06-05",
	})
	data := dataOf(t, res)
	records := data["wellness"].([]icu.Wellness)
	if len(records) != 5 {
		t.Fatalf("expected one record per day, got %d", len(records))
	}
	if records[0].Date != "2026-06-01" || records[4].Date != "2026-06-05" {
		t.Errorf("records should cover the range in order: %v .. %v", records[0].Date, records[4].Date)
	}
	if records[0].CTL == nil || records[0].ATL == nil {
		t.Error("mock wellness should carry fitness and fatigue values")
	}

	// Determinism: same request, same response.
	again := tool.Handle(context.Background(), "ath_1", map[string]any{
		"oldest": "2026-06-01",
		"newest": "2026-06-05",
	})
	againRecords := dataOf(t, again)["wellness"].([]icu.Wellness)
	if *againRecords[2].CTL != *records[2].CTL {
		t.Error("mock data should be deterministic for the same range")
	}
}

// --- get_events ---

func TestGetEventsTool_MockTypeFilter(t *testing.T) {
	fixedNow(t, "2026-06-15")
	tool := NewGetEventsTool(noCreds(), icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{
		"oldest": "2026-06-01",
		"newest": "2026-06-30",
		"types":  []any{"RACE"},
	})
	data := dataOf(t, res)
	events := data["events"].([]icu.CalendarEvent)
	if len(events) != 1 {
		t.Fatalf("expected 1 race, got %d", len(events))
	}
	if events[0].Type != "race" {
		t.Errorf("expected canonical lowercase type, got %s", events[0].Type)
	}
	if events[0].Priority == nil || *events[0].Priority != "B" {
		t.Error("mock race should carry priority B")
	}
}

func TestGetEventsTool_InvalidTypeInList(t *testing.T) {
	fixedNow(t, "2026-06-15")
	tool := NewGetEventsTool(noCreds(), icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{
		"types": []any{"workout", "marathon"},
	})
	if res.Success || res.Code != CodeInvalidEventType {
		t.Errorf("expected INVALID_EVENT_TYPE, got %+v", res)
	}
}

// --- create_event ---

func validCreateInput() map[string]any {
	return map[string]any{
		"name":       "Threshold Intervals",
		"type":       "workout",
		"start_date": "2026-06-20",
	}
}

func TestCreateEventTool_NoCredentials(t *testing.T) {
	resolver := noCreds()
	tool := NewCreateEventTool(resolver, icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", validCreateInput())
	if res.Success {
		t.Fatal("writes must never succeed against mock data")
	}
	if res.Code != CodeNoCredentials {
		t.Errorf("expected NO_CREDENTIALS, got %s", res.Code)
	}
	if resolver.calls != 1 {
		t.Errorf("expected exactly one credential resolution, got %d", resolver.calls)
	}
}

func TestCreateEventTool_ValidationBeforeCredentials(t *testing.T) {
	resolver := noCreds()
	tool := NewCreateEventTool(resolver, icu.NewClient("", zap.NewNop()))

	input := validCreateInput()
	input["type"] = "marathon"
	res := tool.Handle(context.Background(), "ath_1", input)
	if res.Code != CodeInvalidEventType {
		t.Fatalf("expected INVALID_EVENT_TYPE, got %+v", res)
	}
	if resolver.calls != 0 {
		t.Error("validation failures must not resolve credentials")
	}

	input = validCreateInput()
	input["start_date"] = "2026-02-30"
	res = tool.Handle(context.Background(), "ath_1", input)
	if res.Code != CodeInvalidDate {
		t.Fatalf("expected INVALID_DATE, got %+v", res)
	}

	input = validCreateInput()
	input["start_date"] = ""
	res = tool.Handle(context.Background(), "ath_1", input)
	if res.Code != CodeInvalidDate {
		t.Fatalf("empty start_date should be INVALID_DATE, got %+v", res)
	}

	input = validCreateInput()
	input["planned_duration"] = -600.0
	res = tool.Handle(context.Background(), "ath_1", input)
	if res.Code != CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT for negative duration, got %+v", res)
	}

	input = validCreateInput()
	input["priority"] = "D"
	res = tool.Handle(context.Background(), "ath_1", input)
	if res.Code != CodeInvalidPriority {
		t.Fatalf("expected INVALID_PRIORITY, got %+v", res)
	}
	if resolver.calls != 0 {
		t.Error("no validation failure should have resolved credentials")
	}
}

func TestCreateEventTool_Live(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/athlete/i12345/events" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"id": 555, "name": "Threshold Intervals", "type": "WORKOUT",
			"start_date_local": "2026-06-20", "category": "WORKOUT",
		})
	}))
	defer srv.Close()

	resolver := &fakeCreds{creds: &icu.Credentials{ExternalAthleteID: "i12345", APIKey: "secret-key"}}
	tool := NewCreateEventTool(resolver, icu.NewClient(srv.URL, zap.NewNop()))

	input := validCreateInput()
	input["planned_tss"] = 75.0
	res := tool.Handle(context.Background(), "ath_1", input)
	data := dataOf(t, res)
	if data["source"] != "intervals.icu" {
		t.Errorf("expected live source, got %v", data["source"])
	}
	event := data["event"].(*icu.CalendarEvent)
	if event.ID != 555 || event.Type != "workout" {
		t.Errorf("unexpected event: %+v", event)
	}

	// Field names and type casing follow the external API on the wire.
	if gotBody["type"] != "WORKOUT" {
		t.Errorf("wire type should be uppercase, got %v", gotBody["type"])
	}
	if gotBody["start_date_local"] != "2026-06-20" {
		t.Errorf("start_date should be renamed on the wire, got %v", gotBody)
	}
	if gotBody["icu_training_load"] != 75.0 {
		t.Errorf("planned_tss should be renamed on the wire, got %v", gotBody)
	}
}

// --- update_event ---

func TestUpdateEventTool_NonNumericEventID(t *testing.T) {
	resolver := noCreds()
	tool := NewUpdateEventTool(resolver, icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{
		"event_id": "abc",
		"name":     "Renamed",
	})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Code != CodeInvalidInput || res.Error != "event_id must be a numeric value" {
		t.Errorf("unexpected failure: %+v", res)
	}
	if resolver.calls != 0 {
		t.Error("invalid event_id must not resolve credentials")
	}
}

func TestUpdateEventTool_RequiresAtLeastOneField(t *testing.T) {
	resolver := noCreds()
	tool := NewUpdateEventTool(resolver, icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{"event_id": "42"})
	if res.Code != CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %+v", res)
	}
	if !strings.Contains(res.Error, "at least one field") {
		t.Errorf("unexpected message: %q", res.Error)
	}
}

func TestUpdateEventTool_NoCredentials(t *testing.T) {
	tool := NewUpdateEventTool(noCreds(), icu.NewClient("", zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{
		"event_id": "42",
		"name":     "Renamed",
	})
	if res.Code != CodeNoCredentials {
		t.Errorf("expected NO_CREDENTIALS, got %+v", res)
	}
}

func TestUpdateEventTool_Live(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/athlete/i12345/events/99" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": 99, "name": "Renamed", "type": "WORKOUT", "start_date_local": "2026-06-20",
		})
	}))
	defer srv.Close()

	resolver := &fakeCreds{creds: &icu.Credentials{ExternalAthleteID: "i12345", APIKey: "secret-key"}}
	tool := NewUpdateEventTool(resolver, icu.NewClient(srv.URL, zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{
		"event_id": "99",
		"name":     "Renamed",
	})
	data := dataOf(t, res)
	event := data["event"].(*icu.CalendarEvent)
	if event.ID != 99 || event.Name != "Renamed" {
		t.Errorf("unexpected event: %+v", event)
	}
}

// --- credential error passthrough ---

func TestReadTool_InvalidCredentialsPassThrough(t *testing.T) {
	fixedNow(t, "2026-06-15")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	resolver := &fakeCreds{creds: &icu.Credentials{ExternalAthleteID: "i12345", APIKey: "revoked"}}
	tool := NewActivitiesTool(resolver, icu.NewClient(srv.URL, zap.NewNop()))

	res := tool.Handle(context.Background(), "ath_1", map[string]any{})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Code != icu.CodeInvalidCredentials {
		t.Errorf("external auth failure should keep its own code, got %s", res.Code)
	}
}
