package plans

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stridelabs/coach-gateway/internal/periodization"
	"go.uber.org/zap"
)

type fakeStore struct {
	goal      *periodization.Goal
	goalErr   error
	inserted  *periodization.PlanPayload
	insertID  string
	insertErr error
}

func (f *fakeStore) GoalByID(_ context.Context, _, _ string) (*periodization.Goal, error) {
	return f.goal, f.goalErr
}

func (f *fakeStore) InsertTrainingPlan(_ context.Context, id string, payload *periodization.PlanPayload) error {
	f.insertID = id
	f.inserted = payload
	return f.insertErr
}

func fixedToday(t *testing.T, day string) {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatal(err)
	}
	old := timeNow
	timeNow = func() time.Time { return parsed }
	t.Cleanup(func() { timeNow = old })
}

func TestCreatePlan_DefaultsWithoutGoal(t *testing.T) {
	fixedToday(t, "2026-01-01")
	store := &fakeStore{}
	svc := NewService(store, zap.NewNop())

	summary, err := svc.CreatePlan(context.Background(), "ath_1", CreateRequest{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if summary.TotalWeeks != 12 {
		t.Errorf("expected default 12 weeks, got %d", summary.TotalWeeks)
	}
	if summary.StartDate != "2026-01-01" {
		t.Errorf("expected start today, got %s", summary.StartDate)
	}
	if summary.EndDate != "2026-03-25" {
		t.Errorf("expected end 2026-03-25, got %s", summary.EndDate)
	}
	if summary.GoalID != nil {
		t.Error("expected nil goal id")
	}
	if summary.Status != "active" {
		t.Errorf("expected active status, got %s", summary.Status)
	}
	if len(summary.Phases) != 4 {
		t.Errorf("12-week plan should have 4 phases, got %d", len(summary.Phases))
	}

	if store.inserted == nil {
		t.Fatal("plan was not persisted")
	}
	if store.insertID != summary.ID {
		t.Error("summary id should match the persisted id")
	}
	if store.inserted.TotalWeeks != 12 {
		t.Errorf("persisted payload weeks = %d", store.inserted.TotalWeeks)
	}
}

func TestCreatePlan_GoalSizesAndNamesPlan(t *testing.T) {
	fixedToday(t, "2026-01-01")
	store := &fakeStore{goal: &periodization.Goal{
		ID:         "goal_1",
		Title:      "Sub-3 marathon",
		EventName:  "Boston Marathon",
		TargetDate: "2026-03-26", // 84 days from start
	}}
	svc := NewService(store, zap.NewNop())

	summary, err := svc.CreatePlan(context.Background(), "ath_1", CreateRequest{GoalID: "goal_1"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if summary.TotalWeeks != 12 {
		t.Errorf("expected 12 weeks to target date, got %d", summary.TotalWeeks)
	}
	if !strings.Contains(summary.Name, "Boston Marathon") {
		t.Errorf("plan name should carry the event name, got %q", summary.Name)
	}
	if summary.GoalID == nil || *summary.GoalID != "goal_1" {
		t.Error("expected goal id on the summary")
	}
}

func TestCreatePlan_ExplicitWeeksWinOverGoal(t *testing.T) {
	fixedToday(t, "2026-01-01")
	store := &fakeStore{goal: &periodization.Goal{ID: "goal_1", Title: "Race", TargetDate: "2026-12-01"}}
	svc := NewService(store, zap.NewNop())

	weeks := 8
	summary, err := svc.CreatePlan(context.Background(), "ath_1", CreateRequest{GoalID: "goal_1", TotalWeeks: &weeks})
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalWeeks != 8 {
		t.Errorf("explicit weeks should win, got %d", summary.TotalWeeks)
	}
}

func TestCreatePlan_UnknownGoal(t *testing.T) {
	fixedToday(t, "2026-01-01")
	svc := NewService(&fakeStore{goal: nil}, zap.NewNop())

	_, err := svc.CreatePlan(context.Background(), "ath_1", CreateRequest{GoalID: "goal_missing"})
	if err == nil {
		t.Fatal("expected error for unknown goal")
	}
	if !strings.Contains(err.Error(), "goal_missing") {
		t.Errorf("error should name the goal, got %v", err)
	}
}

func TestCreatePlan_InvalidStartDate(t *testing.T) {
	svc := NewService(&fakeStore{}, zap.NewNop())

	_, err := svc.CreatePlan(context.Background(), "ath_1", CreateRequest{StartDate: "March 1st"})
	if err == nil {
		t.Fatal("expected error for invalid start date")
	}
}

func TestCreatePlan_StoreFailurePropagates(t *testing.T) {
	fixedToday(t, "2026-01-01")
	svc := NewService(&fakeStore{insertErr: errors.New("insert failed")}, zap.NewNop())

	_, err := svc.CreatePlan(context.Background(), "ath_1", CreateRequest{})
	if err == nil {
		t.Fatal("expected persistence error to propagate")
	}
}

func TestCreatePlan_FreshIDsPerPlan(t *testing.T) {
	fixedToday(t, "2026-01-01")
	store := &fakeStore{}
	svc := NewService(store, zap.NewNop())

	first, err := svc.CreatePlan(context.Background(), "ath_1", CreateRequest{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.CreatePlan(context.Background(), "ath_1", CreateRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Error("each plan should get a fresh id")
	}
}
