// Package periodization computes multi-week training plan structure from a
// start date, a duration and optional goal context. All functions are pure:
// no I/O, no clock reads, no shared state.
package periodization

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// MinWeeks and MaxWeeks bound every plan length.
	MinWeeks = 4
	MaxWeeks = 52

	// DefaultWeeks is used when neither an explicit duration nor a goal
	// target date is available.
	DefaultWeeks = 12

	dateLayout = "2006-01-02"
)

// Phase is one block of a periodized plan.
type Phase struct {
	Name  string `json:"name"`
	Weeks int    `json:"weeks"`
	Focus string `json:"focus"`
	// IntensityDistribution is percent of low/moderate/high intensity work.
	// Always sums to 100.
	IntensityDistribution [3]int `json:"intensity_distribution"`
}

// WeekVolume is the volume multiplier for one absolute week of the plan.
type WeekVolume struct {
	Week       int     `json:"week"`
	Phase      string  `json:"phase"`
	Multiplier float64 `json:"multiplier"`
}

// Plan is the full periodization structure.
type Plan struct {
	TotalWeeks    int          `json:"total_weeks"`
	Phases        []Phase      `json:"phases"`
	WeeklyVolumes []WeekVolume `json:"weekly_volumes"`
}

// Goal carries the goal context consulted when sizing and naming a plan.
type Goal struct {
	ID         string
	Title      string
	EventName  string
	TargetDate string // YYYY-MM-DD, empty if none
}

// PlanPayload is the persisted training plan. Assembled once per
// generate_plan invocation and never mutated afterwards.
type PlanPayload struct {
	AthleteID      string  `json:"athlete_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TotalWeeks     int     `json:"total_weeks"`
	Status         string  `json:"status"`
	GoalID         *string `json:"goal_id"`
	Periodization  Plan    `json:"periodization"`
	WeeklyTemplate any     `json:"weekly_template"`
	Adaptations    []any   `json:"adaptations"`
}

// WeeksUntilGoal returns the whole number of weeks between two dates,
// clamped into [MinWeeks, MaxWeeks]. The target must be strictly after the
// start.
func WeeksUntilGoal(start, target string) (int, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, fmt.Errorf("WeeksUntilGoal: invalid start date %q", start)
	}
	t, err := time.Parse(dateLayout, target)
	if err != nil {
		return 0, fmt.Errorf("WeeksUntilGoal: invalid target date %q", target)
	}
	if !t.After(s) {
		return 0, fmt.Errorf("WeeksUntilGoal: target %s is not after start %s", target, start)
	}
	weeks := int(t.Sub(s).Hours()/24) / 7
	return clampWeeks(weeks), nil
}

// ResolveTotalWeeks picks the plan length. An explicit value wins (clamped);
// otherwise the goal's target date is used; otherwise DefaultWeeks.
func ResolveTotalWeeks(explicit *int, start string, goal *Goal) int {
	if explicit != nil {
		return clampWeeks(*explicit)
	}
	if goal != nil && goal.TargetDate != "" {
		if weeks, err := WeeksUntilGoal(start, goal.TargetDate); err == nil {
			return weeks
		}
	}
	return DefaultWeeks
}

// CalculateEndDate returns the last day of the final week, inclusive.
func CalculateEndDate(start string, weeks int) (string, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return "", fmt.Errorf("CalculateEndDate: invalid start date %q", start)
	}
	return s.AddDate(0, 0, weeks*7-1).Format(dateLayout), nil
}

// PhaseBreakdown splits totalWeeks into ordered phases. Remainder weeks are
// absorbed into build so the phase weeks always sum to totalWeeks exactly.
// Zero-week phases are dropped.
//
// totalWeeks outside [MinWeeks, MaxWeeks] is a contract violation by the
// caller (ResolveTotalWeeks clamps) and panics to surface integration bugs.
func PhaseBreakdown(totalWeeks int) []Phase {
	if totalWeeks < MinWeeks || totalWeeks > MaxWeeks {
		panic(fmt.Sprintf("periodization: total weeks %d outside [%d, %d]", totalWeeks, MinWeeks, MaxWeeks))
	}

	var base, build, peak, taper int
	if totalWeeks <= 8 {
		base = maxInt(2, totalWeeks*40/100)
		taper = minInt(2, totalWeeks*20/100)
		build = totalWeeks - base - taper
	} else {
		base = maxInt(3, totalWeeks*35/100)
		peak = maxInt(2, totalWeeks*15/100)
		taper = minInt(2, totalWeeks*15/100)
		build = totalWeeks - base - peak - taper
	}

	phases := make([]Phase, 0, 4)
	add := func(name string, weeks int, focus string, dist [3]int) {
		if weeks <= 0 {
			return
		}
		phases = append(phases, Phase{Name: name, Weeks: weeks, Focus: focus, IntensityDistribution: dist})
	}
	add("base", base, "aerobic endurance and durability", [3]int{80, 15, 5})
	add("build", build, "threshold and race-specific intensity", [3]int{65, 25, 10})
	add("peak", peak, "race-pace sharpening", [3]int{55, 30, 15})
	add("taper", taper, "freshness and recovery", [3]int{85, 10, 5})
	return phases
}

// phaseMultipliers are the base weekly volume multipliers per phase.
var phaseMultipliers = map[string]float64{
	"base":     0.8,
	"build":    1.0,
	"peak":     1.1,
	"taper":    0.5,
	"recovery": 0.6,
}

// WeeklyVolumes walks phases in order and produces one entry per absolute
// week. Non-taper phases follow a 4-week wave with every 4th week as a
// recovery week; taper decays linearly to 60% of its base multiplier.
func WeeklyVolumes(phases []Phase) []WeekVolume {
	var volumes []WeekVolume
	week := 0
	for _, p := range phases {
		base := phaseMultipliers[p.Name]
		for i := 1; i <= p.Weeks; i++ {
			week++
			var mult float64
			if p.Name == "taper" {
				mult = base * (1 - 0.4*float64(i)/float64(p.Weeks))
			} else {
				switch i % 4 {
				case 1:
					mult = base * 0.85
				case 2:
					mult = base * 0.95
				case 3:
					mult = base * 1.05
				default:
					mult = base * 0.70
				}
			}
			volumes = append(volumes, WeekVolume{
				Week:       week,
				Phase:      p.Name,
				Multiplier: round2(mult),
			})
		}
	}
	return volumes
}

// BuildPlanPayload assembles the persisted plan record.
func BuildPlanPayload(athleteID string, goal *Goal, start string, totalWeeks int, plan Plan) (*PlanPayload, error) {
	end, err := CalculateEndDate(start, totalWeeks)
	if err != nil {
		return nil, fmt.Errorf("BuildPlanPayload: %w", err)
	}

	name := planName(goal, totalWeeks, plan.Phases)
	description := planDescription(goal, totalWeeks)

	var goalID *string
	if goal != nil && goal.ID != "" {
		id := goal.ID
		goalID = &id
	}

	return &PlanPayload{
		AthleteID:      athleteID,
		Name:           name,
		Description:    description,
		StartDate:      start,
		EndDate:        end,
		TotalWeeks:     totalWeeks,
		Status:         "active",
		GoalID:         goalID,
		Periodization:  plan,
		WeeklyTemplate: nil,
		Adaptations:    []any{},
	}, nil
}

// planName prefers the goal's event name, then its title, then a
// phase-sequence name like "12-Week Base → Build → Peak → Taper".
func planName(goal *Goal, totalWeeks int, phases []Phase) string {
	if goal != nil {
		if goal.EventName != "" {
			return goal.EventName
		}
		if goal.Title != "" {
			return goal.Title
		}
	}
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = capitalize(p.Name)
	}
	return fmt.Sprintf("%d-Week %s", totalWeeks, strings.Join(names, " → "))
}

func planDescription(goal *Goal, totalWeeks int) string {
	if goal != nil && goal.Title != "" {
		if goal.TargetDate != "" {
			return fmt.Sprintf("Training plan targeting %s on %s", goal.Title, goal.TargetDate)
		}
		return fmt.Sprintf("Training plan targeting %s", goal.Title)
	}
	return fmt.Sprintf("%d-week general training plan", totalWeeks)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clampWeeks(w int) int {
	if w < MinWeeks {
		return MinWeeks
	}
	if w > MaxWeeks {
		return MaxWeeks
	}
	return w
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
