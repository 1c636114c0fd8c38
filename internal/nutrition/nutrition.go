package nutrition

import (
	"strings"
	"time"
)

type WorkoutFrequency string

const (
	WorkoutDaily        WorkoutFrequency = "daily"
	WorkoutThreePerWeek WorkoutFrequency = "3_per_week"
	WorkoutNever        WorkoutFrequency = "never"
	WorkoutUnknown      WorkoutFrequency = "unknown"
)

type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// ParseWorkoutFrequency accepts the spellings historical write paths stored.
func ParseWorkoutFrequency(raw string) WorkoutFrequency {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "daily", "everyday":
		return WorkoutDaily
	case "3_per_week", "3x", "three_per_week":
		return WorkoutThreePerWeek
	case "never", "none":
		return WorkoutNever
	default:
		return WorkoutUnknown
	}
}

func ParseGoal(raw string) Goal {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "lose":
		return GoalLose
	case "gain":
		return GoalGain
	default:
		return GoalMaintain
	}
}

type NutritionRecord struct {
	ID            string
	UserID        string
	CreatedAt     time.Time
	LogDate       *time.Time
	MealType      string
	FoodItems     []string
	CalorieFields map[string]any
	Mood          *string
	AIAdvice      *string
	WaterGlasses  *int
}

// LocalDate is the calendar day the record belongs to: the explicit log date
// when one was written, otherwise the UTC day of the creation timestamp.
func (r NutritionRecord) LocalDate() time.Time {
	if r.LogDate != nil {
		return startOfUTCDay(*r.LogDate)
	}
	return startOfUTCDay(r.CreatedAt)
}

type UserProgressProfile struct {
	UserID             string
	WorkoutFrequency   WorkoutFrequency
	CaloriesPerWorkout float64
	Goal               Goal
	BMI                *float64
}

type Window struct {
	Start time.Time
	End   time.Time
}

type DailyBucket struct {
	Date             time.Time `json:"date"`
	ConsumedCalories float64   `json:"consumed"`
	BurnedCalories   float64   `json:"burned"`
}

type DashboardSummary struct {
	TotalConsumed       float64       `json:"total_consumed"`
	TotalBurned         float64       `json:"total_burned"`
	BMI                 *float64      `json:"bmi"`
	GoalProgressPercent float64       `json:"goal_progress"`
	DailyBuckets        []DailyBucket `json:"daily_buckets"`
}

func startOfUTCDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
