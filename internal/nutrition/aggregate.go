package nutrition

import (
	"errors"
	"math"
	"time"
)

const weeklyCalorieUnit = 3500

var ErrInvalidWindow = errors.New("window end precedes start")

type Status string

const (
	StatusOnTrack     Status = "on_track"
	StatusSurplus     Status = "surplus"
	StatusDeficit     Status = "deficit"
	StatusMaintaining Status = "maintaining"
)

// Aggregate buckets resolved per-record calories into one entry per calendar
// day of the inclusive window and scores goal progress against the user's
// workout profile. It never fails for an empty record set; the only input
// validation error is a window whose end precedes its start.
func Aggregate(records []NutritionRecord, profile UserProgressProfile, window Window) (DashboardSummary, error) {
	start := startOfUTCDay(window.Start)
	end := startOfUTCDay(window.End)
	if end.Before(start) {
		return DashboardSummary{}, ErrInvalidWindow
	}

	dailyConsumed := map[time.Time]float64{}
	totalConsumed := 0.0
	for _, record := range records {
		date := record.LocalDate()
		if date.Before(start) || date.After(end) {
			continue
		}
		calories := ResolveCalories(record, DefaultCalorieKeys)
		dailyConsumed[date] += calories
		totalConsumed += calories
	}

	burnedPerWorkout := profile.CaloriesPerWorkout
	if burnedPerWorkout < 0 {
		burnedPerWorkout = 0
	}
	// The burn total uses a fixed per-week multiplier independent of the
	// window length, matching the behavior dashboards were built against.
	totalBurned := 0.0
	switch profile.WorkoutFrequency {
	case WorkoutDaily:
		totalBurned = burnedPerWorkout * 7
	case WorkoutThreePerWeek:
		totalBurned = burnedPerWorkout * 3
	}

	dayCount := int(end.Sub(start).Hours()/24) + 1
	buckets := make([]DailyBucket, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		date := start.AddDate(0, 0, i)
		buckets = append(buckets, DailyBucket{
			Date:             date,
			ConsumedCalories: dailyConsumed[date],
			BurnedCalories:   burnedForDate(profile.WorkoutFrequency, burnedPerWorkout, date),
		})
	}

	netCalories := totalConsumed - totalBurned
	return DashboardSummary{
		TotalConsumed:       totalConsumed,
		TotalBurned:         totalBurned,
		BMI:                 profile.BMI,
		GoalProgressPercent: goalProgressPercent(netCalories, profile.Goal),
		DailyBuckets:        buckets,
	}, nil
}

// ThreePerWeek burns on Monday, Wednesday, and Friday.
func burnedForDate(frequency WorkoutFrequency, burnedPerWorkout float64, date time.Time) float64 {
	switch frequency {
	case WorkoutDaily:
		return burnedPerWorkout
	case WorkoutThreePerWeek:
		switch date.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
			return burnedPerWorkout
		}
	}
	return 0
}

func goalProgressPercent(netCalories float64, goal Goal) float64 {
	var progress float64
	switch goal {
	case GoalLose:
		progress = math.Round(100 - (netCalories/weeklyCalorieUnit)*100)
	case GoalGain:
		progress = math.Round((netCalories / weeklyCalorieUnit) * 100)
	default:
		progress = 50 - math.Round((netCalories/weeklyCalorieUnit)*10)
	}
	return clampPercent(progress)
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// ProgressStatus is the simpler scorer used by the progress view: it
// classifies by the sign of net calories relative to the goal instead of
// computing a percentage. Both read the same net value.
func ProgressStatus(netCalories float64, goal Goal) Status {
	switch goal {
	case GoalLose:
		if netCalories < 0 {
			return StatusOnTrack
		}
		return StatusSurplus
	case GoalGain:
		if netCalories > 0 {
			return StatusOnTrack
		}
		return StatusDeficit
	default:
		return StatusMaintaining
	}
}
