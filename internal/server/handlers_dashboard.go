package server

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mealmate/backend/internal/nutrition"
)

type progressSaveRequest struct {
	WorkoutFrequency   string   `json:"workout_frequency"`
	CaloriesPerWorkout float64  `json:"calories_per_workout"`
	Goal               string   `json:"goal"`
	BMI                *float64 `json:"bmi"`
}

type dailyBucketView struct {
	Date     string  `json:"date"`
	Consumed float64 `json:"consumed"`
	Burned   float64 `json:"burned"`
}

func (a *App) getDashboard(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	window, err := resolveWindow(c.Query("start"), c.Query("end"), time.Now())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	// End is inclusive, so the store query runs to the next midnight.
	records, err := a.store.ListFoodLogs(c.Request.Context(), userID, window.Start, window.End.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("dashboard food log query failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	profile, _, err := a.store.GetProgressProfile(c.Request.Context(), userID)
	if err != nil {
		log.Printf("dashboard profile query failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	summary, err := nutrition.Aggregate(records, profile, window)
	if err != nil {
		if errors.Is(err, nutrition.ErrInvalidWindow) {
			writeError(c, http.StatusBadRequest, "end must not precede start")
			return
		}
		log.Printf("dashboard aggregation failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	buckets := make([]dailyBucketView, 0, len(summary.DailyBuckets))
	for _, bucket := range summary.DailyBuckets {
		buckets = append(buckets, dailyBucketView{
			Date:     bucket.Date.Format("2006-01-02"),
			Consumed: bucket.ConsumedCalories,
			Burned:   bucket.BurnedCalories,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"total_consumed": summary.TotalConsumed,
			"total_burned":   summary.TotalBurned,
			"bmi":            summary.BMI,
			"goal_progress":  summary.GoalProgressPercent,
			"daily_buckets":  buckets,
		},
	})
}

func (a *App) getProgress(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	window, err := resolveWindow("", "", time.Now())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	records, err := a.store.ListFoodLogs(c.Request.Context(), userID, window.Start, window.End.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("progress food log query failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to load progress")
		return
	}
	profile, _, err := a.store.GetProgressProfile(c.Request.Context(), userID)
	if err != nil {
		log.Printf("progress profile query failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	summary, err := nutrition.Aggregate(records, profile, window)
	if err != nil {
		log.Printf("progress aggregation failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	net := summary.TotalConsumed - summary.TotalBurned
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"total_consumed": summary.TotalConsumed,
			"total_burned":   summary.TotalBurned,
			"net_calories":   net,
			"goal":           string(profile.Goal),
			"status":         string(nutrition.ProgressStatus(net, profile.Goal)),
		},
	})
}

func (a *App) saveProgress(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload progressSaveRequest
	if !mustJSON(c, &payload) {
		return
	}
	if strings.TrimSpace(payload.WorkoutFrequency) == "" {
		writeError(c, http.StatusBadRequest, "workout_frequency is required")
		return
	}
	if payload.CaloriesPerWorkout < 0 {
		writeError(c, http.StatusBadRequest, "calories_per_workout must not be negative")
		return
	}
	if payload.BMI != nil && *payload.BMI <= 0 {
		writeError(c, http.StatusBadRequest, "bmi must be positive")
		return
	}

	profile := nutrition.UserProgressProfile{
		UserID:             userID,
		WorkoutFrequency:   nutrition.ParseWorkoutFrequency(payload.WorkoutFrequency),
		CaloriesPerWorkout: payload.CaloriesPerWorkout,
		Goal:               nutrition.ParseGoal(payload.Goal),
		BMI:                payload.BMI,
	}
	if err := a.store.UpsertProgressProfile(c.Request.Context(), profile); err != nil {
		log.Printf("save progress failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to save progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Progress saved"})
}
