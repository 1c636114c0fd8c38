package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mealmate/backend/internal/nutrition"
)

type logMealRequest struct {
	MealType  string   `json:"meal_type"`
	FoodItems []string `json:"food_items"`
	Mood      string   `json:"mood"`
}

type waterIntakeRequest struct {
	Glasses int `json:"glasses"`
}

type foodLogView struct {
	ID           string   `json:"id"`
	MealType     string   `json:"meal_type"`
	FoodItems    []string `json:"food_items"`
	Calories     float64  `json:"calories"`
	Mood         *string  `json:"mood"`
	AIAdvice     *string  `json:"ai_advice"`
	WaterGlasses *int     `json:"water_glasses"`
	LogDate      string   `json:"log_date"`
	CreatedAt    string   `json:"created_at"`
}

func (a *App) logMeal(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload logMealRequest
	if !mustJSON(c, &payload) {
		return
	}
	mealType := strings.TrimSpace(payload.MealType)
	if mealType == "" {
		writeError(c, http.StatusBadRequest, "meal_type is required")
		return
	}
	foodItems := make([]string, 0, len(payload.FoodItems))
	for _, item := range payload.FoodItems {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			foodItems = append(foodItems, trimmed)
		}
	}
	if len(foodItems) == 0 {
		writeError(c, http.StatusBadRequest, "food_items must not be empty")
		return
	}

	record := nutrition.NutritionRecord{
		UserID:        userID,
		MealType:      mealType,
		FoodItems:     foodItems,
		CalorieFields: map[string]any{},
	}
	if mood := strings.TrimSpace(payload.Mood); mood != "" {
		record.Mood = &mood
	}
	today := startOfUTCDay(time.Now())
	record.LogDate = &today

	// The estimate is best effort. A failed upstream call still logs the
	// meal; the resolver treats the missing field as zero calories.
	var estimate *nutrition.CalorieEstimate
	response, err := a.ai.Complete(c.Request.Context(), AIRequest{
		Model:       a.cfg.MealPlanModel,
		UserPrompt:  calorieEstimatePrompt(mealType, foodItems, payload.Mood),
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		log.Printf("calorie estimate request failed: %v", err)
	} else {
		value, err := nutrition.Extract(response.Content, nutrition.KindObject)
		if err != nil {
			log.Printf("calorie estimate extraction failed: %v", err)
		} else if parsed, err := nutrition.ValidateCalorieEstimate(value); err != nil {
			log.Printf("calorie estimate validation failed: %v", err)
		} else {
			estimate = &parsed
			record.CalorieFields["approx_calories"] = parsed.ApproxCalories
			record.AIAdvice = &parsed.Advice
		}
	}

	id, err := a.store.InsertFoodLog(c.Request.Context(), record)
	if err != nil {
		log.Printf("insert food log failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to save food log")
		return
	}
	record.ID = id

	body := gin.H{
		"success": true,
		"message": "Meal logged",
		"data":    foodLogToView(record),
	}
	if estimate != nil {
		body["ai"] = gin.H{
			"approx_calories": estimate.ApproxCalories,
			"advice":          estimate.Advice,
		}
	} else {
		body["ai"] = nil
	}
	c.JSON(http.StatusCreated, body)
}

func (a *App) listFoodLogs(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > 200 {
			parsed = 200
		}
		limit = parsed
	}

	records, err := a.store.ListRecentFoodLogs(c.Request.Context(), userID, limit)
	if err != nil {
		log.Printf("list food logs failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to load food logs")
		return
	}

	views := make([]foodLogView, 0, len(records))
	for _, record := range records {
		views = append(views, foodLogToView(record))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (a *App) updateWaterIntake(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload waterIntakeRequest
	if !mustJSON(c, &payload) {
		return
	}
	if payload.Glasses <= 0 {
		writeError(c, http.StatusBadRequest, "glasses must be a positive integer")
		return
	}

	today := startOfUTCDay(time.Now())
	if err := a.store.AddWaterIntake(c.Request.Context(), userID, today, payload.Glasses); err != nil {
		log.Printf("water intake update failed: %v", err)
		writeError(c, http.StatusInternalServerError, "Failed to update water intake")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Water intake updated"})
}

func foodLogToView(record nutrition.NutritionRecord) foodLogView {
	return foodLogView{
		ID:           record.ID,
		MealType:     record.MealType,
		FoodItems:    record.FoodItems,
		Calories:     nutrition.ResolveCalories(record, nutrition.DefaultCalorieKeys),
		Mood:         record.Mood,
		AIAdvice:     record.AIAdvice,
		WaterGlasses: record.WaterGlasses,
		LogDate:      record.LocalDate().Format("2006-01-02"),
		CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339),
	}
}
