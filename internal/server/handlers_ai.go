package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mealmate/backend/internal/nutrition"
)

type aiProfileRequest struct {
	BMI    float64 `json:"bmi"`
	Goal   string  `json:"goal"`
	Gender string  `json:"gender"`
}

func (r aiProfileRequest) validate() error {
	if r.BMI <= 0 {
		return fmt.Errorf("bmi is required")
	}
	if strings.TrimSpace(r.Goal) == "" {
		return fmt.Errorf("goal is required")
	}
	if strings.TrimSpace(r.Gender) == "" {
		return fmt.Errorf("gender is required")
	}
	return nil
}

type recipeRequest struct {
	Ingredients        []string `json:"ingredients"`
	DietaryPreferences string   `json:"dietary_preferences"`
}

func (a *App) generateMealPlan(c *gin.Context) {
	var payload aiProfileRequest
	if !mustJSON(c, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		writeError(c, http.StatusBadRequest, "Missing profile info: "+err.Error())
		return
	}

	cacheKey := fmt.Sprintf("ai:mealplan:%.1f:%s:%s",
		payload.BMI,
		strings.ToLower(strings.TrimSpace(payload.Goal)),
		strings.ToLower(strings.TrimSpace(payload.Gender)),
	)
	if cached, ok := a.cache.Get(c.Request.Context(), cacheKey); ok {
		var plan nutrition.MealPlan
		if err := json.Unmarshal([]byte(cached), &plan); err == nil {
			c.JSON(http.StatusOK, plan)
			return
		}
	}

	response, err := a.ai.Complete(c.Request.Context(), AIRequest{
		Model:        a.cfg.MealPlanModel,
		SystemPrompt: dietitianSystemPrompt,
		UserPrompt:   mealPlanPrompt(payload.BMI, payload.Goal, payload.Gender),
		MaxTokens:    1500,
		Temperature:  0.6,
	})
	if err != nil {
		writeError(c, http.StatusBadGateway, "Meal plan service is currently unavailable")
		return
	}

	value, err := nutrition.Extract(response.Content, nutrition.KindObject)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Invalid AI meal plan: "+err.Error())
		return
	}
	plan, err := nutrition.ValidateMealPlan(value)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Invalid AI meal plan: "+err.Error())
		return
	}

	if encoded, err := json.Marshal(plan); err == nil {
		a.cache.Set(c.Request.Context(), cacheKey, string(encoded))
	}
	c.JSON(http.StatusOK, plan)
}

func (a *App) generateHealthTips(c *gin.Context) {
	var payload aiProfileRequest
	if !mustJSON(c, &payload) {
		return
	}
	if err := payload.validate(); err != nil {
		writeError(c, http.StatusBadRequest, "Missing required fields: "+err.Error())
		return
	}

	cacheKey := fmt.Sprintf("ai:tips:%.1f:%s:%s",
		payload.BMI,
		strings.ToLower(strings.TrimSpace(payload.Goal)),
		strings.ToLower(strings.TrimSpace(payload.Gender)),
	)
	if cached, ok := a.cache.Get(c.Request.Context(), cacheKey); ok {
		var tips []string
		if err := json.Unmarshal([]byte(cached), &tips); err == nil {
			c.JSON(http.StatusOK, gin.H{"ai_tips": tips})
			return
		}
	}

	response, err := a.ai.Complete(c.Request.Context(), AIRequest{
		Model:       a.cfg.MealPlanModel,
		UserPrompt:  healthTipsPrompt(payload.BMI, payload.Goal, payload.Gender),
		MaxTokens:   300,
		Temperature: 0.6,
	})
	if err != nil {
		writeError(c, http.StatusBadGateway, "Health tips service is currently unavailable")
		return
	}

	// A failed extraction degrades to an empty tip list rather than an
	// error; tips are decorative on the dashboard.
	value, err := nutrition.Extract(response.Content, nutrition.KindArray)
	if err != nil {
		log.Printf("health tips extraction failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"ai_tips": []string{}})
		return
	}
	tips, err := nutrition.ValidateTipList(value)
	if err != nil {
		log.Printf("health tips validation failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"ai_tips": []string{}})
		return
	}

	if encoded, err := json.Marshal(tips.Tips); err == nil {
		a.cache.Set(c.Request.Context(), cacheKey, string(encoded))
	}
	c.JSON(http.StatusOK, gin.H{"ai_tips": tips.Tips})
}

func (a *App) generateRecipe(c *gin.Context) {
	var payload recipeRequest
	if !mustJSON(c, &payload) {
		return
	}
	ingredients := make([]string, 0, len(payload.Ingredients))
	for _, item := range payload.Ingredients {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			ingredients = append(ingredients, trimmed)
		}
	}
	if len(ingredients) == 0 {
		writeError(c, http.StatusBadRequest, "No ingredients provided")
		return
	}

	response, err := a.ai.Complete(c.Request.Context(), AIRequest{
		Model:        a.cfg.RecipeModel,
		SystemPrompt: chefSystemPrompt,
		UserPrompt:   recipePrompt(ingredients, payload.DietaryPreferences),
		MaxTokens:    1500,
		Temperature:  0.7,
	})
	if err != nil {
		writeError(c, http.StatusBadGateway, "Recipe generation service is currently unavailable")
		return
	}

	value, err := nutrition.Extract(response.Content, nutrition.KindObject)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to parse recipe response: "+err.Error())
		return
	}
	recipe, err := nutrition.ValidateRecipe(value)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to parse recipe response: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}
