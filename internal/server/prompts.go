package server

import (
	"fmt"
	"strings"
)

const dietitianSystemPrompt = "You are a professional dietitian. Respond ONLY with valid JSON."

const chefSystemPrompt = "You are a professional chef. Always respond with ONLY valid JSON. No markdown, no code blocks, no extra text."

func mealPlanPrompt(bmi float64, goal, gender string) string {
	return fmt.Sprintf(`You are a certified nutritionist and chef specializing in Bangladeshi cuisine.
Generate a healthy, culturally relevant daily food plan based on:

- BMI: %.1f
- Goal: %s
- Gender: %s

Return ONLY valid JSON in this format:
{
  "breakfast": { "items": ["Item 1", "Item 2"], "calories": "XXX kcal" },
  "lunch": { "items": ["Item 1", "Item 2"], "calories": "XXX kcal" },
  "snacks": { "items": ["Item 1", "Item 2"], "calories": "XXX kcal" },
  "dinner": { "items": ["Item 1", "Item 2"], "calories": "XXX kcal" },
  "nutrition_summary": "Short daily nutrition summary"
}`, bmi, goal, gender)
}

func healthTipsPrompt(bmi float64, goal, gender string) string {
	return fmt.Sprintf(`You are a professional nutritionist. Based on the following profile:
- BMI: %.1f
- Goal: %s
- Gender: %s

Generate 4 short, motivational AI health tips.
Keep them simple, positive, and human-like.
Return only a valid JSON array of strings, nothing else.`, bmi, goal, gender)
}

func recipePrompt(ingredients []string, dietaryPreferences string) string {
	prompt := fmt.Sprintf("Create a detailed recipe using these ingredients: %s.\n", strings.Join(ingredients, ", "))
	if strings.TrimSpace(dietaryPreferences) != "" {
		prompt += fmt.Sprintf("Dietary preferences: %s.\n", dietaryPreferences)
	}
	prompt += `
Return ONLY valid JSON in this exact format:
{
  "title": "Creative recipe name",
  "ingredients": [
    "ingredient with precise quantity and preparation notes"
  ],
  "instructions": [
    "Clear step-by-step instruction"
  ],
  "prep_time": "X minutes",
  "cook_time": "X minutes",
  "servings": "X people",
  "difficulty": "Easy/Medium/Hard"
}

Important: Return ONLY the JSON object, no additional text, no code blocks, no explanations.`
	return prompt
}

func calorieEstimatePrompt(mealType string, foodItems []string, mood string) string {
	if strings.TrimSpace(mood) == "" {
		mood = "N/A"
	}
	return fmt.Sprintf(`You are a certified nutritionist.
Estimate the approximate total calories of the following meal and give ONE short nutrition tip.
Return ONLY valid JSON in this exact format:
{
  "approx_calories": number,
  "advice": "string"
}
Meal type: %s
Foods: %s
Mood: %s`, mealType, strings.Join(foodItems, ", "), mood)
}
