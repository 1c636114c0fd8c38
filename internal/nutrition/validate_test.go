package nutrition

import (
	"encoding/json"
	"errors"
	"testing"
)

func mustDecode(t *testing.T, raw string) any {
	t.Helper()
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return value
}

func TestValidateMealPlan(t *testing.T) {
	value := mustDecode(t, `{
		"breakfast": {"items": ["Paratha", "Egg"], "calories": "450 kcal"},
		"lunch": {"items": ["Rice", "Fish curry"], "calories": "650 kcal"},
		"snacks": {"items": ["Fruit"], "calories": "120 kcal"},
		"dinner": {"items": ["Khichuri"], "calories": "500 kcal"},
		"nutrition_summary": "Balanced day around 1700 kcal."
	}`)

	plan, err := ValidateMealPlan(value)
	if err != nil {
		t.Fatalf("expected valid plan: %v", err)
	}
	if len(plan.Breakfast.Items) != 2 || plan.Breakfast.Calories != "450 kcal" {
		t.Fatalf("unexpected breakfast: %+v", plan.Breakfast)
	}
	if plan.NutritionSummary == "" {
		t.Fatalf("expected summary to be captured")
	}
}

func TestValidateMealPlanMissingMealKey(t *testing.T) {
	value := mustDecode(t, `{
		"breakfast": {"items": ["Paratha"], "calories": "450 kcal"},
		"lunch": {"items": ["Rice"], "calories": "650 kcal"},
		"dinner": {"items": ["Khichuri"], "calories": "500 kcal"}
	}`)

	_, err := ValidateMealPlan(value)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "snacks" || validationErr.Reason != ValidationMissingField {
		t.Fatalf("unexpected failure: %+v", validationErr)
	}
}

func TestValidateMealPlanEmptyItems(t *testing.T) {
	value := mustDecode(t, `{
		"breakfast": {"items": [], "calories": "0 kcal"},
		"lunch": {"items": ["Rice"], "calories": "650 kcal"},
		"snacks": {"items": ["Fruit"], "calories": "120 kcal"},
		"dinner": {"items": ["Khichuri"], "calories": "500 kcal"}
	}`)

	_, err := ValidateMealPlan(value)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "breakfast.items" || validationErr.Reason != ValidationEmptyRequired {
		t.Fatalf("unexpected failure: %+v", validationErr)
	}
}

func TestValidateMealPlanNumericCaloriesRejected(t *testing.T) {
	value := mustDecode(t, `{
		"breakfast": {"items": ["Paratha"], "calories": 450},
		"lunch": {"items": ["Rice"], "calories": "650 kcal"},
		"snacks": {"items": ["Fruit"], "calories": "120 kcal"},
		"dinner": {"items": ["Khichuri"], "calories": "500 kcal"}
	}`)

	_, err := ValidateMealPlan(value)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "breakfast.calories" || validationErr.Reason != ValidationWrongType {
		t.Fatalf("unexpected failure: %+v", validationErr)
	}
}

func TestValidateTipList(t *testing.T) {
	tips, err := ValidateTipList(mustDecode(t, `["Drink water.", " Sleep 8 hours. "]`))
	if err != nil {
		t.Fatalf("expected valid tip list: %v", err)
	}
	if len(tips.Tips) != 2 || tips.Tips[1] != "Sleep 8 hours." {
		t.Fatalf("unexpected tips: %v", tips.Tips)
	}

	_, err = ValidateTipList(mustDecode(t, `[]`))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Reason != ValidationEmptyRequired {
		t.Fatalf("expected empty list failure, got %v", err)
	}

	_, err = ValidateTipList(mustDecode(t, `["ok", 7]`))
	if !errors.As(err, &validationErr) || validationErr.Field != "[1]" || validationErr.Reason != ValidationWrongType {
		t.Fatalf("expected wrong type at [1], got %v", err)
	}

	_, err = ValidateTipList(mustDecode(t, `{"tips": ["ok"]}`))
	if !errors.As(err, &validationErr) || validationErr.Reason != ValidationWrongType {
		t.Fatalf("expected wrong type for object input, got %v", err)
	}
}

func TestValidateCalorieEstimate(t *testing.T) {
	estimate, err := ValidateCalorieEstimate(mustDecode(t, `{"approx_calories": 520, "advice": "Add protein."}`))
	if err != nil {
		t.Fatalf("expected valid estimate: %v", err)
	}
	if estimate.ApproxCalories != 520 || estimate.Advice != "Add protein." {
		t.Fatalf("unexpected estimate: %+v", estimate)
	}

	// The insights prompt historically asked for "calories" instead.
	estimate, err = ValidateCalorieEstimate(mustDecode(t, `{"calories": 450, "advice": "ok"}`))
	if err != nil {
		t.Fatalf("expected calories alias to validate: %v", err)
	}
	if estimate.ApproxCalories != 450 {
		t.Fatalf("unexpected calories: %v", estimate.ApproxCalories)
	}

	var validationErr *ValidationError
	_, err = ValidateCalorieEstimate(mustDecode(t, `{"advice": "ok"}`))
	if !errors.As(err, &validationErr) || validationErr.Reason != ValidationMissingField {
		t.Fatalf("expected missing field, got %v", err)
	}

	_, err = ValidateCalorieEstimate(mustDecode(t, `{"approx_calories": "520", "advice": "ok"}`))
	if !errors.As(err, &validationErr) || validationErr.Reason != ValidationWrongType {
		t.Fatalf("expected wrong type for string calories, got %v", err)
	}

	_, err = ValidateCalorieEstimate(mustDecode(t, `{"approx_calories": 0, "advice": "ok"}`))
	if !errors.As(err, &validationErr) || validationErr.Reason != ValidationEmptyRequired {
		t.Fatalf("expected non-positive calories to fail, got %v", err)
	}

	_, err = ValidateCalorieEstimate(mustDecode(t, `{"approx_calories": 300, "advice": "  "}`))
	if !errors.As(err, &validationErr) || validationErr.Field != "advice" {
		t.Fatalf("expected blank advice to fail, got %v", err)
	}
}

func TestValidateRecipe(t *testing.T) {
	recipe, err := ValidateRecipe(mustDecode(t, `{
		"title": "Lentil Stew",
		"ingredients": ["1 cup red lentils", "2 cloves garlic"],
		"instructions": ["Rinse lentils.", "Simmer 20 minutes."],
		"prep_time": "10 minutes",
		"cook_time": "25 minutes",
		"servings": "4 people",
		"difficulty": "Easy"
	}`))
	if err != nil {
		t.Fatalf("expected valid recipe: %v", err)
	}
	if recipe.Title != "Lentil Stew" || recipe.PrepTime != "10 minutes" {
		t.Fatalf("unexpected recipe: %+v", recipe)
	}

	// camelCase spellings from older prompts still resolve.
	recipe, err = ValidateRecipe(mustDecode(t, `{
		"title": "Salad",
		"ingredients": ["greens"],
		"instructions": ["toss"],
		"prepTime": "5 minutes"
	}`))
	if err != nil {
		t.Fatalf("expected camelCase recipe to validate: %v", err)
	}
	if recipe.PrepTime != "5 minutes" {
		t.Fatalf("expected prepTime alias, got %q", recipe.PrepTime)
	}

	var validationErr *ValidationError
	_, err = ValidateRecipe(mustDecode(t, `{"title": "", "ingredients": ["x"], "instructions": ["y"]}`))
	if !errors.As(err, &validationErr) || validationErr.Field != "title" || validationErr.Reason != ValidationEmptyRequired {
		t.Fatalf("expected empty title failure, got %v", err)
	}

	_, err = ValidateRecipe(mustDecode(t, `{"title": "x", "ingredients": [], "instructions": ["y"]}`))
	if !errors.As(err, &validationErr) || validationErr.Field != "ingredients" {
		t.Fatalf("expected empty ingredients failure, got %v", err)
	}
}

func TestValidateDispatch(t *testing.T) {
	payload, err := Validate(mustDecode(t, `["tip one"]`), PayloadTipList)
	if err != nil {
		t.Fatalf("expected dispatch to validate: %v", err)
	}
	if payload.PayloadKind() != PayloadTipList {
		t.Fatalf("unexpected payload kind: %s", payload.PayloadKind())
	}

	if _, err := Validate(nil, PayloadKind("bogus")); err == nil {
		t.Fatalf("expected unknown kind to fail")
	}
}
