package nutrition

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type PayloadKind string

const (
	PayloadMealPlan        PayloadKind = "meal_plan"
	PayloadTipList         PayloadKind = "tip_list"
	PayloadCalorieEstimate PayloadKind = "calorie_estimate"
	PayloadRecipe          PayloadKind = "recipe"
)

type ValidationReason string

const (
	ValidationMissingField  ValidationReason = "missing_field"
	ValidationWrongType     ValidationReason = "wrong_type"
	ValidationEmptyRequired ValidationReason = "empty_required"
)

type ValidationError struct {
	Kind   PayloadKind
	Field  string
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: field %q (%s)", e.Kind, e.Field, e.Reason)
}

type Payload interface {
	PayloadKind() PayloadKind
}

type MealSection struct {
	Items    []string `json:"items"`
	Calories string   `json:"calories"`
}

type MealPlan struct {
	Breakfast        MealSection `json:"breakfast"`
	Lunch            MealSection `json:"lunch"`
	Snacks           MealSection `json:"snacks"`
	Dinner           MealSection `json:"dinner"`
	NutritionSummary string      `json:"nutrition_summary"`
}

func (MealPlan) PayloadKind() PayloadKind { return PayloadMealPlan }

type TipList struct {
	Tips []string `json:"tips"`
}

func (TipList) PayloadKind() PayloadKind { return PayloadTipList }

type CalorieEstimate struct {
	ApproxCalories float64 `json:"approx_calories"`
	Advice         string  `json:"advice"`
}

func (CalorieEstimate) PayloadKind() PayloadKind { return PayloadCalorieEstimate }

type Recipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Servings     string   `json:"servings"`
	Difficulty   string   `json:"difficulty"`
}

func (Recipe) PayloadKind() PayloadKind { return PayloadRecipe }

// Validate checks an extracted value against exactly one of the closed set of
// payload shapes. A failure names the offending field; no plausible default is
// ever filled in here, that policy belongs to the caller.
func Validate(value any, kind PayloadKind) (Payload, error) {
	switch kind {
	case PayloadMealPlan:
		return ValidateMealPlan(value)
	case PayloadTipList:
		return ValidateTipList(value)
	case PayloadCalorieEstimate:
		return ValidateCalorieEstimate(value)
	case PayloadRecipe:
		return ValidateRecipe(value)
	default:
		return nil, fmt.Errorf("unknown payload kind %q", kind)
	}
}

func ValidateMealPlan(value any) (MealPlan, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return MealPlan{}, &ValidationError{Kind: PayloadMealPlan, Field: ".", Reason: ValidationWrongType}
	}

	plan := MealPlan{}
	sections := []struct {
		key  string
		dest *MealSection
	}{
		{"breakfast", &plan.Breakfast},
		{"lunch", &plan.Lunch},
		{"snacks", &plan.Snacks},
		{"dinner", &plan.Dinner},
	}
	for _, section := range sections {
		raw, ok := obj[section.key]
		if !ok {
			return MealPlan{}, &ValidationError{Kind: PayloadMealPlan, Field: section.key, Reason: ValidationMissingField}
		}
		sectionObj, ok := raw.(map[string]any)
		if !ok {
			return MealPlan{}, &ValidationError{Kind: PayloadMealPlan, Field: section.key, Reason: ValidationWrongType}
		}
		items, err := requireStringList(sectionObj, section.key+".items", "items", PayloadMealPlan)
		if err != nil {
			return MealPlan{}, err
		}
		caloriesRaw, ok := sectionObj["calories"]
		if !ok {
			return MealPlan{}, &ValidationError{Kind: PayloadMealPlan, Field: section.key + ".calories", Reason: ValidationMissingField}
		}
		calories, ok := caloriesRaw.(string)
		if !ok {
			return MealPlan{}, &ValidationError{Kind: PayloadMealPlan, Field: section.key + ".calories", Reason: ValidationWrongType}
		}
		section.dest.Items = items
		section.dest.Calories = calories
	}

	if summary, ok := obj["nutrition_summary"].(string); ok {
		plan.NutritionSummary = strings.TrimSpace(summary)
	}
	return plan, nil
}

func ValidateTipList(value any) (TipList, error) {
	list, ok := value.([]any)
	if !ok {
		return TipList{}, &ValidationError{Kind: PayloadTipList, Field: ".", Reason: ValidationWrongType}
	}
	if len(list) == 0 {
		return TipList{}, &ValidationError{Kind: PayloadTipList, Field: ".", Reason: ValidationEmptyRequired}
	}
	tips := make([]string, 0, len(list))
	for idx, item := range list {
		tip, ok := item.(string)
		if !ok {
			return TipList{}, &ValidationError{Kind: PayloadTipList, Field: fmt.Sprintf("[%d]", idx), Reason: ValidationWrongType}
		}
		if strings.TrimSpace(tip) == "" {
			return TipList{}, &ValidationError{Kind: PayloadTipList, Field: fmt.Sprintf("[%d]", idx), Reason: ValidationEmptyRequired}
		}
		tips = append(tips, strings.TrimSpace(tip))
	}
	return TipList{Tips: tips}, nil
}

func ValidateCalorieEstimate(value any) (CalorieEstimate, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return CalorieEstimate{}, &ValidationError{Kind: PayloadCalorieEstimate, Field: ".", Reason: ValidationWrongType}
	}

	rawCalories, ok := firstPresent(obj, "approx_calories", "calories")
	if !ok {
		return CalorieEstimate{}, &ValidationError{Kind: PayloadCalorieEstimate, Field: "approx_calories", Reason: ValidationMissingField}
	}
	calories, ok := asFiniteNumber(rawCalories)
	if !ok {
		return CalorieEstimate{}, &ValidationError{Kind: PayloadCalorieEstimate, Field: "approx_calories", Reason: ValidationWrongType}
	}
	if calories <= 0 {
		return CalorieEstimate{}, &ValidationError{Kind: PayloadCalorieEstimate, Field: "approx_calories", Reason: ValidationEmptyRequired}
	}

	rawAdvice, ok := obj["advice"]
	if !ok {
		return CalorieEstimate{}, &ValidationError{Kind: PayloadCalorieEstimate, Field: "advice", Reason: ValidationMissingField}
	}
	advice, ok := rawAdvice.(string)
	if !ok {
		return CalorieEstimate{}, &ValidationError{Kind: PayloadCalorieEstimate, Field: "advice", Reason: ValidationWrongType}
	}
	if strings.TrimSpace(advice) == "" {
		return CalorieEstimate{}, &ValidationError{Kind: PayloadCalorieEstimate, Field: "advice", Reason: ValidationEmptyRequired}
	}

	return CalorieEstimate{ApproxCalories: calories, Advice: strings.TrimSpace(advice)}, nil
}

func ValidateRecipe(value any) (Recipe, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return Recipe{}, &ValidationError{Kind: PayloadRecipe, Field: ".", Reason: ValidationWrongType}
	}

	rawTitle, ok := obj["title"]
	if !ok {
		return Recipe{}, &ValidationError{Kind: PayloadRecipe, Field: "title", Reason: ValidationMissingField}
	}
	title, ok := rawTitle.(string)
	if !ok {
		return Recipe{}, &ValidationError{Kind: PayloadRecipe, Field: "title", Reason: ValidationWrongType}
	}
	if strings.TrimSpace(title) == "" {
		return Recipe{}, &ValidationError{Kind: PayloadRecipe, Field: "title", Reason: ValidationEmptyRequired}
	}

	ingredients, err := requireStringList(obj, "ingredients", "ingredients", PayloadRecipe)
	if err != nil {
		return Recipe{}, err
	}
	instructions, err := requireStringList(obj, "instructions", "instructions", PayloadRecipe)
	if err != nil {
		return Recipe{}, err
	}

	return Recipe{
		Title:        strings.TrimSpace(title),
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     optionalString(obj, "prep_time", "prepTime"),
		CookTime:     optionalString(obj, "cook_time", "cookTime"),
		Servings:     optionalString(obj, "servings"),
		Difficulty:   optionalString(obj, "difficulty"),
	}, nil
}

func requireStringList(obj map[string]any, field, key string, kind PayloadKind) ([]string, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, &ValidationError{Kind: kind, Field: field, Reason: ValidationMissingField}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Kind: kind, Field: field, Reason: ValidationWrongType}
	}
	if len(list) == 0 {
		return nil, &ValidationError{Kind: kind, Field: field, Reason: ValidationEmptyRequired}
	}
	result := make([]string, 0, len(list))
	for idx, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, &ValidationError{Kind: kind, Field: fmt.Sprintf("%s[%d]", field, idx), Reason: ValidationWrongType}
		}
		result = append(result, s)
	}
	return result, nil
}

func firstPresent(obj map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if raw, ok := obj[key]; ok && raw != nil {
			return raw, true
		}
	}
	return nil, false
}

func optionalString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func asFiniteNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
