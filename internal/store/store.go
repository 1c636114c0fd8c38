package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealmate/backend/internal/nutrition"
)

type Store struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// ListFoodLogs returns records created in [start, end), oldest first.
func (s *Store) ListFoodLogs(ctx context.Context, userID string, start, end time.Time) ([]nutrition.NutritionRecord, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT id, user_id, meal_type, food_items, calorie_fields, mood, ai_advice, water_intake, log_date, created_at
		 FROM food_logs
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at ASC`,
		userID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFoodLogs(rows)
}

func (s *Store) ListRecentFoodLogs(ctx context.Context, userID string, limit int) ([]nutrition.NutritionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		ctx,
		`SELECT id, user_id, meal_type, food_items, calorie_fields, mood, ai_advice, water_intake, log_date, created_at
		 FROM food_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFoodLogs(rows)
}

func scanFoodLogs(rows pgx.Rows) ([]nutrition.NutritionRecord, error) {
	records := make([]nutrition.NutritionRecord, 0)
	for rows.Next() {
		var record nutrition.NutritionRecord
		var foodItemsRaw, calorieFieldsRaw []byte
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.MealType,
			&foodItemsRaw,
			&calorieFieldsRaw,
			&record.Mood,
			&record.AIAdvice,
			&record.WaterGlasses,
			&record.LogDate,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		record.FoodItems = parseStringList(foodItemsRaw)
		record.CalorieFields = parseFieldMap(calorieFieldsRaw)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) InsertFoodLog(ctx context.Context, record nutrition.NutritionRecord) (string, error) {
	id := record.ID
	if id == "" {
		id = uuid.NewString()
	}
	foodItems, err := json.Marshal(record.FoodItems)
	if err != nil {
		return "", err
	}
	calorieFields, err := json.Marshal(record.CalorieFields)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(
		ctx,
		`INSERT INTO food_logs (id, user_id, meal_type, food_items, calorie_fields, mood, ai_advice, water_intake, log_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`,
		id,
		record.UserID,
		record.MealType,
		foodItems,
		calorieFields,
		record.Mood,
		record.AIAdvice,
		record.WaterGlasses,
		record.LogDate,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// AddWaterIntake adds glasses to the user's record for the given date,
// creating a zero-calorie record when the day has none yet.
func (s *Store) AddWaterIntake(ctx context.Context, userID string, date time.Time, glasses int) error {
	var id string
	var current *int
	err := s.db.QueryRow(
		ctx,
		`SELECT id, water_intake FROM food_logs
		 WHERE user_id = $1 AND log_date = $2
		 ORDER BY created_at ASC
		 LIMIT 1`,
		userID,
		date,
	).Scan(&id, &current)
	if errors.Is(err, pgx.ErrNoRows) {
		advice := "Stay hydrated."
		water := glasses
		_, err := s.InsertFoodLog(ctx, nutrition.NutritionRecord{
			UserID:        userID,
			MealType:      "Water",
			FoodItems:     []string{"Water"},
			CalorieFields: map[string]any{"calories": 0},
			AIAdvice:      &advice,
			WaterGlasses:  &water,
			LogDate:       &date,
		})
		return err
	}
	if err != nil {
		return err
	}

	total := glasses
	if current != nil {
		total += *current
	}
	_, err = s.db.Exec(
		ctx,
		`UPDATE food_logs SET water_intake = $2 WHERE id = $1`,
		id,
		total,
	)
	return err
}

func (s *Store) GetProgressProfile(ctx context.Context, userID string) (nutrition.UserProgressProfile, bool, error) {
	var frequencyRaw, goalRaw string
	profile := nutrition.UserProgressProfile{UserID: userID}
	err := s.db.QueryRow(
		ctx,
		`SELECT workout_frequency, calories_per_workout, goal, bmi
		 FROM user_progress
		 WHERE user_id = $1`,
		userID,
	).Scan(&frequencyRaw, &profile.CaloriesPerWorkout, &goalRaw, &profile.BMI)
	if errors.Is(err, pgx.ErrNoRows) {
		profile.WorkoutFrequency = nutrition.WorkoutUnknown
		profile.Goal = nutrition.GoalMaintain
		return profile, false, nil
	}
	if err != nil {
		return nutrition.UserProgressProfile{}, false, err
	}
	profile.WorkoutFrequency = nutrition.ParseWorkoutFrequency(frequencyRaw)
	profile.Goal = nutrition.ParseGoal(goalRaw)
	return profile, true, nil
}

func (s *Store) UpsertProgressProfile(ctx context.Context, profile nutrition.UserProgressProfile) error {
	_, err := s.db.Exec(
		ctx,
		`INSERT INTO user_progress (user_id, workout_frequency, calories_per_workout, goal, bmi, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   workout_frequency = EXCLUDED.workout_frequency,
		   calories_per_workout = EXCLUDED.calories_per_workout,
		   goal = EXCLUDED.goal,
		   bmi = COALESCE(EXCLUDED.bmi, user_progress.bmi),
		   updated_at = NOW()`,
		profile.UserID,
		string(profile.WorkoutFrequency),
		profile.CaloriesPerWorkout,
		string(profile.Goal),
		profile.BMI,
	)
	return err
}

func parseStringList(input []byte) []string {
	if len(input) == 0 {
		return nil
	}
	var result []string
	if err := json.Unmarshal(input, &result); err != nil {
		return nil
	}
	return result
}

func parseFieldMap(input []byte) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	var result map[string]any
	if err := json.Unmarshal(input, &result); err != nil || result == nil {
		return map[string]any{}
	}
	return result
}
