package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"mealmate/backend/internal/config"
	"mealmate/backend/internal/nutrition"
)

const testJWTSecret = "unit-test-secret-key-0123456789"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	records      []nutrition.NutritionRecord
	profile      nutrition.UserProgressProfile
	hasProfile   bool
	inserted     []nutrition.NutritionRecord
	waterGlasses int
	waterDate    time.Time
	savedProfile *nutrition.UserProgressProfile

	listErr error
}

func (f *fakeStore) ListFoodLogs(_ context.Context, _ string, _, _ time.Time) ([]nutrition.NutritionRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeStore) ListRecentFoodLogs(_ context.Context, _ string, limit int) ([]nutrition.NutritionRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeStore) InsertFoodLog(_ context.Context, record nutrition.NutritionRecord) (string, error) {
	if record.ID == "" {
		record.ID = "generated-id"
	}
	f.inserted = append(f.inserted, record)
	return record.ID, nil
}

func (f *fakeStore) AddWaterIntake(_ context.Context, _ string, date time.Time, glasses int) error {
	f.waterDate = date
	f.waterGlasses += glasses
	return nil
}

func (f *fakeStore) GetProgressProfile(_ context.Context, userID string) (nutrition.UserProgressProfile, bool, error) {
	if !f.hasProfile {
		return nutrition.UserProgressProfile{
			UserID:           userID,
			WorkoutFrequency: nutrition.WorkoutUnknown,
			Goal:             nutrition.GoalMaintain,
		}, false, nil
	}
	return f.profile, true, nil
}

func (f *fakeStore) UpsertProgressProfile(_ context.Context, profile nutrition.UserProgressProfile) error {
	f.savedProfile = &profile
	return nil
}

type staticAIClient struct {
	content string
	err     error
}

func (s staticAIClient) Complete(_ context.Context, _ AIRequest) (AIResponse, error) {
	if s.err != nil {
		return AIResponse{}, s.err
	}
	return AIResponse{Content: s.content, Model: "static"}, nil
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:           "test",
		APIPrefix:        "/api/v1",
		JWTSecret:        testJWTSecret,
		JWTAlgorithm:     "HS256",
		CORSAllowOrigins: []string{"http://localhost:5173"},
		MealPlanModel:    "test/meal-plan-model",
		RecipeModel:      "test/recipe-model",
	}
}

func newTestApp(store RecordStore, ai AIClient) *App {
	return New(testConfig(), store, ai, nil)
}

func signTestToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, app *App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	app.Router().ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", recorder.Body.String(), err)
	}
	return body
}
