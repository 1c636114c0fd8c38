package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mealmate/backend/internal/config"
)

type AIRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

type AIResponse struct {
	Content string
	Model   string
}

type AIClient interface {
	Complete(ctx context.Context, req AIRequest) (AIResponse, error)
}

type OpenRouterClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func NewOpenRouterClient(cfg config.Config) *OpenRouterClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	return &OpenRouterClient{
		apiKey:    strings.TrimSpace(cfg.OpenRouterAPIKey),
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.OpenRouterBaseURL), "/"),
		model:     strings.TrimSpace(cfg.MealPlanModel),
		maxTokens: cfg.AIMaxTokens,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (c *OpenRouterClient) Complete(ctx context.Context, req AIRequest) (AIResponse, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return AIResponse{}, errors.New("OPENROUTER_API_KEY is not configured")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return AIResponse{}, errors.New("OPENROUTER_BASE_URL is not configured")
	}
	requestModel := strings.TrimSpace(req.Model)
	if requestModel == "" {
		requestModel = strings.TrimSpace(c.model)
	}
	if requestModel == "" {
		return AIResponse{}, errors.New("AI model is not configured")
	}

	type chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: strings.TrimSpace(req.SystemPrompt)})
	}
	userPrompt := strings.TrimSpace(req.UserPrompt)
	if userPrompt == "" {
		return AIResponse{}, errors.New("AI request prompt is empty")
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = 0.6
	}

	payload := map[string]any{
		"model":       requestModel,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return AIResponse{}, err
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(bodyRaw),
	)
	if err != nil {
		return AIResponse{}, err
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return AIResponse{}, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return AIResponse{}, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return AIResponse{}, fmt.Errorf(
			"openrouter error (%d): %s",
			response.StatusCode,
			truncateForLog(string(responseBody), 600),
		)
	}

	parsed := parseJSONStringMap(responseBody)
	content := extractChatContent(parsed)
	if strings.TrimSpace(content) == "" {
		log.Printf("openrouter response had no extractable content: %s", truncateForLog(string(responseBody), 1200))
		return AIResponse{}, errors.New("openrouter response content is empty")
	}

	modelName := strings.TrimSpace(toString(parsed["model"]))
	if modelName == "" {
		modelName = requestModel
	}
	return AIResponse{Content: content, Model: modelName}, nil
}

func extractChatContent(data map[string]any) string {
	choices, ok := data["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return ""
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(message["content"]))
}

func parseJSONStringMap(input []byte) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	var result map[string]any
	if err := json.Unmarshal(input, &result); err != nil || result == nil {
		return map[string]any{}
	}
	return result
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func truncateForLog(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	if limit <= 0 || len(trimmed) <= limit {
		return trimmed
	}
	return trimmed[:limit] + "...(truncated)"
}

// MockAIClient answers with deterministic well-formed payloads so local
// development and tests never need an upstream key.
type MockAIClient struct {
	Model string
}

func (m MockAIClient) Complete(_ context.Context, req AIRequest) (AIResponse, error) {
	prompt := strings.ToLower(req.UserPrompt)
	model := strings.TrimSpace(m.Model)
	if model == "" {
		model = "mock-nutritionist"
	}

	content := `{"approx_calories": 420, "advice": "Add a portion of vegetables for fiber."}`
	switch {
	case strings.Contains(prompt, "food plan"):
		content = `{
			"breakfast": {"items": ["Oats with milk", "Banana"], "calories": "350 kcal"},
			"lunch": {"items": ["Rice", "Chicken curry", "Salad"], "calories": "650 kcal"},
			"snacks": {"items": ["Roasted chickpeas"], "calories": "150 kcal"},
			"dinner": {"items": ["Chapati", "Mixed vegetables"], "calories": "450 kcal"},
			"nutrition_summary": "Roughly 1600 kcal with balanced protein and fiber."
		}`
	case strings.Contains(prompt, "health tips"):
		content = `["Drink at least 2.5L of water daily.", "Walk 30 minutes after lunch.", "Prefer whole grains over refined carbs.", "Sleep 7-8 hours to support recovery."]`
	case strings.Contains(prompt, "recipe"):
		content = `{
			"title": "Quick Vegetable Khichuri",
			"ingredients": ["1 cup rice", "half cup red lentils", "2 cups mixed vegetables"],
			"instructions": ["Rinse rice and lentils.", "Simmer everything for 25 minutes.", "Season and serve hot."],
			"prep_time": "10 minutes",
			"cook_time": "25 minutes",
			"servings": "3 people",
			"difficulty": "Easy"
		}`
	}
	return AIResponse{Content: content, Model: model}, nil
}
