package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"mealmate/backend/internal/cache"
	"mealmate/backend/internal/config"
	"mealmate/backend/internal/nutrition"
)

// RecordStore is the persistence collaborator. The aggregation core never
// touches it; handlers fetch records and profiles and hand them to the core.
type RecordStore interface {
	ListFoodLogs(ctx context.Context, userID string, start, end time.Time) ([]nutrition.NutritionRecord, error)
	ListRecentFoodLogs(ctx context.Context, userID string, limit int) ([]nutrition.NutritionRecord, error)
	InsertFoodLog(ctx context.Context, record nutrition.NutritionRecord) (string, error)
	AddWaterIntake(ctx context.Context, userID string, date time.Time, glasses int) error
	GetProgressProfile(ctx context.Context, userID string) (nutrition.UserProgressProfile, bool, error)
	UpsertProgressProfile(ctx context.Context, profile nutrition.UserProgressProfile) error
}

type App struct {
	cfg   config.Config
	store RecordStore
	ai    AIClient
	cache *cache.Cache
}

func New(cfg config.Config, store RecordStore, ai AIClient, completionCache *cache.Cache) *App {
	return &App{cfg: cfg, store: store, ai: ai, cache: completionCache}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)

	api := router.Group(a.cfg.APIPrefix)
	api.Use(a.authMiddleware())

	api.POST("/ai/meal-plan", a.generateMealPlan)
	api.POST("/ai/health-tips", a.generateHealthTips)
	api.POST("/ai/recipe", a.generateRecipe)
	api.POST("/food-log", a.logMeal)
	api.GET("/food-log", a.listFoodLogs)
	api.PATCH("/food-log/water", a.updateWaterIntake)
	api.GET("/dashboard", a.getDashboard)
	api.GET("/progress", a.getProgress)
	api.POST("/progress", a.saveProgress)

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "mealmate-api",
	})
}

func (a *App) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])
		if tokenString == "" {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if token.Method == nil || token.Method.Alg() != a.cfg.JWTAlgorithm {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(a.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(c, http.StatusUnauthorized, "Invalid bearer token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(c, http.StatusUnauthorized, "Invalid token payload")
			return
		}
		if a.cfg.JWTAudience != "" && !claimHasAudience(claims["aud"], a.cfg.JWTAudience) {
			writeError(c, http.StatusUnauthorized, "Invalid token audience")
			return
		}
		if a.cfg.JWTIssuer != "" {
			issuer, _ := claims["iss"].(string)
			if issuer != a.cfg.JWTIssuer {
				writeError(c, http.StatusUnauthorized, "Invalid token issuer")
				return
			}
		}
		sub, _ := claims["sub"].(string)
		sub = strings.TrimSpace(sub)
		if sub == "" {
			writeError(c, http.StatusUnauthorized, "Token subject missing")
			return
		}

		c.Set("userID", sub)
		c.Next()
	}
}

func claimHasAudience(value any, audience string) bool {
	switch v := value.(type) {
	case string:
		return v == audience
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == audience {
				return true
			}
		}
	case []string:
		for _, item := range v {
			if item == audience {
				return true
			}
		}
	}
	return false
}

func userIDFromContext(c *gin.Context) (string, bool) {
	raw, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	userID, ok := raw.(string)
	return userID, ok && userID != ""
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func mustJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func startOfUTCDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// resolveWindow applies the HTTP boundary defaulting rule: no explicit bounds
// means the trailing 7 days ending today.
func resolveWindow(startRaw, endRaw string, now time.Time) (nutrition.Window, error) {
	today := startOfUTCDay(now)
	window := nutrition.Window{Start: today.AddDate(0, 0, -6), End: today}
	if strings.TrimSpace(startRaw) != "" {
		start, err := parseDate(startRaw)
		if err != nil {
			return nutrition.Window{}, fmt.Errorf("start must be YYYY-MM-DD")
		}
		window.Start = start
	}
	if strings.TrimSpace(endRaw) != "" {
		end, err := parseDate(endRaw)
		if err != nil {
			return nutrition.Window{}, fmt.Errorf("end must be YYYY-MM-DD")
		}
		window.End = end
	}
	return window, nil
}
