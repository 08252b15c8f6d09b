package app

import (
	"context"
	"fmt"
	"strings"

	"skillpath/internal/config"
	"skillpath/internal/delivery/http/handler"
	"skillpath/internal/delivery/http/middleware"
	"skillpath/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registry(c).Register(f)

	return &App{Fiber: f, Container: c}
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registry(c *Container) *routes.Registry {
	var db, cachePinger handler.Pinger
	if c.DB != nil {
		db = c.DB
	}
	if c.Cache != nil && c.Config.Redis.Enabled() {
		cachePinger = c.Cache
	}

	return &routes.Registry{
		Health:          handler.NewHealthHandler(db, cachePinger),
		Recalibration:   handler.NewRecalibrationHandler(c.RecalibrationPipeline, c.Recalibration),
		Gap:             handler.NewGapHandler(c.Gap),
		Recommendations: handler.NewRecommendationHandler(c.Recommendation),
		Paths:           handler.NewLearningPathHandler(c.LearningPath),
		Feedback:        handler.NewFeedbackHandler(c.Feedback),
		Assessments:     handler.NewAssessmentHandler(c.Assessment),
		Profiles:        handler.NewProfileHandler(c.Profile),
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

// Bootstrap builds the container and HTTP app. The returned cleanup closes the
// database pool and the cache.
func Bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}
