package routes

import (
	"skillpath/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	Health          *handler.HealthHandler
	Recalibration   *handler.RecalibrationHandler
	Gap             *handler.GapHandler
	Recommendations *handler.RecommendationHandler
	Paths           *handler.LearningPathHandler
	Feedback        *handler.FeedbackHandler
	Assessments     *handler.AssessmentHandler
	Profiles        *handler.ProfileHandler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerV1(app.Group("/v1"))
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (r *Registry) registerV1(v1 fiber.Router) {
	if r.Recalibration != nil {
		r.Recalibration.RegisterRoutes(v1)
	}
	if r.Gap != nil {
		r.Gap.RegisterRoutes(v1)
	}
	if r.Recommendations != nil {
		r.Recommendations.RegisterRoutes(v1)
	}
	if r.Paths != nil {
		r.Paths.RegisterRoutes(v1)
	}
	if r.Feedback != nil {
		r.Feedback.RegisterRoutes(v1)
	}
	if r.Assessments != nil {
		r.Assessments.RegisterRoutes(v1)
	}
	if r.Profiles != nil {
		r.Profiles.RegisterRoutes(v1)
	}
}
