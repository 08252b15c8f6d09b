package handler

import (
	"context"

	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/middleware"
	"skillpath/internal/delivery/http/response"
	"skillpath/internal/domain/feedback"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// RecalibrationRunner runs one guarded recalibration.
type RecalibrationRunner interface {
	RunOnce(ctx context.Context) (feedback.Insights, error)
}

type RecalibrationHandler struct {
	runner RecalibrationRunner
	uc     usecase.RecalibrationUsecase
}

func NewRecalibrationHandler(runner RecalibrationRunner, uc usecase.RecalibrationUsecase) *RecalibrationHandler {
	return &RecalibrationHandler{runner: runner, uc: uc}
}

func (h *RecalibrationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/recalibrations")
	grp.Post("/", h.Run)
	grp.Get("/last", h.Last)
}

func (h *RecalibrationHandler) Run(c fiber.Ctx) error {
	in, err := h.runner.RunOnce(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromInsights(in))
}

func (h *RecalibrationHandler) Last(c fiber.Ctx) error {
	in, ok := h.uc.Last()
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, "no recalibration has run yet", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromInsights(in))
}
