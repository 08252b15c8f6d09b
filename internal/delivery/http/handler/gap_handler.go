package handler

import (
	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/response"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type GapHandler struct {
	uc usecase.GapUsecase
}

func NewGapHandler(uc usecase.GapUsecase) *GapHandler {
	return &GapHandler{uc: uc}
}

func (h *GapHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/profiles/:profile_id/gaps/:target_id", h.Analyze)
}

func (h *GapHandler) Analyze(c fiber.Ctx) error {
	profileID, err := paramUUID(c, "profile_id")
	if err != nil {
		return err
	}
	targetID, err := paramUUID(c, "target_id")
	if err != nil {
		return err
	}

	report, err := h.uc.Analyze(c.Context(), profileID, targetID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromGapReport(report))
}
