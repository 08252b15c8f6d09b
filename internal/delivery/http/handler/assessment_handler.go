package handler

import (
	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/middleware"
	"skillpath/internal/delivery/http/response"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AssessmentHandler struct {
	uc usecase.AssessmentUsecase
}

func NewAssessmentHandler(uc usecase.AssessmentUsecase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/assessments/attempts")
	grp.Post("/", h.Start)
	grp.Post("/:attempt_id/submission", h.Submit)
}

func (h *AssessmentHandler) Start(c fiber.Ctx) error {
	var req dto.StartAssessmentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	profileID, err := parseUUID(req.ProfileID, "profile_id")
	if err != nil {
		return err
	}
	assessmentID, err := parseUUID(req.AssessmentID, "assessment_id")
	if err != nil {
		return err
	}

	a, err := h.uc.Start(c.Context(), usecase.StartAssessmentInput{
		ProfileID:    profileID,
		AssessmentID: assessmentID,
		SkillName:    req.SkillName,
		Level:        proficiency.ParseLevel(req.Level),
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.FromAttempt(a))
}

func (h *AssessmentHandler) Submit(c fiber.Ctx) error {
	attemptID, err := paramUUID(c, "attempt_id")
	if err != nil {
		return err
	}
	var req dto.SubmitAssessmentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.Score == nil {
		return middleware.BadRequest("score is required", nil)
	}

	res, err := h.uc.Submit(c.Context(), attemptID, *req.Score)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromAssessmentResult(res))
}
