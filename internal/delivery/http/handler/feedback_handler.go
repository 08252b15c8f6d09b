package handler

import (
	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/response"
	"skillpath/internal/domain/feedback"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type FeedbackHandler struct {
	uc usecase.FeedbackUsecase
}

func NewFeedbackHandler(uc usecase.FeedbackUsecase) *FeedbackHandler {
	return &FeedbackHandler{uc: uc}
}

func (h *FeedbackHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/feedback", h.Submit)
}

func (h *FeedbackHandler) Submit(c fiber.Ctx) error {
	var req dto.SubmitFeedbackRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	subject, err := parseUUID(req.SubjectProfileID, "subject_profile_id")
	if err != nil {
		return err
	}
	related, err := parseUUID(req.RelatedEntityID, "related_entity_id")
	if err != nil {
		return err
	}

	rec, err := h.uc.Submit(c.Context(), usecase.SubmitFeedbackInput{
		Type:             feedback.Type(req.Type),
		SubjectProfileID: subject,
		RelatedEntityID:  related,
		Payload:          req.Payload.ToDomain(),
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.FromFeedback(rec))
}
