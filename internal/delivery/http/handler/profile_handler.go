package handler

import (
	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/response"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/profiles/:profile_id/completed-courses", h.CompleteCourse)
}

func (h *ProfileHandler) CompleteCourse(c fiber.Ctx) error {
	profileID, err := paramUUID(c, "profile_id")
	if err != nil {
		return err
	}
	var req dto.CompleteCourseRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	courseID, err := parseUUID(req.CourseID, "course_id")
	if err != nil {
		return err
	}

	p, err := h.uc.CompleteCourse(c.Context(), profileID, courseID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromProfile(p))
}
