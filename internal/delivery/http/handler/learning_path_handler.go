package handler

import (
	"context"

	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/response"
	"skillpath/internal/domain/learningpath"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type LearningPathHandler struct {
	uc usecase.LearningPathUsecase
}

func NewLearningPathHandler(uc usecase.LearningPathUsecase) *LearningPathHandler {
	return &LearningPathHandler{uc: uc}
}

func (h *LearningPathHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/paths")
	grp.Post("/", h.Generate)
	grp.Post("/:path_id/enrollments", h.Enroll)
	grp.Post("/:path_id/completions", h.CompleteModule)
	grp.Post("/:path_id/pause", h.Pause)
	grp.Post("/:path_id/resume", h.Resume)
}

// Generate builds a personalized path when profile_id is set and a shared template
// otherwise.
func (h *LearningPathHandler) Generate(c fiber.Ctx) error {
	var req dto.GeneratePathRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	targetID, err := parseUUID(req.TargetID, "target_id")
	if err != nil {
		return err
	}

	var path learningpath.Path
	if req.ProfileID == "" {
		path, err = h.uc.GenerateTemplate(c.Context(), targetID)
	} else {
		profileID, perr := parseUUID(req.ProfileID, "profile_id")
		if perr != nil {
			return perr
		}
		path, err = h.uc.Generate(c.Context(), profileID, targetID)
	}
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.FromPath(path))
}

func (h *LearningPathHandler) Enroll(c fiber.Ctx) error {
	pathID, profileID, err := h.pathAndProfile(c)
	if err != nil {
		return err
	}
	e, err := h.uc.Enroll(c.Context(), profileID, pathID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.FromEnrollment(e))
}

func (h *LearningPathHandler) CompleteModule(c fiber.Ctx) error {
	pathID, err := paramUUID(c, "path_id")
	if err != nil {
		return err
	}
	var req dto.CompleteModuleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	profileID, err := parseUUID(req.ProfileID, "profile_id")
	if err != nil {
		return err
	}
	moduleID, err := parseUUID(req.ModuleID, "module_id")
	if err != nil {
		return err
	}

	e, err := h.uc.CompleteModule(c.Context(), profileID, pathID, moduleID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromEnrollment(e))
}

func (h *LearningPathHandler) Pause(c fiber.Ctx) error {
	return h.transition(c, h.uc.Pause)
}

func (h *LearningPathHandler) Resume(c fiber.Ctx) error {
	return h.transition(c, h.uc.Resume)
}

func (h *LearningPathHandler) transition(c fiber.Ctx, fn func(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error)) error {
	pathID, profileID, err := h.pathAndProfile(c)
	if err != nil {
		return err
	}
	e, err := fn(c.Context(), profileID, pathID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromEnrollment(e))
}

func (h *LearningPathHandler) pathAndProfile(c fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	pathID, err := paramUUID(c, "path_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	var req dto.EnrollmentRequest
	if err := bindBody(c, &req); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	profileID, err := parseUUID(req.ProfileID, "profile_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return pathID, profileID, nil
}
