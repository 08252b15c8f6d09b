package handler

import (
	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/response"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/profiles/:profile_id/recommendations")
	grp.Get("/jobs", h.Jobs)
	grp.Get("/courses", h.Courses)
}

func (h *RecommendationHandler) params(c fiber.Ctx) (uuid.UUID, usecase.RecommendationParams, error) {
	profileID, err := paramUUID(c, "profile_id")
	if err != nil {
		return uuid.Nil, usecase.RecommendationParams{}, err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return uuid.Nil, usecase.RecommendationParams{}, err
	}
	minScore, err := parseQueryIntStrict(c, "min_score", 0)
	if err != nil {
		return uuid.Nil, usecase.RecommendationParams{}, err
	}
	params := usecase.RecommendationParams{Limit: limit, MinScore: minScore}
	if raw := c.Query("target_id"); raw != "" {
		if params.TargetID, err = parseUUID(raw, "target_id"); err != nil {
			return uuid.Nil, usecase.RecommendationParams{}, err
		}
	}
	return profileID, params, nil
}

func (h *RecommendationHandler) Jobs(c fiber.Ctx) error {
	profileID, params, err := h.params(c)
	if err != nil {
		return err
	}
	items, err := h.uc.RecommendJobs(c.Context(), profileID, params)
	if err != nil {
		return err
	}
	return response.List(c, dto.FromJobRecommendations(items))
}

func (h *RecommendationHandler) Courses(c fiber.Ctx) error {
	profileID, params, err := h.params(c)
	if err != nil {
		return err
	}
	items, err := h.uc.RecommendCourses(c.Context(), profileID, params)
	if err != nil {
		return err
	}
	return response.List(c, dto.FromCourseRecommendations(items))
}
