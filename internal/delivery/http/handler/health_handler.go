package handler

import (
	"context"
	"time"

	"skillpath/internal/delivery/http/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler reports on db and cache. A nil cache is reported as disabled and
// never fails the check.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

type healthResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := healthResponse{Database: "up", Cache: "disabled"}
	status := fiber.StatusOK

	if h.db == nil {
		out.Database = "disabled"
	} else if err := h.db.Ping(ctx); err != nil {
		out.Database = "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		out.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			out.Cache = "down"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "", out)
	}
	return response.Success(c, status, response.MessageOK, out)
}
