package handler

import (
	"strconv"
	"strings"

	"skillpath/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func paramUUID(c fiber.Ctx, key string) (uuid.UUID, error) {
	return parseUUID(c.Params(key), key)
}

func parseUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("invalid "+field, err)
	}
	return id, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, middleware.BadRequest("invalid "+key, err)
	}
	return v, nil
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.BadRequest("invalid request body", err)
	}
	return nil
}
