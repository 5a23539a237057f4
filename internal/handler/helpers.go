package handler

import (
	"go-resto-backend/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// fail maps a service error to its HTTP status and a JSON error body
func fail(c *fiber.Ctx, err error) error {
	return c.Status(apperr.StatusOf(err)).JSON(fiber.Map{"error": err.Error()})
}

func parseParamID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// currentUserID reads the authenticated user's id from context,
// falling back to "system" for unauthenticated paths
func currentUserID(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_id").(string); ok && v != "" {
		return v
	}
	return "system"
}

func currentUserName(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_name").(string); ok {
		return v
	}
	return ""
}
