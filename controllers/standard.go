package controllers

import (
	"github.com/advisorhub/advisorhub-server/config"
	"github.com/advisorhub/advisorhub-server/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
)

var validate = validator.New()

func protectedRoute(config *config.Config, db *bun.DB) fiber.Handler {
	return utils.Protected(utils.JwtMiddlewareConfig{
		Secret: config.JwtSecret,
		Db:     db,
	})
}

func authUser(c *fiber.Ctx) utils.AuthUser {
	return c.Locals("user").(utils.AuthUser)
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "Insufficient permissions",
	})
}

func notFound(c *fiber.Ctx, description string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": description,
	})
}

func badRequest(c *fiber.Ctx, description string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": description,
	})
}
