package utils

import (
	"fmt"
	"strings"

	"github.com/advisorhub/advisorhub-server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/uptrace/bun"
)

const authScheme = "Bearer"

type Router struct {
	fiber.Router
}

// AuthUser is the identity attached to the request context by Protected.
type AuthUser struct {
	Id             int64
	Email          string
	Role           string
	OrganizationId *int64
}

type JwtMiddlewareConfig struct {
	Secret string
	Db     *bun.DB
}

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

func GetDefaultRouter(app *fiber.App) *Router {
	temp := app.Group("/api")
	return &Router{Router: temp}
}

// Protected verifies the bearer token, loads the matching user and stores an
// AuthUser under Locals("user"). The first failing step rejects with 401.
func Protected(config JwtMiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		l := len(authScheme)
		if len(auth) <= l+1 || !strings.EqualFold(auth[:l], authScheme) {
			return unauthorized(c, "Missing or malformed JWT")
		}
		rawToken := auth[l+1:]

		tok, err := jwt.Parse(rawToken, func(jwtToken *jwt.Token) (interface{}, error) {
			if _, ok := jwtToken.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected method: %s", jwtToken.Header["alg"])
			}
			return []byte(config.Secret), nil
		})
		if err != nil || !tok.Valid {
			return unauthorized(c, "Invalid or expired JWT")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Invalid JWT")
		}

		if sub, err := claims.GetSubject(); err != nil || sub != "access" {
			return unauthorized(c, "Invalid JWT")
		}

		rawId, ok := claims["user"].(float64)
		if !ok {
			return unauthorized(c, "Invalid JWT")
		}

		user := new(models.User)
		err = config.Db.NewSelect().Model(user).
			Column("id", "email", "role", "organization_id").
			Where(`"user"."id" = ?`, int64(rawId)).
			Scan(c.Context())
		if err != nil {
			return unauthorized(c, "User not found")
		}

		c.Locals("user", AuthUser{
			Id:             user.Id,
			Email:          user.Email,
			Role:           user.Role,
			OrganizationId: user.OrganizationId,
		})

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, description string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": description,
	})
}

func StandardInternalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func StandardCouldNotParse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Could not parse request",
	})
}
