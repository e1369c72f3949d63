package controllers

import (
	"database/sql"
	"errors"

	"github.com/advisorhub/advisorhub-server/config"
	"github.com/advisorhub/advisorhub-server/models"
	"github.com/advisorhub/advisorhub-server/repos"
	"github.com/advisorhub/advisorhub-server/utils"
	"github.com/gofiber/fiber/v2"

	"go.uber.org/fx"
)

type AuthController struct {
	fx.In

	Users         *repos.UserRepo
	Organizations *repos.OrganizationRepo
}

var tokenSecret string

func RegisterAuthController(r *utils.Router, config *config.Config, c AuthController) {
	tokenSecret = config.JwtSecret

	r.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	auth := r.Group("/auth")

	auth.Post("/register", c.register)
	auth.Post("/login", c.login)
}

type registerRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Name           string `json:"name" validate:"required,min=2"`
	OrganizationId *int64 `json:"organizationId"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *AuthController) register(c *fiber.Ctx) error {
	req := new(registerRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := utils.ValidateStruct(validate.Struct(req)); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	taken, err := r.Users.EmailTaken(c.Context(), req.Email, 0)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if taken {
		return badRequest(c, "User already exists")
	}

	if req.OrganizationId != nil {
		exists, err := r.Organizations.Exists(c.Context(), *req.OrganizationId)
		if err != nil {
			return utils.StandardInternalError(c, err)
		}
		if !exists {
			return notFound(c, "Organization not found")
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	user := &models.User{
		Email:          req.Email,
		Password:       hash,
		Name:           req.Name,
		Role:           models.RolePlain,
		OrganizationId: req.OrganizationId,
	}
	if err := r.Users.AddUser(c.Context(), user); err != nil {
		return utils.StandardInternalError(c, err)
	}

	token, err := issueToken(user.Id)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

func (r *AuthController) login(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := utils.ValidateStruct(validate.Struct(req)); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	// Unknown email and wrong password answer identically on purpose.
	user, err := r.Users.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invalidCredentials(c)
		}
		return utils.StandardInternalError(c, err)
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return invalidCredentials(c)
	}

	token, err := issueToken(user.Id)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

func issueToken(userId int64) (string, error) {
	return utils.CreateJwt(utils.JwtConfig{
		User:     userId,
		ExpireIn: utils.TokenValidity,
		Subject:  "access",
		Secret:   []byte(tokenSecret),
	})
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid credentials",
	})
}
