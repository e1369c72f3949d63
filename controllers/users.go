package controllers

import (
	"database/sql"
	"errors"

	"github.com/advisorhub/advisorhub-server/config"
	"github.com/advisorhub/advisorhub-server/models"
	"github.com/advisorhub/advisorhub-server/repos"
	"github.com/advisorhub/advisorhub-server/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"

	"go.uber.org/fx"
)

type UserController struct {
	fx.In

	Users         *repos.UserRepo
	Organizations *repos.OrganizationRepo
}

func RegisterUserController(r *utils.Router, config *config.Config, db *bun.DB, c UserController) {
	users := r.Group("/users", protectedRoute(config, db))

	users.Get("/", c.list)
	users.Post("/change-password", c.changePassword)
	users.Get("/:id", c.get)
	users.Put("/:id/organization", c.setOrganization)
	users.Put("/:id", c.update)
	users.Delete("/:id", c.remove)
}

type updateUserRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=2"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Role           *string `json:"role" validate:"omitempty,oneof=plain admin"`
	OrganizationId *int64  `json:"organizationId"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type setOrganizationRequest struct {
	OrganizationId *int64 `json:"organizationId"`
}

func (r *UserController) list(c *fiber.Ctx) error {
	users, err := r.Users.ListUsers(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(users)
}

func (r *UserController) get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	user, err := r.Users.GetUser(c.Context(), int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(c, "User not found")
		}
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(user)
}

func (r *UserController) update(c *fiber.Ctx) error {
	if !authUser(c).Can(utils.CapUserManage) {
		return forbidden(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	req := new(updateUserRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := utils.ValidateStruct(validate.Struct(req)); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	user := &models.User{Id: int64(id)}
	columns := make([]string, 0, 4)
	if req.Name != nil {
		user.Name = *req.Name
		columns = append(columns, "name")
	}
	if req.Email != nil {
		taken, err := r.Users.EmailTaken(c.Context(), *req.Email, int64(id))
		if err != nil {
			return utils.StandardInternalError(c, err)
		}
		if taken {
			return badRequest(c, "User already exists")
		}

		user.Email = *req.Email
		columns = append(columns, "email")
	}
	if req.Role != nil {
		user.Role = *req.Role
		columns = append(columns, "role")
	}
	if req.OrganizationId != nil {
		exists, err := r.Organizations.Exists(c.Context(), *req.OrganizationId)
		if err != nil {
			return utils.StandardInternalError(c, err)
		}
		if !exists {
			return notFound(c, "Organization not found")
		}

		user.OrganizationId = req.OrganizationId
		columns = append(columns, "organization_id")
	}
	if len(columns) == 0 {
		return badRequest(c, "Nothing to update")
	}

	found, err := r.Users.UpdateUser(c.Context(), user, columns...)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if !found {
		return notFound(c, "User not found")
	}

	updated, err := r.Users.GetUser(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(updated)
}

func (r *UserController) remove(c *fiber.Ctx) error {
	if !authUser(c).Can(utils.CapUserManage) {
		return forbidden(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	found, err := r.Users.DeleteUser(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if !found {
		return notFound(c, "User not found")
	}

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// setOrganization reassigns a user's organization. Not to be confused with
// the synced-contact reassignment living under the integrations routes.
func (r *UserController) setOrganization(c *fiber.Ctx) error {
	if !authUser(c).Can(utils.CapUserManage) {
		return forbidden(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	req := new(setOrganizationRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
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

	found, err := r.Users.SetOrganization(c.Context(), int64(id), req.OrganizationId)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if !found {
		return notFound(c, "User not found")
	}

	return c.JSON(fiber.Map{
		"message": "User organization updated successfully",
	})
}

func (r *UserController) changePassword(c *fiber.Ctx) error {
	caller := authUser(c)

	req := new(changePasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := utils.ValidateStruct(validate.Struct(req)); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	user, err := r.Users.GetCredentials(c.Context(), caller.Id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(c, "User not found")
		}
		return utils.StandardInternalError(c, err)
	}

	if !utils.VerifyPassword(req.CurrentPassword, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Current password is incorrect",
		})
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	if err := r.Users.UpdatePassword(c.Context(), caller.Id, hash); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}
