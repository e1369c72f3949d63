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

type OrganizationController struct {
	fx.In

	Repo *repos.OrganizationRepo
}

func RegisterOrganizationController(r *utils.Router, config *config.Config, db *bun.DB, c OrganizationController) {
	orgs := r.Group("/organizations", protectedRoute(config, db))

	orgs.Get("/", c.list)
	orgs.Post("/", c.create)
	orgs.Get("/:id", c.get)
	orgs.Put("/:id", c.update)
	orgs.Delete("/:id", c.remove)
}

type organizationRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description"`
}

func (r *OrganizationController) list(c *fiber.Ctx) error {
	orgs, err := r.Repo.ListOrganizations(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(orgs)
}

func (r *OrganizationController) get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid organization id")
	}

	org, err := r.Repo.GetOrganization(c.Context(), int64(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(c, "Organization not found")
		}
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(org)
}

func (r *OrganizationController) create(c *fiber.Ctx) error {
	if !authUser(c).Can(utils.CapOrganizationManage) {
		return forbidden(c)
	}

	req := new(organizationRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := utils.ValidateStruct(validate.Struct(req)); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	taken, err := r.Repo.NameTaken(c.Context(), req.Name, 0)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if taken {
		return badRequest(c, "Organization name must be unique")
	}

	org := &models.Organization{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := r.Repo.AddOrganization(c.Context(), org); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(org)
}

func (r *OrganizationController) update(c *fiber.Ctx) error {
	if !authUser(c).Can(utils.CapOrganizationManage) {
		return forbidden(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid organization id")
	}

	req := new(organizationRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := utils.ValidateStruct(validate.Struct(req)); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	taken, err := r.Repo.NameTaken(c.Context(), req.Name, int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if taken {
		return badRequest(c, "Organization name must be unique")
	}

	org := &models.Organization{
		Id:          int64(id),
		Name:        req.Name,
		Description: req.Description,
	}
	found, err := r.Repo.UpdateOrganization(c.Context(), org)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if !found {
		return notFound(c, "Organization not found")
	}

	return c.JSON(org)
}

func (r *OrganizationController) remove(c *fiber.Ctx) error {
	if !authUser(c).Can(utils.CapOrganizationManage) {
		return forbidden(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid organization id")
	}

	found, err := r.Repo.DeleteOrganization(c.Context(), int64(id))
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if !found {
		return notFound(c, "Organization not found")
	}

	return c.JSON(fiber.Map{
		"message": "Organization deleted successfully",
	})
}
