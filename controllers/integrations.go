package controllers

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/advisorhub/advisorhub-server/config"
	"github.com/advisorhub/advisorhub-server/integrations/wealthbox"
	"github.com/advisorhub/advisorhub-server/repos"
	"github.com/advisorhub/advisorhub-server/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"

	"go.uber.org/fx"
)

type IntegrationController struct {
	fx.In

	Configs       *repos.IntegrationRepo
	Contacts      *repos.WealthboxRepo
	Organizations *repos.OrganizationRepo
	Client        *wealthbox.Client
}

func RegisterIntegrationController(r *utils.Router, config *config.Config, db *bun.DB, c IntegrationController) {
	integrations := r.Group("/integrations", protectedRoute(config, db))

	integrations.Post("/config", c.saveConfig)
	integrations.Get("/config/:integrationType", c.getConfig)
	integrations.Post("/wealthbox/sync", c.sync)
	integrations.Get("/wealthbox/users", c.listContacts)
	integrations.Put("/wealthbox/users/:id/organization", c.setContactOrganization)
}

type integrationConfigRequest struct {
	IntegrationType string `json:"integrationType" validate:"required"`
	ApiToken        string `json:"apiToken" validate:"required,min=1"`
}

type contactOrganizationRequest struct {
	OrganizationId int64 `json:"organizationId" validate:"required"`
}

func (r *IntegrationController) saveConfig(c *fiber.Ctx) error {
	caller := authUser(c)
	if !caller.Can(utils.CapIntegrationManage) {
		return forbidden(c)
	}

	req := new(integrationConfigRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := utils.ValidateStruct(validate.Struct(req)); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	config, err := r.Configs.SaveConfig(c.Context(), caller.Id, req.IntegrationType, req.ApiToken)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Integration configuration saved successfully",
		"integrationConfig": fiber.Map{
			"id":              config.Id,
			"integrationType": config.IntegrationType,
		},
	})
}

func (r *IntegrationController) getConfig(c *fiber.Ctx) error {
	caller := authUser(c)

	config, err := r.Configs.GetConfig(c.Context(), caller.Id, c.Params("integrationType"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(c, "Integration configuration not found")
		}
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(config)
}

func (r *IntegrationController) sync(c *fiber.Ctx) error {
	caller := authUser(c)
	if !caller.Can(utils.CapIntegrationManage) {
		return forbidden(c)
	}

	config, err := r.Configs.GetConfig(c.Context(), caller.Id, wealthbox.IntegrationType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(c, "Wealthbox integration not configured")
		}
		return utils.StandardInternalError(c, err)
	}

	contacts, err := r.Client.FetchUsers(config.ApiToken)
	if err != nil {
		return badRequest(c, "Failed to fetch Wealthbox users")
	}

	result, err := r.Contacts.SyncContacts(c.Context(), contacts, caller.OrganizationId)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Wealthbox users synced successfully",
		"count":         result.Created,
		"skipped":       len(result.SkippedEmails),
		"skippedEmails": result.SkippedEmails,
	})
}

func (r *IntegrationController) listContacts(c *fiber.Ctx) error {
	var organizationId *int64
	if raw := c.Query("organizationId"); raw != "" && raw != "all" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(c, "Invalid organization id")
		}
		organizationId = &id
	}

	contacts, err := r.Contacts.ListContacts(c.Context(), organizationId)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(contacts)
}

// setContactOrganization reassigns a synced Wealthbox contact, not an
// application user.
func (r *IntegrationController) setContactOrganization(c *fiber.Ctx) error {
	caller := authUser(c)
	if !caller.Can(utils.CapContactAssign) {
		return forbidden(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid contact id")
	}

	req := new(contactOrganizationRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errors := utils.ValidateStruct(validate.Struct(req)); len(errors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errors)
	}

	exists, err := r.Organizations.Exists(c.Context(), req.OrganizationId)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}
	if !exists {
		return notFound(c, "Organization not found")
	}

	contact, err := r.Contacts.SetOrganization(c.Context(), int64(id), req.OrganizationId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(c, "Wealthbox user not found")
		}
		return utils.StandardInternalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Contact organization updated successfully",
		"user":    contact,
	})
}
