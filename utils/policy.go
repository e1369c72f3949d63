package utils

import "github.com/advisorhub/advisorhub-server/models"

type Capability int

const (
	// CapOrganizationManage covers creating, updating and deleting
	// organizations. Organizations are a shared, globally scoped resource:
	// every authenticated user holds this capability.
	CapOrganizationManage Capability = iota

	// CapUserManage covers mutating other users (update, delete, reassigning
	// their organization). Admin only.
	CapUserManage

	// CapContactAssign covers reassigning a synced Wealthbox contact to an
	// organization.
	CapContactAssign

	// CapIntegrationManage covers storing integration tokens and running
	// syncs, always scoped to the caller's own records.
	CapIntegrationManage
)

// Can is the single authorization decision point. Handlers consult it before
// every mutating operation instead of spreading ad-hoc role tests around.
func (u AuthUser) Can(capability Capability) bool {
	switch capability {
	case CapUserManage:
		return u.Role == models.RoleAdmin
	case CapOrganizationManage, CapContactAssign, CapIntegrationManage:
		return true
	}
	return false
}
