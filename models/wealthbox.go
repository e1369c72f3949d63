package models

import "github.com/uptrace/bun"

// WealthboxUser is a locally persisted copy of a contact pulled from the
// Wealthbox API. Email is the sync identity: a contact whose email already
// exists locally is skipped, never merged.
type WealthboxUser struct {
	bun.BaseModel `bun:"wealthbox_users,alias:wu"`

	Id                      int64         `bun:",pk,autoincrement" json:"id"`
	WealthboxId             string        `bun:",notnull" json:"wealthboxId"`
	Email                   string        `bun:",unique,notnull" json:"email"`
	Name                    string        `bun:",notnull" json:"name"`
	Account                 *int64        `json:"account"`
	ExcludedFromAssignments bool          `bun:",notnull,default:false" json:"excludedFromAssignments"`
	OrganizationId          *int64        `json:"organizationId"`
	Organization            *Organization `bun:"rel:belongs-to,join:organization_id=id" json:"organization,omitempty"`
}
