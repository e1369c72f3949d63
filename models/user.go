package models

import "github.com/uptrace/bun"

const (
	RolePlain = "plain"
	RoleAdmin = "admin"
)

type User struct {
	bun.BaseModel `bun:"users,alias:user"`

	Id             int64         `bun:",pk,autoincrement" json:"id"`
	Email          string        `bun:",unique,notnull" json:"email"`
	Password       string        `bun:",notnull" json:"-"`
	Name           string        `bun:",notnull" json:"name"`
	Role           string        `bun:",notnull,default:'plain'" json:"role"`
	OrganizationId *int64        `json:"organizationId"`
	Organization   *Organization `bun:"rel:belongs-to,join:organization_id=id" json:"organization,omitempty"`
}

// Public returns the fields safe to hand back to clients.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":             u.Id,
		"email":          u.Email,
		"name":           u.Name,
		"role":           u.Role,
		"organizationId": u.OrganizationId,
	}
}
