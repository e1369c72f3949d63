package models

import "github.com/uptrace/bun"

type Organization struct {
	bun.BaseModel `bun:"organizations,alias:org"`

	Id          int64   `bun:",pk,autoincrement" json:"id"`
	Name        string  `bun:",notnull" json:"name"`
	Description *string `json:"description,omitempty"`
	Users       []User  `bun:"rel:has-many,join:id=organization_id" json:"users,omitempty"`
}
