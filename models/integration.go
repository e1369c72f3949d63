package models

import "github.com/uptrace/bun"

// IntegrationConfig stores one external API token per (user, integration
// type) pair. Saves go through an upsert so the pair stays unique.
type IntegrationConfig struct {
	bun.BaseModel `bun:"integration_configs,alias:ic"`

	Id              int64  `bun:",pk,autoincrement" json:"id"`
	UserId          int64  `bun:",notnull" json:"userId"`
	IntegrationType string `bun:",notnull" json:"integrationType"`
	ApiToken        string `bun:",notnull" json:"apiToken"`
}
