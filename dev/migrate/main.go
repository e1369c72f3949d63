package main

import (
	"database/sql"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		description TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS organizations_name_lower_idx ON organizations (lower(name))`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'plain',
		organization_id BIGINT REFERENCES organizations (id)
	)`,
	`CREATE TABLE IF NOT EXISTS integration_configs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		integration_type TEXT NOT NULL,
		api_token TEXT NOT NULL,
		UNIQUE (user_id, integration_type)
	)`,
	`CREATE TABLE IF NOT EXISTS wealthbox_users (
		id BIGSERIAL PRIMARY KEY,
		wealthbox_id TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		account BIGINT,
		excluded_from_assignments BOOLEAN NOT NULL DEFAULT FALSE,
		organization_id BIGINT REFERENCES organizations (id)
	)`,
}

func main() {
	db, err := sql.Open("postgres", os.Getenv("DSN"))
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open database")
	}
	defer db.Close()

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal().Err(err).Str("statement", stmt).Msg("Migration failed")
		}
	}

	log.Info().Msg("Schema is up to date")
}
