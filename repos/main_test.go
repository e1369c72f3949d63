package repos

import (
	"context"
	"database/sql"
	"testing"

	"github.com/advisorhub/advisorhub-server/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func setupTestDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	// a single connection keeps every query on the same in-memory database
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Organization)(nil),
		(*models.User)(nil),
		(*models.IntegrationConfig)(nil),
		(*models.WealthboxUser)(nil),
	} {
		if _, err := db.NewCreateTable().Model(model).Exec(ctx); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func addTestOrganization(t *testing.T, db *bun.DB, name string) *models.Organization {
	org := &models.Organization{Name: name}
	if err := NewOrganizationRepo(db).AddOrganization(context.Background(), org); err != nil {
		t.Fatalf("Failed to create organization: %v", err)
	}
	if org.Id == 0 {
		t.Fatal("Expected a generated organization id")
	}
	return org
}

func addTestUser(t *testing.T, db *bun.DB, email string) *models.User {
	user := &models.User{
		Email:    email,
		Password: "hashed",
		Name:     "Test User",
		Role:     models.RolePlain,
	}
	if err := NewUserRepo(db).AddUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}
