package controllers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advisorhub/advisorhub-server/config"
	"github.com/advisorhub/advisorhub-server/integrations/wealthbox"
	"github.com/advisorhub/advisorhub-server/models"
	"github.com/advisorhub/advisorhub-server/repos"
	"github.com/advisorhub/advisorhub-server/utils"
	"github.com/gofiber/fiber/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
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

// newTestApp wires the full route surface against an in-memory database.
// wealthboxUrl points the sync client at a test server; empty means unused.
func newTestApp(t *testing.T, wealthboxUrl string) (*fiber.App, *bun.DB) {
	db := setupTestDB(t)

	cfg := &config.Config{
		JwtSecret:       testSecret,
		WealthboxApiUrl: wealthboxUrl,
	}

	app := fiber.New()
	r := utils.GetDefaultRouter(app)

	users := repos.NewUserRepo(db)
	orgs := repos.NewOrganizationRepo(db)
	configs := repos.NewIntegrationRepo(db)
	contacts := repos.NewWealthboxRepo(db)

	RegisterAuthController(r, cfg, AuthController{Users: users, Organizations: orgs})
	RegisterUserController(r, cfg, db, UserController{Users: users, Organizations: orgs})
	RegisterOrganizationController(r, cfg, db, OrganizationController{Repo: orgs})
	RegisterIntegrationController(r, cfg, db, IntegrationController{
		Configs:       configs,
		Contacts:      contacts,
		Organizations: orgs,
		Client:        wealthbox.NewClient(cfg),
	})

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}

	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	defer res.Body.Close()

	body := make(map[string]interface{})
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}

	return body
}

func decodeList(t *testing.T, res *http.Response) []map[string]interface{} {
	defer res.Body.Close()

	var body []map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}

	return body
}

// registerUser goes through the real endpoint and hands back the issued token
// and the new user's id.
func registerUser(t *testing.T, app *fiber.App, email string) (string, int64) {
	res := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":    email,
		"password": "secret1",
		"name":     "Test User",
	}, "")
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("Registration of %s failed with status %d", email, res.StatusCode)
	}

	body := decodeBody(t, res)
	token, _ := body["token"].(string)
	user, _ := body["user"].(map[string]interface{})
	id, _ := user["id"].(float64)
	if token == "" || id == 0 {
		t.Fatalf("Registration response missing token or id: %v", body)
	}

	return token, int64(id)
}

func makeAdmin(t *testing.T, db *bun.DB, id int64) {
	_, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("role = ?", models.RoleAdmin).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		t.Fatalf("Failed to promote user %d: %v", id, err)
	}
}
