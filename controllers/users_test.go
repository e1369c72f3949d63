package controllers

import (
	"fmt"
	"net/http"
	"testing"
)

func TestChangePassword_WrongCurrent(t *testing.T) {
	app, _ := newTestApp(t, "")
	token, _ := registerUser(t, app, "a@x.com")

	res := doJSON(t, app, http.MethodPost, "/api/users/change-password", map[string]interface{}{
		"currentPassword": "not-the-one",
		"newPassword":     "changed1",
	}, token)
	body := decodeBody(t, res)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", res.StatusCode)
	}
	if body["error"] != "Current password is incorrect" {
		t.Errorf("Unexpected error message: %v", body["error"])
	}

	// the stored hash must be untouched: the old password still logs in
	res = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "a@x.com",
		"password": "secret1",
	}, "")
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("Expected the old password to keep working, got %d", res.StatusCode)
	}
}

func TestChangePassword(t *testing.T) {
	app, _ := newTestApp(t, "")
	token, _ := registerUser(t, app, "a@x.com")

	res := doJSON(t, app, http.MethodPost, "/api/users/change-password", map[string]interface{}{
		"currentPassword": "secret1",
		"newPassword":     "changed1",
	}, token)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}
	res.Body.Close()

	res = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "a@x.com",
		"password": "changed1",
	}, "")
	if res.StatusCode != http.StatusOK {
		t.Errorf("Expected the new password to log in, got %d", res.StatusCode)
	}
	res.Body.Close()

	res = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "a@x.com",
		"password": "secret1",
	}, "")
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected the old password to be rejected, got %d", res.StatusCode)
	}
}

func TestUserAdministration_AdminGate(t *testing.T) {
	app, db := newTestApp(t, "")
	plainToken, _ := registerUser(t, app, "plain@x.com")
	adminToken, adminId := registerUser(t, app, "admin@x.com")
	_, targetId := registerUser(t, app, "target@x.com")
	makeAdmin(t, db, adminId)

	// plain callers cannot mutate other users
	res := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d", targetId), map[string]interface{}{
		"name": "Renamed",
	}, plainToken)
	if res.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for a plain update, got %d", res.StatusCode)
	}
	res.Body.Close()

	res = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", targetId), nil, plainToken)
	if res.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for a plain delete, got %d", res.StatusCode)
	}
	res.Body.Close()

	res = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d", targetId), map[string]interface{}{
		"name": "Renamed",
		"role": "admin",
	}, adminToken)
	body := decodeBody(t, res)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for an admin update, got %d (%v)", res.StatusCode, body)
	}
	if body["name"] != "Renamed" || body["role"] != "admin" {
		t.Errorf("Update did not persist: %v", body)
	}

	res = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", targetId), nil, adminToken)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for an admin delete, got %d", res.StatusCode)
	}
	res.Body.Close()

	res = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", targetId), nil, adminToken)
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", res.StatusCode)
	}
}

func TestUserOrganizationReassignment(t *testing.T) {
	app, db := newTestApp(t, "")
	adminToken, adminId := registerUser(t, app, "admin@x.com")
	_, targetId := registerUser(t, app, "target@x.com")
	makeAdmin(t, db, adminId)

	res := doJSON(t, app, http.MethodPost, "/api/organizations", map[string]interface{}{
		"name": "Acme",
	}, adminToken)
	created := decodeBody(t, res)
	orgId := int64(created["id"].(float64))

	res = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d/organization", targetId), map[string]interface{}{
		"organizationId": 9999,
	}, adminToken)
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown organization, got %d", res.StatusCode)
	}
	res.Body.Close()

	res = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d/organization", targetId), map[string]interface{}{
		"organizationId": orgId,
	}, adminToken)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}
	res.Body.Close()

	res = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", targetId), nil, adminToken)
	body := decodeBody(t, res)
	org, _ := body["organization"].(map[string]interface{})
	if org == nil || org["name"] != "Acme" {
		t.Errorf("Expected the user to carry the organization summary, got %v", body["organization"])
	}
}

func TestListUsers(t *testing.T) {
	app, _ := newTestApp(t, "")
	token, _ := registerUser(t, app, "a@x.com")
	registerUser(t, app, "b@x.com")

	res := doJSON(t, app, http.MethodGet, "/api/users", nil, token)
	users := decodeList(t, res)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
	for _, user := range users {
		if _, leaked := user["password"]; leaked {
			t.Error("The password hash must never be serialized")
		}
	}
}
