package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
		"name":     "Alice",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.Email != "alice@example.com" || resp.User.Name != "Alice" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}
	if resp.Token == "" {
		t.Error("expected a token in register response")
	}

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	registerUser(t, r, "alice@example.com", "Alice")

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
		"name":     "Alice Again",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	cases := []map[string]string{
		{"password": "password123", "name": "No Email"},
		{"email": "not-an-email", "password": "password123", "name": "Bad Email"},
		{"email": "short@example.com", "password": "abc", "name": "Short Password"},
		{"email": "noname@example.com", "password": "password123"},
	}

	for _, body := range cases {
		w := doJSON(r, http.MethodPost, "/api/auth/register", "", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %v, got %d", body, w.Code)
		}
	}
}

func TestLoginBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	registerUser(t, r, "alice@example.com", "Alice")

	w := doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: expected 401, got %d", w.Code)
	}
}

func TestProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	token := registerUser(t, r, "alice@example.com", "Alice")

	profile := getProfile(t, r, token)
	if profile["email"] != "alice@example.com" {
		t.Errorf("unexpected email: %v", profile["email"])
	}
	if profile["storageUsed"] != float64(0) {
		t.Errorf("expected storageUsed 0, got %v", profile["storageUsed"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	w := doJSON(r, http.MethodGet, "/api/auth/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/files", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: expected 401, got %d", w.Code)
	}
}
