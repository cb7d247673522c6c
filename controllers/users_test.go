package controllers

import (
	"net/http"
	"strings"
	"testing"
)

func TestUserSelfDeletionRejected(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Exec("INSERT INTO users (username, password_hash, role) VALUES ('boss', 'x', 'manager')"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	uc := UserController{}
	id := managerIdentity() // UserID 1
	w := doPost(t, uc.Delete(db), id, "/users/delete/1", nil, map[string]string{"id": "1"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if n := countTable(t, db, "users"); n != 1 {
		t.Errorf("users = %d, want the row to survive", n)
	}
}

func TestUserDeleteOtherAccount(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Exec("INSERT INTO users (username, password_hash, role) VALUES ('boss', 'x', 'manager'), ('member', 'x', 'user')"); err != nil {
		t.Fatalf("seed users: %v", err)
	}

	uc := UserController{}
	w := doPost(t, uc.Delete(db), managerIdentity(), "/users/delete/2", nil, map[string]string{"id": "2"})

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if n := countTable(t, db, "users"); n != 1 {
		t.Errorf("users = %d, want 1 remaining", n)
	}
}

func TestUserListScopedToSelf(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Exec("INSERT INTO users (username, password_hash, role) VALUES ('boss', 'x', 'manager'), ('member', 'x', 'user')"); err != nil {
		t.Fatalf("seed users: %v", err)
	}

	uc := UserController{}
	w := doGet(t, uc.List(db), userIdentity(2, 0), "/users")

	body := w.Body.String()
	if !strings.Contains(body, "member") {
		t.Error("own account missing from listing")
	}
	if strings.Contains(body, "boss") {
		t.Error("foreign account leaked into scoped listing")
	}
}
