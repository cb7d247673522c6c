package controllers

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"outreach-portal/middleware"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
)

// newTestDB opens an in-memory database with the portal schema. The DDL is
// the sqlite rendering of migrations/000001_init.up.sql.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE participants (
			participant_id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			dob TEXT,
			city TEXT,
			state TEXT,
			zip_code TEXT,
			school_or_employer TEXT,
			profile_picture_url TEXT
		);
		CREATE TABLE users (
			user_id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			participant_id INTEGER
		);
		CREATE TABLE donations (
			donation_id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id INTEGER NOT NULL,
			donation_amount REAL NOT NULL,
			donation_date TEXT NOT NULL
		);
		CREATE TABLE event_templates (
			event_template_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT
		);
		CREATE TABLE locations (
			location_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		);
		CREATE TABLE event_occurrences (
			event_occurrence_id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_template_id INTEGER NOT NULL,
			location_id INTEGER NOT NULL,
			start_time TEXT NOT NULL
		);
		CREATE TABLE registrations (
			registration_id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id INTEGER NOT NULL,
			event_occurrence_id INTEGER NOT NULL
		);
		CREATE TABLE nps_buckets (
			nps_bucket_id INTEGER PRIMARY KEY,
			label TEXT NOT NULL
		);
		INSERT INTO nps_buckets (nps_bucket_id, label) VALUES (1, 'Detractor'), (2, 'Passive'), (3, 'Promoter');
		CREATE TABLE surveys (
			survey_id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id INTEGER NOT NULL,
			event_occurrence_id INTEGER NOT NULL,
			score_satisfaction INTEGER,
			score_usefulness INTEGER,
			score_instructor INTEGER,
			score_recommendation INTEGER,
			score_overall INTEGER,
			nps_bucket_id INTEGER,
			comments TEXT,
			submission_date TEXT NOT NULL
		);
		CREATE TABLE milestone_types (
			milestone_type_id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL
		);
		CREATE TABLE milestones (
			milestone_id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id INTEGER NOT NULL,
			milestone_type_id INTEGER NOT NULL,
			milestone_date TEXT NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func insertParticipant(t *testing.T, db *sql.DB, firstName, lastName, email string) int {
	t.Helper()
	result, err := db.Exec("INSERT INTO participants (first_name, last_name, email, city) VALUES (?, ?, ?, ?)",
		firstName, lastName, email, "Springfield")
	if err != nil {
		t.Fatalf("insert participant: %v", err)
	}
	id, _ := result.LastInsertId()
	return int(id)
}

func managerIdentity() middleware.Identity {
	return middleware.Identity{LoggedIn: true, UserID: 1, Username: "boss", Role: "manager", Manager: true}
}

func userIdentity(userID, participantID int) middleware.Identity {
	return middleware.Identity{LoggedIn: true, UserID: userID, Username: "member", Role: "user", ParticipantID: participantID}
}

// doGet runs a handler as the given identity and returns the recorder.
func doGet(t *testing.T, handler http.HandlerFunc, id middleware.Identity, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("GET", target, nil)
	r = r.WithContext(middleware.ContextWithIdentity(r.Context(), id))
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

// doPost submits a form as the given identity; vars populates mux route
// variables such as {id}.
func doPost(t *testing.T, handler http.HandlerFunc, id middleware.Identity, target string, form url.Values, vars map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = r.WithContext(middleware.ContextWithIdentity(r.Context(), id))
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func countTable(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
