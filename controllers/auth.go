package controllers

import (
	"database/sql"
	"net/http"
	"strings"

	"outreach-portal/middleware"
	"outreach-portal/models"
	"outreach-portal/utils"
	"outreach-portal/views"

	"github.com/sirupsen/logrus"
)

type AuthController struct {
	Sessions *middleware.SessionManager
}

func (ac AuthController) LoginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, http.StatusOK, "login.html", map[string]interface{}{
			"Identity": middleware.IdentityFrom(r.Context()),
		})
	}
}

func (ac AuthController) Login(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("password")

		// One generic failure path for both unknown usernames and wrong
		// passwords.
		fail := func() {
			views.Render(w, http.StatusOK, "login.html", map[string]interface{}{
				"Identity": middleware.IdentityFrom(r.Context()),
				"Error":    "Invalid username or password.",
			})
		}

		var user models.User
		var participantID sql.NullInt64
		var pictureURL sql.NullString
		err := db.QueryRow(`
			SELECT u.user_id, u.username, u.password_hash, u.role, u.participant_id, p.profile_picture_url
			FROM users u
			LEFT JOIN participants p ON p.participant_id = u.participant_id
			WHERE u.username = ?`, username).
			Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &participantID, &pictureURL)
		if err == sql.ErrNoRows {
			fail()
			return
		}
		if err != nil {
			serverError(w, err, "query user for login")
			return
		}

		if !utils.ComparePasswords(user.PasswordHash, []byte(password)) {
			fail()
			return
		}

		if participantID.Valid {
			pid := int(participantID.Int64)
			user.ParticipantID = &pid
		}
		if err := ac.Sessions.SignIn(w, r, user, utils.NullStringToString(pictureURL)); err != nil {
			serverError(w, err, "save session")
			return
		}

		logrus.WithField("username", username).Info("user logged in")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func (ac AuthController) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ac.Sessions.SignOut(w, r); err != nil {
			logrus.WithError(err).Warn("destroy session")
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func (ac AuthController) SignupForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, http.StatusOK, "signup.html", map[string]interface{}{
			"Identity": middleware.IdentityFrom(r.Context()),
		})
	}
}

// Signup creates a participant and a linked "user"-role account in one
// transaction.
func (ac AuthController) Signup(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("password")
		email := strings.TrimSpace(r.PostFormValue("email"))

		fail := func(message string) {
			views.Render(w, http.StatusOK, "signup.html", map[string]interface{}{
				"Identity": middleware.IdentityFrom(r.Context()),
				"Error":    message,
			})
		}

		if username == "" || password == "" || email == "" {
			fail("Username, password and email are required.")
			return
		}

		var existingID int
		err := db.QueryRow("SELECT user_id FROM users WHERE username = ?", username).Scan(&existingID)
		if err == nil {
			fail("That username is already taken.")
			return
		}
		if err != sql.ErrNoRows {
			serverError(w, err, "check existing username")
			return
		}

		hash, err := utils.HashPassword(password)
		if err != nil {
			serverError(w, err, "hash password")
			return
		}

		tx, err := db.Begin()
		if err != nil {
			serverError(w, err, "begin signup transaction")
			return
		}
		defer tx.Rollback()

		participantID, err := findOrCreateParticipantByEmail(tx, email,
			strings.TrimSpace(r.PostFormValue("first_name")),
			strings.TrimSpace(r.PostFormValue("last_name")),
			strings.TrimSpace(r.PostFormValue("phone")))
		if err != nil {
			serverError(w, err, "create participant for signup")
			return
		}

		_, err = tx.Exec("INSERT INTO users (username, password_hash, role, participant_id) VALUES (?, ?, ?, ?)",
			username, hash, models.RoleUser, participantID)
		if err != nil {
			serverError(w, err, "insert user")
			return
		}

		if err := tx.Commit(); err != nil {
			serverError(w, err, "commit signup")
			return
		}

		logrus.WithField("username", username).Info("account created")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

type execQuerier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// findOrCreateParticipantByEmail resolves a participant id for the given
// email, inserting a new row when none exists. The UNIQUE key on email is
// the backstop for two concurrent submissions of the same new address: the
// losing insert falls back to re-reading the winner's row.
func findOrCreateParticipantByEmail(db execQuerier, email, firstName, lastName, phone string) (int, error) {
	var id int
	err := db.QueryRow("SELECT participant_id FROM participants WHERE email = ?", email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := db.Exec("INSERT INTO participants (first_name, last_name, email, phone) VALUES (?, ?, ?, ?)",
		firstName, lastName, email, phone)
	if err != nil {
		if rerr := db.QueryRow("SELECT participant_id FROM participants WHERE email = ?", email).Scan(&id); rerr == nil {
			return id, nil
		}
		return 0, err
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(newID), nil
}
