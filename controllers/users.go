package controllers

import (
	"database/sql"
	"net/http"
	"strings"

	"outreach-portal/middleware"
	"outreach-portal/models"
	"outreach-portal/utils"
	"outreach-portal/views"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type UserController struct{}

func (uc UserController) List(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())

		f := &Filter{}
		if !id.Manager {
			f.Equals("u.user_id", id.UserID)
		}
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			f.Search(q, []string{"u.username", "u.role"})
		}

		total, err := countRows(db, "FROM users u", f)
		if err != nil {
			serverError(w, err, "count users")
			return
		}
		page := newPage(r, total)

		rows, err := db.Query(`
			SELECT u.user_id, u.username, u.role
			FROM users u`+f.Clause()+`
			ORDER BY u.username LIMIT ? OFFSET ?`,
			append(f.Args(), page.Size, page.Offset)...)
		if err != nil {
			serverError(w, err, "query users")
			return
		}
		defer rows.Close()

		var users []models.User
		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
				serverError(w, err, "scan user row")
				return
			}
			users = append(users, u)
		}

		views.Render(w, http.StatusOK, "users.html", map[string]interface{}{
			"Identity": id,
			"Rows":     users,
			"Page":     page,
			"Query":    page.Query,
			"Action":   "/users",
		})
	}
}

func (uc UserController) AddForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uc.renderForm(db, w, r, models.User{Role: models.RoleUser})
	}
}

func (uc UserController) Add(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			views.RenderError(w, http.StatusBadRequest, "Username and password are required.")
			return
		}

		hash, err := utils.HashPassword(password)
		if err != nil {
			serverError(w, err, "hash password")
			return
		}

		_, err = db.Exec("INSERT INTO users (username, password_hash, role, participant_id) VALUES (?, ?, ?, ?)",
			username, hash, formRole(r), formParticipantID(r))
		if err != nil {
			serverError(w, err, "insert user")
			return
		}
		http.Redirect(w, r, "/users", http.StatusSeeOther)
	}
}

func (uc UserController) EditForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}

		var u models.User
		var participantID sql.NullInt64
		err = db.QueryRow("SELECT user_id, username, role, participant_id FROM users WHERE user_id = ?", userID).
			Scan(&u.ID, &u.Username, &u.Role, &participantID)
		if err == sql.ErrNoRows {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err, "load user")
			return
		}
		if participantID.Valid {
			pid := int(participantID.Int64)
			u.ParticipantID = &pid
		}

		uc.renderForm(db, w, r, u)
	}
}

func (uc UserController) Edit(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		username := strings.TrimSpace(r.PostFormValue("username"))
		if username == "" {
			views.RenderError(w, http.StatusBadRequest, "Username is required.")
			return
		}

		var result sql.Result
		if password := r.PostFormValue("password"); password != "" {
			hash, herr := utils.HashPassword(password)
			if herr != nil {
				serverError(w, herr, "hash password")
				return
			}
			result, err = db.Exec("UPDATE users SET username = ?, password_hash = ?, role = ?, participant_id = ? WHERE user_id = ?",
				username, hash, formRole(r), formParticipantID(r), userID)
		} else {
			result, err = db.Exec("UPDATE users SET username = ?, role = ?, participant_id = ? WHERE user_id = ?",
				username, formRole(r), formParticipantID(r), userID)
		}
		if err != nil {
			serverError(w, err, "update user")
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE user_id = ?", userID).Scan(&exists); err == sql.ErrNoRows {
				notFound(w)
				return
			}
		}
		http.Redirect(w, r, "/users", http.StatusSeeOther)
	}
}

// Delete removes a user account. A manager deleting their own account is a
// client error, and the row is left untouched.
func (uc UserController) Delete(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())
		userID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}

		if userID == id.UserID {
			views.RenderError(w, http.StatusBadRequest, "You cannot delete your own account.")
			return
		}

		if _, err := db.Exec("DELETE FROM users WHERE user_id = ?", userID); err != nil {
			serverError(w, err, "delete user")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": userID, "by": id.Username}).Info("user deleted")
		http.Redirect(w, r, "/users", http.StatusSeeOther)
	}
}

func (uc UserController) renderForm(db *sql.DB, w http.ResponseWriter, r *http.Request, u models.User) {
	participants, err := allParticipants(db)
	if err != nil {
		serverError(w, err, "load participants for user form")
		return
	}
	views.Render(w, http.StatusOK, "user_form.html", map[string]interface{}{
		"Identity":     middleware.IdentityFrom(r.Context()),
		"User":         u,
		"Participants": participants,
	})
}

func formRole(r *http.Request) string {
	if r.PostFormValue("role") == models.RoleManager {
		return models.RoleManager
	}
	return models.RoleUser
}

func formParticipantID(r *http.Request) interface{} {
	pid, err := utils.StrToInt(r.PostFormValue("participant_id"))
	if err != nil {
		return nil
	}
	return pid
}
