package controllers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"outreach-portal/middleware"
	"outreach-portal/models"
	"outreach-portal/utils"
	"outreach-portal/views"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ParticipantController struct{}

func (pc ParticipantController) List(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())

		f := &Filter{}
		if !id.Manager {
			f.Equals("p.participant_id", id.ParticipantID)
		}
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			f.Search(q, []string{
				"p.first_name",
				"p.last_name",
				"CONCAT(p.first_name, ' ', p.last_name)",
				"p.email",
				"p.city",
			})
		}

		total, err := countRows(db, "FROM participants p", f)
		if err != nil {
			serverError(w, err, "count participants")
			return
		}
		page := newPage(r, total)

		rows, err := db.Query(`
			SELECT p.participant_id, p.first_name, p.last_name, p.email,
			       COALESCE(p.phone, ''), COALESCE(p.city, ''), COALESCE(p.school_or_employer, '')
			FROM participants p`+f.Clause()+`
			ORDER BY p.last_name, p.first_name LIMIT ? OFFSET ?`,
			append(f.Args(), page.Size, page.Offset)...)
		if err != nil {
			serverError(w, err, "query participants")
			return
		}
		defer rows.Close()

		var participants []models.Participant
		for rows.Next() {
			var p models.Participant
			if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.City, &p.SchoolOrEmployer); err != nil {
				serverError(w, err, "scan participant row")
				return
			}
			participants = append(participants, p)
		}

		views.Render(w, http.StatusOK, "participants.html", map[string]interface{}{
			"Identity": id,
			"Rows":     participants,
			"Page":     page,
			"Query":    page.Query,
			"Action":   "/participants",
		})
	}
}

func (pc ParticipantController) AddForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, http.StatusOK, "participant_form.html", map[string]interface{}{
			"Identity":    middleware.IdentityFrom(r.Context()),
			"Participant": models.Participant{},
			"ReturnTo":    r.URL.Query().Get("return_to"),
		})
	}
}

func (pc ParticipantController) Add(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := db.Exec(`
			INSERT INTO participants (first_name, last_name, email, phone, dob, city, state, zip_code, school_or_employer)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.PostFormValue("first_name"), r.PostFormValue("last_name"), r.PostFormValue("email"),
			r.PostFormValue("phone"), nullIfEmpty(r.PostFormValue("dob")), r.PostFormValue("city"),
			r.PostFormValue("state"), r.PostFormValue("zip_code"), r.PostFormValue("school_or_employer"))
		if err != nil {
			serverError(w, err, "insert participant")
			return
		}

		// A participant added mid-donation goes straight back into the
		// donation form with the new id preselected.
		if r.PostFormValue("return_to") == "donation" {
			newID, err := result.LastInsertId()
			if err != nil {
				serverError(w, err, "participant insert id")
				return
			}
			http.Redirect(w, r, fmt.Sprintf("/donations/add?participant_id=%d", newID), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/participants", http.StatusSeeOther)
	}
}

func (pc ParticipantController) EditForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}

		var p models.Participant
		err = db.QueryRow(`
			SELECT participant_id, first_name, last_name, email,
			       COALESCE(phone, ''), COALESCE(CAST(dob AS CHAR), ''), COALESCE(city, ''),
			       COALESCE(state, ''), COALESCE(zip_code, ''), COALESCE(school_or_employer, '')
			FROM participants WHERE participant_id = ?`, participantID).
			Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.DOB, &p.City, &p.State, &p.ZipCode, &p.SchoolOrEmployer)
		if err == sql.ErrNoRows {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err, "load participant")
			return
		}

		views.Render(w, http.StatusOK, "participant_form.html", map[string]interface{}{
			"Identity":    middleware.IdentityFrom(r.Context()),
			"Participant": p,
		})
	}
}

// Edit updates the whitelisted participant fields only; the picture URL is
// owned by the upload handler.
func (pc ParticipantController) Edit(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}

		result, err := db.Exec(`
			UPDATE participants
			SET first_name = ?, last_name = ?, email = ?, phone = ?, dob = ?,
			    city = ?, state = ?, zip_code = ?, school_or_employer = ?
			WHERE participant_id = ?`,
			r.PostFormValue("first_name"), r.PostFormValue("last_name"), r.PostFormValue("email"),
			r.PostFormValue("phone"), nullIfEmpty(r.PostFormValue("dob")), r.PostFormValue("city"),
			r.PostFormValue("state"), r.PostFormValue("zip_code"), r.PostFormValue("school_or_employer"),
			participantID)
		if err != nil {
			serverError(w, err, "update participant")
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM participants WHERE participant_id = ?", participantID).Scan(&exists); err == sql.ErrNoRows {
				notFound(w)
				return
			}
		}
		http.Redirect(w, r, "/participants", http.StatusSeeOther)
	}
}

// participantDependents lists every table holding rows that must go before
// the participant row itself. Adding a dependent table is a data change, not
// new control flow.
var participantDependents = []struct {
	table    string
	fkColumn string
}{
	{"donations", "participant_id"},
	{"surveys", "participant_id"},
	{"registrations", "participant_id"},
	{"milestones", "participant_id"},
	{"users", "participant_id"},
}

// DeleteParticipantCascade removes a participant and every dependent row in
// one transaction. Partial deletion is never observable.
func DeleteParticipantCascade(db *sql.DB, participantID int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, dep := range participantDependents {
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", dep.table, dep.fkColumn)
		if _, err := tx.Exec(query, participantID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM participants WHERE participant_id = ?", participantID); err != nil {
		return err
	}
	return tx.Commit()
}

func (pc ParticipantController) Delete(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		if err := DeleteParticipantCascade(db, participantID); err != nil {
			serverError(w, err, "cascade delete participant")
			return
		}
		logrus.WithField("participant_id", participantID).Info("participant deleted")
		http.Redirect(w, r, "/participants", http.StatusSeeOther)
	}
}

// nullIfEmpty keeps optional date fields NULL instead of storing "".
func nullIfEmpty(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
