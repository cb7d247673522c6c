package controllers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"outreach-portal/middleware"
	"outreach-portal/models"
	"outreach-portal/utils"
	"outreach-portal/views"

	"github.com/gorilla/mux"
)

type DonationController struct{}

func (dc DonationController) List(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())

		f := &Filter{}
		if !id.Manager {
			f.Equals("d.participant_id", id.ParticipantID)
		}
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			like := []string{
				"p.first_name",
				"p.last_name",
				"CONCAT(p.first_name, ' ', p.last_name)",
				"CAST(d.donation_amount AS CHAR)",
				"CAST(d.donation_date AS CHAR)",
			}
			var exact []string
			if _, err := strconv.ParseFloat(q, 64); err == nil {
				exact = append(exact, "d.donation_amount")
			}
			f.Search(q, like, exact...)
		}

		from := "FROM donations d JOIN participants p ON p.participant_id = d.participant_id"
		total, err := countRows(db, from, f)
		if err != nil {
			serverError(w, err, "count donations")
			return
		}
		page := newPage(r, total)

		rows, err := db.Query(`
			SELECT d.donation_id, d.participant_id, d.donation_amount, CAST(d.donation_date AS CHAR),
			       CONCAT(p.first_name, ' ', p.last_name)
			`+from+f.Clause()+`
			ORDER BY d.donation_date DESC, d.donation_id DESC LIMIT ? OFFSET ?`,
			append(f.Args(), page.Size, page.Offset)...)
		if err != nil {
			serverError(w, err, "query donations")
			return
		}
		defer rows.Close()

		var donations []models.Donation
		for rows.Next() {
			var d models.Donation
			if err := rows.Scan(&d.ID, &d.ParticipantID, &d.Amount, &d.Date, &d.DonorName); err != nil {
				serverError(w, err, "scan donation row")
				return
			}
			donations = append(donations, d)
		}

		views.Render(w, http.StatusOK, "donations.html", map[string]interface{}{
			"Identity": id,
			"Rows":     donations,
			"Page":     page,
			"Query":    page.Query,
			"Action":   "/donations",
		})
	}
}

func (dc DonationController) AddForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants, err := allParticipants(db)
		if err != nil {
			serverError(w, err, "load participants for donation form")
			return
		}

		donation := models.Donation{}
		if pid, err := utils.StrToInt(r.URL.Query().Get("participant_id")); err == nil {
			donation.ParticipantID = pid
		}

		views.Render(w, http.StatusOK, "donation_form.html", map[string]interface{}{
			"Identity":     middleware.IdentityFrom(r.Context()),
			"Donation":     donation,
			"Participants": participants,
		})
	}
}

func (dc DonationController) Add(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, err := utils.StrToInt(r.PostFormValue("participant_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A participant is required.")
			return
		}
		amount, err := strconv.ParseFloat(r.PostFormValue("donation_amount"), 64)
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A valid donation amount is required.")
			return
		}

		_, err = db.Exec("INSERT INTO donations (participant_id, donation_amount, donation_date) VALUES (?, ?, ?)",
			participantID, amount, r.PostFormValue("donation_date"))
		if err != nil {
			serverError(w, err, "insert donation")
			return
		}
		http.Redirect(w, r, "/donations", http.StatusSeeOther)
	}
}

func (dc DonationController) EditForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		donationID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}

		var d models.Donation
		err = db.QueryRow(`
			SELECT donation_id, participant_id, donation_amount, CAST(donation_date AS CHAR)
			FROM donations WHERE donation_id = ?`, donationID).
			Scan(&d.ID, &d.ParticipantID, &d.Amount, &d.Date)
		if err == sql.ErrNoRows {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err, "load donation")
			return
		}

		participants, err := allParticipants(db)
		if err != nil {
			serverError(w, err, "load participants for donation form")
			return
		}

		views.Render(w, http.StatusOK, "donation_form.html", map[string]interface{}{
			"Identity":     middleware.IdentityFrom(r.Context()),
			"Donation":     d,
			"Participants": participants,
		})
	}
}

func (dc DonationController) Edit(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		donationID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		participantID, err := utils.StrToInt(r.PostFormValue("participant_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A participant is required.")
			return
		}
		amount, err := strconv.ParseFloat(r.PostFormValue("donation_amount"), 64)
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A valid donation amount is required.")
			return
		}

		result, err := db.Exec("UPDATE donations SET participant_id = ?, donation_amount = ?, donation_date = ? WHERE donation_id = ?",
			participantID, amount, r.PostFormValue("donation_date"), donationID)
		if err != nil {
			serverError(w, err, "update donation")
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM donations WHERE donation_id = ?", donationID).Scan(&exists); err == sql.ErrNoRows {
				notFound(w)
				return
			}
		}
		http.Redirect(w, r, "/donations", http.StatusSeeOther)
	}
}

func (dc DonationController) Delete(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		donationID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		if _, err := db.Exec("DELETE FROM donations WHERE donation_id = ?", donationID); err != nil {
			serverError(w, err, "delete donation")
			return
		}
		http.Redirect(w, r, "/donations", http.StatusSeeOther)
	}
}

func allParticipants(db *sql.DB) ([]models.Participant, error) {
	rows, err := db.Query("SELECT participant_id, first_name, last_name FROM participants ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
