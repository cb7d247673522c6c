package controllers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"outreach-portal/middleware"
	"outreach-portal/views"

	"github.com/sirupsen/logrus"
)

// DonateController serves the public donation flow. Authenticated visitors
// are sent to their own donations view instead of the public form.
type DonateController struct{}

func (dc DonateController) Form() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())
		if id.LoggedIn {
			http.Redirect(w, r, "/donations", http.StatusFound)
			return
		}
		views.Render(w, http.StatusOK, "donate.html", map[string]interface{}{"Identity": id})
	}
}

func (dc DonateController) Submit(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())
		if id.LoggedIn {
			http.Redirect(w, r, "/donations", http.StatusFound)
			return
		}

		email := strings.TrimSpace(r.PostFormValue("email"))
		amount, err := strconv.ParseFloat(r.PostFormValue("donation_amount"), 64)
		if err != nil || amount <= 0 || email == "" {
			views.Render(w, http.StatusOK, "donate.html", map[string]interface{}{
				"Identity": id,
				"Error":    "A valid email and donation amount are required.",
			})
			return
		}

		participantID, err := findOrCreateParticipantByEmail(db, email,
			strings.TrimSpace(r.PostFormValue("first_name")),
			strings.TrimSpace(r.PostFormValue("last_name")),
			strings.TrimSpace(r.PostFormValue("phone")))
		if err != nil {
			serverError(w, err, "find or create donor")
			return
		}

		_, err = db.Exec("INSERT INTO donations (participant_id, donation_amount, donation_date) VALUES (?, ?, ?)",
			participantID, amount, time.Now().Format("2006-01-02"))
		if err != nil {
			serverError(w, err, "insert public donation")
			return
		}

		logrus.WithFields(logrus.Fields{"participant_id": participantID, "amount": amount}).Info("public donation recorded")
		http.Redirect(w, r, "/donate/thanks", http.StatusSeeOther)
	}
}

func (dc DonateController) Thanks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, http.StatusOK, "donate_thanks.html", map[string]interface{}{
			"Identity": middleware.IdentityFrom(r.Context()),
		})
	}
}
