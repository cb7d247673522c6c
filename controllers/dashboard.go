package controllers

import (
	"database/sql"
	"net/http"

	"outreach-portal/middleware"
	"outreach-portal/views"
)

type DashboardController struct{}

func (dc DashboardController) Show(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var participants, donations, occurrences, surveys int
		var donationTotal float64

		counts := []struct {
			query string
			dest  interface{}
		}{
			{"SELECT COUNT(*) FROM participants", &participants},
			{"SELECT COUNT(*) FROM donations", &donations},
			{"SELECT COALESCE(SUM(donation_amount), 0) FROM donations", &donationTotal},
			{"SELECT COUNT(*) FROM event_occurrences", &occurrences},
			{"SELECT COUNT(*) FROM surveys", &surveys},
		}
		for _, c := range counts {
			if err := db.QueryRow(c.query).Scan(c.dest); err != nil {
				serverError(w, err, "dashboard counts")
				return
			}
		}

		views.Render(w, http.StatusOK, "dashboard.html", map[string]interface{}{
			"Identity":         middleware.IdentityFrom(r.Context()),
			"Participants":     participants,
			"Donations":        donations,
			"DonationTotal":    donationTotal,
			"EventOccurrences": occurrences,
			"Surveys":          surveys,
		})
	}
}
