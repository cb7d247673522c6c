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

type EventController struct{}

func (ec EventController) List(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())

		from := `FROM event_occurrences eo
			JOIN event_templates et ON et.event_template_id = eo.event_template_id
			JOIN locations l ON l.location_id = eo.location_id`

		f := &Filter{}
		if !id.Manager {
			// Non-managers only see occurrences they are registered for.
			from += " INNER JOIN registrations reg ON reg.event_occurrence_id = eo.event_occurrence_id"
			f.Equals("reg.participant_id", id.ParticipantID)
		}
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			f.Search(q, []string{"et.name", "et.description", "l.name"})
		}

		total, err := countRows(db, from, f)
		if err != nil {
			serverError(w, err, "count events")
			return
		}
		page := newPage(r, total)

		rows, err := db.Query(`
			SELECT eo.event_occurrence_id, eo.event_template_id, eo.location_id,
			       CAST(eo.start_time AS CHAR), et.name, COALESCE(et.description, ''), l.name
			`+from+f.Clause()+`
			ORDER BY eo.start_time LIMIT ? OFFSET ?`,
			append(f.Args(), page.Size, page.Offset)...)
		if err != nil {
			serverError(w, err, "query events")
			return
		}
		defer rows.Close()

		var events []models.EventOccurrence
		for rows.Next() {
			var e models.EventOccurrence
			if err := rows.Scan(&e.ID, &e.EventTemplateID, &e.LocationID, &e.StartTime,
				&e.Name, &e.Description, &e.LocationName); err != nil {
				serverError(w, err, "scan event row")
				return
			}
			events = append(events, e)
		}

		views.Render(w, http.StatusOK, "events.html", map[string]interface{}{
			"Identity": id,
			"Rows":     events,
			"Page":     page,
			"Query":    page.Query,
			"Action":   "/events",
		})
	}
}

func (ec EventController) AddForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ec.renderForm(db, w, r, models.EventOccurrence{})
	}
}

func (ec EventController) Add(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID, err := utils.StrToInt(r.PostFormValue("event_template_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "An event template is required.")
			return
		}
		locationID, err := utils.StrToInt(r.PostFormValue("location_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A location is required.")
			return
		}

		_, err = db.Exec("INSERT INTO event_occurrences (event_template_id, location_id, start_time) VALUES (?, ?, ?)",
			templateID, locationID, r.PostFormValue("start_time"))
		if err != nil {
			serverError(w, err, "insert event occurrence")
			return
		}
		http.Redirect(w, r, "/events", http.StatusSeeOther)
	}
}

func (ec EventController) EditForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}

		var e models.EventOccurrence
		err = db.QueryRow(`
			SELECT event_occurrence_id, event_template_id, location_id, CAST(start_time AS CHAR)
			FROM event_occurrences WHERE event_occurrence_id = ?`, eventID).
			Scan(&e.ID, &e.EventTemplateID, &e.LocationID, &e.StartTime)
		if err == sql.ErrNoRows {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err, "load event occurrence")
			return
		}

		ec.renderForm(db, w, r, e)
	}
}

func (ec EventController) Edit(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		templateID, err := utils.StrToInt(r.PostFormValue("event_template_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "An event template is required.")
			return
		}
		locationID, err := utils.StrToInt(r.PostFormValue("location_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A location is required.")
			return
		}

		result, err := db.Exec("UPDATE event_occurrences SET event_template_id = ?, location_id = ?, start_time = ? WHERE event_occurrence_id = ?",
			templateID, locationID, r.PostFormValue("start_time"), eventID)
		if err != nil {
			serverError(w, err, "update event occurrence")
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM event_occurrences WHERE event_occurrence_id = ?", eventID).Scan(&exists); err == sql.ErrNoRows {
				notFound(w)
				return
			}
		}
		http.Redirect(w, r, "/events", http.StatusSeeOther)
	}
}

// Delete removes one occurrence. Surveys and registrations still pointing at
// it make the statement fail on the foreign keys; that surfaces as a hint
// rather than a raw database error.
func (ec EventController) Delete(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		if _, err := db.Exec("DELETE FROM event_occurrences WHERE event_occurrence_id = ?", eventID); err != nil {
			logrus.WithError(err).WithField("event_occurrence_id", eventID).Error("delete event occurrence")
			views.RenderError(w, http.StatusInternalServerError, "Could not delete: linked records may still reference this event.")
			return
		}
		http.Redirect(w, r, "/events", http.StatusSeeOther)
	}
}

func (ec EventController) renderForm(db *sql.DB, w http.ResponseWriter, r *http.Request, e models.EventOccurrence) {
	templates, err := allEventTemplates(db)
	if err != nil {
		serverError(w, err, "load event templates")
		return
	}
	locations, err := allLocations(db)
	if err != nil {
		serverError(w, err, "load locations")
		return
	}
	views.Render(w, http.StatusOK, "event_form.html", map[string]interface{}{
		"Identity":  middleware.IdentityFrom(r.Context()),
		"Event":     e,
		"Templates": templates,
		"Locations": locations,
	})
}

func allEventOccurrences(db *sql.DB) ([]models.EventOccurrence, error) {
	rows, err := db.Query(`
		SELECT eo.event_occurrence_id, et.name, CAST(eo.start_time AS CHAR)
		FROM event_occurrences eo
		JOIN event_templates et ON et.event_template_id = eo.event_template_id
		ORDER BY eo.start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.EventOccurrence
	for rows.Next() {
		var e models.EventOccurrence
		if err := rows.Scan(&e.ID, &e.Name, &e.StartTime); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func allEventTemplates(db *sql.DB) ([]models.EventTemplate, error) {
	rows, err := db.Query("SELECT event_template_id, name FROM event_templates ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.EventTemplate
	for rows.Next() {
		var t models.EventTemplate
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func allLocations(db *sql.DB) ([]models.Location, error) {
	rows, err := db.Query("SELECT location_id, name FROM locations ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
