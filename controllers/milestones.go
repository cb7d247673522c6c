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
)

type MilestoneController struct{}

const milestoneFrom = `FROM milestones m
	JOIN participants p ON p.participant_id = m.participant_id
	JOIN milestone_types mt ON mt.milestone_type_id = m.milestone_type_id`

func (mc MilestoneController) List(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())

		f := &Filter{}
		if !id.Manager {
			f.Equals("m.participant_id", id.ParticipantID)
		}
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			f.Search(q, []string{
				"p.first_name",
				"p.last_name",
				"CONCAT(p.first_name, ' ', p.last_name)",
				"mt.title",
			})
		}

		total, err := countRows(db, milestoneFrom, f)
		if err != nil {
			serverError(w, err, "count milestones")
			return
		}
		page := newPage(r, total)

		rows, err := db.Query(`
			SELECT m.milestone_id, m.participant_id, m.milestone_type_id, CAST(m.milestone_date AS CHAR),
			       mt.title, CONCAT(p.first_name, ' ', p.last_name)
			`+milestoneFrom+f.Clause()+`
			ORDER BY m.milestone_date DESC, m.milestone_id DESC LIMIT ? OFFSET ?`,
			append(f.Args(), page.Size, page.Offset)...)
		if err != nil {
			serverError(w, err, "query milestones")
			return
		}
		defer rows.Close()

		var milestones []models.Milestone
		for rows.Next() {
			var m models.Milestone
			if err := rows.Scan(&m.ID, &m.ParticipantID, &m.MilestoneTypeID, &m.Date, &m.TypeTitle, &m.ParticipantName); err != nil {
				serverError(w, err, "scan milestone row")
				return
			}
			milestones = append(milestones, m)
		}

		views.Render(w, http.StatusOK, "milestones.html", map[string]interface{}{
			"Identity": id,
			"Rows":     milestones,
			"Page":     page,
			"Query":    page.Query,
			"Action":   "/milestones",
		})
	}
}

func (mc MilestoneController) AddForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mc.renderForm(db, w, r, models.Milestone{})
	}
}

func (mc MilestoneController) Add(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, err := utils.StrToInt(r.PostFormValue("participant_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A participant is required.")
			return
		}
		typeID, err := utils.StrToInt(r.PostFormValue("milestone_type_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A milestone type is required.")
			return
		}

		_, err = db.Exec("INSERT INTO milestones (participant_id, milestone_type_id, milestone_date) VALUES (?, ?, ?)",
			participantID, typeID, r.PostFormValue("milestone_date"))
		if err != nil {
			serverError(w, err, "insert milestone")
			return
		}
		http.Redirect(w, r, "/milestones", http.StatusSeeOther)
	}
}

func (mc MilestoneController) EditForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		milestoneID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}

		var m models.Milestone
		err = db.QueryRow(`
			SELECT milestone_id, participant_id, milestone_type_id, CAST(milestone_date AS CHAR)
			FROM milestones WHERE milestone_id = ?`, milestoneID).
			Scan(&m.ID, &m.ParticipantID, &m.MilestoneTypeID, &m.Date)
		if err == sql.ErrNoRows {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err, "load milestone")
			return
		}

		mc.renderForm(db, w, r, m)
	}
}

func (mc MilestoneController) Edit(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		milestoneID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		participantID, err := utils.StrToInt(r.PostFormValue("participant_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A participant is required.")
			return
		}
		typeID, err := utils.StrToInt(r.PostFormValue("milestone_type_id"))
		if err != nil {
			views.RenderError(w, http.StatusBadRequest, "A milestone type is required.")
			return
		}

		result, err := db.Exec("UPDATE milestones SET participant_id = ?, milestone_type_id = ?, milestone_date = ? WHERE milestone_id = ?",
			participantID, typeID, r.PostFormValue("milestone_date"), milestoneID)
		if err != nil {
			serverError(w, err, "update milestone")
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM milestones WHERE milestone_id = ?", milestoneID).Scan(&exists); err == sql.ErrNoRows {
				notFound(w)
				return
			}
		}
		http.Redirect(w, r, "/milestones", http.StatusSeeOther)
	}
}

func (mc MilestoneController) Delete(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		milestoneID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		if _, err := db.Exec("DELETE FROM milestones WHERE milestone_id = ?", milestoneID); err != nil {
			serverError(w, err, "delete milestone")
			return
		}
		http.Redirect(w, r, "/milestones", http.StatusSeeOther)
	}
}

func (mc MilestoneController) renderForm(db *sql.DB, w http.ResponseWriter, r *http.Request, m models.Milestone) {
	participants, err := allParticipants(db)
	if err != nil {
		serverError(w, err, "load participants for milestone form")
		return
	}
	types, err := allMilestoneTypes(db)
	if err != nil {
		serverError(w, err, "load milestone types")
		return
	}
	views.Render(w, http.StatusOK, "milestone_form.html", map[string]interface{}{
		"Identity":     middleware.IdentityFrom(r.Context()),
		"Milestone":    m,
		"Participants": participants,
		"Types":        types,
	})
}

func allMilestoneTypes(db *sql.DB) ([]models.MilestoneType, error) {
	rows, err := db.Query("SELECT milestone_type_id, title FROM milestone_types ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.MilestoneType
	for rows.Next() {
		var t models.MilestoneType
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
