package controllers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"outreach-portal/middleware"
	"outreach-portal/models"
	"outreach-portal/utils"
	"outreach-portal/views"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type SurveyController struct{}

const surveyFrom = `FROM surveys s
	JOIN participants p ON p.participant_id = s.participant_id
	JOIN event_occurrences eo ON eo.event_occurrence_id = s.event_occurrence_id
	JOIN event_templates et ON et.event_template_id = eo.event_template_id`

func (sc SurveyController) List(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFrom(r.Context())

		f := &Filter{}
		if !id.Manager {
			f.Equals("s.participant_id", id.ParticipantID)
		}
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			f.Search(q, []string{
				"p.first_name",
				"p.last_name",
				"CONCAT(p.first_name, ' ', p.last_name)",
				"et.name",
				"s.comments",
			})
		}

		total, err := countRows(db, surveyFrom, f)
		if err != nil {
			serverError(w, err, "count surveys")
			return
		}
		page := newPage(r, total)

		rows, err := db.Query(`
			SELECT s.survey_id, s.participant_id, s.event_occurrence_id,
			       COALESCE(s.score_recommendation, 0), COALESCE(s.score_overall, 0),
			       COALESCE(s.comments, ''), CAST(s.submission_date AS CHAR),
			       CONCAT(p.first_name, ' ', p.last_name), et.name
			`+surveyFrom+f.Clause()+`
			ORDER BY s.submission_date DESC, s.survey_id DESC LIMIT ? OFFSET ?`,
			append(f.Args(), page.Size, page.Offset)...)
		if err != nil {
			serverError(w, err, "query surveys")
			return
		}
		defer rows.Close()

		var surveys []models.Survey
		for rows.Next() {
			var s models.Survey
			if err := rows.Scan(&s.ID, &s.ParticipantID, &s.EventOccurrenceID,
				&s.ScoreRecommendation, &s.ScoreOverall, &s.Comments, &s.SubmissionDate,
				&s.ParticipantName, &s.EventName); err != nil {
				serverError(w, err, "scan survey row")
				return
			}
			surveys = append(surveys, s)
		}

		views.Render(w, http.StatusOK, "surveys.html", map[string]interface{}{
			"Identity": id,
			"Rows":     surveys,
			"Page":     page,
			"Query":    page.Query,
			"Action":   "/surveys",
		})
	}
}

func (sc SurveyController) AddForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc.renderForm(db, w, r, models.Survey{})
	}
}

// Add inserts a survey unless one already exists for the same participant
// and event occurrence; the duplicate case redirects without inserting.
func (sc SurveyController) Add(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := surveyFromForm(w, r)
		if !ok {
			return
		}

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM surveys WHERE participant_id = ? AND event_occurrence_id = ?)",
			s.ParticipantID, s.EventOccurrenceID).Scan(&exists)
		if err != nil {
			serverError(w, err, "check existing survey")
			return
		}
		if exists {
			logrus.WithFields(logrus.Fields{
				"participant_id":      s.ParticipantID,
				"event_occurrence_id": s.EventOccurrenceID,
			}).Info("duplicate survey ignored")
			http.Redirect(w, r, "/surveys", http.StatusSeeOther)
			return
		}

		_, err = db.Exec(`
			INSERT INTO surveys (participant_id, event_occurrence_id, score_satisfaction, score_usefulness,
			                     score_instructor, score_recommendation, score_overall, nps_bucket_id,
			                     comments, submission_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ParticipantID, s.EventOccurrenceID, s.ScoreSatisfaction, s.ScoreUsefulness,
			s.ScoreInstructor, s.ScoreRecommendation, s.ScoreOverall,
			models.NpsBucketID(s.ScoreRecommendation), s.Comments, time.Now().Format("2006-01-02"))
		if err != nil {
			serverError(w, err, "insert survey")
			return
		}
		http.Redirect(w, r, "/surveys", http.StatusSeeOther)
	}
}

func (sc SurveyController) EditForm(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}

		var s models.Survey
		err = db.QueryRow(`
			SELECT survey_id, participant_id, event_occurrence_id,
			       COALESCE(score_satisfaction, 0), COALESCE(score_usefulness, 0),
			       COALESCE(score_instructor, 0), COALESCE(score_recommendation, 0),
			       COALESCE(score_overall, 0), COALESCE(comments, '')
			FROM surveys WHERE survey_id = ?`, surveyID).
			Scan(&s.ID, &s.ParticipantID, &s.EventOccurrenceID, &s.ScoreSatisfaction, &s.ScoreUsefulness,
				&s.ScoreInstructor, &s.ScoreRecommendation, &s.ScoreOverall, &s.Comments)
		if err == sql.ErrNoRows {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err, "load survey")
			return
		}

		sc.renderForm(db, w, r, s)
	}
}

// Edit rewrites the survey body; the bucket is re-derived from the new
// recommendation score, never taken from the form.
func (sc SurveyController) Edit(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		s, ok := surveyFromForm(w, r)
		if !ok {
			return
		}

		result, err := db.Exec(`
			UPDATE surveys
			SET participant_id = ?, event_occurrence_id = ?, score_satisfaction = ?, score_usefulness = ?,
			    score_instructor = ?, score_recommendation = ?, score_overall = ?, nps_bucket_id = ?, comments = ?
			WHERE survey_id = ?`,
			s.ParticipantID, s.EventOccurrenceID, s.ScoreSatisfaction, s.ScoreUsefulness,
			s.ScoreInstructor, s.ScoreRecommendation, s.ScoreOverall,
			models.NpsBucketID(s.ScoreRecommendation), s.Comments, surveyID)
		if err != nil {
			serverError(w, err, "update survey")
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM surveys WHERE survey_id = ?", surveyID).Scan(&exists); err == sql.ErrNoRows {
				notFound(w)
				return
			}
		}
		http.Redirect(w, r, "/surveys", http.StatusSeeOther)
	}
}

func (sc SurveyController) Delete(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID, err := utils.StrToInt(mux.Vars(r)["id"])
		if err != nil {
			notFound(w)
			return
		}
		if _, err := db.Exec("DELETE FROM surveys WHERE survey_id = ?", surveyID); err != nil {
			serverError(w, err, "delete survey")
			return
		}
		http.Redirect(w, r, "/surveys", http.StatusSeeOther)
	}
}

func (sc SurveyController) renderForm(db *sql.DB, w http.ResponseWriter, r *http.Request, s models.Survey) {
	participants, err := allParticipants(db)
	if err != nil {
		serverError(w, err, "load participants for survey form")
		return
	}
	events, err := allEventOccurrences(db)
	if err != nil {
		serverError(w, err, "load events for survey form")
		return
	}
	views.Render(w, http.StatusOK, "survey_form.html", map[string]interface{}{
		"Identity":     middleware.IdentityFrom(r.Context()),
		"Survey":       s,
		"Participants": participants,
		"Events":       events,
	})
}

func surveyFromForm(w http.ResponseWriter, r *http.Request) (models.Survey, bool) {
	var s models.Survey
	var err error
	if s.ParticipantID, err = utils.StrToInt(r.PostFormValue("participant_id")); err != nil {
		views.RenderError(w, http.StatusBadRequest, "A participant is required.")
		return s, false
	}
	if s.EventOccurrenceID, err = utils.StrToInt(r.PostFormValue("event_occurrence_id")); err != nil {
		views.RenderError(w, http.StatusBadRequest, "An event is required.")
		return s, false
	}
	s.ScoreSatisfaction, _ = utils.StrToInt(r.PostFormValue("score_satisfaction"))
	s.ScoreUsefulness, _ = utils.StrToInt(r.PostFormValue("score_usefulness"))
	s.ScoreInstructor, _ = utils.StrToInt(r.PostFormValue("score_instructor"))
	s.ScoreRecommendation, _ = utils.StrToInt(r.PostFormValue("score_recommendation"))
	s.ScoreOverall, _ = utils.StrToInt(r.PostFormValue("score_overall"))
	s.Comments = r.PostFormValue("comments")
	return s, true
}
