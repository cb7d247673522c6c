package models

import "database/sql"

type Survey struct {
	ID                  int    `json:"survey_id"`
	ParticipantID       int    `json:"participant_id"`
	EventOccurrenceID   int    `json:"event_occurrence_id"`
	ScoreSatisfaction   int    `json:"score_satisfaction"`
	ScoreUsefulness     int    `json:"score_usefulness"`
	ScoreInstructor     int    `json:"score_instructor"`
	ScoreRecommendation int    `json:"score_recommendation"`
	ScoreOverall        int    `json:"score_overall"`
	NpsBucketID         *int   `json:"nps_bucket_id,omitempty"`
	Comments            string `json:"comments"`
	SubmissionDate      string `json:"submission_date"`
	ParticipantName     string `json:"participant_name,omitempty"`
	EventName           string `json:"event_name,omitempty"`
}

const (
	NpsDetractor = 1
	NpsPassive   = 2
	NpsPromoter  = 3
)

// NpsBucketID classifies a 1-5 recommendation score. Scores outside the
// scale yield an invalid (NULL) bucket.
func NpsBucketID(scoreRecommendation int) sql.NullInt64 {
	switch {
	case scoreRecommendation >= 1 && scoreRecommendation <= 3:
		return sql.NullInt64{Int64: NpsDetractor, Valid: true}
	case scoreRecommendation == 4:
		return sql.NullInt64{Int64: NpsPassive, Valid: true}
	case scoreRecommendation == 5:
		return sql.NullInt64{Int64: NpsPromoter, Valid: true}
	default:
		return sql.NullInt64{}
	}
}
