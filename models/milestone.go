package models

type Milestone struct {
	ID              int    `json:"milestone_id"`
	ParticipantID   int    `json:"participant_id"`
	MilestoneTypeID int    `json:"milestone_type_id"`
	Date            string `json:"milestone_date"`
	TypeTitle       string `json:"type_title,omitempty"`
	ParticipantName string `json:"participant_name,omitempty"`
}

type MilestoneType struct {
	ID    int    `json:"milestone_type_id"`
	Title string `json:"title"`
}
