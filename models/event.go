package models

type EventOccurrence struct {
	ID              int    `json:"event_occurrence_id"`
	EventTemplateID int    `json:"event_template_id"`
	LocationID      int    `json:"location_id"`
	StartTime       string `json:"start_time"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	LocationName    string `json:"location_name"`
}

type EventTemplate struct {
	ID          int    `json:"event_template_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Location struct {
	ID   int    `json:"location_id"`
	Name string `json:"name"`
}
