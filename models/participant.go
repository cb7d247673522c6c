package models

type Participant struct {
	ID                int    `json:"participant_id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	DOB               string `json:"dob"`
	City              string `json:"city"`
	State             string `json:"state"`
	ZipCode           string `json:"zip_code"`
	SchoolOrEmployer  string `json:"school_or_employer"`
	ProfilePictureURL string `json:"profile_picture_url"`
}
