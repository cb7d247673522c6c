package models

type User struct {
	ID            int    `json:"user_id"`
	Username      string `json:"username"`
	PasswordHash  string `json:"-"`
	Role          string `json:"role"`
	ParticipantID *int   `json:"participant_id,omitempty"`
}

const (
	RoleUser    = "user"
	RoleManager = "manager"
)
