package models

type Donation struct {
	ID            int     `json:"donation_id"`
	ParticipantID int     `json:"participant_id"`
	Amount        float64 `json:"donation_amount"`
	Date          string  `json:"donation_date"`
	DonorName     string  `json:"donor_name,omitempty"`
}
