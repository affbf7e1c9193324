package models

import "time"

type Idea struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Name          string    `json:"name"`
	AgeRange      string    `json:"age_range"`
	Description   string    `json:"description"`
	Contribution  string    `json:"contribution"`
	Location      string    `json:"location"`
	Areas         []string  `json:"areas"`
	CouncilMember string    `json:"council_member"`
	TermsAccepted bool      `json:"terms_accepted"`
}
