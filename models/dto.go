package models

type RegisterRequest struct {
	Name     string   `json:"name" validate:"required,min=3,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin staff"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type StartProposalRequest struct {
	DocumentType DocumentType `json:"document_type" validate:"required"`
	Subject      string       `json:"subject" validate:"required"`
}

type ReviseProposalRequest struct {
	Instruction string `json:"instruction" validate:"required"`
	BaseVersion int    `json:"base_version,omitempty" validate:"omitempty,min=1"`
}

type SubmitIdeaRequest struct {
	Name          string   `json:"name" validate:"max=200"`
	AgeRange      string   `json:"age_range"`
	Description   string   `json:"description" validate:"required"`
	Contribution  string   `json:"contribution"`
	Location      string   `json:"location"`
	Areas         []string `json:"areas"`
	CouncilMember string   `json:"council_member" validate:"required"`
	TermsAccepted bool     `json:"terms_accepted"`
}

type PublishPostRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Body  string `json:"body" validate:"required"`
}

type PostListParams struct {
	Limit int `form:"limit,default=20"`
}

type IdeaListParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// Normalize replaces out-of-range paging values with the defaults.
func (p *IdeaListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
}
