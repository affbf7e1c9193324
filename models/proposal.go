package models

import "time"

type DocumentType string

const (
	DocRequestForAction      DocumentType = "Request for Action"
	DocRequestForInformation DocumentType = "Request for Information"
	DocRecommendation        DocumentType = "Recommendation"
	DocBill                  DocumentType = "Bill"
	DocMotion                DocumentType = "Motion"
	DocMotionOfApplause      DocumentType = "Motion of Applause"
	DocMotionOfCondolence    DocumentType = "Motion of Condolence"
)

// ProposalDraftVersion is one immutable generated or revised draft.
type ProposalDraftVersion struct {
	ProposalID    string       `json:"proposal_id"`
	VersionNumber int          `json:"version_number"`
	Author        string       `json:"author"`
	DocumentType  DocumentType `json:"document_type"`
	SubjectText   string       `json:"subject_text"`
	Instruction   string       `json:"instruction,omitempty"`
	BaseVersion   int          `json:"base_version"`
	CreatedAt     time.Time    `json:"created_at"`
	BodyText      string       `json:"body_text"`
}

// ProposalSummary describes a proposal by its latest version.
type ProposalSummary struct {
	ProposalID    string       `json:"proposal_id"`
	Author        string       `json:"author"`
	DocumentType  DocumentType `json:"document_type"`
	SubjectText   string       `json:"subject_text"`
	LatestVersion int          `json:"latest_version"`
	StartedAt     time.Time    `json:"started_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// DraftSession is the caller's draft in progress. The store keeps full
// history; which version is "current" lives only here.
type DraftSession struct {
	ProposalID   string       `json:"proposal_id"`
	Version      int          `json:"version"`
	Body         string       `json:"body"`
	Author       string       `json:"author"`
	DocumentType DocumentType `json:"document_type"`
	Subject      string       `json:"subject"`
}
