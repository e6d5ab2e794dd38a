package models

import "time"

// OpportunityType enumerates the careers catalog entry kinds.
type OpportunityType string

const (
	OpportunityProject    OpportunityType = "project"
	OpportunityInternship OpportunityType = "internship"
	OpportunityPlacement  OpportunityType = "placement"
)

// Valid reports whether the type is one of the three known kinds.
func (t OpportunityType) Valid() bool {
	switch t {
	case OpportunityProject, OpportunityInternship, OpportunityPlacement:
		return true
	}
	return false
}

// OpportunityStatus is a free-form admin-settable enum. Unlike the course
// approval flag there is no transition ordering among the three values.
type OpportunityStatus string

const (
	OpportunityStatusOpen     OpportunityStatus = "open"
	OpportunityStatusClosed   OpportunityStatus = "closed"
	OpportunityStatusArchived OpportunityStatus = "archived"
)

// Valid reports whether the status is one of the three known values.
func (s OpportunityStatus) Valid() bool {
	switch s {
	case OpportunityStatusOpen, OpportunityStatusClosed, OpportunityStatusArchived:
		return true
	}
	return false
}

// Opportunity is an admin-created careers posting referencing a Company. The
// application deadline is advisory metadata: a past deadline does not hide an
// otherwise-open opportunity.
type Opportunity struct {
	ID                  string            `db:"id" json:"id"`
	Type                OpportunityType   `db:"type" json:"type"`
	Title               string            `db:"title" json:"title"`
	Description         string            `db:"description" json:"description"`
	CompanyID           string            `db:"company_id" json:"company_id"`
	University          University        `db:"university" json:"university"`
	Stipend             *float64          `db:"stipend" json:"stipend,omitempty"`
	Duration            *string           `db:"duration" json:"duration,omitempty"`
	ApplicationDeadline time.Time         `db:"application_deadline" json:"application_deadline"`
	Status              OpportunityStatus `db:"status" json:"status"`
	CreatedAt           time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `db:"updated_at" json:"updated_at"`
}

// OpportunityDetail enriches Opportunity with company info.
type OpportunityDetail struct {
	Opportunity
	CompanyName        string `db:"company_name" json:"company_name"`
	CompanyDescription string `db:"company_description" json:"company_description"`
	CompanyLogo        string `db:"company_logo" json:"company_logo"`
}

// OpportunityFilter provides filters for opportunity listings.
type OpportunityFilter struct {
	Type       *OpportunityType
	Status     *OpportunityStatus
	University *University
}
