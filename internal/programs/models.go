// Package programs manages government outreach events such as job melas.
package programs

import (
	"time"

	"github.com/shopspring/decimal"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Program is a scheduled citizen-facing event.
type Program struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	ProgramID string `json:"programId,omitempty"`

	EventName        string `json:"eventName" validate:"required"`
	EventType        string `json:"eventType,omitempty" validate:"omitempty,oneof=JOB_MELA SKILL_TRAINING HEALTH_CAMP AWARENESS_DRIVE CULTURAL_EVENT SPORTS_EVENT EDUCATIONAL_FAIR OTHER"`
	EventDescription string `json:"eventDescription,omitempty"`

	StartDate time.Time `json:"startDate,omitzero"`
	EndDate   time.Time `json:"endDate,omitzero"`
	EventTime string    `json:"eventTime,omitempty"`

	Venue    string `json:"venue" validate:"required"`
	District string `json:"district,omitempty"`
	Mandal   string `json:"mandal,omitempty"`
	Address  string `json:"address,omitempty"`

	Coordinator Coordinator `json:"coordinator,omitzero"`

	ExpectedParticipants int `json:"expectedParticipants,omitempty"`
	ActualParticipants   int `json:"actualParticipants,omitempty"`

	JobMelaDetails JobMelaDetails `json:"jobMelaDetails,omitzero"`

	Budget Budget `json:"budget,omitzero"`

	TeamMembers []TeamMember `json:"teamMembers,omitempty"`
	Feedback    []Feedback   `json:"feedback,omitempty"`
	Statistics  Statistics   `json:"statistics,omitzero"`

	Priority    string                `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Tags        []string              `json:"tags,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the program reference number.
func (p *Program) Ref() string { return p.ProgramID }

type Coordinator struct {
	Name        string `json:"name,omitempty"`
	Designation string `json:"designation,omitempty"`
	Mobile      string `json:"mobile,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

// JobMelaDetails applies only to JOB_MELA events.
type JobMelaDetails struct {
	ParticipatingCompanies int      `json:"participatingCompanies,omitempty"`
	TotalVacancies         int      `json:"totalVacancies,omitempty"`
	RegisteredCandidates   int      `json:"registeredCandidates,omitempty"`
	ScreenedCandidates     int      `json:"screenedCandidates,omitempty"`
	SelectedCandidates     int      `json:"selectedCandidates,omitempty"`
	OffersIssued           int      `json:"offersIssued,omitempty"`
	CandidatesJoined       int      `json:"candidatesJoined,omitempty"`
	Sectors                []string `json:"sectors,omitempty"`
}

type Budget struct {
	EstimatedBudget decimal.Decimal `json:"estimatedBudget,omitzero"`
	ApprovedBudget  decimal.Decimal `json:"approvedBudget,omitzero"`
	ActualExpense   decimal.Decimal `json:"actualExpense,omitzero"`
	FundingSource   string          `json:"fundingSource,omitempty"`
}

// TeamMember is a staffer responsible for part of the event.
type TeamMember struct {
	User             domain.UserID `json:"user,omitzero"`
	Name             string        `json:"name,omitempty"`
	Role             string        `json:"role,omitempty"`
	Responsibilities string        `json:"responsibilities,omitempty"`
	AddedAt          time.Time     `json:"addedAt,omitzero"`
}

// Feedback is one participant response collected after the event.
type Feedback struct {
	ParticipantName string    `json:"participantName,omitempty"`
	Rating          int       `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comments        string    `json:"comments,omitempty"`
	SubmittedAt     time.Time `json:"submittedAt,omitzero"`
}

type Statistics struct {
	FeedbackCount  int     `json:"feedbackCount,omitempty"`
	FeedbackRating float64 `json:"feedbackRating,omitempty"`
}

// AddTeamMember appends a member stamped with the given time.
func (p *Program) AddTeamMember(m TeamMember, at time.Time) {
	m.AddedAt = at
	p.TeamMembers = append(p.TeamMembers, m)
}

// AddFeedback appends a response and recomputes the aggregate rating.
func (p *Program) AddFeedback(f Feedback, at time.Time) {
	f.SubmittedAt = at
	p.Feedback = append(p.Feedback, f)

	var sum, rated int
	for _, fb := range p.Feedback {
		if fb.Rating > 0 {
			sum += fb.Rating
			rated++
		}
	}
	p.Statistics.FeedbackCount = len(p.Feedback)
	if rated > 0 {
		p.Statistics.FeedbackRating = float64(sum) / float64(rated)
	}
}
