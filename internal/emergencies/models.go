// Package emergencies tracks urgent incident reports from intake to closure.
package emergencies

import (
	"time"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Emergency is a single incident report.
type Emergency struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	EmergencyID string `json:"emergencyId,omitempty"`

	CallerName   string `json:"callerName,omitempty"`
	CallerMobile string `json:"callerMobile,omitempty"`

	EmergencyType string `json:"emergencyType" validate:"required,oneof=MEDICAL POLICE FIRE NATURAL_DISASTER ACCIDENT OTHER"`
	Description   string `json:"description" validate:"required"`

	Location       string         `json:"location" validate:"required"`
	District       string         `json:"district,omitempty"`
	Mandal         string         `json:"mandal,omitempty"`
	Landmark       string         `json:"landmark,omitempty"`
	GPSCoordinates GPSCoordinates `json:"gpsCoordinates,omitzero"`

	Urgency  string `json:"urgency,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`

	ResponderName    string    `json:"responderName,omitempty"`
	ResponderContact string    `json:"responderContact,omitempty"`
	ResponderAgency  string    `json:"responderAgency,omitempty"`
	DispatchedAt     time.Time `json:"dispatchedAt,omitzero"`
	ArrivedAt        time.Time `json:"arrivedAt,omitzero"`

	Escalated        bool      `json:"escalated,omitempty"`
	EscalatedTo      string    `json:"escalatedTo,omitempty"`
	EscalationReason string    `json:"escalationReason,omitempty"`
	EscalationDate   time.Time `json:"escalationDate,omitzero"`

	ResolutionNotes string    `json:"resolutionNotes,omitempty"`
	ResolvedAt      time.Time `json:"resolvedAt,omitzero"`
	ClosureNotes    string    `json:"closureNotes,omitempty"`
	ClosedAt        time.Time `json:"closedAt,omitzero"`

	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the emergency reference number.
func (e *Emergency) Ref() string { return e.EmergencyID }

type GPSCoordinates struct {
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Escalate records an escalation and raises priority to CRITICAL.
func (e *Emergency) Escalate(to, reason string, by domain.UserID, at time.Time) {
	e.Escalated = true
	e.EscalatedTo = to
	e.EscalationReason = reason
	e.EscalationDate = at
	e.Priority = "CRITICAL"
	e.Note(by, at, "Emergency escalated to "+to)
}
