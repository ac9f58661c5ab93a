// Package disputes handles citizen dispute mediation records.
package disputes

import (
	"time"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Dispute is a mediation case between two parties.
type Dispute struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	DisputeID string `json:"disputeId,omitempty"`

	PartyA Party `json:"partyA"`
	PartyB Party `json:"partyB"`

	Category      string    `json:"category" validate:"required,oneof=Land Society Benefits Tenancy Family Property Other"`
	Description   string    `json:"description" validate:"required"`
	IncidentDate  time.Time `json:"incidentDate,omitzero"`
	IncidentPlace string    `json:"incidentPlace,omitempty"`

	District string `json:"district,omitempty"`
	Mandal   string `json:"mandal,omitempty"`
	Ward     string `json:"ward,omitempty"`
	Pincode  string `json:"pincode,omitempty"`

	Mediator domain.UserID `json:"mediator,omitzero"`

	HearingDate  time.Time `json:"hearingDate,omitzero"`
	HearingTime  string    `json:"hearingTime,omitempty"`
	HearingPlace string    `json:"hearingPlace,omitempty"`
	HearingNotes string    `json:"hearingNotes,omitempty"`

	SLA workflow.SLA `json:"sla,omitzero"`

	MediationNotes  string    `json:"mediationNotes,omitempty"`
	SettlementTerms string    `json:"settlementTerms,omitempty"`
	SettlementDate  time.Time `json:"settlementDate,omitzero"`

	Priority    string                `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Tags        []string              `json:"tags,omitempty"`
	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the dispute reference number.
func (d *Dispute) Ref() string { return d.DisputeID }

// Party identifies one side of the dispute.
type Party struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address" validate:"required"`
}

// ScheduleHearing books a mediation session and moves the dispute forward.
func (d *Dispute) ScheduleHearing(date time.Time, timeOfDay, place, notes string, by domain.UserID, at time.Time) {
	d.HearingDate = date
	d.HearingTime = timeOfDay
	d.HearingPlace = place
	d.HearingNotes = notes
	d.Transition("MEDIATION_SCHEDULED", by, at, "Mediation hearing scheduled")
}
