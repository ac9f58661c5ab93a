// Package appointments handles CM office appointment requests.
package appointments

import (
	"fmt"
	"strings"
	"time"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Appointment is a meeting request with the CM office.
type Appointment struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	AppointmentID string `json:"appointmentId,omitempty"`

	ApplicantName       string `json:"applicantName" validate:"required"`
	FatherOrHusbandName string `json:"fatherOrHusbandName,omitempty"`
	Age                 int    `json:"age,omitempty"`
	Gender              string `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	Mobile              string `json:"mobile" validate:"required"`
	Email               string `json:"email,omitempty" validate:"omitempty,email"`
	AadhaarNumber       string `json:"aadhaarNumber,omitempty"`
	Address             string `json:"address,omitempty"`
	District            string `json:"district,omitempty"`
	Mandal              string `json:"mandal,omitempty"`
	Ward                string `json:"ward,omitempty"`
	Pincode             string `json:"pincode,omitempty"`

	Purpose             string `json:"purpose" validate:"required"`
	Category            string `json:"category,omitempty" validate:"omitempty,oneof=PERSONAL_GRIEVANCE PROJECT_DISCUSSION COMMUNITY_ISSUE BUSINESS_PROPOSAL GENERAL_MEETING VIP_MEETING OTHER"`
	DetailedDescription string `json:"detailedDescription,omitempty"`
	Urgency             string `json:"urgency,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`

	PreferredDate   time.Time `json:"preferredDate,omitzero"`
	PreferredTime   string    `json:"preferredTime,omitempty"`
	AlternativeDate time.Time `json:"alternativeDate,omitzero"`
	AlternativeTime string    `json:"alternativeTime,omitempty"`
	Duration        int       `json:"duration,omitempty"`

	ConfirmedDate    time.Time `json:"confirmedDate,omitzero"`
	ConfirmedTime    string    `json:"confirmedTime,omitempty"`
	ConfirmedSlot    time.Time `json:"confirmedSlot,omitzero"`
	MeetingPlace     string    `json:"meetingPlace,omitempty" validate:"omitempty,oneof=CHIEF_MINISTER_OFFICE SECRETARIAT DISTRICT_COLLECTORATE FIELD_VISIT VIRTUAL_MEETING OTHER"`
	SpecificLocation string    `json:"specificLocation,omitempty"`
	MeetingRoom      string    `json:"meetingRoom,omitempty"`

	Coordinator domain.UserID `json:"coordinator,omitzero"`

	Attendees    []string     `json:"attendees,omitempty"`
	Agenda       string       `json:"agenda,omitempty"`
	MeetingNotes string       `json:"meetingNotes,omitempty"`
	ActionItems  []ActionItem `json:"actionItems,omitempty"`

	CheckInTime    time.Time `json:"checkInTime,omitzero"`
	CheckOutTime   time.Time `json:"checkOutTime,omitzero"`
	ActualDuration int       `json:"actualDuration,omitempty"`

	FollowUpRequired bool      `json:"followUpRequired,omitempty"`
	FollowUpDate     time.Time `json:"followUpDate,omitzero"`
	FollowUpNotes    string    `json:"followUpNotes,omitempty"`

	ConfirmationSent     bool      `json:"confirmationSent,omitempty"`
	ConfirmationSentDate time.Time `json:"confirmationSentDate,omitzero"`
	ReminderSent         bool      `json:"reminderSent,omitempty"`
	ReminderSentDate     time.Time `json:"reminderSentDate,omitzero"`

	RejectionReason    string `json:"rejectionReason,omitempty"`
	CancellationReason string `json:"cancellationReason,omitempty"`

	Priority    string                `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH VIP"`
	IsVIP       bool                  `json:"isVIP,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the appointment reference number.
func (a *Appointment) Ref() string { return a.AppointmentID }

// ActionItem is a follow-up task recorded during the meeting.
type ActionItem struct {
	Item       string    `json:"item,omitempty"`
	AssignedTo string    `json:"assignedTo,omitempty"`
	DueDate    time.Time `json:"dueDate,omitzero"`
	Status     string    `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// Confirm books the slot and records that the confirmation went out. The
// slot combines the confirmed date with an HH:MM time of day when both are
// present.
func (a *Appointment) Confirm(date time.Time, timeOfDay, place, location string, by domain.UserID, at time.Time) {
	a.ConfirmedDate = date
	a.ConfirmedTime = timeOfDay
	a.MeetingPlace = place
	a.SpecificLocation = location
	a.ConfirmationSent = true
	a.ConfirmationSentDate = at

	if !date.IsZero() && timeOfDay != "" {
		if slot, err := combineSlot(date, timeOfDay); err == nil {
			a.ConfirmedSlot = slot
		}
	}
	a.Transition("CONFIRMED", by, at, "Appointment confirmed")
}

// CheckIn stamps arrival and moves the appointment to CHECKED_IN.
func (a *Appointment) CheckIn(by domain.UserID, at time.Time) {
	a.CheckInTime = at
	a.Transition("CHECKED_IN", by, at, "Visitor checked in")
}

func combineSlot(date time.Time, timeOfDay string) (time.Time, error) {
	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", timeOfDay)
	}
	var hours, minutes int
	if _, err := fmt.Sscanf(timeOfDay, "%d:%d", &hours, &minutes); err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q", timeOfDay)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location()), nil
}
