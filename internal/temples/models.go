// Package temples handles temple darshan letter requests.
package temples

import (
	"time"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Request is a darshan letter application.
type Request struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	TempleRequestID string `json:"templeId,omitempty"`

	ApplicantName string `json:"applicantName" validate:"required"`
	Mobile        string `json:"mobile" validate:"required"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Address       string `json:"address,omitempty"`
	AadhaarNumber string `json:"aadhaarNumber,omitempty"`

	TempleName     string    `json:"templeName" validate:"required"`
	DarshanType    string    `json:"darshanType" validate:"required,oneof=VIP GENERAL SPECIAL DIVYA_DARSHAN SARVA_DARSHAN"`
	PreferredDate  time.Time `json:"preferredDate" validate:"required"`
	NumberOfPeople int       `json:"numberOfPeople,omitempty"`

	District string `json:"district,omitempty"`
	Mandal   string `json:"mandal,omitempty"`
	Ward     string `json:"ward,omitempty"`
	Pincode  string `json:"pincode,omitempty"`

	QuotaAvailable int `json:"quotaAvailable,omitempty"`
	QuotaAllocated int `json:"quotaAllocated,omitempty"`

	LetterNumber     string    `json:"letterNumber,omitempty"`
	LetterIssuedDate time.Time `json:"letterIssuedDate,omitzero"`
	LetterValidUntil time.Time `json:"letterValidUntil,omitzero"`

	Purpose      string `json:"purpose,omitempty"`
	Remarks      string `json:"remarks,omitempty"`
	RejectReason string `json:"rejectReason,omitempty"`

	Tags        []string              `json:"tags,omitempty"`
	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the darshan letter reference number.
func (r *Request) Ref() string { return r.TempleRequestID }
