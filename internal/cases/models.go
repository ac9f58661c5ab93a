// Package cases is the unified intake registry that mirrors records from
// every service vertical into one tracked lifecycle.
package cases

import (
	"time"

	"github.com/shopspring/decimal"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Case is a tracked service request of any type.
type Case struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	CaseNumber string `json:"caseNumber,omitempty"`

	CaseType string `json:"caseType" validate:"required,oneof=grievance dispute temple cmr education csr appointment program"`

	CitizenName    string         `json:"citizenName" validate:"required"`
	CitizenContact CitizenContact `json:"citizenContact,omitzero"`

	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description" validate:"required"`
	Department  string `json:"department" validate:"required"`
	District    string `json:"district,omitempty"`
	Mandal      string `json:"mandal,omitempty"`
	Village     string `json:"village,omitempty"`

	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=P1 P2 P3 P4"`

	SLA workflow.SLA `json:"sla,omitzero"`

	// Fields mirrored from the originating vertical, populated per caseType.
	ReliefAmount    decimal.Decimal `json:"reliefAmount,omitzero"`
	DisputeCategory string          `json:"disputeCategory,omitempty"`
	TempleName      string          `json:"templeName,omitempty"`
	InstitutionName string          `json:"institutionName,omitempty"`
	CompanyName     string          `json:"companyName,omitempty"`
	EventName       string          `json:"eventName,omitempty"`
	SourceRef       string          `json:"sourceRef,omitempty"`

	ResolutionNotes string    `json:"resolutionNotes,omitempty"`
	ResolvedAt      time.Time `json:"resolvedAt,omitzero"`

	Tags        []string              `json:"tags,omitempty"`
	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the case number.
func (c *Case) Ref() string { return c.CaseNumber }

type CitizenContact struct {
	Mobile  string `json:"mobile,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
}
