// Package csr handles CSR and industrial partnership projects.
package csr

import (
	"time"

	"github.com/shopspring/decimal"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Project is a CSR engagement from lead to closure.
type Project struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	CSRID string `json:"csrId,omitempty"`

	CompanyName    string `json:"companyName" validate:"required"`
	CompanyType    string `json:"companyType,omitempty" validate:"omitempty,oneof=PUBLIC PRIVATE MNC PSU STARTUP NGO"`
	CINNumber      string `json:"cinNumber,omitempty"`
	PANNumber      string `json:"panNumber,omitempty"`
	GSTNumber      string `json:"gstNumber,omitempty"`
	CompanyAddress string `json:"companyAddress,omitempty"`
	CompanyWebsite string `json:"companyWebsite,omitempty"`
	Industry       string `json:"industry,omitempty"`

	ContactPersonName  string `json:"contactPersonName" validate:"required"`
	ContactDesignation string `json:"contactDesignation,omitempty"`
	ContactMobile      string `json:"contactMobile" validate:"required"`
	ContactEmail       string `json:"contactEmail,omitempty" validate:"omitempty,email"`

	ProjectName         string `json:"projectName" validate:"required"`
	ProjectCategory     string `json:"projectCategory,omitempty" validate:"omitempty,oneof=EDUCATION HEALTHCARE RURAL_DEVELOPMENT SKILL_DEVELOPMENT INFRASTRUCTURE ENVIRONMENT SPORTS CULTURE DISASTER_RELIEF OTHER"`
	ProjectDescription  string `json:"projectDescription,omitempty"`
	ProjectObjectives   string `json:"projectObjectives,omitempty"`
	TargetBeneficiaries string `json:"targetBeneficiaries,omitempty"`
	ExpectedOutcomes    string `json:"expectedOutcomes,omitempty"`

	District           string `json:"district,omitempty"`
	Mandal             string `json:"mandal,omitempty"`
	Village            string `json:"village,omitempty"`
	ImplementationArea string `json:"implementationArea,omitempty"`

	ProposedBudget  decimal.Decimal `json:"proposedBudget" validate:"required"`
	ApprovedBudget  decimal.Decimal `json:"approvedBudget,omitzero"`
	FundingModel    string          `json:"fundingModel,omitempty" validate:"omitempty,oneof=FULL_FUNDING PARTIAL_FUNDING MATCHING_GRANT IN_KIND"`
	BudgetBreakdown []BudgetLine    `json:"budgetBreakdown,omitempty"`

	ProposedStartDate time.Time `json:"proposedStartDate,omitzero"`
	ProposedEndDate   time.Time `json:"proposedEndDate,omitzero"`
	ActualStartDate   time.Time `json:"actualStartDate,omitzero"`
	ActualEndDate     time.Time `json:"actualEndDate,omitzero"`
	DurationMonths    int       `json:"duration,omitempty"`

	MOUSignedDate  time.Time `json:"mouSignedDate,omitzero"`
	MOUValidUpto   time.Time `json:"mouValidUpto,omitzero"`
	MOUDocumentURL string    `json:"mouDocumentUrl,omitempty"`
	AgreementTerms string    `json:"agreementTerms,omitempty"`

	Milestones []Milestone `json:"milestones,omitempty"`

	ProgressPercentage int       `json:"progressPercentage,omitempty" validate:"omitempty,min=0,max=100"`
	ProgressNotes      string    `json:"progressNotes,omitempty"`
	LastReviewDate     time.Time `json:"lastReviewDate,omitzero"`
	NextReviewDate     time.Time `json:"nextReviewDate,omitzero"`

	BeneficiariesReached int            `json:"beneficiariesReached,omitempty"`
	ImpactMetrics        []ImpactMetric `json:"impactMetrics,omitempty"`

	DueDiligenceStatus string        `json:"dueDiligenceStatus,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED REJECTED"`
	DueDiligenceNotes  string        `json:"dueDiligenceNotes,omitempty"`
	RiskAssessment     string        `json:"riskAssessment,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	ReviewedBy         domain.UserID `json:"reviewedBy,omitzero"`
	ApprovedBy         domain.UserID `json:"approvedBy,omitzero"`
	ApprovedDate       time.Time     `json:"approvedDate,omitzero"`

	Priority    string                `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Tags        []string              `json:"tags,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the CSR reference number.
func (p *Project) Ref() string { return p.CSRID }

type BudgetLine struct {
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitzero"`
	Description string          `json:"description,omitempty"`
}

// Milestone is one deliverable stage of the project.
type Milestone struct {
	ID                domain.RecordID `json:"id"`
	MilestoneName     string          `json:"milestoneName,omitempty"`
	Description       string          `json:"description,omitempty"`
	TargetDate        time.Time       `json:"targetDate,omitzero"`
	CompletionDate    time.Time       `json:"completionDate,omitzero"`
	Status            string          `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED DELAYED"`
	Deliverables      string          `json:"deliverables,omitempty"`
	AmountDisbursed   decimal.Decimal `json:"amountDisbursed,omitzero"`
	VerificationNotes string          `json:"verificationNotes,omitempty"`
}

type ImpactMetric struct {
	Metric   string `json:"metric,omitempty"`
	Target   string `json:"target,omitempty"`
	Achieved string `json:"achieved,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// AddMilestone appends a milestone with a fresh identity.
func (p *Project) AddMilestone(m Milestone) Milestone {
	m.ID = domain.NewRecordID()
	if m.Status == "" {
		m.Status = "PENDING"
	}
	p.Milestones = append(p.Milestones, m)
	return m
}

// FindMilestone returns a pointer into the milestone slice, or nil.
func (p *Project) FindMilestone(id domain.RecordID) *Milestone {
	for i := range p.Milestones {
		if p.Milestones[i].ID == id {
			return &p.Milestones[i]
		}
	}
	return nil
}
