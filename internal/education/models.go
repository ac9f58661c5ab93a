// Package education handles education aid requests.
package education

import (
	"time"

	"github.com/shopspring/decimal"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Request is an education support application.
type Request struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	EducationID string `json:"educationId,omitempty"`

	StudentName          string    `json:"studentName" validate:"required"`
	FatherOrGuardianName string    `json:"fatherOrGuardianName,omitempty"`
	DateOfBirth          time.Time `json:"dateOfBirth,omitzero"`
	Age                  int       `json:"age,omitempty"`
	Gender               string    `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	Mobile               string    `json:"mobile" validate:"required"`
	Email                string    `json:"email,omitempty" validate:"omitempty,email"`
	AadhaarNumber        string    `json:"aadhaarNumber,omitempty"`
	Address              string    `json:"address,omitempty"`
	District             string    `json:"district,omitempty"`
	Mandal               string    `json:"mandal,omitempty"`
	Ward                 string    `json:"ward,omitempty"`
	Pincode              string    `json:"pincode,omitempty"`

	EducationType   string `json:"educationType" validate:"required,oneof=SCHOOL INTERMEDIATE UNDERGRADUATE POSTGRADUATE DIPLOMA VOCATIONAL SKILL_TRAINING OTHER"`
	CurrentClass    string `json:"currentClass,omitempty"`
	InstitutionName string `json:"institutionName" validate:"required"`
	InstitutionType string `json:"institutionType,omitempty" validate:"omitempty,oneof=GOVERNMENT PRIVATE AIDED"`
	CourseOrStream  string `json:"courseOrStream,omitempty"`
	AcademicYear    string `json:"academicYear,omitempty"`
	RollNumber      string `json:"rollNumber,omitempty"`

	SupportType     string          `json:"supportType" validate:"required,oneof=TUITION_FEE BOOKS UNIFORM TRANSPORT HOSTEL_FEE EXAM_FEE LAPTOP SCHOLARSHIP OTHER"`
	RequestedAmount decimal.Decimal `json:"requestedAmount" validate:"required"`
	ApprovedAmount  decimal.Decimal `json:"approvedAmount,omitzero"`
	Purpose         string          `json:"purpose,omitempty"`
	Urgency         string          `json:"urgency,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Priority        string          `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`

	AcademicPerformance AcademicPerformance `json:"academicPerformance,omitzero"`
	FamilyIncome        FamilyIncome        `json:"familyIncome,omitzero"`
	BankDetails         BankDetails         `json:"bankDetails,omitzero"`

	VerificationStatus string        `json:"verificationStatus,omitempty" validate:"omitempty,oneof=PENDING VERIFIED REJECTED"`
	VerifiedBy         domain.UserID `json:"verifiedBy,omitzero"`
	VerificationDate   time.Time     `json:"verificationDate,omitzero"`
	VerificationNotes  string        `json:"verificationNotes,omitempty"`

	Disbursement  Disbursement  `json:"disbursementDetails,omitzero"`
	ApprovedBy    domain.UserID `json:"approvedBy,omitzero"`
	ApprovalDate  time.Time     `json:"approvalDate,omitzero"`
	ApprovalNotes string        `json:"approvalNotes,omitempty"`
	RejectReason  string        `json:"rejectReason,omitempty"`

	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the education reference number.
func (r *Request) Ref() string { return r.EducationID }

type AcademicPerformance struct {
	LastExamPercentage float64 `json:"lastExamPercentage,omitempty"`
	GPA                float64 `json:"gpa,omitempty"`
	Rank               int     `json:"rank,omitempty"`
	Achievements       string  `json:"achievements,omitempty"`
	Attendance         float64 `json:"attendance,omitempty"`
}

type FamilyIncome struct {
	MonthlyIncome       decimal.Decimal `json:"monthlyIncome,omitzero"`
	Occupation          string          `json:"occupation,omitempty"`
	FamilyMembers       int             `json:"familyMembers,omitempty"`
	Siblings            int             `json:"siblings,omitempty"`
	SiblingsInEducation int             `json:"siblingsInEducation,omitempty"`
}

type BankDetails struct {
	AccountNumber     string `json:"accountNumber,omitempty"`
	IFSCCode          string `json:"ifscCode,omitempty"`
	BankName          string `json:"bankName,omitempty"`
	BranchName        string `json:"branchName,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty"`
}

type Disbursement struct {
	Amount           decimal.Decimal `json:"amount,omitzero"`
	TransactionID    string          `json:"transactionId,omitempty"`
	DisbursementDate time.Time       `json:"disbursementDate,omitzero"`
	DisbursementMode string          `json:"disbursementMode,omitempty" validate:"omitempty,oneof=BANK_TRANSFER CHEQUE CASH DD"`
	Remarks          string          `json:"remarks,omitempty"`
}
