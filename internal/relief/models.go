// Package relief handles CM Relief Fund requests.
package relief

import (
	"time"

	"github.com/shopspring/decimal"

	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/domain"
)

// Request is a CM Relief Fund application.
type Request struct {
	docstore.Meta
	workflow.Trail
	workflow.Assignment

	CMRFID string `json:"cmrfId,omitempty"`

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

	ReliefType      string          `json:"reliefType" validate:"required,oneof=MEDICAL EDUCATION ACCIDENT NATURAL_DISASTER FINANCIAL_ASSISTANCE FUNERAL OTHER"`
	RequestedAmount decimal.Decimal `json:"requestedAmount" validate:"required"`
	ApprovedAmount  decimal.Decimal `json:"approvedAmount,omitzero"`
	Purpose         string          `json:"purpose,omitempty"`
	Urgency         string          `json:"urgency,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Priority        string          `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`

	MedicalDetails MedicalDetails `json:"medicalDetails,omitzero"`
	IncomeDetails  IncomeDetails  `json:"incomeDetails,omitzero"`
	BankDetails    BankDetails    `json:"bankDetails,omitzero"`

	VerificationStatus string        `json:"verificationStatus,omitempty" validate:"omitempty,oneof=PENDING VERIFIED REJECTED"`
	VerifiedBy         domain.UserID `json:"verifiedBy,omitzero"`
	VerificationDate   time.Time     `json:"verificationDate,omitzero"`
	VerificationNotes  string        `json:"verificationNotes,omitempty"`

	Disbursement    Disbursement  `json:"disbursementDetails,omitzero"`
	ApprovedBy      domain.UserID `json:"approvedBy,omitzero"`
	ApprovalDate    time.Time     `json:"approvalDate,omitzero"`
	ApprovalNotes   string        `json:"approvalNotes,omitempty"`
	RejectReason    string        `json:"rejectReason,omitempty"`

	Attachments []workflow.Attachment `json:"attachments,omitempty"`
	CreatedBy   domain.UserID         `json:"createdBy,omitzero"`
}

// Ref returns the CMRF reference number.
func (r *Request) Ref() string { return r.CMRFID }

// MedicalDetails applies when the relief type is MEDICAL.
type MedicalDetails struct {
	HospitalName  string          `json:"hospitalName,omitempty"`
	Disease       string          `json:"disease,omitempty"`
	TreatmentCost decimal.Decimal `json:"treatmentCost,omitzero"`
	DoctorName    string          `json:"doctorName,omitempty"`
	AdmissionDate time.Time       `json:"admissionDate,omitzero"`
}

type IncomeDetails struct {
	MonthlyIncome decimal.Decimal `json:"monthlyIncome,omitzero"`
	Occupation    string          `json:"occupation,omitempty"`
	FamilyMembers int             `json:"familyMembers,omitempty"`
	Dependents    int             `json:"dependents,omitempty"`
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
