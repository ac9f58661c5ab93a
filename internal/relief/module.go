package relief

import (
	"fmt"
	"log/slog"
	"time"

	"pragati/internal/docstore"
	"pragati/internal/platform/metrics"
	"pragati/internal/workflow"
	"pragati/internal/workflow/sequence"
)

// Statuses a relief request moves through.
var statuses = workflow.StatusSet{
	Values: []string{
		"REQUESTED", "UNDER_REVIEW", "VERIFICATION_PENDING", "APPROVED",
		"REJECTED", "AMOUNT_DISBURSED", "COMPLETED", "CANCELLED",
	},
	Default:      "REQUESTED",
	DeleteStatus: "CANCELLED",
}

// Spec declares the relief module for the shared workflow engine.
func Spec() workflow.Spec[*Request] {
	return workflow.Spec[*Request]{
		Name:       "relief",
		Label:      "CM Relief request",
		CreatedMsg: "CM Relief request submitted successfully",
		Statuses:   statuses,
		RefField:   "cmrfId",
		SequenceKey: func(doc *Request, at time.Time) sequence.Key {
			return sequence.Key{Type: "cmrf", Partition: sequence.PartitionCode(doc.District), Year: at.Year()}
		},
		FormatRef: func(key sequence.Key, n int64, _ time.Time) string {
			return fmt.Sprintf("CMRF-%s-%d-%s", key.Partition, key.Year, sequence.Format(n))
		},
		SetRef: func(doc *Request, ref string) { doc.CMRFID = ref },
		Defaults: func(doc *Request, _ time.Time) {
			if doc.Urgency == "" {
				doc.Urgency = "MEDIUM"
			}
			if doc.Priority == "" {
				doc.Priority = "MEDIUM"
			}
			if doc.VerificationStatus == "" {
				doc.VerificationStatus = "PENDING"
			}
		},
		FilterFields: []string{"status", "district", "reliefType", "urgency", "assignedTo"},
		DateField:    "createdAt",
		GroupFields:  []string{"status", "reliefType", "urgency"},
		SumFields:    []string{"requestedAmount", "approvedAmount"},
		StatsPath:    "summary",
	}
}

// New wires the relief handler.
func New(store docstore.Collection[*Request], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *workflow.Handler[Request, *Request] {
	return workflow.NewHandler[Request, *Request](Spec(), store, seq, log, m)
}
