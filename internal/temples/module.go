package temples

import (
	"fmt"
	"log/slog"
	"time"

	"pragati/internal/docstore"
	"pragati/internal/platform/metrics"
	"pragati/internal/workflow"
	"pragati/internal/workflow/sequence"
)

var statuses = workflow.StatusSet{
	Values: []string{
		"REQUESTED", "UNDER_REVIEW", "APPROVED", "REJECTED",
		"LETTER_ISSUED", "COMPLETED", "CANCELLED",
	},
	Default:      "REQUESTED",
	DeleteStatus: "CANCELLED",
}

// Spec declares the temples module for the shared workflow engine.
func Spec() workflow.Spec[*Request] {
	return workflow.Spec[*Request]{
		Name:       "temples",
		Label:      "Darshan request",
		CreatedMsg: "Darshan request submitted successfully",
		Statuses:   statuses,
		RefField:   "templeId",
		SequenceKey: func(doc *Request, at time.Time) sequence.Key {
			return sequence.Key{Type: "temple", Partition: sequence.PartitionCode(doc.District), Year: at.Year()}
		},
		FormatRef: func(key sequence.Key, n int64, _ time.Time) string {
			return fmt.Sprintf("TDL-%s-%d-%s", key.Partition, key.Year, sequence.Format(n))
		},
		SetRef: func(doc *Request, ref string) { doc.TempleRequestID = ref },
		Defaults: func(doc *Request, _ time.Time) {
			if doc.NumberOfPeople == 0 {
				doc.NumberOfPeople = 1
			}
		},
		FilterFields: []string{"status", "district", "darshanType", "templeName", "assignedTo"},
		DateField:    "preferredDate",
		GroupFields:  []string{"status", "darshanType"},
		StatsPath:    "summary",
	}
}

// New wires the temples handler.
func New(store docstore.Collection[*Request], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *workflow.Handler[Request, *Request] {
	return workflow.NewHandler[Request, *Request](Spec(), store, seq, log, m)
}
