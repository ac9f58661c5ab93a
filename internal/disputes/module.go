package disputes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pragati/internal/docstore"
	"pragati/internal/platform/metrics"
	"pragati/internal/workflow"
	"pragati/internal/workflow/sequence"
	"pragati/pkg/platform/httputil"
	"pragati/pkg/requestcontext"
)

var statuses = workflow.StatusSet{
	Values: []string{
		"NEW", "UNDER_REVIEW", "MEDIATION_SCHEDULED", "IN_MEDIATION",
		"SETTLED", "REFERRED_TO_COURT", "CLOSED",
	},
	Default:      "NEW",
	DeleteStatus: "CLOSED",
}

// Spec declares the disputes module for the shared workflow engine.
func Spec() workflow.Spec[*Dispute] {
	return workflow.Spec[*Dispute]{
		Name:       "disputes",
		Label:      "Dispute",
		CreatedMsg: "Dispute registered successfully",
		Statuses:   statuses,
		RefField:   "disputeId",
		SequenceKey: func(doc *Dispute, at time.Time) sequence.Key {
			return sequence.Key{Type: "dispute", Partition: sequence.PartitionCode(doc.District), Year: at.Year()}
		},
		FormatRef: func(key sequence.Key, n int64, _ time.Time) string {
			return fmt.Sprintf("DSP-AP-%s-%d-%s", key.Partition, key.Year, sequence.Format(n))
		},
		SetRef: func(doc *Dispute, ref string) { doc.DisputeID = ref },
		Defaults: func(doc *Dispute, at time.Time) {
			if doc.Priority == "" {
				doc.Priority = "MEDIUM"
			}
			doc.SLA.Arm(at)
		},
		FilterFields: []string{"status", "category", "district", "assignedTo", "sla.status"},
		DateField:    "createdAt",
		GroupFields:  []string{"status", "category"},
		StatsPath:    "summary",
	}
}

// Handler adds the hearing endpoint on top of the shared surface.
type Handler struct {
	*workflow.Handler[Dispute, *Dispute]
}

// New wires the disputes handler.
func New(store docstore.Collection[*Dispute], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{workflow.NewHandler[Dispute, *Dispute](Spec(), store, seq, log, m)}
}

// Routes returns the module router.
func (h *Handler) Routes() http.Handler {
	return h.Handler.Routes(func(r chi.Router) {
		r.Patch("/{id}/hearing", h.scheduleHearing)
	})
}

type hearingRequest struct {
	HearingDate  time.Time `json:"hearingDate"`
	HearingTime  string    `json:"hearingTime"`
	HearingPlace string    `json:"hearingPlace"`
	HearingNotes string    `json:"hearingNotes"`
}

func (h *Handler) scheduleHearing(w http.ResponseWriter, r *http.Request) {
	var body hearingRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx := r.Context()
	doc, err := h.Service().Mutate(ctx, chi.URLParam(r, "id"), func(d *Dispute) error {
		d.ScheduleHearing(body.HearingDate, body.HearingTime, body.HearingPlace, body.HearingNotes,
			requestcontext.UserID(ctx), requestcontext.Now(ctx).UTC())
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, doc, "Hearing scheduled successfully")
}
