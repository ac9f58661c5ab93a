package emergencies

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "pragati/pkg/domain-errors"

	"pragati/internal/docstore"
	"pragati/internal/platform/metrics"
	"pragati/internal/workflow"
	"pragati/internal/workflow/sequence"
	"pragati/pkg/platform/httputil"
	"pragati/pkg/requestcontext"
)

var statuses = workflow.StatusSet{
	Values: []string{
		"LOGGED", "DISPATCHED", "IN_PROGRESS", "RESOLVED", "CANCELLED", "CLOSED",
	},
	Default:      "LOGGED",
	DeleteStatus: "CANCELLED",
}

// Spec declares the emergencies module for the shared workflow engine.
func Spec() workflow.Spec[*Emergency] {
	return workflow.Spec[*Emergency]{
		Name:       "emergencies",
		Label:      "Emergency",
		CreatedMsg: "Emergency logged successfully",
		Statuses:   statuses,
		RefField:   "emergencyId",
		SequenceKey: func(_ *Emergency, at time.Time) sequence.Key {
			return sequence.Key{Type: "emergency", Year: at.Year()}
		},
		FormatRef: func(key sequence.Key, n int64, _ time.Time) string {
			return fmt.Sprintf("EMR-%d-%s", key.Year, sequence.Format(n))
		},
		SetRef: func(doc *Emergency, ref string) { doc.EmergencyID = ref },
		Defaults: func(doc *Emergency, _ time.Time) {
			if doc.Urgency == "" {
				doc.Urgency = "HIGH"
			}
			if doc.Priority == "" {
				doc.Priority = "HIGH"
			}
		},
		FilterFields: []string{"status", "emergencyType", "district", "urgency", "assignedTo"},
		DateField:    "createdAt",
		GroupFields:  []string{"status", "emergencyType", "urgency"},
		StatsPath:    "overview",
	}
}

// Handler adds the escalation endpoint on top of the shared surface.
type Handler struct {
	*workflow.Handler[Emergency, *Emergency]
}

// New wires the emergencies handler.
func New(store docstore.Collection[*Emergency], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{workflow.NewHandler[Emergency, *Emergency](Spec(), store, seq, log, m)}
}

// Routes returns the module router.
func (h *Handler) Routes() http.Handler {
	return h.Handler.Routes(func(r chi.Router) {
		r.Patch("/{id}/escalate", h.escalate)
	})
}

type escalateRequest struct {
	EscalatedTo      string `json:"escalatedTo"`
	EscalationReason string `json:"escalationReason"`
}

func (h *Handler) escalate(w http.ResponseWriter, r *http.Request) {
	var body escalateRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if body.EscalatedTo == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Escalation target is required"))
		return
	}

	ctx := r.Context()
	doc, err := h.Service().Mutate(ctx, chi.URLParam(r, "id"), func(e *Emergency) error {
		e.Escalate(body.EscalatedTo, body.EscalationReason,
			requestcontext.UserID(ctx), requestcontext.Now(ctx).UTC())
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, doc, "Emergency escalated successfully")
}
