package appointments

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
		"REQUESTED", "UNDER_REVIEW", "CONFIRMED", "RESCHEDULED", "CHECKED_IN",
		"IN_PROGRESS", "COMPLETED", "CANCELLED", "NO_SHOW", "REJECTED",
	},
	Default:      "REQUESTED",
	DeleteStatus: "CANCELLED",
}

// Spec declares the appointments module for the shared workflow engine.
func Spec() workflow.Spec[*Appointment] {
	return workflow.Spec[*Appointment]{
		Name:       "appointments",
		Label:      "Appointment",
		CreatedMsg: "Appointment request submitted successfully",
		Statuses:   statuses,
		RefField:   "appointmentId",
		SequenceKey: func(_ *Appointment, at time.Time) sequence.Key {
			return sequence.Key{Type: "appointment", Partition: "AP", Year: at.Year()}
		},
		FormatRef: func(key sequence.Key, n int64, _ time.Time) string {
			return fmt.Sprintf("APP-%s-%d-%s", key.Partition, key.Year, sequence.Format(n))
		},
		SetRef: func(doc *Appointment, ref string) { doc.AppointmentID = ref },
		Defaults: func(doc *Appointment, _ time.Time) {
			if doc.Category == "" {
				doc.Category = "GENERAL_MEETING"
			}
			if doc.Urgency == "" {
				doc.Urgency = "MEDIUM"
			}
			if doc.Priority == "" {
				doc.Priority = "MEDIUM"
			}
		},
		FilterFields: []string{"status", "category", "district", "urgency", "assignedTo"},
		DateField:    "preferredDate",
		GroupFields:  []string{"status", "category", "urgency"},
		StatsPath:    "overview",
	}
}

// Handler adds the confirm and check-in shortcuts on top of the shared
// surface.
type Handler struct {
	*workflow.Handler[Appointment, *Appointment]
}

// New wires the appointments handler.
func New(store docstore.Collection[*Appointment], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{workflow.NewHandler[Appointment, *Appointment](Spec(), store, seq, log, m)}
}

// Routes returns the module router.
func (h *Handler) Routes() http.Handler {
	return h.Handler.Routes(func(r chi.Router) {
		r.Patch("/{id}/confirm", h.confirm)
		r.Patch("/{id}/checkin", h.checkIn)
	})
}

type confirmRequest struct {
	ConfirmedDate    time.Time `json:"confirmedDate"`
	ConfirmedTime    string    `json:"confirmedTime"`
	MeetingPlace     string    `json:"meetingPlace"`
	SpecificLocation string    `json:"specificLocation"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var body confirmRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx := r.Context()
	doc, err := h.Service().Mutate(ctx, chi.URLParam(r, "id"), func(a *Appointment) error {
		a.Confirm(body.ConfirmedDate, body.ConfirmedTime, body.MeetingPlace, body.SpecificLocation,
			requestcontext.UserID(ctx), requestcontext.Now(ctx).UTC())
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, doc, "Appointment confirmed successfully")
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.Service().Mutate(ctx, chi.URLParam(r, "id"), func(a *Appointment) error {
		a.CheckIn(requestcontext.UserID(ctx), requestcontext.Now(ctx).UTC())
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, doc, "Checked in successfully")
}
