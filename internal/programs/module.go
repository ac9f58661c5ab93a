package programs

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
		"PLANNED", "REGISTRATION", "REGISTRATION_CLOSED", "SCREENING",
		"SELECTION", "OFFER", "JOINED", "ONGOING", "COMPLETED",
		"CANCELLED", "POSTPONED",
	},
	Default:      "PLANNED",
	DeleteStatus: "CANCELLED",
}

// Spec declares the programs module for the shared workflow engine.
func Spec() workflow.Spec[*Program] {
	return workflow.Spec[*Program]{
		Name:       "programs",
		Label:      "Program",
		CreatedMsg: "Program created successfully",
		Statuses:   statuses,
		RefField:   "programId",
		SequenceKey: func(_ *Program, at time.Time) sequence.Key {
			return sequence.Key{Type: "program", Partition: "NLR", Year: at.Year()}
		},
		FormatRef: func(key sequence.Key, n int64, _ time.Time) string {
			return fmt.Sprintf("PRG-AP-%s-%d-%s", key.Partition, key.Year, sequence.Format(n))
		},
		SetRef: func(doc *Program, ref string) { doc.ProgramID = ref },
		Defaults: func(doc *Program, _ time.Time) {
			if doc.Priority == "" {
				doc.Priority = "MEDIUM"
			}
		},
		FilterFields: []string{"status", "eventType", "district", "assignedTo"},
		DateField:    "startDate",
		GroupFields:  []string{"status", "eventType", "district"},
		SumFields:    []string{"budget.estimatedBudget", "budget.actualExpense"},
		StatsPath:    "overview",
	}
}

// Handler adds team and feedback endpoints on top of the shared surface.
type Handler struct {
	*workflow.Handler[Program, *Program]
}

// New wires the programs handler.
func New(store docstore.Collection[*Program], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{workflow.NewHandler[Program, *Program](Spec(), store, seq, log, m)}
}

// Routes returns the module router.
func (h *Handler) Routes() http.Handler {
	return h.Handler.Routes(func(r chi.Router) {
		r.Post("/{id}/team-members", h.addTeamMember)
		r.Post("/{id}/feedback", h.addFeedback)
	})
}

func (h *Handler) addTeamMember(w http.ResponseWriter, r *http.Request) {
	var body TeamMember
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if body.Name == "" && body.User.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Team member name or user is required"))
		return
	}

	ctx := r.Context()
	doc, err := h.Service().Mutate(ctx, chi.URLParam(r, "id"), func(p *Program) error {
		p.AddTeamMember(body, requestcontext.Now(ctx).UTC())
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, doc, "Team member added successfully")
}

func (h *Handler) addFeedback(w http.ResponseWriter, r *http.Request) {
	var body Feedback
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Rating must be between 1 and 5"))
		return
	}

	ctx := r.Context()
	doc, err := h.Service().Mutate(ctx, chi.URLParam(r, "id"), func(p *Program) error {
		p.AddFeedback(body, requestcontext.Now(ctx).UTC())
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, doc, "Feedback recorded successfully")
}
