package csr

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
	"pragati/pkg/domain"
	"pragati/pkg/platform/httputil"
)

var statuses = workflow.StatusSet{
	Values: []string{
		"LEAD", "DUE_DILIGENCE", "PROPOSAL_SENT", "PROPOSAL_REVIEW",
		"MOU_DRAFT", "MOU_SIGNED", "IN_EXECUTION", "MILESTONES_APPROVED",
		"COMPLETED", "CLOSED", "REJECTED",
	},
	Default:      "LEAD",
	DeleteStatus: "CLOSED",
}

// Spec declares the CSR projects module for the shared workflow engine.
func Spec() workflow.Spec[*Project] {
	return workflow.Spec[*Project]{
		Name:       "csr",
		Label:      "CSR project",
		CreatedMsg: "CSR project registered successfully",
		Statuses:   statuses,
		RefField:   "csrId",
		SequenceKey: func(_ *Project, at time.Time) sequence.Key {
			return sequence.Key{Type: "csr", Partition: "AP", Year: at.Year()}
		},
		FormatRef: func(key sequence.Key, n int64, _ time.Time) string {
			return fmt.Sprintf("CSR-%s-%d-%s", key.Partition, key.Year, sequence.Format(n))
		},
		SetRef: func(doc *Project, ref string) { doc.CSRID = ref },
		Defaults: func(doc *Project, _ time.Time) {
			if doc.Priority == "" {
				doc.Priority = "MEDIUM"
			}
			if doc.DueDiligenceStatus == "" {
				doc.DueDiligenceStatus = "PENDING"
			}
		},
		FilterFields: []string{"status", "projectCategory", "district", "companyType", "assignedTo"},
		DateField:    "createdAt",
		GroupFields:  []string{"status", "projectCategory"},
		SumFields:    []string{"proposedBudget", "approvedBudget"},
		StatsPath:    "overview",
	}
}

// Handler adds milestone endpoints on top of the shared surface.
type Handler struct {
	*workflow.Handler[Project, *Project]
}

// New wires the CSR handler.
func New(store docstore.Collection[*Project], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{workflow.NewHandler[Project, *Project](Spec(), store, seq, log, m)}
}

// Routes returns the module router.
func (h *Handler) Routes() http.Handler {
	return h.Handler.Routes(func(r chi.Router) {
		r.Post("/{id}/milestones", h.addMilestone)
		r.Patch("/{id}/milestones/{milestoneID}", h.updateMilestone)
	})
}

func (h *Handler) addMilestone(w http.ResponseWriter, r *http.Request) {
	var body Milestone
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if body.MilestoneName == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Milestone name is required"))
		return
	}

	doc, err := h.Service().Mutate(r.Context(), chi.URLParam(r, "id"), func(p *Project) error {
		p.AddMilestone(body)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, doc, "Milestone added successfully")
}

func (h *Handler) updateMilestone(w http.ResponseWriter, r *http.Request) {
	milestoneID, err := domain.ParseRecordID(chi.URLParam(r, "milestoneID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid milestone id"))
		return
	}

	var body Milestone
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, err := h.Service().Mutate(r.Context(), chi.URLParam(r, "id"), func(p *Project) error {
		m := p.FindMilestone(milestoneID)
		if m == nil {
			return dErrors.New(dErrors.CodeNotFound, "Milestone not found")
		}
		applyMilestonePatch(m, body)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, doc, "Milestone updated successfully")
}

// applyMilestonePatch overwrites only the fields the caller supplied.
func applyMilestonePatch(m *Milestone, patch Milestone) {
	if patch.MilestoneName != "" {
		m.MilestoneName = patch.MilestoneName
	}
	if patch.Description != "" {
		m.Description = patch.Description
	}
	if !patch.TargetDate.IsZero() {
		m.TargetDate = patch.TargetDate
	}
	if !patch.CompletionDate.IsZero() {
		m.CompletionDate = patch.CompletionDate
	}
	if patch.Status != "" {
		m.Status = patch.Status
	}
	if patch.Deliverables != "" {
		m.Deliverables = patch.Deliverables
	}
	if !patch.AmountDisbursed.IsZero() {
		m.AmountDisbursed = patch.AmountDisbursed
	}
	if patch.VerificationNotes != "" {
		m.VerificationNotes = patch.VerificationNotes
	}
}
