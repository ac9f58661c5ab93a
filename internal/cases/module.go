package cases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"pragati/internal/docstore"
	"pragati/internal/platform/metrics"
	"pragati/internal/workflow"
	"pragati/internal/workflow/sequence"
)

var statuses = workflow.StatusSet{
	Values: []string{
		"pending", "in-progress", "under-review", "approved",
		"rejected", "completed", "closed",
	},
	Default:      "pending",
	DeleteStatus: "closed",
}

// slaByPriority maps case priority to its resolution window.
var slaByPriority = map[string]time.Duration{
	"P1": 24 * time.Hour,
	"P2": 72 * time.Hour,
	"P3": 7 * 24 * time.Hour,
	"P4": 15 * 24 * time.Hour,
}

// Spec declares the cases module for the shared workflow engine.
func Spec() workflow.Spec[*Case] {
	return workflow.Spec[*Case]{
		Name:       "cases",
		Label:      "Case",
		CreatedMsg: "Case created successfully",
		Statuses:   statuses,
		RefField:   "caseNumber",
		SequenceKey: func(_ *Case, at time.Time) sequence.Key {
			return sequence.Key{Type: "case", Year: at.Year()}
		},
		FormatRef: func(key sequence.Key, n int64, _ time.Time) string {
			return fmt.Sprintf("CASE-%d-%s", key.Year, sequence.Format(n))
		},
		SetRef: func(doc *Case, ref string) { doc.CaseNumber = ref },
		Defaults: func(doc *Case, at time.Time) {
			if doc.Priority == "" {
				doc.Priority = "P3"
			}
			if doc.SLA.Duration == "" {
				doc.SLA.Duration = slaDuration(doc.Priority)
			}
			doc.SLA.Arm(at)
		},
		FilterFields: []string{"status", "caseType", "department", "district", "assignedTo", "sla.status"},
		DateField:    "createdAt",
		StatsPath:    "dashboard",
		Stats:        dashboard,
	}
}

func slaDuration(priority string) string {
	d, ok := slaByPriority[priority]
	if !ok {
		d = slaByPriority["P3"]
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

// dashboard aggregates the case totals the overview screen renders, including
// SLA compliance as a percentage of cases that have not breached.
func dashboard(ctx context.Context, store docstore.Collection[*Case], _ docstore.Query) (map[string]any, error) {
	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int, equals map[string]string) func() error {
		return func() error {
			page, err := store.List(ctx, docstore.Query{Equals: equals, Limit: 1})
			if err != nil {
				return err
			}
			*dst = page.Total
			return nil
		}
	}

	var total, pending, inProgress, completed, breached int
	g.Go(count(&total, nil))
	g.Go(count(&pending, map[string]string{"status": "pending"}))
	g.Go(count(&inProgress, map[string]string{"status": "in-progress"}))
	g.Go(count(&completed, map[string]string{"status": "completed"}))
	g.Go(count(&breached, map[string]string{"sla.status": workflow.SLABreached}))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compliance := 100.0
	if total > 0 {
		compliance = math.Round(float64(total-breached)/float64(total)*10000) / 100
	}

	return map[string]any{
		"totalCases":      total,
		"pendingCases":    pending,
		"inProgressCases": inProgress,
		"completedCases":  completed,
		"breachedSLA":     breached,
		"slaCompliance":   compliance,
	}, nil
}

// New wires the cases handler.
func New(store docstore.Collection[*Case], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *workflow.Handler[Case, *Case] {
	return workflow.NewHandler[Case, *Case](Spec(), store, seq, log, m)
}
