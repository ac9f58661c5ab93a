package workflow

import (
	"context"
	"time"

	"pragati/internal/docstore"
	"pragati/internal/workflow/sequence"
)

// Ptr constrains the pointer form of a workflow model.
type Ptr[T any] interface {
	*T
	Auditable
}

// Spec declares everything that differs between entity modules: lifecycle,
// reference numbering, validation and query surface. The service and handler
// are generic over it, so ten modules share one implementation.
type Spec[T Auditable] struct {
	// Name labels logs and metrics, e.g. "relief".
	Name string
	// Label names the record in user-facing messages, e.g. "Relief request".
	Label string
	// CreatedMsg overrides the default "<Label> created successfully".
	CreatedMsg string

	Statuses StatusSet

	// RefField is the JSON field holding the reference number. It is
	// stripped from update payloads.
	RefField string
	// SequenceKey derives the counter scope for a new record.
	SequenceKey func(doc T, at time.Time) sequence.Key
	// FormatRef renders the reference number from the scope and counter.
	FormatRef func(key sequence.Key, n int64, at time.Time) string
	// SetRef writes the allocated reference onto the record.
	SetRef func(doc T, ref string)

	// Defaults fills module defaults on a new record before validation.
	Defaults func(doc T, at time.Time)
	// Validate runs cross-field checks after struct tag validation.
	Validate func(doc T) error

	// FilterFields are the JSON fields List accepts as equality filters.
	FilterFields []string
	// DateField, when set, enables startDate and endDate range filtering.
	DateField string

	// GroupFields are the dimensions the stats endpoint counts by.
	GroupFields []string
	// SumFields are the numeric fields the stats endpoint totals.
	SumFields []string
	// StatsPath is the last route segment of the stats endpoint, e.g.
	// "summary". Empty disables the endpoint.
	StatsPath string
	// Stats overrides the generic aggregation when a module needs a
	// bespoke shape.
	Stats func(ctx context.Context, store docstore.Collection[T], q docstore.Query) (map[string]any, error)
}
