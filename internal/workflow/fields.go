package workflow

import (
	"strconv"
	"time"

	dErrors "pragati/pkg/domain-errors"
)

// Attachment references an already-uploaded file served under /uploads.
type Attachment struct {
	Filename   string    `json:"filename,omitempty"`
	URL        string    `json:"url,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitzero"`
}

// SLA status values.
const (
	SLAWithin      = "within-sla"
	SLAApproaching = "approaching-breach"
	SLABreached    = "breached"
)

// SLA tracks a resolution deadline derived from a compact duration such as
// "48h" or "7d".
type SLA struct {
	Duration   string    `json:"duration,omitempty"`
	DueDate    time.Time `json:"dueDate,omitzero"`
	Status     string    `json:"status,omitempty"`
	BreachedAt time.Time `json:"breachedAt,omitzero"`
}

// Arm derives the due date from Duration and marks the clock as running.
// A missing or malformed duration leaves the SLA untracked.
func (s *SLA) Arm(now time.Time) {
	if s.Duration == "" {
		return
	}
	d, err := ParseSLADuration(s.Duration)
	if err != nil {
		return
	}
	s.DueDate = now.Add(d)
	s.Status = SLAWithin
}

// MarkBreached flips the SLA to breached at the given time, once.
func (s *SLA) MarkBreached(now time.Time) {
	if s.Status == SLABreached {
		return
	}
	s.Status = SLABreached
	s.BreachedAt = now
}

// ParseSLADuration parses the "<n>h" / "<n>d" duration shorthand.
func ParseSLADuration(raw string) (time.Duration, error) {
	if len(raw) < 2 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid SLA duration %q", raw)
	}
	n, err := strconv.Atoi(raw[:len(raw)-1])
	if err != nil || n < 1 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid SLA duration %q", raw)
	}
	switch raw[len(raw)-1] {
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid SLA duration %q", raw)
	}
}
