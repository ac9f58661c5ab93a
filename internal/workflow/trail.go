package workflow

import (
	"time"

	"pragati/internal/docstore"
	"pragati/pkg/domain"
)

// HistoryEntry records one status transition.
type HistoryEntry struct {
	Status    string        `json:"status"`
	ChangedBy domain.UserID `json:"changedBy,omitzero"`
	ChangedAt time.Time     `json:"changedAt"`
	Comments  string        `json:"comments,omitempty"`
}

// Comment is a free-form note attached to a record.
type Comment struct {
	ID        domain.RecordID `json:"id"`
	UserID    domain.UserID   `json:"userId,omitzero"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Trail is the audit surface every workflow record embeds: the current
// status, the full transition history and attached comments.
type Trail struct {
	Status        string         `json:"status,omitempty"`
	StatusHistory []HistoryEntry `json:"statusHistory,omitempty"`
	Comments      []Comment      `json:"comments,omitempty"`
}

// AuditTrail returns the embedded trail. Embedding Trail gives models this
// method for free.
func (t *Trail) AuditTrail() *Trail {
	return t
}

// Transition moves the record to a new status and appends a history entry.
// Re-applying the current status is suppressed and leaves the history
// untouched. The reported change reflects whether anything happened.
func (t *Trail) Transition(status string, by domain.UserID, at time.Time, note string) bool {
	if status == t.Status {
		return false
	}
	if note == "" {
		note = "Status updated"
	}
	t.Status = status
	t.StatusHistory = append(t.StatusHistory, HistoryEntry{
		Status:    status,
		ChangedBy: by,
		ChangedAt: at,
		Comments:  note,
	})
	return true
}

// Note appends a history entry at the current status. Used for audited
// actions that do not move the record, such as escalations.
func (t *Trail) Note(by domain.UserID, at time.Time, note string) {
	t.StatusHistory = append(t.StatusHistory, HistoryEntry{
		Status:    t.Status,
		ChangedBy: by,
		ChangedAt: at,
		Comments:  note,
	})
}

// AddComment appends a note with a fresh identity.
func (t *Trail) AddComment(by domain.UserID, text string, at time.Time) Comment {
	c := Comment{
		ID:        domain.NewRecordID(),
		UserID:    by,
		Text:      text,
		CreatedAt: at,
	}
	t.Comments = append(t.Comments, c)
	return c
}

// Auditable is what the workflow service operates on: a storable document
// carrying an audit trail.
type Auditable interface {
	docstore.Document
	AuditTrail() *Trail
}

// Assignee marks records that can be routed to a handling officer.
type Assignee interface {
	SetAssignee(id domain.UserID)
	AssignedUser() domain.UserID
}

// Assignment is the embeddable routing field for assignable records.
type Assignment struct {
	AssignedTo domain.UserID `json:"assignedTo,omitzero"`
}

// SetAssignee routes the record to the given user.
func (a *Assignment) SetAssignee(id domain.UserID) {
	a.AssignedTo = id
}

// AssignedUser returns the current assignee, zero when unassigned.
func (a *Assignment) AssignedUser() domain.UserID {
	return a.AssignedTo
}
