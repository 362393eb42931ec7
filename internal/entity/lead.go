package entity

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"
	StatusScheduled LeadStatus = "scheduled"
	StatusCompleted LeadStatus = "completed"
	StatusLost      LeadStatus = "lost"
)

// LeadStatuses lists every status in lifecycle order. The dashboard renders
// one transition button per entry.
var LeadStatuses = []LeadStatus{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusScheduled,
	StatusCompleted,
	StatusLost,
}

var statusLabels = map[LeadStatus]string{
	StatusNew:       "New",
	StatusContacted: "Contacted",
	StatusQualified: "Qualified",
	StatusScheduled: "Scheduled",
	StatusCompleted: "Completed",
	StatusLost:      "Lost",
}

func (s LeadStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s LeadStatus) Label() string {
	return statusLabels[s]
}

// Note is a free-text annotation on a lead. Immutable once created; it can
// only be deleted.
type Note struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ActionItem is a checklist entry on a lead. Only the completed flag is
// mutable after creation.
type ActionItem struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	Completed bool      `json:"completed" bson:"completed"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Lead is one homeowner submission, created exactly once by the intake form
// and mutated only through status transitions and note/action-item edits.
type Lead struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name"`
	Email       string        `json:"email" bson:"email"`
	Phone       string        `json:"phone" bson:"phone"`
	Address     string        `json:"address" bson:"address"`
	HomeAge     string        `json:"home_age" bson:"home_age"`
	IsHomeowner string        `json:"is_homeowner" bson:"is_homeowner"` // "yes", "no" or ""
	Concerns    string        `json:"concerns" bson:"concerns"`

	Status      LeadStatus   `json:"status" bson:"status"`
	Notes       []Note       `json:"notes" bson:"notes"`
	ActionItems []ActionItem `json:"action_items" bson:"action_items"`

	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	LastContactedAt *time.Time `json:"last_contacted_at" bson:"last_contacted_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at" bson:"updated_at,omitempty"`
}

// Normalize fills the defaults for fields that may be absent on documents
// written by older clients: empty strings, status "new", empty lists.
func (l *Lead) Normalize() {
	if l.Status == "" {
		l.Status = StatusNew
	}
	if l.Notes == nil {
		l.Notes = []Note{}
	}
	if l.ActionItems == nil {
		l.ActionItems = []ActionItem{}
	}
}

// Field returns the value of a named string field for triage sorting.
// Unknown names return the empty string, which sorts first.
func (l *Lead) Field(name string) string {
	switch name {
	case "name":
		return l.Name
	case "email":
		return l.Email
	case "phone":
		return l.Phone
	case "address":
		return l.Address
	case "status":
		return string(l.Status)
	default:
		return ""
	}
}

// MatchesSearch reports whether q (already lowercased) is a substring of the
// lead's name, email, phone or address.
func (l *Lead) MatchesSearch(q string) bool {
	return strings.Contains(strings.ToLower(l.Name), q) ||
		strings.Contains(strings.ToLower(l.Email), q) ||
		strings.Contains(strings.ToLower(l.Phone), q) ||
		strings.Contains(strings.ToLower(l.Address), q)
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindAll(ctx context.Context) ([]Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
	AddNote(ctx context.Context, id string, note Note) error
	DeleteNote(ctx context.Context, id, noteID string) error
	AddActionItem(ctx context.Context, id string, item ActionItem) error
	SetActionItemCompleted(ctx context.Context, id, itemID string, completed bool) error
	DeleteActionItem(ctx context.Context, id, itemID string) error
}
