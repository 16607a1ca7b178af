package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry is one row in a user's link/header list.
// Position is the zero-based render order among one owner's entries; after a
// reorder the positions of one owner always form {0..n-1} with no gaps.
type Entry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Label     string    `json:"label"`
	IsLink    bool      `json:"is_link"`
	Active    bool      `json:"active"`
	Position  int       `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryPatch is a partial update to an entry's mutable fields.
// ID, OwnerID and IsLink are fixed at creation and cannot be patched.
type EntryPatch struct {
	Label  *string `json:"label,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// Apply copies the set fields of the patch onto e.
func (p EntryPatch) Apply(e *Entry) {
	if p.Label != nil {
		e.Label = *p.Label
	}
	if p.Active != nil {
		e.Active = *p.Active
	}
}

// NewID returns a new globally unique entry id.
// ULIDs from the same source are ordered by create time.
func NewID() string {
	return ulid.Make().String()
}

// ChangeKind classifies a change notification from the store.
type ChangeKind string

const (
	ChangeInserted ChangeKind = "inserted"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
)

// Resource values identify which record type a change event refers to.
// Entry and social-link changes share one per-owner channel.
const (
	ResourceEntry      = "entry"
	ResourceSocialLink = "social_link"
)

// ChangeEvent is one change notification fanned out to all sessions of an
// owner. The payload matching Resource is set for inserted/updated; deleted
// carries only the id.
type ChangeEvent struct {
	Kind       ChangeKind  `json:"kind"`
	Resource   string      `json:"resource"`
	OwnerID    string      `json:"owner_id"`
	ID         string      `json:"id"`
	Entry      *Entry      `json:"entry,omitempty"`
	SocialLink *SocialLink `json:"social_link,omitempty"`
}
