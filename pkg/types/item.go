package types

import (
	"strings"
	"time"
)

// Status is the reading state of an item. Any status may move to any other.
type Status string

// Item statuses.
const (
	StatusBacklog   Status = "backlog"
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
)

// validStatuses is the set of recognized status values.
var validStatuses = map[Status]bool{
	StatusBacklog:   true,
	StatusReading:   true,
	StatusCompleted: true,
}

// statusLabels are the short names shown next to each status.
var statusLabels = map[Status]string{
	StatusBacklog:   "Plan",
	StatusReading:   "Reading",
	StatusCompleted: "Finished",
}

// Statuses lists every status in display order.
var Statuses = []Status{StatusBacklog, StatusReading, StatusCompleted}

// Valid reports whether s is a recognized status.
func (s Status) Valid() bool {
	return validStatuses[s]
}

// Label returns the display label for s, or s itself when unknown.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus converts user input to a Status.
// Returns ErrInvalidStatus for unrecognized values.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Item is one reading-list entry.
type Item struct {
	ID        string    `json:"id"`                 // Random UUID, generated on creation.
	Title     string    `json:"title"`              // Trimmed, non-empty.
	Author    string    `json:"author"`             // Optional.
	Link      string    `json:"link"`               // Optional.
	Notes     string    `json:"notes"`              // Optional.
	Status    Status    `json:"status"`             // One of the Status constants.
	Favorite  bool      `json:"favorite,omitempty"` // Absent means false.
	CreatedAt time.Time `json:"createdAt"`          // Set on creation, never changed. See timestamp.go.
}

// SetStatus sets the item status.
// Returns ErrInvalidStatus if the status is not recognized.
// Idempotent: setting the current status succeeds without error.
func (i *Item) SetStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	i.Status = status
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (i *Item) ToggleFavorite() bool {
	i.Favorite = !i.Favorite
	return i.Favorite
}

// Matches reports whether term occurs in the title, author, or notes.
// term must already be lower-cased; an empty term matches every item.
func (i Item) Matches(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Title), term) ||
		strings.Contains(strings.ToLower(i.Author), term) ||
		strings.Contains(strings.ToLower(i.Notes), term)
}

// Draft holds the user-entered fields for a new item.
type Draft struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Link   string `json:"link"`
	Notes  string `json:"notes"`
}

// Normalize returns a copy of d with every field trimmed.
func (d Draft) Normalize() Draft {
	return Draft{
		Title:  strings.TrimSpace(d.Title),
		Author: strings.TrimSpace(d.Author),
		Link:   strings.TrimSpace(d.Link),
		Notes:  strings.TrimSpace(d.Notes),
	}
}

// Validate returns ErrInvalidTitle when the trimmed title is empty.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrInvalidTitle
	}
	return nil
}
