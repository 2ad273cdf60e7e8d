package models

import "time"

const (
	EventStateChanged = "state.changed"
	EventAllergyAlert = "alert.allergy"
	EventNoticeRaised = "notice.raised"
)

// Event is pushed to realtime subscribers. State events carry an increasing
// Seq; a subscriber ignores any snapshot older than the last one it applied.
type Event struct {
	Kind      string    `json:"kind"`
	Seq       uint64    `json:"seq,omitempty"`
	State     *AppState `json:"state,omitempty"`
	Message   string    `json:"message,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
