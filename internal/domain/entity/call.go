package entity

import "time"

const (
	CallRinging  = "ringing"
	CallAccepted = "accepted"
	CallDeclined = "declined"
	CallEnded    = "ended"
	CallMissed   = "missed"
)

// Call is a signalling record only; media transport is out of scope.
type Call struct {
	ID        string     `json:"id" firestore:"id"`
	CallerID  string     `json:"caller_id" firestore:"callerId"`
	CalleeID  string     `json:"callee_id" firestore:"calleeId"`
	Status    string     `json:"status" firestore:"status"`
	StartedAt *time.Time `json:"started_at,omitempty" firestore:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty" firestore:"endedAt,omitempty"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
}
