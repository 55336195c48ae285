// Package audit records the registration platform's append-only activity
// trail. Domain code emits events through a Publisher; a Worker drains them to
// a sink (Kafka in production, memory in tests).
package audit

import "time"

// Action names the recorded activity.
type Action string

const (
	ActionRegistrationStarted   Action = "registration.started"
	ActionStepCompleted         Action = "step.completed"
	ActionWentBack              Action = "registration.went_back"
	ActionVerificationRequested Action = "verification.code_requested"
	ActionVerificationVerified  Action = "verification.verified"
	ActionSettlementSelected    Action = "settlement.selected"
	ActionRegistrationCompleted Action = "registration.completed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	Action         Action    `json:"action"`
	RegistrationID string    `json:"registration_id,omitempty"`
	Email          string    `json:"email,omitempty"`
	Role           string    `json:"role,omitempty"`
	Step           int       `json:"step,omitempty"`
	Detail         string    `json:"detail,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
}
