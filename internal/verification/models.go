package verification

import "time"

// State of the verification gate for one challenge. Verified is terminal for
// that email within the session; requesting a code for a different email
// starts a fresh challenge.
type State string

const (
	StateUnverified State = "unverified"
	StateCodeSent   State = "code_sent"
	StateVerified   State = "verified"
)

// Challenge is one outstanding code bound to an email. Only the bcrypt hash
// of the code is stored; the plaintext goes to the sender and is dropped.
type Challenge struct {
	CorrelationID string    `json:"correlation_id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	CodeHash      []byte    `json:"code_hash"`
	State         State     `json:"state"`
	Device        string    `json:"device,omitempty"`
	IP            string    `json:"ip,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at,omitzero"`
}

// Expired reports whether the collaborator-supplied expiry has passed. A zero
// ExpiresAt means no expiry policy was configured and only the match counts.
func (c Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Session is the verified-identity token handed back once the gate reaches
// Verified. The stepper trusts its email claim when gating step advancement.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ClientInfo carries request metadata recorded on the challenge for the
// audit trail.
type ClientInfo struct {
	IP        string
	UserAgent string
}
