// Package settlement resolves how a completed registration's fee total gets
// paid: directly, through a sponsorship request, or billed per participant.
package settlement

import "time"

// Mode is the payment handling a registrant chooses on the final step. Modes
// are mutually exclusive.
type Mode string

const (
	ModeDirectPayment      Mode = "direct_payment"
	ModeSponsorshipRequest Mode = "sponsorship_request"
	ModeDelegatedBilling   Mode = "delegated_billing"
)

// Valid reports whether m is a known settlement mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeDirectPayment, ModeSponsorshipRequest, ModeDelegatedBilling:
		return true
	}
	return false
}

// Status is the lifecycle state of a settlement outcome. Progression beyond
// these initial states belongs to the external payment gateway.
type Status string

const (
	// StatusPending awaits confirmation from the payment gateway.
	StatusPending Status = "pending"
	// StatusRequested means a sponsorship request was filed; the account is
	// created with payment deferred until the request is reviewed.
	StatusRequested Status = "requested"
	// StatusDelegated means per-participant invoices were issued.
	StatusDelegated Status = "delegated"
)

// SponsorshipType distinguishes full from partial sponsorship requests.
type SponsorshipType string

const (
	SponsorshipPartial SponsorshipType = "partial"
	SponsorshipFull    SponsorshipType = "full"
)

// SponsorshipDetails are the fields a sponsorship request must carry.
type SponsorshipDetails struct {
	RequestedAmount int64           `json:"requested_amount"`
	Type            SponsorshipType `json:"sponsorship_type"`
	Reason          string          `json:"reason"`
}

// Recipient is one participant to bill under delegated billing. Name may be
// empty, in which case it is derived from the email address.
type Recipient struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
}

// Request captures the registrant's settlement choice and its mode-specific
// fields.
type Request struct {
	Mode        Mode                `json:"mode"`
	Sponsorship *SponsorshipDetails `json:"sponsorship,omitempty"`
	Recipients  []Recipient         `json:"recipients,omitempty"`
}

// BillingEntry is one issued invoice under delegated billing. Amount is the
// participant's own fee share, not an even split of the total.
type BillingEntry struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
}

// Outcome is the settlement result attached to a completed registration.
// Exactly one Outcome exists per registration; re-selecting a mode replaces it.
type Outcome struct {
	Mode            Mode                `json:"mode"`
	Status          Status              `json:"status"`
	Amount          int64               `json:"amount"`
	Sponsorship     *SponsorshipDetails `json:"sponsorship,omitempty"`
	Entries         []BillingEntry      `json:"entries,omitempty"`
	PaymentDeferred bool                `json:"payment_deferred"`
	SelectedAt      time.Time           `json:"selected_at"`
}
