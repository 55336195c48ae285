package settlement

import (
	"sort"
	"strings"
	"time"

	dErrors "sportsreg/pkg/domain-errors"
	"sportsreg/pkg/email"
)

// Selector validates a settlement choice against the computed fee breakdown
// and produces the Outcome persisted with the registration. Selection is
// idempotent at the record level: the caller overwrites any previous Outcome
// with the one returned here, so re-selecting or switching modes needs no
// special handling.
type Selector struct {
	now func() time.Time
}

func NewSelector() *Selector {
	return &Selector{now: time.Now}
}

// Select resolves req into an Outcome. total is the registration's computed
// fee total; shares maps student ID to that student's own fee share and is
// consulted only for delegated billing.
func (s *Selector) Select(total int64, shares map[string]int64, req Request) (Outcome, error) {
	if !req.Mode.Valid() {
		return Outcome{}, dErrors.NewValidation("unknown settlement mode", "mode")
	}

	switch req.Mode {
	case ModeDirectPayment:
		return Outcome{
			Mode:       ModeDirectPayment,
			Status:     StatusPending,
			Amount:     total,
			SelectedAt: s.now(),
		}, nil
	case ModeSponsorshipRequest:
		return s.selectSponsorship(req.Sponsorship)
	default:
		return s.selectDelegated(shares, req.Recipients)
	}
}

func (s *Selector) selectSponsorship(details *SponsorshipDetails) (Outcome, error) {
	if details == nil {
		return Outcome{}, dErrors.NewValidation("sponsorship details are required",
			"requested_amount", "sponsorship_type", "reason")
	}

	var missing []string
	if details.RequestedAmount <= 0 {
		missing = append(missing, "requested_amount")
	}
	if details.Type != SponsorshipPartial && details.Type != SponsorshipFull {
		missing = append(missing, "sponsorship_type")
	}
	if strings.TrimSpace(details.Reason) == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return Outcome{}, dErrors.NewValidation("incomplete sponsorship request", missing...)
	}

	return Outcome{
		Mode:            ModeSponsorshipRequest,
		Status:          StatusRequested,
		Amount:          details.RequestedAmount,
		Sponsorship:     &SponsorshipDetails{RequestedAmount: details.RequestedAmount, Type: details.Type, Reason: details.Reason},
		PaymentDeferred: true,
		SelectedAt:      s.now(),
	}, nil
}

func (s *Selector) selectDelegated(shares map[string]int64, recipients []Recipient) (Outcome, error) {
	if len(recipients) == 0 {
		return Outcome{}, dErrors.NewValidation("delegated billing needs at least one recipient", "recipients")
	}

	entries := make([]BillingEntry, 0, len(recipients))
	var total int64
	for _, r := range recipients {
		if !strings.Contains(r.Email, "@") {
			return Outcome{}, dErrors.NewValidation("recipient without a resolvable email", "recipients")
		}
		share, ok := shares[r.StudentID]
		if !ok {
			return Outcome{}, dErrors.New(dErrors.CodeBadRequest,
				"recipient "+r.StudentID+" has no fee share in this registration")
		}

		name := r.Name
		if strings.TrimSpace(name) == "" {
			name = email.DeriveNameFromEmail(r.Email)
		}
		entries = append(entries, BillingEntry{
			StudentID: r.StudentID,
			Name:      name,
			Email:     r.Email,
			Amount:    share,
		})
		total += share
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StudentID < entries[j].StudentID })

	return Outcome{
		Mode:       ModeDelegatedBilling,
		Status:     StatusDelegated,
		Amount:     total,
		Entries:    entries,
		SelectedAt: s.now(),
	}, nil
}
