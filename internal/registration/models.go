// Package registration implements the step-sequencing state machine shared by
// the student and institution sign-up flows. Each wizard session owns exactly
// one Record; the stepper is the only writer.
package registration

import (
	"time"

	"sportsreg/internal/fees"
	"sportsreg/internal/settlement"
	"sportsreg/internal/taxonomy"
)

// UserType selects which step sequence a registration follows.
type UserType string

const (
	UserTypeStudent     UserType = "student"
	UserTypeInstitution UserType = "institution"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypeStudent || t == UserTypeInstitution
}

// StepCount is N for the flow: students have five steps, institutions four.
func (t UserType) StepCount() int {
	if t == UserTypeInstitution {
		return 4
	}
	return 5
}

// State is the phase of the registration state machine. While in
// StateInProgress the record's CurrentStep field says which numbered step is
// next; the other states carry no step index. Role selection happens inside
// Start itself (the user type is fixed at creation), so no stored record ever
// sits in a role-selection state.
type State string

const (
	StateEmailVerification State = "email_verification"
	StateInProgress        State = "in_progress"
	StateComplete          State = "complete"
)

// PersonalDetails is the student's first step. Email is back-filled from the
// verified session, not taken from the payload.
type PersonalDetails struct {
	FullName    string          `json:"full_name"`
	DateOfBirth time.Time       `json:"date_of_birth"`
	Gender      taxonomy.Gender `json:"gender"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
}

// DocumentRef points at an uploaded identity or age-proof document. Upload
// transport and storage live outside the core; the record keeps references.
type DocumentRef struct {
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
}

// Documents is the student's proof-of-identity step.
type Documents struct {
	Items []DocumentRef `json:"items"`
}

// Contact is a named phone contact.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// GuardianMedical is the student's guardian and emergency-contact step.
type GuardianMedical struct {
	Guardian         Contact `json:"guardian"`
	EmergencyContact Contact `json:"emergency_contact"`
	MedicalNotes     string  `json:"medical_notes,omitempty"`
}

// SportsSelection is the student's chosen taxonomy tuples.
type SportsSelection struct {
	Tuples []taxonomy.TupleRef `json:"tuples"`
}

// InstitutionDetails is the institution's first step.
type InstitutionDetails struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	ContactName     string `json:"contact_name"`
	ContactPhone    string `json:"contact_phone"`
	ContactEmail    string `json:"contact_email"`
	RegistrationNum string `json:"registration_number,omitempty"`
}

// InstitutionSports is the institution's sport and subcategory selection.
type InstitutionSports struct {
	Tuples []taxonomy.TupleRef `json:"tuples"`
}

// RosterEntry is one student on an institution's roster.
type RosterEntry struct {
	StudentID string          `json:"student_id"`
	Name      string          `json:"name"`
	Age       int             `json:"age"`
	Gender    taxonomy.Gender `json:"gender,omitempty"`
	Email     string          `json:"email,omitempty"`
}

// Roster is the institution's student list step.
type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

// Payment is the final step of either flow: the settlement choice.
type Payment struct {
	Settlement settlement.Request `json:"settlement"`
}

// StepPayload is the tagged union submitted to CompleteStep. Exactly one
// variant must be set, and it must be the variant the current step expects.
type StepPayload struct {
	PersonalDetails    *PersonalDetails    `json:"personal_details,omitempty"`
	Documents          *Documents          `json:"documents,omitempty"`
	GuardianMedical    *GuardianMedical    `json:"guardian_medical,omitempty"`
	Sports             *SportsSelection    `json:"sports,omitempty"`
	InstitutionDetails *InstitutionDetails `json:"institution_details,omitempty"`
	InstitutionSports  *InstitutionSports  `json:"institution_sports,omitempty"`
	Roster             *Roster             `json:"roster,omitempty"`
	Payment            *Payment            `json:"payment,omitempty"`
}

// Record is the single accumulating registration document a wizard session
// builds up. Step payloads land in their keyed slots; nothing is overwritten
// except by re-completing the owning step.
type Record struct {
	ID             string       `json:"id"`
	UserType       UserType     `json:"user_type"`
	Email          string       `json:"email"`
	State          State        `json:"state"`
	CurrentStep    int          `json:"current_step"`
	CompletedSteps map[int]bool `json:"completed_steps"`

	PersonalDetails    *PersonalDetails    `json:"personal_details,omitempty"`
	Documents          *Documents          `json:"documents,omitempty"`
	GuardianMedical    *GuardianMedical    `json:"guardian_medical,omitempty"`
	Sports             *SportsSelection    `json:"sports,omitempty"`
	InstitutionDetails *InstitutionDetails `json:"institution_details,omitempty"`
	InstitutionSports  *InstitutionSports  `json:"institution_sports,omitempty"`
	Roster             *Roster             `json:"roster,omitempty"`
	Payment            *Payment            `json:"payment,omitempty"`

	// Settlement and Fees are written once, at Complete. Fees is the snapshot
	// the settlement was computed from; live totals come from the stepper.
	Settlement *settlement.Outcome        `json:"settlement,omitempty"`
	Fees       *fees.Breakdown            `json:"fees,omitempty"`
	Flat       *fees.InstitutionBreakdown `json:"flat_fees,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep-enough copy for handing out without aliasing the
// stepper's working copy. Payload pointers are shared deliberately: callers
// treat them as read-only snapshots.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.CompletedSteps = make(map[int]bool, len(r.CompletedSteps))
	for k, v := range r.CompletedSteps {
		cp.CompletedSteps[k] = v
	}
	return &cp
}

// selections converts the record's sports data into fee-calculator input.
// Students produce one selection for themselves; institutions one per roster
// entry, each carrying the institution's tuples.
func (r *Record) selections() []fees.StudentSelection {
	switch r.UserType {
	case UserTypeStudent:
		if r.Sports == nil || r.PersonalDetails == nil {
			return nil
		}
		return []fees.StudentSelection{{
			StudentID:   r.ID,
			Name:        r.PersonalDetails.FullName,
			Email:       r.Email,
			Gender:      r.PersonalDetails.Gender,
			DateOfBirth: r.PersonalDetails.DateOfBirth,
			Tuples:      r.Sports.Tuples,
		}}
	case UserTypeInstitution:
		if r.InstitutionSports == nil || r.Roster == nil {
			return nil
		}
		selections := make([]fees.StudentSelection, 0, len(r.Roster.Entries))
		for _, entry := range r.Roster.Entries {
			selections = append(selections, fees.StudentSelection{
				StudentID: entry.StudentID,
				Name:      entry.Name,
				Email:     entry.Email,
				Gender:    entry.Gender,
				Age:       entry.Age,
				Tuples:    r.InstitutionSports.Tuples,
			})
		}
		return selections
	}
	return nil
}
