package registration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sportsreg/internal/audit"
	"sportsreg/internal/fees"
	"sportsreg/internal/settlement"
	"sportsreg/internal/taxonomy"
	dErrors "sportsreg/pkg/domain-errors"
)

// fakeGate marks emails as verified explicitly per test.
type fakeGate struct {
	mu       sync.Mutex
	verified map[string]bool
}

func newFakeGate() *fakeGate {
	return &fakeGate{verified: make(map[string]bool)}
}

func (g *fakeGate) verify(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verified[email] = true
}

func (g *fakeGate) IsVerified(_ context.Context, email string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verified[email], nil
}

// captureTrail records emitted audit events synchronously.
type captureTrail struct {
	mu     sync.Mutex
	events []audit.Event
}

func (t *captureTrail) Emit(_ context.Context, event audit.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *captureTrail) actions() []audit.Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]audit.Action, len(t.events))
	for i, e := range t.events {
		out[i] = e.Action
	}
	return out
}

type StepperSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
	gate    *fakeGate
	archive *InMemoryArchive
	trail   *captureTrail
}

func TestStepperSuite(t *testing.T) {
	suite.Run(t, new(StepperSuite))
}

func (s *StepperSuite) SetupTest() {
	s.ctx = context.Background()

	store, err := taxonomy.NewInMemoryStore(taxonomy.SeedCatalog())
	s.Require().NoError(err)
	catalog, err := taxonomy.NewService(store)
	s.Require().NoError(err)
	calculator, err := fees.NewCalculator(catalog)
	s.Require().NoError(err)

	s.gate = newFakeGate()
	s.archive = NewInMemoryArchive()
	s.trail = &captureTrail{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service, err = NewService(
		NewInMemoryStore(),
		s.archive,
		s.gate,
		calculator,
		catalog,
		settlement.NewSelector(),
		s.trail,
		logger,
		nil,
	)
	s.Require().NoError(err)
}

// ===== Fixtures =====

func (s *StepperSuite) startStudent() *Record {
	rec, err := s.service.Start(s.ctx, UserTypeStudent, "amina@example.com")
	s.Require().NoError(err)
	s.gate.verify("amina@example.com")
	return rec
}

func (s *StepperSuite) startInstitution() *Record {
	rec, err := s.service.Start(s.ctx, UserTypeInstitution, "registrar@greenhill.example")
	s.Require().NoError(err)
	s.gate.verify("registrar@greenhill.example")
	return rec
}

func personalPayload() StepPayload {
	return StepPayload{PersonalDetails: &PersonalDetails{
		FullName:    "Amina Yusuf",
		DateOfBirth: time.Date(2001, 5, 12, 0, 0, 0, 0, time.UTC),
		Gender:      taxonomy.GenderFemale,
	}}
}

func documentsPayload() StepPayload {
	return StepPayload{Documents: &Documents{Items: []DocumentRef{
		{Kind: "birth_certificate", Reference: "doc://bc-99182"},
	}}}
}

func guardianPayload() StepPayload {
	return StepPayload{GuardianMedical: &GuardianMedical{
		Guardian:         Contact{Name: "Halima Yusuf", Phone: "+254700111222"},
		EmergencyContact: Contact{Name: "Omar Yusuf", Phone: "+254700333444"},
	}}
}

func sportsPayload() StepPayload {
	return StepPayload{Sports: &SportsSelection{Tuples: []taxonomy.TupleRef{
		{SportID: "basketball", CategoryID: "basketball-open", SubCategoryID: "basketball-3x3"},
	}}}
}

func directPaymentPayload() StepPayload {
	return StepPayload{Payment: &Payment{Settlement: settlement.Request{
		Mode: settlement.ModeDirectPayment,
	}}}
}

// advanceStudent completes student steps 1..through.
func (s *StepperSuite) advanceStudent(id string, through int) *Record {
	payloads := []StepPayload{
		personalPayload(), documentsPayload(), guardianPayload(),
		sportsPayload(), directPaymentPayload(),
	}
	var rec *Record
	var err error
	for i := 1; i <= through; i++ {
		rec, err = s.service.CompleteStep(s.ctx, id, i, payloads[i-1])
		s.Require().NoError(err, "step %d", i)
	}
	return rec
}

// ===== Start =====

func (s *StepperSuite) TestStartBeginsAtEmailVerification() {
	rec := s.startStudent()

	s.Equal(StateEmailVerification, rec.State)
	s.Equal(1, rec.CurrentStep)
	s.Equal(UserTypeStudent, rec.UserType)
	s.Empty(rec.CompletedSteps)
}

func (s *StepperSuite) TestStartRejectsUnknownUserType() {
	_, err := s.service.Start(s.ctx, "referee", "ref@example.com")
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}

// ===== Verification Gate =====

func (s *StepperSuite) TestUnverifiedEmailCannotAdvance() {
	rec, err := s.service.Start(s.ctx, UserTypeStudent, "unverified@example.com")
	s.Require().NoError(err)

	_, err = s.service.CompleteStep(s.ctx, rec.ID, 1, personalPayload())
	s.True(dErrors.Is(err, dErrors.CodeForbidden))

	got, err := s.service.Get(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(StateEmailVerification, got.State)
}

// ===== Step Ordering =====

func (s *StepperSuite) TestFutureStepIsOutOfOrder() {
	rec := s.startStudent()

	_, err := s.service.CompleteStep(s.ctx, rec.ID, 3, guardianPayload())
	s.True(dErrors.Is(err, dErrors.CodeOutOfOrderStep))
}

func (s *StepperSuite) TestNonexistentStepIsOutOfOrder() {
	rec := s.startStudent()

	_, err := s.service.CompleteStep(s.ctx, rec.ID, 9, personalPayload())
	s.True(dErrors.Is(err, dErrors.CodeOutOfOrderStep))
}

// ===== Validation =====

func (s *StepperSuite) TestSportsStepWithZeroTuples() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 3)

	_, err := s.service.CompleteStep(s.ctx, rec.ID, 4,
		StepPayload{Sports: &SportsSelection{}})

	var de *dErrors.Error
	s.Require().ErrorAs(err, &de)
	s.Equal(dErrors.CodeValidation, de.Code)
	s.Equal([]string{"sports"}, de.MissingFields)

	got, err := s.service.Get(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(4, got.CurrentStep, "rejection must not move the pointer")
	s.Nil(got.Sports)
}

func (s *StepperSuite) TestPersonalDetailsNamesMissingFields() {
	rec := s.startStudent()

	_, err := s.service.CompleteStep(s.ctx, rec.ID, 1,
		StepPayload{PersonalDetails: &PersonalDetails{FullName: "Amina Yusuf"}})

	var de *dErrors.Error
	s.Require().ErrorAs(err, &de)
	s.ElementsMatch([]string{"date_of_birth", "gender"}, de.MissingFields)
}

func (s *StepperSuite) TestWrongPayloadVariantRejected() {
	rec := s.startStudent()

	_, err := s.service.CompleteStep(s.ctx, rec.ID, 1, documentsPayload())
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}

// ===== Eligibility =====

func (s *StepperSuite) TestUnderageSelectionRejectedAtSportsStep() {
	rec, err := s.service.Start(s.ctx, UserTypeStudent, "junior@example.com")
	s.Require().NoError(err)
	s.gate.verify("junior@example.com")

	// 17 years old at submission time.
	dob := time.Now().UTC().AddDate(-17, -2, 0)
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 1, StepPayload{PersonalDetails: &PersonalDetails{
		FullName: "Kip Rono", DateOfBirth: dob, Gender: taxonomy.GenderMale,
	}})
	s.Require().NoError(err)
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 2, documentsPayload())
	s.Require().NoError(err)
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 3, guardianPayload())
	s.Require().NoError(err)

	// Senior football admits ages 18-21 only.
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 4, StepPayload{Sports: &SportsSelection{
		Tuples: []taxonomy.TupleRef{
			{SportID: "football", CategoryID: "football-senior", SubCategoryID: ""},
		},
	}})
	s.True(dErrors.Is(err, dErrors.CodeValidation), "tuple without subcategory fails step validation")

	_, err = s.service.CompleteStep(s.ctx, rec.ID, 4, StepPayload{Sports: &SportsSelection{
		Tuples: []taxonomy.TupleRef{
			{SportID: "football", CategoryID: "football-youth", SubCategoryID: "football-u17-boys"},
		},
	}})
	s.Require().NoError(err, "an age-appropriate tuple passes")

	// Re-complete the sports step with an ineligible tuple: rejected, and the
	// earlier merge survives.
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 4, StepPayload{Sports: &SportsSelection{
		Tuples: []taxonomy.TupleRef{
			{SportID: "basketball", CategoryID: "basketball-open", SubCategoryID: "basketball-3x3"},
		},
	}})
	s.True(dErrors.Is(err, dErrors.CodeEligibilityViolation))

	got, err := s.service.Get(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal("football-u17-boys", got.Sports.Tuples[0].SubCategoryID)
}

// ===== Completion =====

func (s *StepperSuite) TestStudentFlowCompletes() {
	rec := s.startStudent()
	final := s.advanceStudent(rec.ID, 5)

	s.Equal(StateComplete, final.State)
	s.Require().NotNil(final.Settlement)
	s.Equal(settlement.ModeDirectPayment, final.Settlement.Mode)
	s.Equal(settlement.StatusPending, final.Settlement.Status)
	s.Require().NotNil(final.Fees)
	s.Equal(int64(600), final.Fees.Total, "3x3 subcategory fee wins over category and sport")
	s.Equal("amina@example.com", final.PersonalDetails.Email, "verified email is back-filled")

	saved := s.archive.Saved()
	s.Require().Len(saved, 1, "archived exactly once")
	s.Equal(final.ID, saved[0].ID)

	s.Contains(s.trail.actions(), audit.ActionRegistrationCompleted)
	s.Contains(s.trail.actions(), audit.ActionSettlementSelected)
}

func (s *StepperSuite) TestInstitutionFlatRateTotals() {
	rec := s.startInstitution()

	_, err := s.service.CompleteStep(s.ctx, rec.ID, 1, StepPayload{InstitutionDetails: &InstitutionDetails{
		Name: "Greenhill Academy", Type: "secondary_school",
		ContactName: "J. Wanjiku", ContactPhone: "+254711000111", ContactEmail: "registrar@greenhill.example",
	}})
	s.Require().NoError(err)

	_, err = s.service.CompleteStep(s.ctx, rec.ID, 2, StepPayload{InstitutionSports: &InstitutionSports{
		Tuples: []taxonomy.TupleRef{
			{SportID: "football", CategoryID: "football-junior", SubCategoryID: "football-u13"},
			{SportID: "chess", CategoryID: "chess-classic", SubCategoryID: "chess-rapid"},
		},
	}})
	s.Require().NoError(err)

	entries := make([]RosterEntry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, RosterEntry{
			StudentID: string(rune('a' + i)), Name: "Student " + string(rune('A'+i)), Age: 12,
		})
	}
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 3, StepPayload{Roster: &Roster{Entries: entries}})
	s.Require().NoError(err)

	quote, err := s.service.Fees(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Require().NotNil(quote.Institution)
	s.Equal(int64(5000), quote.Institution.StudentsFee)
	s.Equal(int64(2000), quote.Institution.SportsFee)
	s.Equal(int64(7000), quote.Institution.TotalFee)

	final, err := s.service.CompleteStep(s.ctx, rec.ID, 4, directPaymentPayload())
	s.Require().NoError(err)
	s.Equal(StateComplete, final.State)
	s.Equal(int64(7000), final.Settlement.Amount)
	s.Require().NotNil(final.Flat)
}

func (s *StepperSuite) TestSponsorshipWithoutReasonRejectsFinalStep() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 4)

	_, err := s.service.CompleteStep(s.ctx, rec.ID, 5, StepPayload{Payment: &Payment{
		Settlement: settlement.Request{
			Mode:        settlement.ModeSponsorshipRequest,
			Sponsorship: &settlement.SponsorshipDetails{RequestedAmount: 5000, Type: settlement.SponsorshipFull},
		},
	}})
	s.True(dErrors.Is(err, dErrors.CodeValidation))

	got, err := s.service.Get(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(StateInProgress, got.State)
	s.Empty(s.archive.Saved())
}

func (s *StepperSuite) TestArchiveFailureSurfacesVerbatim() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 4)

	storeDown := errors.New("registrations store unavailable")
	s.archive.FailWith = storeDown

	_, err := s.service.CompleteStep(s.ctx, rec.ID, 5, directPaymentPayload())
	s.Require().ErrorIs(err, storeDown)

	got, err := s.service.Get(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.NotEqual(StateComplete, got.State, "failed handoff leaves the record incomplete")
}

// ===== Idempotency & GoBack =====

func (s *StepperSuite) TestCompleteStepIsIdempotent() {
	rec := s.startStudent()
	first := s.advanceStudent(rec.ID, 2)

	again, err := s.service.CompleteStep(s.ctx, rec.ID, 2, documentsPayload())
	s.Require().NoError(err)

	s.Equal(first.CurrentStep, again.CurrentStep)
	s.Equal(first.Documents, again.Documents)
	s.Equal(first.CompletedSteps, again.CompletedSteps)
}

func (s *StepperSuite) TestGoBackKeepsForwardPayloads() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 4)

	back, err := s.service.GoBack(s.ctx, rec.ID, 2)
	s.Require().NoError(err)
	s.Equal(2, back.CurrentStep)
	s.Require().NotNil(back.Sports, "step 4 payload survives going back to step 2")
	s.NotNil(back.GuardianMedical)

	// Edit step 2, then walk forward without re-entering 3 and 4.
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 2, StepPayload{Documents: &Documents{
		Items: []DocumentRef{{Kind: "passport", Reference: "doc://pp-1"}},
	}})
	s.Require().NoError(err)
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 3, guardianPayload())
	s.Require().NoError(err)
	final, err := s.service.CompleteStep(s.ctx, rec.ID, 4, sportsPayload())
	s.Require().NoError(err)

	s.Equal(5, final.CurrentStep)
	s.Equal("doc://pp-1", final.Documents.Items[0].Reference)
}

func (s *StepperSuite) TestGoBackToUncompletedStepRejected() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 1)

	_, err := s.service.GoBack(s.ctx, rec.ID, 3)
	s.True(dErrors.Is(err, dErrors.CodeOutOfOrderStep))
}

func (s *StepperSuite) TestGoBackToEmailVerification() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 2)

	back, err := s.service.GoBack(s.ctx, rec.ID, 0)
	s.Require().NoError(err)
	s.Equal(StateEmailVerification, back.State)

	// The gate is still satisfied, so the flow can resume.
	resumed, err := s.service.CompleteStep(s.ctx, rec.ID, 1, personalPayload())
	s.Require().NoError(err)
	s.Equal(StateInProgress, resumed.State)
}

func (s *StepperSuite) TestRecompleteFinalStepSwitchesSettlement() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 5)

	final, err := s.service.CompleteStep(s.ctx, rec.ID, 5, StepPayload{Payment: &Payment{
		Settlement: settlement.Request{
			Mode: settlement.ModeSponsorshipRequest,
			Sponsorship: &settlement.SponsorshipDetails{
				RequestedAmount: 600, Type: settlement.SponsorshipPartial, Reason: "need support",
			},
		},
	}})
	s.Require().NoError(err)

	s.Equal(StateComplete, final.State)
	s.Equal(settlement.ModeSponsorshipRequest, final.Settlement.Mode, "switching modes discards the previous outcome")
	s.Len(s.archive.Saved(), 2, "re-completing the final step re-archives the snapshot")
}

func (s *StepperSuite) TestCompleteRegistrationRejectsMidFlowEdits() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 5)

	pricier := StepPayload{Sports: &SportsSelection{Tuples: []taxonomy.TupleRef{
		{SportID: "athletics", CategoryID: "athletics-track", SubCategoryID: "athletics-relay"},
	}}}
	_, err := s.service.CompleteStep(s.ctx, rec.ID, 4, pricier)
	s.True(dErrors.Is(err, dErrors.CodeConflict),
		"a complete registration must not accept mid-flow edits")

	// The stored record, its fee snapshot, and the archive are untouched.
	got, err := s.service.Get(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(StateComplete, got.State)
	s.Equal("basketball", got.Sports.Tuples[0].SportID)
	s.Equal(int64(600), got.Fees.Total)
	s.Len(s.archive.Saved(), 1)

	// Editing goes through GoBack, which re-runs quoting, settlement and the
	// archive upsert on the way forward.
	_, err = s.service.GoBack(s.ctx, rec.ID, 4)
	s.Require().NoError(err)
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 4, pricier)
	s.Require().NoError(err)
	final, err := s.service.CompleteStep(s.ctx, rec.ID, 5, directPaymentPayload())
	s.Require().NoError(err)

	s.Equal(StateComplete, final.State)
	s.Equal(int64(2000), final.Fees.Total, "snapshot tracks the edited selection")
	s.Equal(int64(2000), final.Settlement.Amount)
	s.Len(s.archive.Saved(), 2)
}

// ===== Fees =====

func (s *StepperSuite) TestFeesBeforeSportsStepIsZero() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 2)

	quote, err := s.service.Fees(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Zero(quote.Total)
	s.Nil(quote.Student)
}

func (s *StepperSuite) TestFeesRecomputedAfterSportsEdit() {
	rec := s.startStudent()
	s.advanceStudent(rec.ID, 4)

	quote, err := s.service.Fees(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(int64(600), quote.Total)

	_, err = s.service.GoBack(s.ctx, rec.ID, 4)
	s.Require().NoError(err)
	_, err = s.service.CompleteStep(s.ctx, rec.ID, 4, StepPayload{Sports: &SportsSelection{
		Tuples: []taxonomy.TupleRef{
			{SportID: "basketball", CategoryID: "basketball-open", SubCategoryID: "basketball-3x3"},
			{SportID: "athletics", CategoryID: "athletics-track", SubCategoryID: "athletics-relay"},
		},
	}})
	s.Require().NoError(err)

	quote, err = s.service.Fees(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(int64(2600), quote.Total, "totals track the edited selection")
}

func (s *StepperSuite) TestGetUnknownRegistration() {
	_, err := s.service.Get(s.ctx, "missing")
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}
