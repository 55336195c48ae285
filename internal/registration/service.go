package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sportsreg/internal/audit"
	"sportsreg/internal/fees"
	"sportsreg/internal/platform/metrics"
	"sportsreg/internal/settlement"
	"sportsreg/internal/taxonomy"
	dErrors "sportsreg/pkg/domain-errors"
	"sportsreg/pkg/platform/sentinel"
)

// Gate is the verification check the stepper consults before letting a
// session past EmailVerification. Implemented by internal/verification.
type Gate interface {
	IsVerified(ctx context.Context, email string) (bool, error)
}

// AuditTrail receives the stepper's activity events.
type AuditTrail interface {
	Emit(ctx context.Context, event audit.Event)
}

// FeeQuote is the current fee position of an in-progress registration,
// recomputed from the taxonomy on every call.
type FeeQuote struct {
	Student     *fees.Breakdown            `json:"student,omitempty"`
	Institution *fees.InstitutionBreakdown `json:"institution,omitempty"`
	Total       int64                      `json:"total"`
}

// Service is the registration stepper. It owns every mutation of a Record:
// handlers call in, the service validates, merges, advances, and persists.
// Rejections leave the stored record and its step pointer untouched.
type Service struct {
	sessions   Store
	archive    Archive
	gate       Gate
	calculator *fees.Calculator
	catalog    fees.Catalog
	selector   *settlement.Selector
	trail      AuditTrail
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	now        func() time.Time
}

func NewService(
	sessions Store,
	archive Archive,
	gate Gate,
	calculator *fees.Calculator,
	catalog fees.Catalog,
	selector *settlement.Selector,
	trail AuditTrail,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*Service, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if archive == nil {
		return nil, errors.New("archive is required")
	}
	if gate == nil {
		return nil, errors.New("verification gate is required")
	}
	if calculator == nil || catalog == nil {
		return nil, errors.New("fee calculator and catalog are required")
	}
	if selector == nil {
		return nil, errors.New("settlement selector is required")
	}
	if trail == nil {
		return nil, errors.New("audit trail is required")
	}
	return &Service{
		sessions:   sessions,
		archive:    archive,
		gate:       gate,
		calculator: calculator,
		catalog:    catalog,
		selector:   selector,
		trail:      trail,
		logger:     logger,
		metrics:    m,
		tracer:     otel.Tracer("sportsreg/registration"),
		now:        time.Now,
	}, nil
}

// Start opens a wizard session. Choosing the user type is the RoleSelection
// transition, so a fresh record begins at EmailVerification.
func (s *Service) Start(ctx context.Context, userType UserType, email string) (*Record, error) {
	if !userType.Valid() {
		return nil, dErrors.NewValidation("unknown user type", "user_type")
	}
	if email == "" {
		return nil, dErrors.NewValidation("email is required", "email")
	}

	now := s.now()
	rec := &Record{
		ID:             uuid.NewString(),
		UserType:       userType,
		Email:          email,
		State:          StateEmailVerification,
		CurrentStep:    1,
		CompletedSteps: make(map[int]bool),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.sessions.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store registration: %w", err)
	}

	s.metrics.IncrementStarted(string(userType))
	s.trail.Emit(ctx, audit.Event{
		Action:         audit.ActionRegistrationStarted,
		RegistrationID: rec.ID,
		Email:          email,
		Role:           string(userType),
	})
	s.logger.Info("registration started", "registration_id", rec.ID, "user_type", userType)
	return rec.Clone(), nil
}

// Get returns the current record snapshot.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := s.sessions.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load registration: %w", err)
	}
	return rec, nil
}

// CompleteStep applies one wizard step:
//  1. the step must be the current one or an already-completed one (re-entry
//     after GoBack re-validates and re-merges); a complete registration only
//     accepts the final step again,
//  2. the payload must carry the step's required fields,
//  3. the payload merges into the record slot keyed by the step,
//  4. the step is marked complete,
//  5. the pointer advances, to Complete after the final step.
//
// Any rejection returns with the stored record unchanged.
func (s *Service) CompleteStep(ctx context.Context, id string, stepIndex int, payload StepPayload) (*Record, error) {
	ctx, span := s.tracer.Start(ctx, "registration.CompleteStep",
		trace.WithAttributes(
			attribute.String("registration.id", id),
			attribute.Int("registration.step", stepIndex),
		))
	defer span.End()

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	steps := stepsFor(rec.UserType)
	if stepIndex < 1 || stepIndex > len(steps) {
		return nil, dErrors.New(dErrors.CodeOutOfOrderStep,
			fmt.Sprintf("step %d does not exist in the %s flow", stepIndex, rec.UserType))
	}

	// A complete record is immutable through mid-flow edits: accepting one
	// would desync the archived snapshot and settlement outcome from the live
	// payloads. Only the final step may be re-run (it re-quotes, re-selects
	// settlement, and re-archives); anything earlier must go through GoBack.
	if rec.State == StateComplete && stepIndex != len(steps) {
		return nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("registration is complete; go back to step %d before editing it", stepIndex))
	}

	if rec.State == StateEmailVerification {
		verified, err := s.gate.IsVerified(ctx, rec.Email)
		if err != nil {
			return nil, fmt.Errorf("check verification gate: %w", err)
		}
		if !verified {
			return nil, dErrors.New(dErrors.CodeForbidden, "email is not verified yet")
		}
	}

	if stepIndex != rec.CurrentStep && !rec.CompletedSteps[stepIndex] {
		return nil, dErrors.New(dErrors.CodeOutOfOrderStep,
			fmt.Sprintf("step %d is not the current step", stepIndex))
	}

	def := steps[stepIndex-1]
	if missing := def.validate(payload); len(missing) > 0 {
		return nil, dErrors.NewValidation(def.name+" step is incomplete", missing...)
	}

	// Apply to a copy so a late rejection (eligibility, settlement,
	// persistence) leaves the stored record untouched.
	next := rec.Clone()
	def.merge(next, payload)
	next.CompletedSteps[stepIndex] = true
	if rec.State != StateComplete {
		next.State = StateInProgress
		if stepIndex == rec.CurrentStep {
			next.CurrentStep = stepIndex + 1
		}
	}

	if err := s.checkSelections(ctx, next, def.name); err != nil {
		return nil, err
	}

	finishing := stepIndex == len(steps)
	if finishing {
		if err := s.complete(ctx, next); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = s.now()
	if err := s.sessions.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("store registration: %w", err)
	}

	s.metrics.IncrementStep(string(next.UserType), strconv.Itoa(stepIndex))
	s.trail.Emit(ctx, audit.Event{
		Action:         audit.ActionStepCompleted,
		RegistrationID: next.ID,
		Email:          next.Email,
		Role:           string(next.UserType),
		Step:           stepIndex,
		Detail:         def.name,
	})
	if finishing {
		s.metrics.IncrementCompleted(string(next.UserType))
		s.trail.Emit(ctx, audit.Event{
			Action:         audit.ActionRegistrationCompleted,
			RegistrationID: next.ID,
			Email:          next.Email,
			Role:           string(next.UserType),
		})
		s.logger.Info("registration completed",
			"registration_id", next.ID, "settlement_mode", next.Settlement.Mode)
	}
	return next.Clone(), nil
}

// GoBack moves the pointer to a previously completed step, or to the
// verification gate when target is 0. Payloads merged for steps ahead of the
// target are kept so the user can move forward without re-entering them.
func (s *Service) GoBack(ctx context.Context, id string, target int) (*Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := rec.Clone()
	switch {
	case target == 0:
		next.State = StateEmailVerification
		next.CurrentStep = 1
	case target >= 1 && rec.CompletedSteps[target]:
		next.State = StateInProgress
		next.CurrentStep = target
	default:
		return nil, dErrors.New(dErrors.CodeOutOfOrderStep,
			fmt.Sprintf("step %d has not been completed", target))
	}

	next.UpdatedAt = s.now()
	if err := s.sessions.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("store registration: %w", err)
	}

	s.trail.Emit(ctx, audit.Event{
		Action:         audit.ActionWentBack,
		RegistrationID: next.ID,
		Email:          next.Email,
		Role:           string(next.UserType),
		Step:           target,
	})
	return next.Clone(), nil
}

// Fees recomputes the registration's current totals from the taxonomy.
// Nothing is cached on the record until completion snapshots it.
func (s *Service) Fees(ctx context.Context, id string) (FeeQuote, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return FeeQuote{}, err
	}
	return s.quote(ctx, rec)
}

func (s *Service) quote(ctx context.Context, rec *Record) (FeeQuote, error) {
	switch rec.UserType {
	case UserTypeInstitution:
		if rec.InstitutionSports == nil || rec.Roster == nil {
			return FeeQuote{}, nil
		}
		flat := s.calculator.ComputeInstitutionFees(
			len(rec.Roster.Entries), distinctSports(rec.InstitutionSports.Tuples))
		return FeeQuote{Institution: &flat, Total: flat.TotalFee}, nil
	default:
		selections := rec.selections()
		if len(selections) == 0 {
			return FeeQuote{}, nil
		}
		breakdown, err := s.calculator.ComputeStudentFees(ctx, selections)
		if err != nil {
			return FeeQuote{}, err
		}
		return FeeQuote{Student: &breakdown, Total: breakdown.Total}, nil
	}
}

// checkSelections re-derives fees as soon as a step changes the student list
// or sport selection, so an ineligible or unresolvable tuple rejects the step
// that introduced it instead of surfacing at the end.
func (s *Service) checkSelections(ctx context.Context, next *Record, stepName string) error {
	switch {
	case next.UserType == UserTypeStudent && stepName == "sports":
		_, err := s.calculator.ComputeStudentFees(ctx, next.selections())
		return err
	case next.UserType == UserTypeInstitution && stepName == "sports":
		// Flat-rate billing skips eligibility, but the tuples must resolve.
		for _, ref := range next.InstitutionSports.Tuples {
			if _, err := s.catalog.Resolve(ctx, ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// complete runs the terminal handoff: snapshot the fees, resolve the
// settlement choice, and hand the composite record to the archive exactly
// once. Archive failures come back verbatim; the caller decides retry policy.
func (s *Service) complete(ctx context.Context, next *Record) error {
	quote, err := s.quote(ctx, next)
	if err != nil {
		return err
	}
	next.Fees = quote.Student
	next.Flat = quote.Institution

	outcome, err := s.selector.Select(quote.Total, s.shares(next, quote), next.Payment.Settlement)
	if err != nil {
		return err
	}
	next.Settlement = &outcome
	next.State = StateComplete

	if err := s.archive.Save(ctx, next); err != nil {
		return err
	}

	s.metrics.IncrementSettlement(string(outcome.Mode))
	s.trail.Emit(ctx, audit.Event{
		Action:         audit.ActionSettlementSelected,
		RegistrationID: next.ID,
		Email:          next.Email,
		Role:           string(next.UserType),
		Detail:         string(outcome.Mode),
	})
	return nil
}

// shares maps each billable participant to their own fee share for delegated
// billing. Students carry their computed breakdown; institution rosters bill
// the flat per-student rate, the sports portion staying with the institution.
func (s *Service) shares(rec *Record, quote FeeQuote) map[string]int64 {
	if quote.Student != nil {
		return quote.Student.PerStudent
	}
	if rec.Roster == nil {
		return nil
	}
	shares := make(map[string]int64, len(rec.Roster.Entries))
	for _, entry := range rec.Roster.Entries {
		shares[entry.StudentID] = fees.PerStudentRate
	}
	return shares
}

func distinctSports(tuples []taxonomy.TupleRef) int {
	seen := make(map[string]struct{}, len(tuples))
	for _, t := range tuples {
		seen[t.SportID] = struct{}{}
	}
	return len(seen)
}
