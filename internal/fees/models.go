package fees

import (
	"fmt"
	"time"

	"sportsreg/internal/taxonomy"
	dErrors "sportsreg/pkg/domain-errors"
)

// Flat per-head rates for the institution billing model. Policy constants,
// not derived from the taxonomy.
const (
	PerStudentRate int64 = 500
	PerSportRate   int64 = 1000
)

// StudentSelection pairs one student with the taxonomy tuples they entered.
type StudentSelection struct {
	StudentID   string              `json:"student_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Gender      taxonomy.Gender     `json:"gender"`
	DateOfBirth time.Time           `json:"date_of_birth,omitzero"`
	Age         int                 `json:"age,omitempty"`
	Tuples      []taxonomy.TupleRef `json:"tuples"`
}

// AgeOn returns the student's age at the given instant, preferring the date
// of birth when present over the self-reported age.
func (s StudentSelection) AgeOn(now time.Time) int {
	if s.DateOfBirth.IsZero() {
		return s.Age
	}
	age := now.Year() - s.DateOfBirth.Year()
	if now.YearDay() < s.DateOfBirth.YearDay() {
		age--
	}
	return age
}

// Line is the fee for one (student, tuple) pair.
type Line struct {
	StudentID string            `json:"student_id"`
	Tuple     taxonomy.TupleRef `json:"tuple"`
	Fee       int64             `json:"fee"`
}

// Breakdown is a purely derived fee summary. It is never persisted apart
// from the registration snapshot it was computed from.
type Breakdown struct {
	Lines      []Line           `json:"lines"`
	PerStudent map[string]int64 `json:"per_student"`
	Total      int64            `json:"total"`
}

// InstitutionBreakdown is the flat-rate institution bill.
type InstitutionBreakdown struct {
	StudentsFee int64 `json:"students_fee"`
	SportsFee   int64 `json:"sports_fee"`
	TotalFee    int64 `json:"total_fee"`
}

// EligibilityError rejects a selection whose student fails the age or gender
// constraints of a chosen tuple. Carrying the ids lets the caller point at
// the offending row instead of guessing.
type EligibilityError struct {
	StudentID string
	Tuple     taxonomy.TupleRef
	err       *dErrors.Error
}

func newEligibilityError(studentID string, tuple taxonomy.TupleRef, reason string) *EligibilityError {
	return &EligibilityError{
		StudentID: studentID,
		Tuple:     tuple,
		err: dErrors.New(dErrors.CodeEligibilityViolation,
			fmt.Sprintf("student %s: %s", studentID, reason)),
	}
}

func (e *EligibilityError) Error() string { return e.err.Error() }

func (e *EligibilityError) Unwrap() error { return e.err }
