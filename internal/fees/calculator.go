package fees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sportsreg/internal/taxonomy"
)

// Catalog is the read side of the taxonomy the calculator resolves against.
type Catalog interface {
	Resolve(ctx context.Context, ref taxonomy.TupleRef) (taxonomy.Resolved, error)
}

// Calculator derives fee breakdowns from the taxonomy. It holds no mutable
// cache: totals are recomputed on every call so an edited student list or
// sport selection can never serve stale numbers.
type Calculator struct {
	catalog Catalog
	now     func() time.Time
}

func NewCalculator(catalog Catalog) (*Calculator, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	return &Calculator{catalog: catalog, now: time.Now}, nil
}

// ComputeStudentFees verifies eligibility for every (student, tuple) pair and
// sums the resolved fees. A violating selection fails the whole computation
// rather than being silently dropped.
func (c *Calculator) ComputeStudentFees(ctx context.Context, selections []StudentSelection) (Breakdown, error) {
	breakdown := Breakdown{PerStudent: make(map[string]int64, len(selections))}
	now := c.now()

	for _, sel := range selections {
		age := sel.AgeOn(now)
		for _, ref := range sel.Tuples {
			res, err := c.catalog.Resolve(ctx, ref)
			if err != nil {
				return Breakdown{}, err
			}
			if !res.Ages.Contains(age) {
				return Breakdown{}, newEligibilityError(sel.StudentID, ref,
					fmt.Sprintf("age %d outside eligible range %s for %s", age, res.Ages, tupleName(res)))
			}
			if !res.Gender.Admits(sel.Gender) {
				return Breakdown{}, newEligibilityError(sel.StudentID, ref,
					fmt.Sprintf("gender %s not admitted by %s", sel.Gender, tupleName(res)))
			}
			breakdown.Lines = append(breakdown.Lines, Line{StudentID: sel.StudentID, Tuple: ref, Fee: res.Fee})
			breakdown.PerStudent[sel.StudentID] += res.Fee
			breakdown.Total += res.Fee
		}
	}
	return breakdown, nil
}

// ComputeInstitutionFees applies the flat per-head rates. Deliberately
// coarser than the per-student model: the institution contract bills on
// counts alone and skips individual eligibility.
func (c *Calculator) ComputeInstitutionFees(studentCount, sportsCount int) InstitutionBreakdown {
	students := int64(studentCount) * PerStudentRate
	sports := int64(sportsCount) * PerSportRate
	return InstitutionBreakdown{
		StudentsFee: students,
		SportsFee:   sports,
		TotalFee:    students + sports,
	}
}

func tupleName(res taxonomy.Resolved) string {
	name := res.Sport.Name
	if res.Category != nil {
		name += "/" + res.Category.Name
	}
	if res.SubCategory != nil {
		name += "/" + res.SubCategory.Name
	}
	return name
}
