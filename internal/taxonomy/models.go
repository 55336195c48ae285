package taxonomy

import (
	"fmt"
	"strconv"
	"strings"
)

// Gender eligibility for a sport or subcategory. Open admits everyone.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOpen   Gender = "open"
)

// Admits reports whether a student of the given gender may enter.
func (g Gender) Admits(student Gender) bool {
	return g == GenderOpen || g == student
}

// SportKind distinguishes individual events from team events.
type SportKind string

const (
	KindIndividual SportKind = "individual"
	KindTeam       SportKind = "team"
)

// AgeRange is an inclusive age band. The zero value means unconstrained.
type AgeRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r AgeRange) IsZero() bool {
	return r.From == 0 && r.To == 0
}

// Contains reports whether age falls inside the band.
func (r AgeRange) Contains(age int) bool {
	if r.IsZero() {
		return true
	}
	return age >= r.From && age <= r.To
}

// Within reports whether r nests inside outer. An unconstrained outer admits
// any inner band.
func (r AgeRange) Within(outer AgeRange) bool {
	if outer.IsZero() {
		return true
	}
	if r.IsZero() {
		return false
	}
	return r.From >= outer.From && r.To <= outer.To
}

func (r AgeRange) String() string {
	if r.IsZero() {
		return "open"
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// ParseAgeBracket converts the display form "U<n>" (under-n, e.g. "U19") into
// an inclusive range. Plain "<from>-<to>" is accepted too since admin imports
// carry both forms.
func ParseAgeBracket(s string) (AgeRange, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "U"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return AgeRange{}, fmt.Errorf("invalid age bracket %q", s)
		}
		return AgeRange{From: 0, To: n - 1}, nil
	}
	from, to, ok := strings.Cut(s, "-")
	if ok {
		f, err1 := strconv.Atoi(from)
		t, err2 := strconv.Atoi(to)
		if err1 == nil && err2 == nil && f <= t {
			return AgeRange{From: f, To: t}, nil
		}
	}
	return AgeRange{}, fmt.Errorf("invalid age bracket %q", s)
}

// Sport is the root of the taxonomy. Created and edited only through the
// external admin path; read-only here.
type Sport struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Kind            SportKind `json:"kind"`
	Gender          Gender    `json:"gender"`
	Ages            AgeRange  `json:"ages"`
	BaseFee         int64     `json:"base_fee"`
	TeamSize        int       `json:"team_size,omitempty"`
	MaxParticipants int       `json:"max_participants,omitempty"`
}

// Category narrows a sport by age band and may override the fee.
type Category struct {
	ID             string    `json:"id"`
	SportID        string    `json:"sport_id"`
	Name           string    `json:"name"`
	Ages           *AgeRange `json:"ages,omitempty"`
	Fee            *int64    `json:"fee,omitempty"`
	InstitutionCap int       `json:"institution_cap,omitempty"`
}

// SubCategory is the most specific taxonomy level. Its fee and gender, when
// present, win over the category and sport. Level (1..5) groups entries for
// display only and never feeds computation.
type SubCategory struct {
	ID         string  `json:"id"`
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Fee        *int64  `json:"fee,omitempty"`
	Gender     *Gender `json:"gender,omitempty"`
	Level      int     `json:"level"`
}

// TupleRef identifies one selectable taxonomy entry. CategoryID and
// SubCategoryID may be empty; a subcategory without its category is invalid.
type TupleRef struct {
	SportID       string `json:"sport_id"`
	CategoryID    string `json:"category_id,omitempty"`
	SubCategoryID string `json:"sub_category_id,omitempty"`
}

// Resolved is the effective constraint set and fee for a tuple after
// most-specific-wins resolution.
type Resolved struct {
	Sport       Sport
	Category    *Category
	SubCategory *SubCategory
	Fee         int64
	Gender      Gender
	Ages        AgeRange
}

// validateHierarchy enforces the nesting invariant: a category's age band,
// when present, must fall within its sport's band. Violations are
// data-integrity errors, never clamped.
func validateHierarchy(sports []Sport, categories []Category, subs []SubCategory) error {
	sportByID := make(map[string]Sport, len(sports))
	for _, s := range sports {
		sportByID[s.ID] = s
	}
	catByID := make(map[string]Category, len(categories))
	for _, c := range categories {
		sport, ok := sportByID[c.SportID]
		if !ok {
			return fmt.Errorf("category %s references unknown sport %s", c.ID, c.SportID)
		}
		if c.Ages != nil && !c.Ages.Within(sport.Ages) {
			return fmt.Errorf("category %s age range %s outside sport %s range %s",
				c.ID, c.Ages, sport.ID, sport.Ages)
		}
		catByID[c.ID] = c
	}
	for _, sub := range subs {
		if _, ok := catByID[sub.CategoryID]; !ok {
			return fmt.Errorf("subcategory %s references unknown category %s", sub.ID, sub.CategoryID)
		}
		if sub.Level < 1 || sub.Level > 5 {
			return fmt.Errorf("subcategory %s level %d outside 1..5", sub.ID, sub.Level)
		}
	}
	return nil
}
