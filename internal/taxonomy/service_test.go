package taxonomy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "sportsreg/pkg/domain-errors"
)

type TaxonomyServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
}

func TestTaxonomyServiceSuite(t *testing.T) {
	suite.Run(t, new(TaxonomyServiceSuite))
}

func (s *TaxonomyServiceSuite) SetupTest() {
	s.ctx = context.Background()
	store, err := NewInMemoryStore(SeedCatalog())
	s.Require().NoError(err)
	s.service, err = NewService(store)
	s.Require().NoError(err)
}

// =============================================================================
// Fee Resolution (most-specific-wins)
// =============================================================================

func (s *TaxonomyServiceSuite) TestResolveFee() {
	s.Run("sport base fee when nothing narrower is supplied", func() {
		fee, err := s.service.ResolveFee(s.ctx, "football", "", "")
		s.NoError(err)
		s.Equal(int64(1000), fee)
	})

	s.Run("category fee overrides sport base fee", func() {
		fee, err := s.service.ResolveFee(s.ctx, "football", "football-senior", "")
		s.NoError(err)
		s.Equal(int64(1200), fee)
	})

	s.Run("category without own fee keeps sport base fee", func() {
		fee, err := s.service.ResolveFee(s.ctx, "football", "football-junior", "")
		s.NoError(err)
		s.Equal(int64(1000), fee)
	})

	s.Run("subcategory fee wins over category and sport", func() {
		fee, err := s.service.ResolveFee(s.ctx, "football", "football-junior", "football-u9")
		s.NoError(err)
		s.Equal(int64(600), fee)
	})

	s.Run("subcategory without own fee falls back to category fee", func() {
		fee, err := s.service.ResolveFee(s.ctx, "basketball", "basketball-open", "basketball-5x5")
		s.NoError(err)
		s.Equal(int64(800), fee)
	})

	s.Run("unknown sport is not_found", func() {
		_, err := s.service.ResolveFee(s.ctx, "cricket", "", "")
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("category of a different sport is inconsistent_hierarchy", func() {
		_, err := s.service.ResolveFee(s.ctx, "football", "basketball-open", "")
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInconsistentHierarchy))
	})

	s.Run("subcategory of a different category is inconsistent_hierarchy", func() {
		_, err := s.service.ResolveFee(s.ctx, "football", "football-junior", "basketball-3x3")
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInconsistentHierarchy))
	})

	s.Run("subcategory without its category is inconsistent_hierarchy", func() {
		_, err := s.service.ResolveFee(s.ctx, "football", "", "football-u9")
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInconsistentHierarchy))
	})
}

// =============================================================================
// Constraint Resolution
// =============================================================================

func (s *TaxonomyServiceSuite) TestResolve() {
	s.Run("category age band narrows the sport band", func() {
		res, err := s.service.Resolve(s.ctx, TupleRef{SportID: "football", CategoryID: "football-senior"})
		s.NoError(err)
		s.Equal(AgeRange{From: 18, To: 21}, res.Ages)
	})

	s.Run("subcategory gender narrows open sport", func() {
		res, err := s.service.Resolve(s.ctx, TupleRef{
			SportID: "football", CategoryID: "football-youth", SubCategoryID: "football-u17-girls",
		})
		s.NoError(err)
		s.Equal(GenderFemale, res.Gender)
		s.False(res.Gender.Admits(GenderMale))
	})

	s.Run("sport level keeps open gender and full band", func() {
		res, err := s.service.Resolve(s.ctx, TupleRef{SportID: "athletics"})
		s.NoError(err)
		s.Equal(GenderOpen, res.Gender)
		s.Equal(AgeRange{From: 8, To: 50}, res.Ages)
	})
}

// =============================================================================
// Listing
// =============================================================================

func (s *TaxonomyServiceSuite) TestListing() {
	s.Run("sports are sorted by name", func() {
		sports, err := s.service.ListSports(s.ctx)
		s.NoError(err)
		s.Len(sports, 5)
		s.Equal("Athletics", sports[0].Name)
	})

	s.Run("categories of unknown sport is not_found", func() {
		_, err := s.service.Categories(s.ctx, "cricket")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("subcategories require matching parent chain", func() {
		_, err := s.service.SubCategories(s.ctx, "football", "basketball-open")
		s.True(dErrors.Is(err, dErrors.CodeInconsistentHierarchy))

		subs, err := s.service.SubCategories(s.ctx, "football", "football-junior")
		s.NoError(err)
		s.Len(subs, 2)
	})
}

// =============================================================================
// Hierarchy Integrity
// =============================================================================

func (s *TaxonomyServiceSuite) TestHierarchyValidation() {
	s.Run("category band outside sport band fails construction", func() {
		sports := []Sport{{ID: "s1", Name: "S1", Kind: KindIndividual, Gender: GenderOpen, Ages: AgeRange{From: 10, To: 18}, BaseFee: 100}}
		cats := []Category{{ID: "c1", SportID: "s1", Name: "C1", Ages: agesPtr(16, 21)}}
		_, err := NewInMemoryStore(sports, cats, nil)
		s.Error(err)
		s.Contains(err.Error(), "outside sport")
	})

	s.Run("orphan subcategory fails construction", func() {
		sports := []Sport{{ID: "s1", Name: "S1", Kind: KindIndividual, Gender: GenderOpen, BaseFee: 100}}
		subs := []SubCategory{{ID: "x1", CategoryID: "missing", Name: "X1", Level: 1}}
		_, err := NewInMemoryStore(sports, nil, subs)
		s.Error(err)
	})

	s.Run("display level outside 1..5 fails construction", func() {
		sports := []Sport{{ID: "s1", Name: "S1", Kind: KindIndividual, Gender: GenderOpen, BaseFee: 100}}
		cats := []Category{{ID: "c1", SportID: "s1", Name: "C1"}}
		subs := []SubCategory{{ID: "x1", CategoryID: "c1", Name: "X1", Level: 6}}
		_, err := NewInMemoryStore(sports, cats, subs)
		s.Error(err)
	})
}

// =============================================================================
// Age Brackets
// =============================================================================

func (s *TaxonomyServiceSuite) TestParseAgeBracket() {
	s.Run("under form", func() {
		r, err := ParseAgeBracket("U19")
		s.NoError(err)
		s.Equal(AgeRange{From: 0, To: 18}, r)
		s.True(r.Contains(17))
		s.False(r.Contains(19))
	})

	s.Run("range form", func() {
		r, err := ParseAgeBracket("18-21")
		s.NoError(err)
		s.Equal(AgeRange{From: 18, To: 21}, r)
	})

	s.Run("garbage rejected", func() {
		_, err := ParseAgeBracket("adult")
		s.Error(err)
		_, err = ParseAgeBracket("U0")
		s.Error(err)
	})
}
