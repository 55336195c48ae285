package taxonomy

import (
	"context"
	"errors"
	"fmt"

	dErrors "sportsreg/pkg/domain-errors"
	"sportsreg/pkg/platform/sentinel"
)

// Service exposes read-only catalog lookups and most-specific-wins fee
// resolution. It owns the translation from store sentinels to domain errors.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("taxonomy store is required")
	}
	return &Service{store: store}, nil
}

func (s *Service) ListSports(ctx context.Context) ([]Sport, error) {
	return s.store.ListSports(ctx)
}

// Categories lists the categories of a sport; unknown sports are not_found.
func (s *Service) Categories(ctx context.Context, sportID string) ([]Category, error) {
	cats, err := s.store.ListCategories(ctx, sportID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("sport %s does not exist", sportID))
		}
		return nil, err
	}
	return cats, nil
}

// SubCategories lists the subcategories under sportID/categoryID. A category
// belonging to a different sport is an inconsistent_hierarchy, not a miss.
func (s *Service) SubCategories(ctx context.Context, sportID, categoryID string) ([]SubCategory, error) {
	if _, err := s.findSport(ctx, sportID); err != nil {
		return nil, err
	}
	cat, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if cat.SportID != sportID {
		return nil, dErrors.New(dErrors.CodeInconsistentHierarchy,
			fmt.Sprintf("category %s does not belong to sport %s", categoryID, sportID))
	}
	return s.store.ListSubCategories(ctx, categoryID)
}

// Resolve walks the tuple from sport down and returns the effective fee,
// gender, and age band. Each level present overrides the one above
// (most-specific-wins).
func (s *Service) Resolve(ctx context.Context, ref TupleRef) (Resolved, error) {
	sport, err := s.findSport(ctx, ref.SportID)
	if err != nil {
		return Resolved{}, err
	}

	res := Resolved{
		Sport:  sport,
		Fee:    sport.BaseFee,
		Gender: sport.Gender,
		Ages:   sport.Ages,
	}

	if ref.CategoryID == "" {
		if ref.SubCategoryID != "" {
			return Resolved{}, dErrors.New(dErrors.CodeInconsistentHierarchy,
				fmt.Sprintf("subcategory %s supplied without its category", ref.SubCategoryID))
		}
		return res, nil
	}

	cat, err := s.findCategory(ctx, ref.CategoryID)
	if err != nil {
		return Resolved{}, err
	}
	if cat.SportID != sport.ID {
		return Resolved{}, dErrors.New(dErrors.CodeInconsistentHierarchy,
			fmt.Sprintf("category %s does not belong to sport %s", cat.ID, sport.ID))
	}
	res.Category = &cat
	if cat.Fee != nil {
		res.Fee = *cat.Fee
	}
	if cat.Ages != nil {
		res.Ages = *cat.Ages
	}

	if ref.SubCategoryID == "" {
		return res, nil
	}

	sub, err := s.findSubCategory(ctx, ref.SubCategoryID)
	if err != nil {
		return Resolved{}, err
	}
	if sub.CategoryID != cat.ID {
		return Resolved{}, dErrors.New(dErrors.CodeInconsistentHierarchy,
			fmt.Sprintf("subcategory %s does not belong to category %s", sub.ID, cat.ID))
	}
	res.SubCategory = &sub
	if sub.Fee != nil {
		res.Fee = *sub.Fee
	}
	if sub.Gender != nil {
		res.Gender = *sub.Gender
	}
	return res, nil
}

// ResolveFee returns only the effective fee for a tuple.
func (s *Service) ResolveFee(ctx context.Context, sportID, categoryID, subCategoryID string) (int64, error) {
	res, err := s.Resolve(ctx, TupleRef{SportID: sportID, CategoryID: categoryID, SubCategoryID: subCategoryID})
	if err != nil {
		return 0, err
	}
	return res.Fee, nil
}

func (s *Service) findSport(ctx context.Context, sportID string) (Sport, error) {
	sport, err := s.store.FindSport(ctx, sportID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Sport{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("sport %s does not exist", sportID))
		}
		return Sport{}, err
	}
	return sport, nil
}

func (s *Service) findCategory(ctx context.Context, categoryID string) (Category, error) {
	cat, err := s.store.FindCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Category{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("category %s does not exist", categoryID))
		}
		return Category{}, err
	}
	return cat, nil
}

func (s *Service) findSubCategory(ctx context.Context, subCategoryID string) (SubCategory, error) {
	sub, err := s.store.FindSubCategory(ctx, subCategoryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return SubCategory{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("subcategory %s does not exist", subCategoryID))
		}
		return SubCategory{}, err
	}
	return sub, nil
}
