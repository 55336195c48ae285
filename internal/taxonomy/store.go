package taxonomy

import "context"

// Store is the read-only catalog source. Mutation is an admin concern handled
// outside this service; stores only list and look up.
type Store interface {
	ListSports(ctx context.Context) ([]Sport, error)
	FindSport(ctx context.Context, sportID string) (Sport, error)
	ListCategories(ctx context.Context, sportID string) ([]Category, error)
	FindCategory(ctx context.Context, categoryID string) (Category, error)
	ListSubCategories(ctx context.Context, categoryID string) ([]SubCategory, error)
	FindSubCategory(ctx context.Context, subCategoryID string) (SubCategory, error)
}
