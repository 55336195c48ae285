package taxonomy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsreg/pkg/platform/sentinel"
)

// PostgresStore reads the catalog maintained by the external admin path.
// Schema (managed by migrations outside this service):
//
//	sports(id, name, kind, gender, age_from, age_to, base_fee, team_size, max_participants)
//	sport_categories(id, sport_id, name, age_from, age_to, fee, institution_cap)
//	sport_subcategories(id, category_id, name, fee, gender, level)
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListSports(ctx context.Context) ([]Sport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, gender, age_from, age_to, base_fee,
		       COALESCE(team_size, 0), COALESCE(max_participants, 0)
		FROM sports ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	defer rows.Close()

	var out []Sport
	for rows.Next() {
		var sp Sport
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Kind, &sp.Gender,
			&sp.Ages.From, &sp.Ages.To, &sp.BaseFee, &sp.TeamSize, &sp.MaxParticipants); err != nil {
			return nil, fmt.Errorf("scan sport: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindSport(ctx context.Context, sportID string) (Sport, error) {
	var sp Sport
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, kind, gender, age_from, age_to, base_fee,
		       COALESCE(team_size, 0), COALESCE(max_participants, 0)
		FROM sports WHERE id = $1`, sportID).
		Scan(&sp.ID, &sp.Name, &sp.Kind, &sp.Gender,
			&sp.Ages.From, &sp.Ages.To, &sp.BaseFee, &sp.TeamSize, &sp.MaxParticipants)
	if errors.Is(err, sql.ErrNoRows) {
		return Sport{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Sport{}, fmt.Errorf("find sport: %w", err)
	}
	return sp, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context, sportID string) ([]Category, error) {
	if _, err := s.FindSport(ctx, sportID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sport_id, name, age_from, age_to, fee, COALESCE(institution_cap, 0)
		FROM sport_categories WHERE sport_id = $1 ORDER BY name`, sportID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindCategory(ctx context.Context, categoryID string) (Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, sport_id, name, age_from, age_to, fee, COALESCE(institution_cap, 0)
		FROM sport_categories WHERE id = $1`, categoryID)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListSubCategories(ctx context.Context, categoryID string) ([]SubCategory, error) {
	if _, err := s.FindCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, name, fee, gender, level
		FROM sport_subcategories WHERE category_id = $1 ORDER BY level, name`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var out []SubCategory
	for rows.Next() {
		sub, err := scanSubCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindSubCategory(ctx context.Context, subCategoryID string) (SubCategory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category_id, name, fee, gender, level
		FROM sport_subcategories WHERE id = $1`, subCategoryID)
	sub, err := scanSubCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SubCategory{}, sentinel.ErrNotFound
	}
	if err != nil {
		return SubCategory{}, fmt.Errorf("find subcategory: %w", err)
	}
	return sub, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var (
		c       Category
		ageFrom sql.NullInt64
		ageTo   sql.NullInt64
		fee     sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.SportID, &c.Name, &ageFrom, &ageTo, &fee, &c.InstitutionCap); err != nil {
		return Category{}, err
	}
	if ageFrom.Valid && ageTo.Valid {
		c.Ages = &AgeRange{From: int(ageFrom.Int64), To: int(ageTo.Int64)}
	}
	if fee.Valid {
		v := fee.Int64
		c.Fee = &v
	}
	return c, nil
}

func scanSubCategory(row rowScanner) (SubCategory, error) {
	var (
		sub    SubCategory
		fee    sql.NullInt64
		gender sql.NullString
	)
	if err := row.Scan(&sub.ID, &sub.CategoryID, &sub.Name, &fee, &gender, &sub.Level); err != nil {
		return SubCategory{}, err
	}
	if fee.Valid {
		v := fee.Int64
		sub.Fee = &v
	}
	if gender.Valid {
		g := Gender(gender.String)
		sub.Gender = &g
	}
	return sub, nil
}
