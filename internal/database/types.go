package database

import (
	"context"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/FlagBrew/local-dex/internal/models"
)

var typeColumns = []string{colID, colName, colColor, colDescription, colCreatedAt, colUpdatedAt}

func scanType(rows *entsql.Rows) (*models.PokemonType, error) {
	var (
		t                models.PokemonType
		created, updated int64
	)
	if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Description, &created, &updated); err != nil {
		return nil, err
	}
	t.CreatedAt = fromMillis(created)
	t.UpdatedAt = fromMillis(updated)
	return &t, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nameKey(name string) string {
	return strings.ToLower(name)
}

func (s *Store) selectTypes(ctx context.Context, where *entsql.Predicate) ([]*models.PokemonType, error) {
	sel := s.builder().Select(typeColumns...).
		From(s.builder().Table(typesTable)).
		OrderBy(entsql.Asc(colName), entsql.Asc(colID))
	if where != nil {
		sel.Where(where)
	}

	out := []*models.PokemonType{}
	err := each(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		t, err := scanType(rows)
		if err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	return out, err
}

func (s *Store) getType(ctx context.Context, where *entsql.Predicate) (*models.PokemonType, error) {
	types, err := s.selectTypes(ctx, where)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, models.ErrNotFound
	}
	return types[0], nil
}

func (s *Store) CreateType(ctx context.Context, t *models.PokemonType) (*models.PokemonType, error) {
	ib := s.builder().Insert(typesTable).
		Set(colName, t.Name).
		Set(colNameKey, nameKey(t.Name)).
		Set(colColor, t.Color).
		Set(colDescription, t.Description).
		Set(colCreatedAt, toMillis(t.CreatedAt)).
		Set(colUpdatedAt, toMillis(t.UpdatedAt))

	id, err := s.insert(ctx, s.drv, ib)
	if err != nil {
		return nil, typeWriteError(err)
	}
	return s.GetType(ctx, id)
}

func (s *Store) UpdateType(ctx context.Context, t *models.PokemonType) (*models.PokemonType, error) {
	exists, err := s.TypeExists(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrNotFound
	}

	ub := s.builder().Update(typesTable).
		Set(colName, t.Name).
		Set(colNameKey, nameKey(t.Name)).
		Set(colColor, t.Color).
		Set(colDescription, t.Description).
		Set(colUpdatedAt, toMillis(t.UpdatedAt)).
		Where(entsql.EQ(colID, t.ID))
	if _, err := exec(ctx, s.drv, ub); err != nil {
		return nil, typeWriteError(err)
	}
	return s.GetType(ctx, t.ID)
}

func (s *Store) GetType(ctx context.Context, id int) (*models.PokemonType, error) {
	return s.getType(ctx, entsql.EQ(colID, id))
}

func (s *Store) GetTypeByName(ctx context.Context, name string) (*models.PokemonType, error) {
	return s.getType(ctx, entsql.EQ(colNameKey, nameKey(name)))
}

func (s *Store) ListTypes(ctx context.Context) ([]*models.PokemonType, error) {
	return s.selectTypes(ctx, nil)
}

func (s *Store) SearchTypes(ctx context.Context, term string) ([]*models.PokemonType, error) {
	return s.selectTypes(ctx, entsql.Or(
		entsql.ContainsFold(colName, term),
		entsql.ContainsFold(colDescription, term),
	))
}

// DeleteType relies on the foreign keys of the pokemons table to refuse
// deleting a type that is still in use.
func (s *Store) DeleteType(ctx context.Context, id int) error {
	res, err := exec(ctx, s.drv, s.builder().Delete(typesTable).Where(entsql.EQ(colID, id)))
	if err != nil {
		return typeWriteError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) TypeExists(ctx context.Context, id int) (bool, error) {
	n, err := count(ctx, s.drv, s.builder().Select().Count().
		From(s.builder().Table(typesTable)).
		Where(entsql.EQ(colID, id)))
	return n > 0, err
}

// TypeUsage counts primary and secondary references separately; a Pokemon
// cannot carry the same type twice, so the sums never double count.
func (s *Store) TypeUsage(ctx context.Context) ([]*models.TypeUsage, error) {
	types, err := s.ListTypes(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(types))
	for _, col := range []string{colPrimaryType, colSecondaryType} {
		sel := s.builder().Select(col).
			AppendSelectExpr(entsql.Expr("COUNT(*)")).
			From(s.builder().Table(pokemonTable)).
			Where(entsql.NotNull(col)).
			GroupBy(col)

		err := each(ctx, s.drv, sel, func(rows *entsql.Rows) error {
			var id, n int
			if err := rows.Scan(&id, &n); err != nil {
				return err
			}
			counts[id] += n
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]*models.TypeUsage, 0, len(types))
	for _, t := range types {
		out = append(out, &models.TypeUsage{Type: t, Count: counts[t.ID]})
	}
	return out, nil
}
