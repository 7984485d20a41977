package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/FlagBrew/local-dex/internal/models"
)

var pokemonColumns = []string{
	colID, colName, colPokedex, colDescription, colHeight, colWeight,
	colPrimaryType, colSecondaryType,
	colHP, colAttack, colDefense, colSpecialAttack, colSpecialDefense, colSpeed,
	colEvolvesFrom, colEvolvesTo,
	colLegendary, colMythical, colGeneration, colImageURL,
	colCreatedAt, colUpdatedAt,
}

func scanPokemon(rows *entsql.Rows) (*models.Pokemon, error) {
	var (
		p                        models.Pokemon
		stats                    models.Stats
		dex, secondary, from, to sql.NullInt64
		height, weight           sql.NullFloat64
		created, updated         int64
	)

	err := rows.Scan(
		&p.ID, &p.Name, &dex, &p.Description, &height, &weight,
		&p.PrimaryTypeID, &secondary,
		&stats.HP, &stats.Attack, &stats.Defense, &stats.SpecialAttack, &stats.SpecialDefense, &stats.Speed,
		&from, &to,
		&p.Legendary, &p.Mythical, &p.Generation, &p.ImageURL,
		&created, &updated,
	)
	if err != nil {
		return nil, err
	}

	p.PokedexNumber = nullInt(dex)
	p.SecondaryTypeID = nullInt(secondary)
	p.EvolvesFromID = nullInt(from)
	p.EvolvesToID = nullInt(to)
	p.Height = nullFloat(height)
	p.Weight = nullFloat(weight)
	p.Stats = &stats
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(updated)
	return &p, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return models.Ptr(int(v.Int64))
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Ptr(v.Float64)
}

// orNull unwraps an optional value, leaving nil for SQL NULL.
func orNull[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// setter is the common Set method of the insert and update builders.
type setter[B any] interface {
	Set(column string, v any) B
}

// setFields writes every stored field of p except the id, the creation time
// and the evolution links.
func setFields[B setter[B]](b B, p *models.Pokemon) B {
	stats := p.Stats
	if stats == nil {
		stats = models.DefaultStats()
	}
	return b.
		Set(colName, p.Name).
		Set(colNameKey, nameKey(p.Name)).
		Set(colPokedex, orNull(p.PokedexNumber)).
		Set(colDescription, p.Description).
		Set(colHeight, orNull(p.Height)).
		Set(colWeight, orNull(p.Weight)).
		Set(colPrimaryType, p.PrimaryTypeID).
		Set(colSecondaryType, orNull(p.SecondaryTypeID)).
		Set(colHP, stats.HP).
		Set(colAttack, stats.Attack).
		Set(colDefense, stats.Defense).
		Set(colSpecialAttack, stats.SpecialAttack).
		Set(colSpecialDefense, stats.SpecialDefense).
		Set(colSpeed, stats.Speed).
		Set(colLegendary, p.Legendary).
		Set(colMythical, p.Mythical).
		Set(colGeneration, p.Generation).
		Set(colImageURL, p.ImageURL).
		Set(colUpdatedAt, toMillis(p.UpdatedAt))
}

func (s *Store) selectPokemon() *entsql.Selector {
	return s.builder().Select(pokemonColumns...).From(s.builder().Table(pokemonTable))
}

func (s *Store) collect(ctx context.Context, conn dialect.ExecQuerier, sel *entsql.Selector) ([]*models.Pokemon, error) {
	out := []*models.Pokemon{}
	err := each(ctx, conn, sel, func(rows *entsql.Rows) error {
		p, err := scanPokemon(rows)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (s *Store) getPokemon(ctx context.Context, conn dialect.ExecQuerier, where *entsql.Predicate) (*models.Pokemon, error) {
	list, err := s.collect(ctx, conn, s.selectPokemon().Where(where).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, models.ErrNotFound
	}
	return list[0], nil
}

func (s *Store) CreatePokemon(ctx context.Context, p *models.Pokemon) (*models.Pokemon, error) {
	ib := setFields(s.builder().Insert(pokemonTable), p).
		Set(colCreatedAt, toMillis(p.CreatedAt))

	id, err := s.insert(ctx, s.drv, ib)
	if err != nil {
		return nil, pokemonWriteError(p, err)
	}
	return s.GetPokemon(ctx, id)
}

func (s *Store) UpdatePokemon(ctx context.Context, p *models.Pokemon) (*models.Pokemon, error) {
	exists, err := s.PokemonExists(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrNotFound
	}

	ub := setFields(s.builder().Update(pokemonTable), p).Where(entsql.EQ(colID, p.ID))
	if _, err := exec(ctx, s.drv, ub); err != nil {
		return nil, pokemonWriteError(p, err)
	}
	return s.GetPokemon(ctx, p.ID)
}

func (s *Store) GetPokemon(ctx context.Context, id int) (*models.Pokemon, error) {
	return s.getPokemon(ctx, s.drv, entsql.EQ(colID, id))
}

func (s *Store) GetPokemonByName(ctx context.Context, name string) (*models.Pokemon, error) {
	return s.getPokemon(ctx, s.drv, entsql.EQ(colNameKey, nameKey(name)))
}

func (s *Store) GetPokemonByPokedexNumber(ctx context.Context, number int) (*models.Pokemon, error) {
	return s.getPokemon(ctx, s.drv, entsql.EQ(colPokedex, number))
}

// DeletePokemon leaves the links of its neighbours to the ON DELETE SET NULL
// foreign keys.
func (s *Store) DeletePokemon(ctx context.Context, id int) error {
	res, err := exec(ctx, s.drv, s.builder().Delete(pokemonTable).Where(entsql.EQ(colID, id)))
	if err != nil {
		return err
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

func (s *Store) PokemonExists(ctx context.Context, id int) (bool, error) {
	n, err := count(ctx, s.drv, s.builder().Select().Count().
		From(s.builder().Table(pokemonTable)).
		Where(entsql.EQ(colID, id)))
	return n > 0, err
}

func (s *Store) QueryPokemon(ctx context.Context, q models.Query) (*models.PokemonPage, error) {
	pred, err := where(q.Where)
	if err != nil {
		return nil, err
	}

	total, err := s.countWhere(ctx, pred)
	if err != nil {
		return nil, err
	}

	sel := s.selectPokemon()
	if pred != nil {
		sel.Where(pred)
	}
	if err := orderBy(sel, q.Orders()); err != nil {
		return nil, err
	}
	if q.Page.Size > 0 {
		sel.Limit(q.Page.Size).Offset(q.Page.Offset())
	}

	items, err := s.collect(ctx, s.drv, sel)
	if err != nil {
		return nil, err
	}
	return models.NewPokemonPage(items, q.Page, total), nil
}

func (s *Store) countWhere(ctx context.Context, pred *entsql.Predicate) (int, error) {
	sel := s.builder().Select().Count().From(s.builder().Table(pokemonTable))
	if pred != nil {
		sel.Where(pred)
	}
	return count(ctx, s.drv, sel)
}

func (s *Store) CountPokemon(ctx context.Context, preds ...models.Predicate) (int, error) {
	pred, err := where(preds)
	if err != nil {
		return 0, err
	}
	return s.countWhere(ctx, pred)
}

func (s *Store) AverageTotalStats(ctx context.Context) (float64, error) {
	avg := s.builder().Expr(func(b *entsql.Builder) {
		b.WriteString("AVG")
		writeTotal(b)
	})
	sel := s.builder().SelectExpr(avg).From(s.builder().Table(pokemonTable))

	var result sql.NullFloat64
	err := each(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&result)
	})
	if err != nil {
		return 0, err
	}
	return result.Float64, nil
}

// LinkEvolution writes both sides of the link in one transaction. Each side
// is only written into an empty slot, and the predecessors of from are walked
// again after the writes, so a link committed concurrently can neither be
// overwritten nor closed into a cycle.
func (s *Store) LinkEvolution(ctx context.Context, fromID, toID int) error {
	return s.withTx(ctx, func(tx dialect.Tx) error {
		get := func(id int) (*models.Pokemon, error) {
			return s.getPokemon(ctx, tx, entsql.EQ(colID, id))
		}

		for _, link := range []struct {
			id, target int
			col        string
		}{
			{id: fromID, target: toID, col: colEvolvesTo},
			{id: toID, target: fromID, col: colEvolvesFrom},
		} {
			res, err := exec(ctx, tx, s.builder().Update(pokemonTable).
				Set(link.col, link.target).
				Where(entsql.And(
					entsql.EQ(colID, link.id),
					entsql.IsNull(link.col),
				)))
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 1 {
				continue
			}

			// Missing row or occupied slot. Only the same link already being
			// in place is accepted.
			from, err := get(fromID)
			if err != nil {
				return err
			}
			to, err := get(toID)
			if err != nil {
				return err
			}
			if err := models.LinkConflict(from, to); err != nil {
				return err
			}
		}

		from, err := get(fromID)
		if err != nil {
			return err
		}
		return models.CheckAncestors(from, toID, func(id int) (*models.Pokemon, error) {
			p, err := get(id)
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("%w: link to missing pokemon %d", models.ErrCorruptChain, id)
			}
			return p, err
		})
	})
}

func (s *Store) UnlinkEvolution(ctx context.Context, fromID int) error {
	return s.withTx(ctx, func(tx dialect.Tx) error {
		from, err := s.getPokemon(ctx, tx, entsql.EQ(colID, fromID))
		if err != nil {
			return err
		}
		if from.EvolvesToID == nil {
			return nil
		}

		_, err = exec(ctx, tx, s.builder().Update(pokemonTable).
			SetNull(colEvolvesFrom).
			Where(entsql.And(
				entsql.EQ(colID, *from.EvolvesToID),
				entsql.EQ(colEvolvesFrom, fromID),
			)))
		if err != nil {
			return err
		}

		_, err = exec(ctx, tx, s.builder().Update(pokemonTable).
			SetNull(colEvolvesTo).
			Where(entsql.EQ(colID, fromID)))
		return err
	})
}

func (s *Store) withTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("rolling back transaction: %w", rerr))
		}
		return err
	}
	return tx.Commit()
}
