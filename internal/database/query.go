package database

import (
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/FlagBrew/local-dex/internal/models"
)

// writeTotal writes the stat total as an arithmetic expression.
func writeTotal(b *entsql.Builder) {
	b.Wrap(func(b *entsql.Builder) {
		for i, col := range statColumns {
			if i > 0 {
				b.WriteOp(entsql.OpAdd)
			}
			b.Ident(col)
		}
	})
}

// where translates catalog predicates into a single AND-ed SQL predicate, or
// nil when there is nothing to filter on.
func where(preds []models.Predicate) (*entsql.Predicate, error) {
	out := make([]*entsql.Predicate, 0, len(preds))
	for _, pred := range preds {
		p, err := translate(pred)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0], nil
	default:
		return entsql.And(out...), nil
	}
}

func translate(pred models.Predicate) (*entsql.Predicate, error) {
	switch v := pred.(type) {
	case models.GenerationIs:
		return entsql.EQ(colGeneration, int(v)), nil
	case models.HasType:
		return entsql.Or(entsql.EQ(colPrimaryType, int(v)), entsql.EQ(colSecondaryType, int(v))), nil
	case models.PrimaryTypeIs:
		return entsql.EQ(colPrimaryType, int(v)), nil
	case models.LegendaryIs:
		return entsql.EQ(colLegendary, bool(v)), nil
	case models.MythicalIs:
		return entsql.EQ(colMythical, bool(v)), nil
	case models.PokedexAtLeast:
		return entsql.GTE(colPokedex, int(v)), nil
	case models.PokedexAtMost:
		return entsql.LTE(colPokedex, int(v)), nil
	case models.TextContains:
		return entsql.Or(
			entsql.ContainsFold(colName, string(v)),
			entsql.ContainsFold(colDescription, string(v)),
		), nil
	case models.TotalStatsAtLeast:
		return entsql.P(func(b *entsql.Builder) {
			writeTotal(b)
			b.WriteOp(entsql.OpGTE).Arg(int(v))
		}), nil
	case models.SpeedAtLeast:
		return entsql.GTE(colSpeed, int(v)), nil
	case models.AttackAtLeast:
		return entsql.GTE(colAttack, int(v)), nil
	case models.IsBaseForm:
		return entsql.IsNull(colEvolvesFrom), nil
	case models.IsFinalForm:
		return entsql.IsNull(colEvolvesTo), nil
	}
	return nil, fmt.Errorf("unsupported predicate %T", pred)
}

var sortColumns = map[models.SortField]string{
	models.SortByName:       colName,
	models.SortByID:         colID,
	models.SortByGeneration: colGeneration,
	models.SortBySpeed:      colSpeed,
	models.SortByAttack:     colAttack,
}

// orderBy appends orders to sel. Missing pokedex numbers sort first in
// ascending order on every dialect, postgres included.
func orderBy(sel *entsql.Selector, orders []models.Order) error {
	for _, o := range orders {
		dir, nulls := " ASC", " DESC"
		if o.Desc {
			dir, nulls = " DESC", " ASC"
		}

		switch o.Field {
		case models.SortByPokedex:
			sel.OrderExprFunc(func(b *entsql.Builder) {
				b.Wrap(func(b *entsql.Builder) {
					b.Ident(colPokedex).WriteOp(entsql.OpIsNull)
				}).WriteString(nulls)
			})
			sel.OrderExprFunc(func(b *entsql.Builder) {
				b.Ident(colPokedex).WriteString(dir)
			})
		case models.SortByTotal:
			sel.OrderExprFunc(func(b *entsql.Builder) {
				writeTotal(b)
				b.WriteString(dir)
			})
		default:
			col, ok := sortColumns[o.Field]
			if !ok {
				return fmt.Errorf("unsupported sort field %q", o.Field)
			}
			sel.OrderExprFunc(func(b *entsql.Builder) {
				b.Ident(col).WriteString(dir)
			})
		}
	}
	return nil
}
