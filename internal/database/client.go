// Package database is the SQL catalog store. It speaks sqlite, postgres and
// mysql through ent's dialect-aware query builders and migrates its own
// schema on startup.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Store struct {
	drv *entsql.Driver
}

var _ catalog.Store = (*Store)(nil)

// Open connects to the database named by dbType ("sqlite", "postgres" or
// "mysql") and checks that it is reachable.
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	var drv *entsql.Driver

	switch dbType {
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse connection string: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		drv = entsql.OpenDB(dialect.Postgres, stdlib.OpenDBFromPool(pool))
	case "mysql":
		db, err := sql.Open(dialect.MySQL, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect to mysql: %w", err)
		}
		drv = entsql.OpenDB(dialect.MySQL, db)
	case "sqlite":
		db, err := sql.Open(dbType, sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("connect to sqlite: %w", err)
		}
		// One connection keeps writers from tripping over each other and
		// keeps ":memory:" databases to a single instance.
		db.SetMaxOpenConns(1)
		drv = entsql.OpenDB(dialect.SQLite, db)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	if err := drv.DB().PingContext(ctx); err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}
	return &Store{drv: drv}, nil
}

// New opens the configured database, exiting the process if that fails.
func New(ctx context.Context, cfg *models.DatabaseConfig) *Store {
	logger := log.FromContext(ctx).WithField("db_type", cfg.DBType)

	store, err := Open(ctx, cfg.DBType, cfg.ConnectionString)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
		return nil
	}

	logger.Info("connected to database")
	return store
}

// sqliteDSN turns on foreign key enforcement, which sqlite leaves off per
// connection, and waits on locks instead of failing immediately.
func sqliteDSN(dsn string) string {
	for _, pragma := range []string{"foreign_keys(1)", "busy_timeout(5000)"} {
		name, _, _ := strings.Cut(pragma, "(")
		if strings.Contains(dsn, name) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=" + pragma
	}
	return dsn
}

func (s *Store) Dialect() string {
	return s.drv.Dialect()
}

func (s *Store) Close() error {
	return s.drv.Close()
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.drv.Dialect())
}

// querier is anything that renders to a statement and its arguments.
type querier interface {
	Query() (string, []any)
}

// each runs q and calls fn once per returned row.
func each(ctx context.Context, conn dialect.ExecQuerier, q querier, fn func(rows *entsql.Rows) error) error {
	query, args := q.Query()

	rows := &entsql.Rows{}
	if err := conn.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func exec(ctx context.Context, conn dialect.ExecQuerier, q querier) (sql.Result, error) {
	query, args := q.Query()

	var res sql.Result
	if err := conn.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// insert runs ib and returns the generated id. Postgres has no
// LastInsertId, so it reads the id back through RETURNING.
func (s *Store) insert(ctx context.Context, conn dialect.ExecQuerier, ib *entsql.InsertBuilder) (int, error) {
	if s.drv.Dialect() != dialect.Postgres {
		res, err := exec(ctx, conn, ib)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		return int(id), err
	}

	var id int
	found := false
	err := each(ctx, conn, ib.Returning(colID), func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.New("insert returned no id")
	}
	return id, nil
}

// count runs a single-value COUNT query.
func count(ctx context.Context, conn dialect.ExecQuerier, sel *entsql.Selector) (int, error) {
	var n int
	err := each(ctx, conn, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	return n, err
}
