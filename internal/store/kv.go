package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const kvTable = "kv"

// builder renders SQLite statements for the repositories.
var builder = entsql.Dialect(dialect.SQLite)

// kvRepo implements ProgressRepo and ChallengeCache over the kv table.
type kvRepo struct {
	db *sql.DB
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getKey(ctx context.Context, q execer, key string) ([]byte, error) {
	query, args := builder.Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("key", key)).
		Query()
	var value string
	err := q.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "load", Key: key, Err: err}
	}
	return []byte(value), nil
}

func putKey(ctx context.Context, q execer, key string, value []byte) error {
	query, args := builder.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}
	return nil
}

func deleteKey(ctx context.Context, q execer, key string) error {
	query, args := builder.Delete(kvTable).Where(entsql.EQ("key", key)).Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (r *kvRepo) Load(ctx context.Context) ([]byte, []byte, error) {
	roadmap, err := getKey(ctx, r.db, KeyRoadmap)
	if err != nil {
		return nil, nil, err
	}
	profile, err := getKey(ctx, r.db, KeyProfile)
	if err != nil {
		return nil, nil, err
	}
	return roadmap, profile, nil
}

func (r *kvRepo) SaveProgress(ctx context.Context, roadmap, profile []byte) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if roadmap == nil {
			if err := deleteKey(ctx, tx, KeyRoadmap); err != nil {
				return err
			}
		} else if err := putKey(ctx, tx, KeyRoadmap, roadmap); err != nil {
			return err
		}
		return putKey(ctx, tx, KeyProfile, profile)
	})
}

func (r *kvRepo) ClearRoadmap(ctx context.Context) error {
	return deleteKey(ctx, r.db, KeyRoadmap)
}

func (r *kvRepo) ClearAll(ctx context.Context) error {
	query, args := builder.Delete(kvTable).
		Where(entsql.Or(
			entsql.In("key", KeyRoadmap, KeyProfile),
			entsql.HasPrefix("key", challengeKeyPrefix),
		)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return &Error{Op: "delete", Err: err}
	}
	return nil
}

func (r *kvRepo) Get(ctx context.Context, techName string) ([]byte, error) {
	return getKey(ctx, r.db, ChallengeKey(techName))
}

func (r *kvRepo) Put(ctx context.Context, techName string, doc []byte) error {
	return putKey(ctx, r.db, ChallengeKey(techName), doc)
}

// withTx runs fn inside a SQL transaction.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &Error{Op: "save", Err: fmt.Errorf("begin tx: %w", err)}
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &Error{Op: "save", Err: fmt.Errorf("commit tx: %w", err)}
	}
	return nil
}
