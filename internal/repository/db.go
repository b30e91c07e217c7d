package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// All queries are written with '?' placeholders and rebound for the
// driver at execution time.

func getx(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func selectx(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func execx(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, q.Rebind(query), args...)
}

// inExpand rewrites "IN (?)" for a slice argument.
func inExpand(q sqlx.ExtContext, query string, args ...any) (string, []any, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return q.Rebind(query), args, nil
}

// insertID runs an INSERT and returns the new row id.  Postgres has no
// LastInsertId, so RETURNING is used there.
func insertID(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	if q.DriverName() == "postgres" {
		var id int64
		err := sqlx.GetContext(ctx, q, &id, q.Rebind(query+" RETURNING id"), args...)
		return id, err
	}
	res, err := execx(ctx, q, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// affected returns ErrNotFound-typed err when the statement touched no row.
func affected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	return fn(tx)
}

// isUniqueViolation recognises duplicate-key errors of every supported
// driver.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// isForeignKeyViolation recognises a reference to a missing parent row.
func isForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1452
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}

// unreferenced returns the paths no row of table still stores in col.
// Same-named uploads of one user share a stored file, so it is called
// after the owning rows are deleted, in the same transaction.
func unreferenced(ctx context.Context, q sqlx.ExtContext, table, col string, paths []string) ([]string, error) {
	out := []string{}
	for _, p := range paths {
		var n int
		if err := getx(ctx, q, &n, "SELECT COUNT(*) FROM "+table+" WHERE "+col+" = ?", p); err != nil {
			return nil, err
		}
		if n == 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// orphan is unreferenced for a single path; it returns "" while the path
// is still in use.
func orphan(ctx context.Context, q sqlx.ExtContext, table, col, path string) (string, error) {
	left, err := unreferenced(ctx, q, table, col, []string{path})
	if err != nil || len(left) == 0 {
		return "", err
	}
	return left[0], nil
}

func noRows(err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}
