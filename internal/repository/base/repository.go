package base

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository wraps the pool with the helpers shared by all repositories.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// QueryRow runs a query expected to return at most one row.
func (r *Repository) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return r.pool.QueryRow(ctx, query, args...)
}

func (r *Repository) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return r.pool.Query(ctx, query, args...)
}

// ExecAffected runs a command and returns the number of affected rows.
func (r *Repository) ExecAffected(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Where accumulates AND-ed conditions and their positional arguments.
type Where struct {
	conds []string
	args  []any
}

// Arg registers v and returns its placeholder ($1, $2, ...).
func (w *Where) Arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *Where) And(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

// Overlapping adds the three-clause overlap predicate against [start, end)
// on the start_time/end_time columns of the given table alias.
// A row whose end equals start, or whose start equals end, is not matched.
func (w *Where) Overlapping(alias string, start, end any) {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}
	s, e := w.Arg(start), w.Arg(end)
	w.And("((" + col("start_time") + " <= " + s + " AND " + col("end_time") + " > " + s + ")" +
		" OR (" + col("start_time") + " < " + e + " AND " + col("end_time") + " >= " + e + ")" +
		" OR (" + col("start_time") + " >= " + s + " AND " + col("end_time") + " <= " + e + "))")
}
