package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"campus/internal/database"
	"campus/internal/model"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conditions accumulates AND-ed predicates with positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

func newConditions(base ...string) *conditions {
	return &conditions{clauses: append([]string(nil), base...)}
}

// add appends a predicate; format must contain exactly one %d for the placeholder index.
func (c *conditions) add(format string, value any) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf(format, len(c.args)))
}

func (c *conditions) addIf(ok bool, format string, value any) {
	if ok {
		c.add(format, value)
	}
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// paginate returns the LIMIT/OFFSET suffix and the argument list extended with its values.
func (c *conditions) paginate(page model.Page) (string, []any) {
	page = page.Normalize()
	args := append(append([]any(nil), c.args...), page.Limit, page.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(c.args)+1, len(c.args)+2), args
}

// setter builds the SET list of a partial UPDATE.
type setter struct {
	columns []string
	args    []any
}

func (s *setter) set(column string, value any) {
	s.args = append(s.args, value)
	s.columns = append(s.columns, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func setIf[T any](s *setter, column string, value *T) {
	if value != nil {
		s.set(column, *value)
	}
}

func (s *setter) empty() bool { return len(s.columns) == 0 }

// statement renders "UPDATE table SET ... WHERE id = $n AND deleted_at IS NULL RETURNING cols".
func (s *setter) statement(table, id, returning string) (string, []any) {
	args := append(append([]any(nil), s.args...), id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING %s",
		table, strings.Join(s.columns, ", "), len(args), returning)
	return sql, args
}

// writeError translates constraint violations into client errors.
func writeError(err error, op string, resource string) error {
	switch {
	case database.IsUniqueViolation(err):
		return model.ConflictError(resource + " already exists")
	case database.IsForeignKeyViolation(err):
		return model.InvalidInputError("referenced record does not exist")
	default:
		return fmt.Errorf("%s %s: %w", op, resource, err)
	}
}

// softDelete stamps deleted_at on a live row.
func softDelete(ctx context.Context, db dbtx, table string, id string, resource string) error {
	tag, err := db.Exec(ctx,
		`UPDATE `+table+` SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	if tag.RowsAffected() == 0 {
		return model.NotFoundError(resource)
	}
	return nil
}
