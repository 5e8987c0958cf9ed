package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/internal/model"
)

func TestConditions_WhereAndPaginate(t *testing.T) {
	c := newConditions("p.deleted_at IS NULL")
	c.addIf(false, "p.class_id = $%d", "ignored")
	c.add("p.student_id = $%d", "s1")
	c.addIf(true, "(s.user_id = $%[1]d OR t.user_id = $%[1]d)", "u1")

	assert.Equal(t,
		" WHERE p.deleted_at IS NULL AND p.student_id = $1 AND (s.user_id = $2 OR t.user_id = $2)",
		c.where())

	limit, args := c.paginate(model.Page{Page: 3, Limit: 10})
	assert.Equal(t, " LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []any{"s1", "u1", 10, 20}, args)
	assert.Len(t, c.args, 2, "paginate must not grow the filter arguments")
}

func TestConditions_Empty(t *testing.T) {
	assert.Empty(t, newConditions().where())
}

func TestSetter_Statement(t *testing.T) {
	name := "Algebra"
	var total *int

	s := &setter{}
	setIf(s, "name", &name)
	setIf(s, "total", total)
	require.False(t, s.empty())

	sql, args := s.statement("subjects", "sub-1", "id, name")
	assert.Equal(t, "UPDATE subjects SET name = $1 WHERE id = $2 AND deleted_at IS NULL RETURNING id, name", sql)
	assert.Equal(t, []any{"Algebra", "sub-1"}, args)
}

func TestWriteError(t *testing.T) {
	dup := writeError(&pgconn.PgError{Code: "23505"}, "create", "student")
	assert.ErrorIs(t, dup, model.ErrAlreadyExists)

	fk := writeError(&pgconn.PgError{Code: "23503"}, "create", "point")
	assert.ErrorIs(t, fk, model.ErrInvalidInput)

	other := writeError(errors.New("boom"), "create", "class")
	assert.EqualError(t, other, "create class: boom")
}
