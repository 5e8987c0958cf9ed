package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campus/internal/model"
)

type PointRepository struct {
	pool *pgxpool.Pool
}

func NewPointRepository(pool *pgxpool.Pool) *PointRepository {
	return &PointRepository{pool: pool}
}

const pointColumns = `id, class_id, student_id, teacher_id, diligence, test, practice, final, created_at, updated_at`

func scanPoint(row pgx.Row, extra ...any) (model.Point, error) {
	var p model.Point
	dest := append([]any{&p.ID, &p.ClassID, &p.StudentID, &p.TeacherID, &p.Diligence, &p.Test,
		&p.Practice, &p.Final, &p.CreatedAt, &p.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return p, err
}

func (r *PointRepository) Create(ctx context.Context, p model.Point) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO points (id, class_id, student_id, teacher_id, diligence, test, practice, final, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.ClassID, p.StudentID, p.TeacherID, p.Diligence, p.Test, p.Practice, p.Final, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return writeError(err, "create", "point")
	}
	return nil
}

// FindWithOwners loads a point together with the user accounts of its student and teacher.
func (r *PointRepository) FindWithOwners(ctx context.Context, id string) (model.Point, model.PointOwners, error) {
	var owners model.PointOwners
	p, err := scanPoint(r.pool.QueryRow(ctx,
		`SELECT p.id, p.class_id, p.student_id, p.teacher_id, p.diligence, p.test, p.practice, p.final,
		        p.created_at, p.updated_at, s.user_id, t.user_id
		 FROM points p
		 JOIN students s ON s.id = p.student_id
		 JOIN teachers t ON t.id = p.teacher_id
		 WHERE p.id = $1 AND p.deleted_at IS NULL`, id),
		&owners.StudentUserID, &owners.TeacherUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Point{}, model.PointOwners{}, model.NotFoundError("point")
	}
	if err != nil {
		return model.Point{}, model.PointOwners{}, fmt.Errorf("find point: %w", err)
	}
	return p, owners, nil
}

func (r *PointRepository) Update(ctx context.Context, id string, req model.PointRequest) (model.Point, error) {
	s := &setter{}
	setIf(s, "class_id", req.ClassID)
	setIf(s, "student_id", req.StudentID)
	setIf(s, "teacher_id", req.TeacherID)
	setIf(s, "diligence", req.Diligence)
	setIf(s, "test", req.Test)
	setIf(s, "practice", req.Practice)
	setIf(s, "final", req.Final)
	if s.empty() {
		p, _, err := r.FindWithOwners(ctx, id)
		return p, err
	}
	s.set("updated_at", time.Now().UTC())

	sql, args := s.statement("points", id, pointColumns)
	p, err := scanPoint(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Point{}, model.NotFoundError("point")
	}
	if err != nil {
		return model.Point{}, writeError(err, "update", "point")
	}
	return p, nil
}

func (r *PointRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "points", id, "point")
}

// List applies the filter; VisibleTo restricts rows to points whose student
// or teacher is linked to that user.
func (r *PointRepository) List(ctx context.Context, f model.PointFilter) ([]model.Point, int, error) {
	c := newConditions("p.deleted_at IS NULL")
	c.addIf(f.ClassID != "", "p.class_id = $%d", f.ClassID)
	c.addIf(f.StudentID != "", "p.student_id = $%d", f.StudentID)
	c.addIf(f.TeacherID != "", "p.teacher_id = $%d", f.TeacherID)
	c.addIf(f.VisibleTo != "", "(s.user_id = $%[1]d OR t.user_id = $%[1]d)", f.VisibleTo)

	limit, args := c.paginate(f.Page)
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.class_id, p.student_id, p.teacher_id, p.diligence, p.test, p.practice, p.final,
		        p.created_at, p.updated_at, count(*) OVER()
		 FROM points p
		 JOIN students s ON s.id = p.student_id
		 JOIN teachers t ON t.id = p.teacher_id`+c.where()+` ORDER BY p.created_at, p.id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list points: %w", err)
	}
	defer rows.Close()

	out := make([]model.Point, 0)
	total := 0
	for rows.Next() {
		p, err := scanPoint(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan point: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
