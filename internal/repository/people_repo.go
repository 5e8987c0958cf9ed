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

// PeopleRepository persists student and teacher records, each linked to one user account.
type PeopleRepository struct {
	pool *pgxpool.Pool
}

func NewPeopleRepository(pool *pgxpool.Pool) *PeopleRepository {
	return &PeopleRepository{pool: pool}
}

const studentColumns = `id, code, user_id, gpa, major_id, created_at, updated_at`

func scanStudent(row pgx.Row, extra ...any) (model.Student, error) {
	var s model.Student
	dest := append([]any{&s.ID, &s.Code, &s.UserID, &s.GPA, &s.MajorID, &s.CreatedAt, &s.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return s, err
}

func (r *PeopleRepository) CreateStudent(ctx context.Context, s model.Student) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO students (id, code, user_id, gpa, major_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Code, s.UserID, s.GPA, s.MajorID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return writeError(err, "create", "student")
	}
	return nil
}

func (r *PeopleRepository) FindStudent(ctx context.Context, id string) (model.Student, error) {
	s, err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Student{}, model.NotFoundError("student")
	}
	if err != nil {
		return model.Student{}, fmt.Errorf("find student: %w", err)
	}
	return s, nil
}

func (r *PeopleRepository) UpdateStudent(ctx context.Context, id string, req model.StudentRequest) (model.Student, error) {
	s := &setter{}
	setIf(s, "code", req.Code)
	setIf(s, "user_id", req.UserID)
	setIf(s, "gpa", req.GPA)
	setIf(s, "major_id", req.MajorID)
	if s.empty() {
		return r.FindStudent(ctx, id)
	}
	s.set("updated_at", time.Now().UTC())

	sql, args := s.statement("students", id, studentColumns)
	student, err := scanStudent(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Student{}, model.NotFoundError("student")
	}
	if err != nil {
		return model.Student{}, writeError(err, "update", "student")
	}
	return student, nil
}

func (r *PeopleRepository) DeleteStudent(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "students", id, "student")
}

func (r *PeopleRepository) ListStudents(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error) {
	c := newConditions("deleted_at IS NULL")
	c.addIf(f.Code != "", "code = $%d", f.Code)
	c.addIf(f.UserID != "", "user_id = $%d", f.UserID)
	c.addIf(f.MajorID != "", "major_id = $%d", f.MajorID)

	limit, args := c.paginate(f.Page)
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+`, count(*) OVER() FROM students`+c.where()+` ORDER BY code, id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	out := make([]model.Student, 0)
	total := 0
	for rows.Next() {
		s, err := scanStudent(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

const teacherColumns = `id, code, user_id, major_id, created_at, updated_at`

func scanTeacher(row pgx.Row, extra ...any) (model.Teacher, error) {
	var t model.Teacher
	dest := append([]any{&t.ID, &t.Code, &t.UserID, &t.MajorID, &t.CreatedAt, &t.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return t, err
}

func (r *PeopleRepository) CreateTeacher(ctx context.Context, t model.Teacher) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO teachers (id, code, user_id, major_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Code, t.UserID, t.MajorID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return writeError(err, "create", "teacher")
	}
	return nil
}

func (r *PeopleRepository) FindTeacher(ctx context.Context, id string) (model.Teacher, error) {
	t, err := scanTeacher(r.pool.QueryRow(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Teacher{}, model.NotFoundError("teacher")
	}
	if err != nil {
		return model.Teacher{}, fmt.Errorf("find teacher: %w", err)
	}
	return t, nil
}

func (r *PeopleRepository) UpdateTeacher(ctx context.Context, id string, req model.TeacherRequest) (model.Teacher, error) {
	s := &setter{}
	setIf(s, "code", req.Code)
	setIf(s, "user_id", req.UserID)
	setIf(s, "major_id", req.MajorID)
	if s.empty() {
		return r.FindTeacher(ctx, id)
	}
	s.set("updated_at", time.Now().UTC())

	sql, args := s.statement("teachers", id, teacherColumns)
	t, err := scanTeacher(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Teacher{}, model.NotFoundError("teacher")
	}
	if err != nil {
		return model.Teacher{}, writeError(err, "update", "teacher")
	}
	return t, nil
}

func (r *PeopleRepository) DeleteTeacher(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "teachers", id, "teacher")
}

func (r *PeopleRepository) ListTeachers(ctx context.Context, f model.TeacherFilter) ([]model.Teacher, int, error) {
	c := newConditions("deleted_at IS NULL")
	c.addIf(f.Code != "", "code = $%d", f.Code)
	c.addIf(f.UserID != "", "user_id = $%d", f.UserID)
	c.addIf(f.MajorID != "", "major_id = $%d", f.MajorID)

	limit, args := c.paginate(f.Page)
	rows, err := r.pool.Query(ctx,
		`SELECT `+teacherColumns+`, count(*) OVER() FROM teachers`+c.where()+` ORDER BY code, id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	out := make([]model.Teacher, 0)
	total := 0
	for rows.Next() {
		t, err := scanTeacher(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan teacher: %w", err)
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}
