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

// CatalogRepository persists the reference data every principal may read:
// departments, majors, subjects and classes.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ── Departments ─────────────────────────────────────────────

const departmentColumns = `id, name, description, total, created_at, updated_at`

func scanDepartment(row pgx.Row, extra ...any) (model.Department, error) {
	var d model.Department
	dest := append([]any{&d.ID, &d.Name, &d.Description, &d.Total, &d.CreatedAt, &d.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return d, err
}

func (r *CatalogRepository) CreateDepartment(ctx context.Context, d model.Department) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO departments (id, name, description, total, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Name, d.Description, d.Total, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return writeError(err, "create", "department")
	}
	return nil
}

func (r *CatalogRepository) FindDepartment(ctx context.Context, id string) (model.Department, error) {
	d, err := scanDepartment(r.pool.QueryRow(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Department{}, model.NotFoundError("department")
	}
	if err != nil {
		return model.Department{}, fmt.Errorf("find department: %w", err)
	}
	return d, nil
}

func (r *CatalogRepository) UpdateDepartment(ctx context.Context, id string, req model.DepartmentRequest) (model.Department, error) {
	s := &setter{}
	setIf(s, "name", req.Name)
	setIf(s, "description", req.Description)
	setIf(s, "total", req.Total)
	if s.empty() {
		return r.FindDepartment(ctx, id)
	}
	s.set("updated_at", time.Now().UTC())

	sql, args := s.statement("departments", id, departmentColumns)
	d, err := scanDepartment(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Department{}, model.NotFoundError("department")
	}
	if err != nil {
		return model.Department{}, writeError(err, "update", "department")
	}
	return d, nil
}

func (r *CatalogRepository) DeleteDepartment(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "departments", id, "department")
}

func (r *CatalogRepository) ListDepartments(ctx context.Context, f model.DepartmentFilter) ([]model.Department, int, error) {
	c := newConditions("deleted_at IS NULL")
	c.addIf(f.Name != "", "name = $%d", f.Name)

	limit, args := c.paginate(f.Page)
	rows, err := r.pool.Query(ctx,
		`SELECT `+departmentColumns+`, count(*) OVER() FROM departments`+c.where()+` ORDER BY name, id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	out := make([]model.Department, 0)
	total := 0
	for rows.Next() {
		d, err := scanDepartment(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// ── Majors ──────────────────────────────────────────────────

const majorColumns = `id, name, department_id, description, total, created_at, updated_at`

func scanMajor(row pgx.Row, extra ...any) (model.Major, error) {
	var m model.Major
	dest := append([]any{&m.ID, &m.Name, &m.DepartmentID, &m.Description, &m.Total, &m.CreatedAt, &m.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return m, err
}

func (r *CatalogRepository) CreateMajor(ctx context.Context, m model.Major) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO majors (id, name, department_id, description, total, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Name, m.DepartmentID, m.Description, m.Total, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return writeError(err, "create", "major")
	}
	return nil
}

func (r *CatalogRepository) FindMajor(ctx context.Context, id string) (model.Major, error) {
	m, err := scanMajor(r.pool.QueryRow(ctx,
		`SELECT `+majorColumns+` FROM majors WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Major{}, model.NotFoundError("major")
	}
	if err != nil {
		return model.Major{}, fmt.Errorf("find major: %w", err)
	}
	return m, nil
}

func (r *CatalogRepository) UpdateMajor(ctx context.Context, id string, req model.MajorRequest) (model.Major, error) {
	s := &setter{}
	setIf(s, "name", req.Name)
	setIf(s, "department_id", req.DepartmentID)
	setIf(s, "description", req.Description)
	setIf(s, "total", req.Total)
	if s.empty() {
		return r.FindMajor(ctx, id)
	}
	s.set("updated_at", time.Now().UTC())

	sql, args := s.statement("majors", id, majorColumns)
	m, err := scanMajor(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Major{}, model.NotFoundError("major")
	}
	if err != nil {
		return model.Major{}, writeError(err, "update", "major")
	}
	return m, nil
}

func (r *CatalogRepository) DeleteMajor(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "majors", id, "major")
}

func (r *CatalogRepository) ListMajors(ctx context.Context, f model.MajorFilter) ([]model.Major, int, error) {
	c := newConditions("deleted_at IS NULL")
	c.addIf(f.Name != "", "name = $%d", f.Name)
	c.addIf(f.DepartmentID != "", "department_id = $%d", f.DepartmentID)

	limit, args := c.paginate(f.Page)
	rows, err := r.pool.Query(ctx,
		`SELECT `+majorColumns+`, count(*) OVER() FROM majors`+c.where()+` ORDER BY name, id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list majors: %w", err)
	}
	defer rows.Close()

	out := make([]model.Major, 0)
	total := 0
	for rows.Next() {
		m, err := scanMajor(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan major: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// ── Subjects ────────────────────────────────────────────────

const subjectColumns = `id, name, major_id, description, total, created_at, updated_at`

func scanSubject(row pgx.Row, extra ...any) (model.Subject, error) {
	var s model.Subject
	dest := append([]any{&s.ID, &s.Name, &s.MajorID, &s.Description, &s.Total, &s.CreatedAt, &s.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return s, err
}

func (r *CatalogRepository) CreateSubject(ctx context.Context, s model.Subject) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO subjects (id, name, major_id, description, total, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.MajorID, s.Description, s.Total, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return writeError(err, "create", "subject")
	}
	return nil
}

func (r *CatalogRepository) FindSubject(ctx context.Context, id string) (model.Subject, error) {
	s, err := scanSubject(r.pool.QueryRow(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Subject{}, model.NotFoundError("subject")
	}
	if err != nil {
		return model.Subject{}, fmt.Errorf("find subject: %w", err)
	}
	return s, nil
}

func (r *CatalogRepository) UpdateSubject(ctx context.Context, id string, req model.SubjectRequest) (model.Subject, error) {
	s := &setter{}
	setIf(s, "name", req.Name)
	setIf(s, "major_id", req.MajorID)
	setIf(s, "description", req.Description)
	setIf(s, "total", req.Total)
	if s.empty() {
		return r.FindSubject(ctx, id)
	}
	s.set("updated_at", time.Now().UTC())

	sql, args := s.statement("subjects", id, subjectColumns)
	subject, err := scanSubject(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Subject{}, model.NotFoundError("subject")
	}
	if err != nil {
		return model.Subject{}, writeError(err, "update", "subject")
	}
	return subject, nil
}

func (r *CatalogRepository) DeleteSubject(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "subjects", id, "subject")
}

func (r *CatalogRepository) ListSubjects(ctx context.Context, f model.SubjectFilter) ([]model.Subject, int, error) {
	c := newConditions("deleted_at IS NULL")
	c.addIf(f.Name != "", "name = $%d", f.Name)
	c.addIf(f.MajorID != "", "major_id = $%d", f.MajorID)

	limit, args := c.paginate(f.Page)
	rows, err := r.pool.Query(ctx,
		`SELECT `+subjectColumns+`, count(*) OVER() FROM subjects`+c.where()+` ORDER BY name, id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	out := make([]model.Subject, 0)
	total := 0
	for rows.Next() {
		s, err := scanSubject(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// ── Classes ─────────────────────────────────────────────────

const classColumns = `id, name, teacher_id, subject_id, description, total, created_at, updated_at`

func scanClass(row pgx.Row, extra ...any) (model.Class, error) {
	var c model.Class
	dest := append([]any{&c.ID, &c.Name, &c.TeacherID, &c.SubjectID, &c.Description, &c.Total, &c.CreatedAt, &c.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	return c, err
}

func (r *CatalogRepository) CreateClass(ctx context.Context, c model.Class) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO classes (id, name, teacher_id, subject_id, description, total, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.TeacherID, c.SubjectID, c.Description, c.Total, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return writeError(err, "create", "class")
	}
	return nil
}

func (r *CatalogRepository) FindClass(ctx context.Context, id string) (model.Class, error) {
	c, err := scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Class{}, model.NotFoundError("class")
	}
	if err != nil {
		return model.Class{}, fmt.Errorf("find class: %w", err)
	}
	return c, nil
}

func (r *CatalogRepository) UpdateClass(ctx context.Context, id string, req model.ClassRequest) (model.Class, error) {
	s := &setter{}
	setIf(s, "name", req.Name)
	setIf(s, "teacher_id", req.TeacherID)
	setIf(s, "subject_id", req.SubjectID)
	setIf(s, "description", req.Description)
	setIf(s, "total", req.Total)
	if s.empty() {
		return r.FindClass(ctx, id)
	}
	s.set("updated_at", time.Now().UTC())

	sql, args := s.statement("classes", id, classColumns)
	c, err := scanClass(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Class{}, model.NotFoundError("class")
	}
	if err != nil {
		return model.Class{}, writeError(err, "update", "class")
	}
	return c, nil
}

func (r *CatalogRepository) DeleteClass(ctx context.Context, id string) error {
	return softDelete(ctx, r.pool, "classes", id, "class")
}

func (r *CatalogRepository) ListClasses(ctx context.Context, f model.ClassFilter) ([]model.Class, int, error) {
	c := newConditions("deleted_at IS NULL")
	c.addIf(f.Name != "", "name = $%d", f.Name)
	c.addIf(f.TeacherID != "", "teacher_id = $%d", f.TeacherID)
	c.addIf(f.SubjectID != "", "subject_id = $%d", f.SubjectID)

	limit, args := c.paginate(f.Page)
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+`, count(*) OVER() FROM classes`+c.where()+` ORDER BY name, id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	out := make([]model.Class, 0)
	total := 0
	for rows.Next() {
		class, err := scanClass(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan class: %w", err)
		}
		out = append(out, class)
	}
	return out, total, rows.Err()
}
