package service

import (
	"context"
	"time"

	"campus/internal/ids"
	"campus/internal/model"
)

// CatalogService serves departments, majors, subjects and classes.
// Any authenticated principal reads; only admins write.
type CatalogService struct {
	catalog CatalogStore
	now     func() time.Time
}

func NewCatalogService(catalog CatalogStore) *CatalogService {
	return &CatalogService{catalog: catalog, now: time.Now}
}

func stringOr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// ── Departments ─────────────────────────────────────────────

func (s *CatalogService) CreateDepartment(ctx context.Context, actor model.Principal, req model.DepartmentRequest) (model.Department, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Department{}, err
	}
	name, err := required(req.Name, "name")
	if err != nil {
		return model.Department{}, err
	}

	now := s.now().UTC()
	d := model.Department{
		ID:          ids.New(),
		Name:        name,
		Description: stringOr(req.Description),
		Total:       valueOr(req.Total),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.catalog.CreateDepartment(ctx, d); err != nil {
		return model.Department{}, err
	}
	return d, nil
}

func (s *CatalogService) GetDepartment(ctx context.Context, _ model.Principal, id string) (model.Department, error) {
	return s.catalog.FindDepartment(ctx, id)
}

func (s *CatalogService) UpdateDepartment(ctx context.Context, actor model.Principal, id string, req model.DepartmentRequest) (model.Department, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Department{}, err
	}
	return s.catalog.UpdateDepartment(ctx, id, req)
}

func (s *CatalogService) DeleteDepartment(ctx context.Context, actor model.Principal, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.catalog.DeleteDepartment(ctx, id)
}

func (s *CatalogService) ListDepartments(ctx context.Context, _ model.Principal, f model.DepartmentFilter) ([]model.Department, int, error) {
	return s.catalog.ListDepartments(ctx, f)
}

// ── Majors ──────────────────────────────────────────────────

func (s *CatalogService) CreateMajor(ctx context.Context, actor model.Principal, req model.MajorRequest) (model.Major, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Major{}, err
	}
	name, err := required(req.Name, "name")
	if err != nil {
		return model.Major{}, err
	}
	departmentID, err := required(req.DepartmentID, "department_id")
	if err != nil {
		return model.Major{}, err
	}

	now := s.now().UTC()
	m := model.Major{
		ID:           ids.New(),
		Name:         name,
		DepartmentID: departmentID,
		Description:  stringOr(req.Description),
		Total:        valueOr(req.Total),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.catalog.CreateMajor(ctx, m); err != nil {
		return model.Major{}, err
	}
	return m, nil
}

func (s *CatalogService) GetMajor(ctx context.Context, _ model.Principal, id string) (model.Major, error) {
	return s.catalog.FindMajor(ctx, id)
}

func (s *CatalogService) UpdateMajor(ctx context.Context, actor model.Principal, id string, req model.MajorRequest) (model.Major, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Major{}, err
	}
	return s.catalog.UpdateMajor(ctx, id, req)
}

func (s *CatalogService) DeleteMajor(ctx context.Context, actor model.Principal, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.catalog.DeleteMajor(ctx, id)
}

func (s *CatalogService) ListMajors(ctx context.Context, _ model.Principal, f model.MajorFilter) ([]model.Major, int, error) {
	return s.catalog.ListMajors(ctx, f)
}

// ── Subjects ────────────────────────────────────────────────

func (s *CatalogService) CreateSubject(ctx context.Context, actor model.Principal, req model.SubjectRequest) (model.Subject, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Subject{}, err
	}
	name, err := required(req.Name, "name")
	if err != nil {
		return model.Subject{}, err
	}
	majorID, err := required(req.MajorID, "major_id")
	if err != nil {
		return model.Subject{}, err
	}

	now := s.now().UTC()
	subject := model.Subject{
		ID:          ids.New(),
		Name:        name,
		MajorID:     majorID,
		Description: stringOr(req.Description),
		Total:       valueOr(req.Total),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.catalog.CreateSubject(ctx, subject); err != nil {
		return model.Subject{}, err
	}
	return subject, nil
}

func (s *CatalogService) GetSubject(ctx context.Context, _ model.Principal, id string) (model.Subject, error) {
	return s.catalog.FindSubject(ctx, id)
}

func (s *CatalogService) UpdateSubject(ctx context.Context, actor model.Principal, id string, req model.SubjectRequest) (model.Subject, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Subject{}, err
	}
	return s.catalog.UpdateSubject(ctx, id, req)
}

func (s *CatalogService) DeleteSubject(ctx context.Context, actor model.Principal, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.catalog.DeleteSubject(ctx, id)
}

func (s *CatalogService) ListSubjects(ctx context.Context, _ model.Principal, f model.SubjectFilter) ([]model.Subject, int, error) {
	return s.catalog.ListSubjects(ctx, f)
}

// ── Classes ─────────────────────────────────────────────────

func (s *CatalogService) CreateClass(ctx context.Context, actor model.Principal, req model.ClassRequest) (model.Class, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Class{}, err
	}
	name, err := required(req.Name, "name")
	if err != nil {
		return model.Class{}, err
	}
	teacherID, err := required(req.TeacherID, "teacher_id")
	if err != nil {
		return model.Class{}, err
	}
	subjectID, err := required(req.SubjectID, "subject_id")
	if err != nil {
		return model.Class{}, err
	}

	now := s.now().UTC()
	c := model.Class{
		ID:          ids.New(),
		Name:        name,
		TeacherID:   teacherID,
		SubjectID:   subjectID,
		Description: stringOr(req.Description),
		Total:       valueOr(req.Total),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.catalog.CreateClass(ctx, c); err != nil {
		return model.Class{}, err
	}
	return c, nil
}

func (s *CatalogService) GetClass(ctx context.Context, _ model.Principal, id string) (model.Class, error) {
	return s.catalog.FindClass(ctx, id)
}

func (s *CatalogService) UpdateClass(ctx context.Context, actor model.Principal, id string, req model.ClassRequest) (model.Class, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Class{}, err
	}
	return s.catalog.UpdateClass(ctx, id, req)
}

func (s *CatalogService) DeleteClass(ctx context.Context, actor model.Principal, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.catalog.DeleteClass(ctx, id)
}

func (s *CatalogService) ListClasses(ctx context.Context, _ model.Principal, f model.ClassFilter) ([]model.Class, int, error) {
	return s.catalog.ListClasses(ctx, f)
}
