package handler

import (
	"context"
	"net/http"

	"campus/internal/model"
)

// ResourceHandler serves the five CRUD routes of one academic record type.
// T is the record, R its create/update body and F its list filter.
type ResourceHandler[T any, R any, F any] struct {
	create func(context.Context, model.Principal, R) (T, error)
	get    func(context.Context, model.Principal, string) (T, error)
	update func(context.Context, model.Principal, string, R) (T, error)
	remove func(context.Context, model.Principal, string) error
	list   func(context.Context, model.Principal, F) ([]T, int, error)

	filterKeys []string
	filter     func(listQuery) F
}

func (h *ResourceHandler[T, R, F]) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	q, err := parseListQuery(r, h.filterKeys...)
	if err != nil {
		writeError(w, err)
		return
	}

	items, total, err := h.list(r.Context(), p, h.filter(q))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ListData[T]{Items: items}, model.NewMeta(q.page, total))
}

func (h *ResourceHandler[T, R, F]) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var payload R
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.create(r.Context(), p, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, created, nil)
}

func (h *ResourceHandler[T, R, F]) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.get(r.Context(), p, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, item, nil)
}

func (h *ResourceHandler[T, R, F]) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload R
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.update(r.Context(), p, id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, updated, nil)
}

func (h *ResourceHandler[T, R, F]) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.remove(r.Context(), p, id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

// ── Constructors ────────────────────────────────────────────

type (
	StudentHandler    = ResourceHandler[model.Student, model.StudentRequest, model.StudentFilter]
	TeacherHandler    = ResourceHandler[model.Teacher, model.TeacherRequest, model.TeacherFilter]
	DepartmentHandler = ResourceHandler[model.Department, model.DepartmentRequest, model.DepartmentFilter]
	MajorHandler      = ResourceHandler[model.Major, model.MajorRequest, model.MajorFilter]
	SubjectHandler    = ResourceHandler[model.Subject, model.SubjectRequest, model.SubjectFilter]
	ClassHandler      = ResourceHandler[model.Class, model.ClassRequest, model.ClassFilter]
	PointHandler      = ResourceHandler[model.Point, model.PointRequest, model.PointFilter]
)

type peopleService interface {
	CreateStudent(ctx context.Context, actor model.Principal, req model.StudentRequest) (model.Student, error)
	GetStudent(ctx context.Context, actor model.Principal, id string) (model.Student, error)
	UpdateStudent(ctx context.Context, actor model.Principal, id string, req model.StudentRequest) (model.Student, error)
	DeleteStudent(ctx context.Context, actor model.Principal, id string) error
	ListStudents(ctx context.Context, actor model.Principal, f model.StudentFilter) ([]model.Student, int, error)

	CreateTeacher(ctx context.Context, actor model.Principal, req model.TeacherRequest) (model.Teacher, error)
	GetTeacher(ctx context.Context, actor model.Principal, id string) (model.Teacher, error)
	UpdateTeacher(ctx context.Context, actor model.Principal, id string, req model.TeacherRequest) (model.Teacher, error)
	DeleteTeacher(ctx context.Context, actor model.Principal, id string) error
	ListTeachers(ctx context.Context, actor model.Principal, f model.TeacherFilter) ([]model.Teacher, int, error)
}

func NewStudentHandler(svc peopleService) *StudentHandler {
	return &StudentHandler{
		create:     svc.CreateStudent,
		get:        svc.GetStudent,
		update:     svc.UpdateStudent,
		remove:     svc.DeleteStudent,
		list:       svc.ListStudents,
		filterKeys: []string{"code", "user_id", "major_id"},
		filter: func(q listQuery) model.StudentFilter {
			return model.StudentFilter{Code: q.get("code"), UserID: q.get("user_id"), MajorID: q.get("major_id"), Page: q.page}
		},
	}
}

func NewTeacherHandler(svc peopleService) *TeacherHandler {
	return &TeacherHandler{
		create:     svc.CreateTeacher,
		get:        svc.GetTeacher,
		update:     svc.UpdateTeacher,
		remove:     svc.DeleteTeacher,
		list:       svc.ListTeachers,
		filterKeys: []string{"code", "user_id", "major_id"},
		filter: func(q listQuery) model.TeacherFilter {
			return model.TeacherFilter{Code: q.get("code"), UserID: q.get("user_id"), MajorID: q.get("major_id"), Page: q.page}
		},
	}
}

type catalogService interface {
	CreateDepartment(ctx context.Context, actor model.Principal, req model.DepartmentRequest) (model.Department, error)
	GetDepartment(ctx context.Context, actor model.Principal, id string) (model.Department, error)
	UpdateDepartment(ctx context.Context, actor model.Principal, id string, req model.DepartmentRequest) (model.Department, error)
	DeleteDepartment(ctx context.Context, actor model.Principal, id string) error
	ListDepartments(ctx context.Context, actor model.Principal, f model.DepartmentFilter) ([]model.Department, int, error)

	CreateMajor(ctx context.Context, actor model.Principal, req model.MajorRequest) (model.Major, error)
	GetMajor(ctx context.Context, actor model.Principal, id string) (model.Major, error)
	UpdateMajor(ctx context.Context, actor model.Principal, id string, req model.MajorRequest) (model.Major, error)
	DeleteMajor(ctx context.Context, actor model.Principal, id string) error
	ListMajors(ctx context.Context, actor model.Principal, f model.MajorFilter) ([]model.Major, int, error)

	CreateSubject(ctx context.Context, actor model.Principal, req model.SubjectRequest) (model.Subject, error)
	GetSubject(ctx context.Context, actor model.Principal, id string) (model.Subject, error)
	UpdateSubject(ctx context.Context, actor model.Principal, id string, req model.SubjectRequest) (model.Subject, error)
	DeleteSubject(ctx context.Context, actor model.Principal, id string) error
	ListSubjects(ctx context.Context, actor model.Principal, f model.SubjectFilter) ([]model.Subject, int, error)

	CreateClass(ctx context.Context, actor model.Principal, req model.ClassRequest) (model.Class, error)
	GetClass(ctx context.Context, actor model.Principal, id string) (model.Class, error)
	UpdateClass(ctx context.Context, actor model.Principal, id string, req model.ClassRequest) (model.Class, error)
	DeleteClass(ctx context.Context, actor model.Principal, id string) error
	ListClasses(ctx context.Context, actor model.Principal, f model.ClassFilter) ([]model.Class, int, error)
}

func NewDepartmentHandler(svc catalogService) *DepartmentHandler {
	return &DepartmentHandler{
		create:     svc.CreateDepartment,
		get:        svc.GetDepartment,
		update:     svc.UpdateDepartment,
		remove:     svc.DeleteDepartment,
		list:       svc.ListDepartments,
		filterKeys: []string{"name"},
		filter: func(q listQuery) model.DepartmentFilter {
			return model.DepartmentFilter{Name: q.get("name"), Page: q.page}
		},
	}
}

func NewMajorHandler(svc catalogService) *MajorHandler {
	return &MajorHandler{
		create:     svc.CreateMajor,
		get:        svc.GetMajor,
		update:     svc.UpdateMajor,
		remove:     svc.DeleteMajor,
		list:       svc.ListMajors,
		filterKeys: []string{"name", "department_id"},
		filter: func(q listQuery) model.MajorFilter {
			return model.MajorFilter{Name: q.get("name"), DepartmentID: q.get("department_id"), Page: q.page}
		},
	}
}

func NewSubjectHandler(svc catalogService) *SubjectHandler {
	return &SubjectHandler{
		create:     svc.CreateSubject,
		get:        svc.GetSubject,
		update:     svc.UpdateSubject,
		remove:     svc.DeleteSubject,
		list:       svc.ListSubjects,
		filterKeys: []string{"name", "major_id"},
		filter: func(q listQuery) model.SubjectFilter {
			return model.SubjectFilter{Name: q.get("name"), MajorID: q.get("major_id"), Page: q.page}
		},
	}
}

func NewClassHandler(svc catalogService) *ClassHandler {
	return &ClassHandler{
		create:     svc.CreateClass,
		get:        svc.GetClass,
		update:     svc.UpdateClass,
		remove:     svc.DeleteClass,
		list:       svc.ListClasses,
		filterKeys: []string{"name", "teacher_id", "subject_id"},
		filter: func(q listQuery) model.ClassFilter {
			return model.ClassFilter{Name: q.get("name"), TeacherID: q.get("teacher_id"), SubjectID: q.get("subject_id"), Page: q.page}
		},
	}
}

type pointService interface {
	Create(ctx context.Context, actor model.Principal, req model.PointRequest) (model.Point, error)
	Get(ctx context.Context, actor model.Principal, id string) (model.Point, error)
	Update(ctx context.Context, actor model.Principal, id string, req model.PointRequest) (model.Point, error)
	Delete(ctx context.Context, actor model.Principal, id string) error
	List(ctx context.Context, actor model.Principal, f model.PointFilter) ([]model.Point, int, error)
}

// NewPointHandler does not accept a visibility key; the service narrows lists itself.
func NewPointHandler(svc pointService) *PointHandler {
	return &PointHandler{
		create:     svc.Create,
		get:        svc.Get,
		update:     svc.Update,
		remove:     svc.Delete,
		list:       svc.List,
		filterKeys: []string{"class_id", "student_id", "teacher_id"},
		filter: func(q listQuery) model.PointFilter {
			return model.PointFilter{ClassID: q.get("class_id"), StudentID: q.get("student_id"), TeacherID: q.get("teacher_id"), Page: q.page}
		},
	}
}
