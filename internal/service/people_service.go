package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus/internal/ids"
	"campus/internal/model"
)

// PeopleService manages student and teacher records. Each is readable and
// editable by its linked user and by admins; the rest is admin-only.
type PeopleService struct {
	people PeopleStore
	users  UserStore
	now    func() time.Time
}

func NewPeopleService(people PeopleStore, users UserStore) *PeopleService {
	return &PeopleService{people: people, users: users, now: time.Now}
}

func (s *PeopleService) requireUser(ctx context.Context, userID string) error {
	_, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.InvalidInputError("user_id does not reference an existing user")
	}
	return err
}

func required(value *string, field string) (string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", model.InvalidInputError(field + " is required")
	}
	return strings.TrimSpace(*value), nil
}

// ── Students ────────────────────────────────────────────────

func (s *PeopleService) CreateStudent(ctx context.Context, actor model.Principal, req model.StudentRequest) (model.Student, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Student{}, err
	}

	code, err := required(req.Code, "code")
	if err != nil {
		return model.Student{}, err
	}
	userID, err := required(req.UserID, "user_id")
	if err != nil {
		return model.Student{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return model.Student{}, err
	}

	now := s.now().UTC()
	student := model.Student{
		ID:        ids.New(),
		Code:      code,
		UserID:    userID,
		GPA:       req.GPA,
		MajorID:   req.MajorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.people.CreateStudent(ctx, student); err != nil {
		return model.Student{}, err
	}
	return student, nil
}

func (s *PeopleService) GetStudent(ctx context.Context, actor model.Principal, id string) (model.Student, error) {
	student, err := s.people.FindStudent(ctx, id)
	if err != nil {
		return model.Student{}, err
	}
	if err := RequireSelfOrAdmin(actor, student.UserID); err != nil {
		return model.Student{}, err
	}
	return student, nil
}

func (s *PeopleService) UpdateStudent(ctx context.Context, actor model.Principal, id string, req model.StudentRequest) (model.Student, error) {
	student, err := s.people.FindStudent(ctx, id)
	if err != nil {
		return model.Student{}, err
	}
	if err := RequireSelfOrAdmin(actor, student.UserID); err != nil {
		return model.Student{}, err
	}
	if !actor.IsSuperAdmin && (req.Code != nil || req.UserID != nil || req.GPA != nil) {
		return model.Student{}, model.ForbiddenError("only administrators may change code, user_id or gpa")
	}
	if req.UserID != nil {
		if err := s.requireUser(ctx, *req.UserID); err != nil {
			return model.Student{}, err
		}
	}
	return s.people.UpdateStudent(ctx, id, req)
}

func (s *PeopleService) DeleteStudent(ctx context.Context, actor model.Principal, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.people.DeleteStudent(ctx, id)
}

func (s *PeopleService) ListStudents(ctx context.Context, actor model.Principal, f model.StudentFilter) ([]model.Student, int, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.people.ListStudents(ctx, f)
}

// ── Teachers ────────────────────────────────────────────────

func (s *PeopleService) CreateTeacher(ctx context.Context, actor model.Principal, req model.TeacherRequest) (model.Teacher, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.Teacher{}, err
	}

	code, err := required(req.Code, "code")
	if err != nil {
		return model.Teacher{}, err
	}
	userID, err := required(req.UserID, "user_id")
	if err != nil {
		return model.Teacher{}, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return model.Teacher{}, err
	}

	now := s.now().UTC()
	teacher := model.Teacher{
		ID:        ids.New(),
		Code:      code,
		UserID:    userID,
		MajorID:   req.MajorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.people.CreateTeacher(ctx, teacher); err != nil {
		return model.Teacher{}, err
	}
	return teacher, nil
}

func (s *PeopleService) GetTeacher(ctx context.Context, actor model.Principal, id string) (model.Teacher, error) {
	teacher, err := s.people.FindTeacher(ctx, id)
	if err != nil {
		return model.Teacher{}, err
	}
	if err := RequireSelfOrAdmin(actor, teacher.UserID); err != nil {
		return model.Teacher{}, err
	}
	return teacher, nil
}

func (s *PeopleService) UpdateTeacher(ctx context.Context, actor model.Principal, id string, req model.TeacherRequest) (model.Teacher, error) {
	teacher, err := s.people.FindTeacher(ctx, id)
	if err != nil {
		return model.Teacher{}, err
	}
	if err := RequireSelfOrAdmin(actor, teacher.UserID); err != nil {
		return model.Teacher{}, err
	}
	if !actor.IsSuperAdmin && (req.Code != nil || req.UserID != nil) {
		return model.Teacher{}, model.ForbiddenError("only administrators may change code or user_id")
	}
	if req.UserID != nil {
		if err := s.requireUser(ctx, *req.UserID); err != nil {
			return model.Teacher{}, err
		}
	}
	return s.people.UpdateTeacher(ctx, id, req)
}

func (s *PeopleService) DeleteTeacher(ctx context.Context, actor model.Principal, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	return s.people.DeleteTeacher(ctx, id)
}

func (s *PeopleService) ListTeachers(ctx context.Context, actor model.Principal, f model.TeacherFilter) ([]model.Teacher, int, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.people.ListTeachers(ctx, f)
}
