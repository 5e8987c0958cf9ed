package service

import (
	"context"
	"errors"
	"time"

	"campus/internal/ids"
	"campus/internal/model"
)

// PointService guards grade records. A point belongs to the user behind its
// student and the user behind its teacher; super admins see everything.
type PointService struct {
	points PointStore
	people PeopleStore
	now    func() time.Time
}

func NewPointService(points PointStore, people PeopleStore) *PointService {
	return &PointService{points: points, people: people, now: time.Now}
}

func requireOwner(actor model.Principal, owners model.PointOwners) error {
	if actor.IsSuperAdmin || owners.Includes(actor.ID) {
		return nil
	}
	return model.ForbiddenError("not allowed to access this point")
}

// requireTeacherSelf passes when teacherID names a teacher record linked to the actor.
func (s *PointService) requireTeacherSelf(ctx context.Context, actor model.Principal, teacherID string) error {
	if actor.IsSuperAdmin {
		return nil
	}
	teacher, err := s.people.FindTeacher(ctx, teacherID)
	if errors.Is(err, model.ErrNotFound) {
		return model.InvalidInputError("teacher_id does not reference an existing teacher")
	}
	if err != nil {
		return err
	}
	if teacher.UserID != actor.ID {
		return model.ForbiddenError("points can only be recorded by their teacher")
	}
	return nil
}

func (s *PointService) Create(ctx context.Context, actor model.Principal, req model.PointRequest) (model.Point, error) {
	classID, err := required(req.ClassID, "class_id")
	if err != nil {
		return model.Point{}, err
	}
	studentID, err := required(req.StudentID, "student_id")
	if err != nil {
		return model.Point{}, err
	}
	teacherID, err := required(req.TeacherID, "teacher_id")
	if err != nil {
		return model.Point{}, err
	}
	if err := s.requireTeacherSelf(ctx, actor, teacherID); err != nil {
		return model.Point{}, err
	}

	now := s.now().UTC()
	p := model.Point{
		ID:        ids.New(),
		ClassID:   classID,
		StudentID: studentID,
		TeacherID: teacherID,
		Diligence: valueOr(req.Diligence),
		Test:      valueOr(req.Test),
		Practice:  valueOr(req.Practice),
		Final:     valueOr(req.Final),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.points.Create(ctx, p); err != nil {
		return model.Point{}, err
	}
	return p, nil
}

func (s *PointService) Get(ctx context.Context, actor model.Principal, id string) (model.Point, error) {
	p, owners, err := s.points.FindWithOwners(ctx, id)
	if err != nil {
		return model.Point{}, err
	}
	if err := requireOwner(actor, owners); err != nil {
		return model.Point{}, err
	}
	return p, nil
}

func (s *PointService) Update(ctx context.Context, actor model.Principal, id string, req model.PointRequest) (model.Point, error) {
	_, owners, err := s.points.FindWithOwners(ctx, id)
	if err != nil {
		return model.Point{}, err
	}
	if err := requireOwner(actor, owners); err != nil {
		return model.Point{}, err
	}
	if !actor.IsSuperAdmin && (req.StudentID != nil || req.ClassID != nil) {
		return model.Point{}, model.ForbiddenError("only administrators may move a point to another class or student")
	}
	if req.TeacherID != nil {
		if err := s.requireTeacherSelf(ctx, actor, *req.TeacherID); err != nil {
			return model.Point{}, err
		}
	}
	return s.points.Update(ctx, id, req)
}

func (s *PointService) Delete(ctx context.Context, actor model.Principal, id string) error {
	_, owners, err := s.points.FindWithOwners(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, owners); err != nil {
		return err
	}
	return s.points.SoftDelete(ctx, id)
}

// List narrows non-admin callers to the points they own.
func (s *PointService) List(ctx context.Context, actor model.Principal, f model.PointFilter) ([]model.Point, int, error) {
	f.VisibleTo = ""
	if !actor.IsSuperAdmin {
		f.VisibleTo = actor.ID
	}
	return s.points.List(ctx, f)
}

func valueOr(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
