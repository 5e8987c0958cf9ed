package service

import (
	"context"
	"time"

	"campus/internal/model"
)

// The interfaces below are the persistence contract the services consume.
// The repository package implements them on PostgreSQL.

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, f model.UserFilter) ([]model.User, int, error)
}

type TokenStore interface {
	Store(ctx context.Context, t model.OneTimeToken) error
	// now is the caller's clock; expiry is judged against it.
	Consume(ctx context.Context, purpose string, tokenHash string, now time.Time) (model.OneTimeToken, error)
	ResetPassword(ctx context.Context, userID string, tokenHash string, passwordHash string, now time.Time) error
	CleanExpired(ctx context.Context, now time.Time) (int64, error)
}

type PeopleStore interface {
	CreateStudent(ctx context.Context, s model.Student) error
	FindStudent(ctx context.Context, id string) (model.Student, error)
	UpdateStudent(ctx context.Context, id string, req model.StudentRequest) (model.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	ListStudents(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error)

	CreateTeacher(ctx context.Context, t model.Teacher) error
	FindTeacher(ctx context.Context, id string) (model.Teacher, error)
	UpdateTeacher(ctx context.Context, id string, req model.TeacherRequest) (model.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	ListTeachers(ctx context.Context, f model.TeacherFilter) ([]model.Teacher, int, error)
}

type CatalogStore interface {
	CreateDepartment(ctx context.Context, d model.Department) error
	FindDepartment(ctx context.Context, id string) (model.Department, error)
	UpdateDepartment(ctx context.Context, id string, req model.DepartmentRequest) (model.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	ListDepartments(ctx context.Context, f model.DepartmentFilter) ([]model.Department, int, error)

	CreateMajor(ctx context.Context, m model.Major) error
	FindMajor(ctx context.Context, id string) (model.Major, error)
	UpdateMajor(ctx context.Context, id string, req model.MajorRequest) (model.Major, error)
	DeleteMajor(ctx context.Context, id string) error
	ListMajors(ctx context.Context, f model.MajorFilter) ([]model.Major, int, error)

	CreateSubject(ctx context.Context, s model.Subject) error
	FindSubject(ctx context.Context, id string) (model.Subject, error)
	UpdateSubject(ctx context.Context, id string, req model.SubjectRequest) (model.Subject, error)
	DeleteSubject(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, f model.SubjectFilter) ([]model.Subject, int, error)

	CreateClass(ctx context.Context, c model.Class) error
	FindClass(ctx context.Context, id string) (model.Class, error)
	UpdateClass(ctx context.Context, id string, req model.ClassRequest) (model.Class, error)
	DeleteClass(ctx context.Context, id string) error
	ListClasses(ctx context.Context, f model.ClassFilter) ([]model.Class, int, error)
}

type PointStore interface {
	Create(ctx context.Context, p model.Point) error
	FindWithOwners(ctx context.Context, id string) (model.Point, model.PointOwners, error)
	Update(ctx context.Context, id string, req model.PointRequest) (model.Point, error)
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, f model.PointFilter) ([]model.Point, int, error)
}

// AuthObserver receives one call per authentication or authorization decision.
type AuthObserver interface {
	AuthOutcome(operation string, outcome string)
}

type nopObserver struct{}

func (nopObserver) AuthOutcome(string, string) {}
