package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campus/internal/model"
	"campus/internal/security"
)

func newUserFixture() (*UserService, *memUsers) {
	users := newMemUsers(
		model.User{ID: studentS.ID, Email: "s@x.io"},
		model.User{ID: studentS2.ID, Email: "s2@x.io"},
		model.User{ID: admin.ID, Email: "admin@x.io", IsSuperAdmin: true},
	)
	return NewUserService(users, security.NewBcryptHasher(bcrypt.MinCost)), users
}

func TestUserService_GetSelfOrAdmin(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	u, err := svc.Get(ctx, studentS, studentS.ID)
	require.NoError(t, err)
	assert.Equal(t, "s@x.io", u.Email)

	_, err = svc.Get(ctx, studentS2, studentS.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = svc.Get(ctx, admin, studentS.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, studentS2, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserService_PrivilegeEscalationBlocked(t *testing.T) {
	svc, users := newUserFixture()
	ctx := context.Background()
	yes := true

	_, err := svc.Update(ctx, studentS, studentS.ID, model.UserPatch{IsSuperAdmin: &yes})
	assert.ErrorIs(t, err, model.ErrForbidden)

	stored, err := users.FindByID(ctx, studentS.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSuperAdmin)

	name := "Sam"
	updated, err := svc.Update(ctx, studentS, studentS.ID, model.UserPatch{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.FirstName)

	promoted, err := svc.Update(ctx, admin, studentS.ID, model.UserPatch{IsSuperAdmin: &yes})
	require.NoError(t, err)
	assert.True(t, promoted.IsSuperAdmin)
}

func TestUserService_AdminOnlyOperations(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	_, _, err := svc.List(ctx, studentS, model.UserFilter{})
	assert.ErrorIs(t, err, model.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, studentS, studentS2.ID), model.ErrForbidden)

	_, err = svc.Create(ctx, studentS, model.CreateUserRequest{RegisterRequest: model.RegisterRequest{Email: "n@x.io", Password: "password1"}})
	assert.ErrorIs(t, err, model.ErrForbidden)

	created, err := svc.Create(ctx, admin, model.CreateUserRequest{
		RegisterRequest: model.RegisterRequest{Email: "n@x.io", Password: "password1"},
		IsSuperAdmin:    true,
	})
	require.NoError(t, err)
	assert.True(t, created.IsSuperAdmin)

	list, total, err := svc.List(ctx, admin, model.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, list, 4)

	require.NoError(t, svc.Delete(ctx, admin, studentS2.ID))
	_, err = svc.Get(ctx, admin, studentS2.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, admin, studentS2.ID), model.ErrNotFound)
}

func TestPeopleService_StudentOwnership(t *testing.T) {
	ctx := context.Background()
	student := model.Student{ID: "stu-s", Code: "S001", UserID: studentS.ID}

	people := new(MockPeopleStore)
	people.On("FindStudent", mock.Anything, "stu-s").Return(student, nil)
	people.On("FindStudent", mock.Anything, "missing").Return(model.Student{}, model.NotFoundError("student"))
	svc := NewPeopleService(people, newMemUsers())

	got, err := svc.GetStudent(ctx, studentS, "stu-s")
	require.NoError(t, err)
	assert.Equal(t, "S001", got.Code)

	_, err = svc.GetStudent(ctx, studentS2, "stu-s")
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = svc.GetStudent(ctx, studentS2, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	gpa := 4.0
	_, err = svc.UpdateStudent(ctx, studentS, "stu-s", model.StudentRequest{GPA: &gpa})
	assert.ErrorIs(t, err, model.ErrForbidden, "students cannot grade themselves")

	_, _, err = svc.ListStudents(ctx, studentS, model.StudentFilter{})
	assert.ErrorIs(t, err, model.ErrForbidden)

	people.AssertNotCalled(t, "UpdateStudent", mock.Anything, mock.Anything, mock.Anything)
}

func TestPeopleService_CreateTeacherRequiresExistingUser(t *testing.T) {
	ctx := context.Background()
	people := new(MockPeopleStore)
	people.On("CreateTeacher", mock.Anything, mock.MatchedBy(func(t model.Teacher) bool {
		return t.UserID == teacherT.ID && t.Code == "T01"
	})).Return(nil).Once()
	svc := NewPeopleService(people, newMemUsers(model.User{ID: teacherT.ID, Email: "t@x.io"}))

	code, ghost, real := "T01", "ghost", teacherT.ID

	_, err := svc.CreateTeacher(ctx, admin, model.TeacherRequest{Code: &code, UserID: &ghost})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.CreateTeacher(ctx, teacherT, model.TeacherRequest{Code: &code, UserID: &real})
	assert.ErrorIs(t, err, model.ErrForbidden)

	created, err := svc.CreateTeacher(ctx, admin, model.TeacherRequest{Code: &code, UserID: &real})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	people.AssertExpectations(t)
}

func TestGuard(t *testing.T) {
	assert.ErrorIs(t, RequireAuthenticated(model.Principal{}), model.ErrUnauthorized)
	assert.ErrorIs(t, RequireAuthenticated(model.Principal{ID: "x", IsDisabled: true}), model.ErrAccountDisabled)
	assert.NoError(t, RequireAuthenticated(studentS))

	assert.ErrorIs(t, RequireAdmin(studentS), model.ErrForbidden)
	assert.NoError(t, RequireAdmin(admin))

	assert.NoError(t, RequireSelfOrAdmin(studentS, studentS.ID))
	assert.NoError(t, RequireSelfOrAdmin(admin, studentS.ID))
	assert.ErrorIs(t, RequireSelfOrAdmin(studentS2, studentS.ID), model.ErrForbidden)
	assert.ErrorIs(t, RequireSelfOrAdmin(model.Principal{}, ""), model.ErrForbidden)

	// the checks compose over the same principal value
	for _, check := range []func(model.Principal) error{
		RequireAuthenticated,
		RequireAdmin,
		func(p model.Principal) error { return RequireSelfOrAdmin(p, studentS.ID) },
	} {
		assert.NoError(t, check(admin))
	}
}
