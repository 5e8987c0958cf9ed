package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"campus/internal/model"
)

// fakeClock is shared by the codec and the services so tests can move time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]model.User
}

func newMemUsers(users ...model.User) *memUsers {
	m := &memUsers{byID: map[string]model.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) FindByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email && u.DeletedAt == nil {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email && existing.DeletedAt == nil {
			return model.ErrUserAlreadyExists
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) Update(_ context.Context, id string, p model.UserPatch) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, model.ErrUserNotFound
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&u.Email, p.Email)
	apply(&u.FirstName, p.FirstName)
	apply(&u.LastName, p.LastName)
	apply(&u.Gender, p.Gender)
	apply(&u.Phone, p.Phone)
	apply(&u.DOB, p.DOB)
	apply(&u.Address, p.Address)
	if p.IsSuperAdmin != nil {
		u.IsSuperAdmin = *p.IsSuperAdmin
	}
	if p.IsDisabled != nil {
		u.IsDisabled = *p.IsDisabled
	}
	m.byID[id] = u
	return u, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, userID string, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok || u.DeletedAt != nil {
		return model.ErrUserNotFound
	}
	u.PasswordHash = hash
	m.byID[userID] = u
	return nil
}

func (m *memUsers) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.DeletedAt != nil {
		return model.ErrUserNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	m.byID[id] = u
	return nil
}

func (m *memUsers) List(_ context.Context, _ model.UserFilter) ([]model.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		if u.DeletedAt == nil {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, len(out), nil
}

// memTokens mirrors the DELETE ... RETURNING semantics of the SQL store.
type memTokens struct {
	mu    sync.Mutex
	rows  map[string]model.OneTimeToken
	users *memUsers
}

func newMemTokens(users *memUsers) *memTokens {
	return &memTokens{rows: map[string]model.OneTimeToken{}, users: users}
}

func (m *memTokens) Store(_ context.Context, t model.OneTimeToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[t.TokenHash] = t
	return nil
}

func (m *memTokens) consumeLocked(purpose string, hash string, userID string, now time.Time) (model.OneTimeToken, error) {
	t, ok := m.rows[hash]
	if !ok || t.Purpose != purpose || (userID != "" && t.UserID != userID) {
		return model.OneTimeToken{}, model.ErrTokenNotFound
	}
	delete(m.rows, hash)
	if !now.Before(t.ExpiresAt) {
		return model.OneTimeToken{}, model.ErrTokenExpired
	}
	return t, nil
}

func (m *memTokens) Consume(_ context.Context, purpose string, hash string, now time.Time) (model.OneTimeToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.consumeLocked(purpose, hash, "", now)
}

func (m *memTokens) ResetPassword(ctx context.Context, userID string, hash string, passwordHash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.consumeLocked(model.PurposePasswordReset, hash, userID, now); err != nil {
		return err
	}
	return m.users.UpdatePassword(ctx, userID, passwordHash)
}

func (m *memTokens) CleanExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, t := range m.rows {
		if !now.Before(t.ExpiresAt) {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}

func (m *memTokens) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyPasswordReset(ctx context.Context, user model.User, token string, expiresAt time.Time) error {
	args := m.Called(ctx, user, token, expiresAt)
	return args.Error(0)
}

type mockObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *mockObserver) AuthOutcome(operation string, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, operation+":"+outcome)
}

// MockPeopleStore and MockPointStore back the ownership tests.
type MockPeopleStore struct {
	mock.Mock
}

func (m *MockPeopleStore) CreateStudent(ctx context.Context, s model.Student) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockPeopleStore) FindStudent(ctx context.Context, id string) (model.Student, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Student), args.Error(1)
}

func (m *MockPeopleStore) UpdateStudent(ctx context.Context, id string, req model.StudentRequest) (model.Student, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(model.Student), args.Error(1)
}

func (m *MockPeopleStore) DeleteStudent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPeopleStore) ListStudents(ctx context.Context, f model.StudentFilter) ([]model.Student, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Student), args.Int(1), args.Error(2)
}

func (m *MockPeopleStore) CreateTeacher(ctx context.Context, t model.Teacher) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockPeopleStore) FindTeacher(ctx context.Context, id string) (model.Teacher, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Teacher), args.Error(1)
}

func (m *MockPeopleStore) UpdateTeacher(ctx context.Context, id string, req model.TeacherRequest) (model.Teacher, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(model.Teacher), args.Error(1)
}

func (m *MockPeopleStore) DeleteTeacher(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPeopleStore) ListTeachers(ctx context.Context, f model.TeacherFilter) ([]model.Teacher, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Teacher), args.Int(1), args.Error(2)
}

type MockPointStore struct {
	mock.Mock
}

func (m *MockPointStore) Create(ctx context.Context, p model.Point) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPointStore) FindWithOwners(ctx context.Context, id string) (model.Point, model.PointOwners, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Point), args.Get(1).(model.PointOwners), args.Error(2)
}

func (m *MockPointStore) Update(ctx context.Context, id string, req model.PointRequest) (model.Point, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(model.Point), args.Error(1)
}

func (m *MockPointStore) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPointStore) List(ctx context.Context, f model.PointFilter) ([]model.Point, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Point), args.Int(1), args.Error(2)
}
