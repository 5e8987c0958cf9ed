package handler

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"campus/internal/model"
)

type memStore struct {
	mu     sync.Mutex
	users  map[string]model.User
	tokens map[string]model.OneTimeToken
}

func newMemStore(users ...model.User) *memStore {
	s := &memStore{users: map[string]model.User{}, tokens: map[string]model.OneTimeToken{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memStore) Create(ctx context.Context, u model.User) error {
	if _, err := s.FindByEmail(ctx, u.Email); err == nil {
		return model.ErrUserAlreadyExists
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *memStore) Update(_ context.Context, id string, p model.UserPatch) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.IsSuperAdmin != nil {
		u.IsSuperAdmin = *p.IsSuperAdmin
	}
	s.users[id] = u
	return u, nil
}

func (s *memStore) UpdatePassword(_ context.Context, userID string, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = hash
	s.users[userID] = u
	return nil
}

func (s *memStore) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) List(_ context.Context, _ model.UserFilter) ([]model.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (s *memStore) Store(_ context.Context, t model.OneTimeToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.TokenHash] = t
	return nil
}

func (s *memStore) Consume(_ context.Context, purpose string, hash string, now time.Time) (model.OneTimeToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[hash]
	if !ok || t.Purpose != purpose {
		return model.OneTimeToken{}, model.ErrTokenNotFound
	}
	delete(s.tokens, hash)
	if !now.Before(t.ExpiresAt) {
		return model.OneTimeToken{}, model.ErrTokenExpired
	}
	return t, nil
}

func (s *memStore) ResetPassword(ctx context.Context, userID string, hash string, passwordHash string, now time.Time) error {
	t, err := s.Consume(ctx, model.PurposePasswordReset, hash, now)
	if err != nil {
		return err
	}
	if t.UserID != userID {
		return model.ErrTokenNotFound
	}
	return s.UpdatePassword(ctx, userID, passwordHash)
}

func (s *memStore) CleanExpired(context.Context, time.Time) (int64, error) { return 0, nil }

type capturedReset struct {
	mu    sync.Mutex
	token string
}

func (c *capturedReset) NotifyPasswordReset(_ context.Context, _ model.User, token string, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	return nil
}

func (c *capturedReset) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

type mockPointService struct {
	mock.Mock
}

func (m *mockPointService) Create(ctx context.Context, actor model.Principal, req model.PointRequest) (model.Point, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(model.Point), args.Error(1)
}

func (m *mockPointService) Get(ctx context.Context, actor model.Principal, id string) (model.Point, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(model.Point), args.Error(1)
}

func (m *mockPointService) Update(ctx context.Context, actor model.Principal, id string, req model.PointRequest) (model.Point, error) {
	args := m.Called(ctx, actor, id, req)
	return args.Get(0).(model.Point), args.Error(1)
}

func (m *mockPointService) Delete(ctx context.Context, actor model.Principal, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockPointService) List(ctx context.Context, actor model.Principal, f model.PointFilter) ([]model.Point, int, error) {
	args := m.Called(ctx, actor, f)
	return args.Get(0).([]model.Point), args.Int(1), args.Error(2)
}
