package service

import (
	"context"
	"errors"
	"time"

	"campus/internal/model"
	"campus/internal/security"
)

type UserService struct {
	users  UserStore
	hasher security.PasswordHasher
	now    func() time.Time
}

func NewUserService(users UserStore, hasher security.PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher, now: time.Now}
}

func (s *UserService) load(ctx context.Context, id string) (model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, model.NotFoundError("user")
	}
	return u, err
}

func (s *UserService) Get(ctx context.Context, actor model.Principal, id string) (model.User, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if err := RequireSelfOrAdmin(actor, u.ID); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, actor model.Principal, f model.UserFilter) ([]model.User, int, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, f)
}

func (s *UserService) Create(ctx context.Context, actor model.Principal, req model.CreateUserRequest) (model.User, error) {
	if err := RequireAdmin(actor); err != nil {
		return model.User{}, err
	}

	u, err := newUser(s.hasher, req.RegisterRequest, s.now())
	if err != nil {
		return model.User{}, err
	}
	u.IsSuperAdmin = req.IsSuperAdmin
	u.IsDisabled = req.IsDisabled

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.User{}, emailTaken()
		}
		return model.User{}, err
	}
	return u, nil
}

// Update lets users edit their own profile; only admins may touch privilege flags.
func (s *UserService) Update(ctx context.Context, actor model.Principal, id string, patch model.UserPatch) (model.User, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if err := RequireSelfOrAdmin(actor, u.ID); err != nil {
		return model.User{}, err
	}
	if patch.TouchesPrivileges() && !actor.IsSuperAdmin {
		return model.User{}, model.ForbiddenError("only administrators may change privileges")
	}

	updated, err := s.users.Update(ctx, id, patch)
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return model.User{}, model.NotFoundError("user")
	case errors.Is(err, model.ErrUserAlreadyExists):
		return model.User{}, emailTaken()
	case err != nil:
		return model.User{}, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor model.Principal, id string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.NotFoundError("user")
		}
		return err
	}
	return nil
}
