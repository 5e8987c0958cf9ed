package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campus/internal/database"
	"campus/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, gender, phone, dob, address,
	is_super_admin, is_disabled, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Gender,
		&u.Phone, &u.DOB, &u.Address, &u.IsSuperAdmin, &u.IsDisabled, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByEmail matches the address exactly as stored.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 AND deleted_at IS NULL`, strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, gender, phone, dob, address,
		                    is_super_admin, is_disabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Gender, u.Phone, u.DOB, u.Address,
		u.IsSuperAdmin, u.IsDisabled, u.CreatedAt, u.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	s := &setter{}
	setIf(s, "email", patch.Email)
	setIf(s, "first_name", patch.FirstName)
	setIf(s, "last_name", patch.LastName)
	setIf(s, "gender", patch.Gender)
	setIf(s, "phone", patch.Phone)
	setIf(s, "dob", patch.DOB)
	setIf(s, "address", patch.Address)
	setIf(s, "is_super_admin", patch.IsSuperAdmin)
	setIf(s, "is_disabled", patch.IsDisabled)
	if s.empty() {
		return r.FindByID(ctx, id)
	}
	s.set("updated_at", time.Now().UTC())

	sql, args := s.statement("users", id, userColumns)
	u, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if database.IsUniqueViolation(err) {
		return model.User{}, model.ErrUserAlreadyExists
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return updatePassword(ctx, r.pool, userID, passwordHash)
}

func updatePassword(ctx context.Context, db dbtx, userID string, passwordHash string) error {
	tag, err := db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		userID, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, f model.UserFilter) ([]model.User, int, error) {
	c := newConditions("deleted_at IS NULL")
	c.addIf(f.Email != "", "email = $%d", f.Email)
	if f.IsSuperAdmin != nil {
		c.add("is_super_admin = $%d", *f.IsSuperAdmin)
	}
	if f.IsDisabled != nil {
		c.add("is_disabled = $%d", *f.IsDisabled)
	}

	limit, args := c.paginate(f.Page)
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+`, count(*) OVER() FROM users`+c.where()+` ORDER BY created_at, id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	total := 0
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Gender,
			&u.Phone, &u.DOB, &u.Address, &u.IsSuperAdmin, &u.IsDisabled, &u.CreatedAt, &u.UpdatedAt,
			&total); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
