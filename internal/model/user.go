package model

import "time"

// User is the persisted principal. PasswordHash never leaves the process in responses.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Gender       string     `json:"gender,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	DOB          string     `json:"dob,omitempty"`
	Address      string     `json:"address,omitempty"`
	IsSuperAdmin bool       `json:"is_super_admin"`
	IsDisabled   bool       `json:"is_disabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Principal is the identity attached to a request once its bearer token resolved.
type Principal struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	IsSuperAdmin bool   `json:"is_super_admin"`
	IsDisabled   bool   `json:"is_disabled"`
}

func (u User) Principal() Principal {
	return Principal{
		ID:           u.ID,
		Email:        u.Email,
		IsSuperAdmin: u.IsSuperAdmin,
		IsDisabled:   u.IsDisabled,
	}
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Session is what a successful login, refresh or code exchange hands back.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

const (
	PurposePasswordReset     = "password_reset"
	PurposeAuthorizationCode = "authorization_code"
)

// OneTimeToken is a persisted, single-use secret. Only the hash of the raw value is stored.
type OneTimeToken struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthorizationCode struct {
	Code      string `json:"code"`
	ExpiresIn int64  `json:"expires_in"`
}

// UserPatch carries optional updates; nil fields are left unchanged.
type UserPatch struct {
	Email        *string
	FirstName    *string
	LastName     *string
	Gender       *string
	Phone        *string
	DOB          *string
	Address      *string
	IsSuperAdmin *bool
	IsDisabled   *bool
}

func (p UserPatch) TouchesPrivileges() bool {
	return p.IsSuperAdmin != nil || p.IsDisabled != nil
}
