package model

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=30"`
	LastName  string `json:"last_name" validate:"max=30"`
	Gender    string `json:"gender" validate:"max=10"`
	Phone     string `json:"phone" validate:"max=20"`
	DOB       string `json:"dob" validate:"max=30"`
	Address   string `json:"address" validate:"max=250"`
}

// CreateUserRequest is the admin variant of registration and may grant privileges.
type CreateUserRequest struct {
	RegisterRequest
	IsSuperAdmin bool `json:"is_super_admin"`
	IsDisabled   bool `json:"is_disabled"`
}

type UpdateUserRequest struct {
	Email        *string `json:"email" validate:"omitempty,email,max=100"`
	FirstName    *string `json:"first_name" validate:"omitempty,max=30"`
	LastName     *string `json:"last_name" validate:"omitempty,max=30"`
	Gender       *string `json:"gender" validate:"omitempty,max=10"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	DOB          *string `json:"dob" validate:"omitempty,max=30"`
	Address      *string `json:"address" validate:"omitempty,max=250"`
	IsSuperAdmin *bool   `json:"is_super_admin"`
	IsDisabled   *bool   `json:"is_disabled"`
}

func (r UpdateUserRequest) Patch() UserPatch {
	return UserPatch{
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Gender:       r.Gender,
		Phone:        r.Phone,
		DOB:          r.DOB,
		Address:      r.Address,
		IsSuperAdmin: r.IsSuperAdmin,
		IsDisabled:   r.IsDisabled,
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type DepartmentRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=30"`
	Description *string `json:"description" validate:"omitempty,max=250"`
	Total       *int    `json:"total" validate:"omitempty,min=0"`
}

type MajorRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=30"`
	DepartmentID *string `json:"department_id" validate:"omitempty,min=1"`
	Description  *string `json:"description" validate:"omitempty,max=250"`
	Total        *int    `json:"total" validate:"omitempty,min=0"`
}

type SubjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	MajorID     *string `json:"major_id" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Total       *int    `json:"total" validate:"omitempty,min=0"`
}

type ClassRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=30"`
	TeacherID   *string `json:"teacher_id" validate:"omitempty,min=1"`
	SubjectID   *string `json:"subject_id" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,max=250"`
	Total       *int    `json:"total" validate:"omitempty,min=0"`
}

type StudentRequest struct {
	Code    *string  `json:"code" validate:"omitempty,min=1,max=10"`
	UserID  *string  `json:"user_id" validate:"omitempty,min=1"`
	GPA     *float64 `json:"gpa" validate:"omitempty,min=0"`
	MajorID *string  `json:"major_id" validate:"omitempty,min=1"`
}

type TeacherRequest struct {
	Code    *string `json:"code" validate:"omitempty,min=1,max=10"`
	UserID  *string `json:"user_id" validate:"omitempty,min=1"`
	MajorID *string `json:"major_id" validate:"omitempty,min=1"`
}

type PointRequest struct {
	ClassID   *string `json:"class_id" validate:"omitempty,min=1"`
	StudentID *string `json:"student_id" validate:"omitempty,min=1"`
	TeacherID *string `json:"teacher_id" validate:"omitempty,min=1"`
	Diligence *int    `json:"diligence" validate:"omitempty,min=0,max=100"`
	Test      *int    `json:"test" validate:"omitempty,min=0,max=100"`
	Practice  *int    `json:"practice" validate:"omitempty,min=0,max=100"`
	Final     *int    `json:"final" validate:"omitempty,min=0,max=100"`
}

type ListData[T any] struct {
	Items []T `json:"items"`
}
