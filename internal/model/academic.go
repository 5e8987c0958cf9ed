package model

import "time"

type Department struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Total       int        `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

type Major struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	DepartmentID string     `json:"department_id"`
	Description  string     `json:"description,omitempty"`
	Total        int        `json:"total"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

type Subject struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	MajorID     string     `json:"major_id"`
	Description string     `json:"description,omitempty"`
	Total       int        `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

type Class struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	TeacherID   string     `json:"teacher_id"`
	SubjectID   string     `json:"subject_id"`
	Description string     `json:"description,omitempty"`
	Total       int        `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Student links a user account to a student record.
type Student struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	UserID    string     `json:"user_id"`
	GPA       *float64   `json:"gpa,omitempty"`
	MajorID   *string    `json:"major_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Teacher links a user account to a teacher record.
type Teacher struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	UserID    string     `json:"user_id"`
	MajorID   *string    `json:"major_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Point is a grade record for one student in one class, owned by a teacher.
type Point struct {
	ID        string     `json:"id"`
	ClassID   string     `json:"class_id"`
	StudentID string     `json:"student_id"`
	TeacherID string     `json:"teacher_id"`
	Diligence int        `json:"diligence"`
	Test      int        `json:"test"`
	Practice  int        `json:"practice"`
	Final     int        `json:"final"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// PointOwners resolves who may touch a point: the student's and the teacher's user accounts.
type PointOwners struct {
	StudentUserID string
	TeacherUserID string
}

func (o PointOwners) Includes(userID string) bool {
	return userID != "" && (o.StudentUserID == userID || o.TeacherUserID == userID)
}
