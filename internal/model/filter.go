package model

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Each filter below maps its fields one-to-one onto named predicates in the
// matching repository. Zero values mean "no predicate".

type UserFilter struct {
	Email        string
	IsSuperAdmin *bool
	IsDisabled   *bool
	Page         Page
}

type StudentFilter struct {
	Code    string
	UserID  string
	MajorID string
	Page    Page
}

type TeacherFilter struct {
	Code    string
	UserID  string
	MajorID string
	Page    Page
}

type DepartmentFilter struct {
	Name string
	Page Page
}

type MajorFilter struct {
	Name         string
	DepartmentID string
	Page         Page
}

type SubjectFilter struct {
	Name    string
	MajorID string
	Page    Page
}

type ClassFilter struct {
	Name      string
	TeacherID string
	SubjectID string
	Page      Page
}

type PointFilter struct {
	ClassID   string
	StudentID string
	TeacherID string
	// VisibleTo narrows the result to points whose student or teacher is this user.
	// Empty means unrestricted and is only set that way for super admins.
	VisibleTo string
	Page      Page
}
