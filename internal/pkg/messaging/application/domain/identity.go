package messaging

// Role is the platform-wide role of a user account.
type Role string

const (
	RoleStudent     Role = "student"
	RoleTeacher     Role = "teacher"
	RoleParent      Role = "parent"
	RoleSchoolAdmin Role = "school_admin"
	RoleSuperAdmin  Role = "super_admin"
)

// Identity is the resolved view of a user account as the messaging core needs it.
// It is produced by the identity directory; this package never writes identities.
type Identity struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Email       string `db:"email"`
	Role        Role   `db:"role"`
	SchoolID    string `db:"school_id"`
	ClassroomID string `db:"classroom_id"`
}

// Classroom carries the subset of classroom data the tutor needs (grade level).
type Classroom struct {
	ID    string `db:"id"`
	Grade string `db:"grade"`
}
