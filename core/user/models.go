package user

import (
	"time"
)

// Roles
type Role string

const (
	RoleAdminStaff     Role = "ADMIN_STAFF"
	RoleAcademicLeader Role = "ACADEMIC_LEADER"
	RoleLecturer       Role = "LECTURER"
	RoleStudent        Role = "STUDENT"
)

var (
	AllRoles = []Role{RoleAdminStaff, RoleAcademicLeader, RoleLecturer, RoleStudent}

	idPrefixes = map[Role]string{
		RoleAdminStaff:     "ADM",
		RoleAcademicLeader: "ACL",
		RoleLecturer:       "LEC",
		RoleStudent:        "STU",
	}
)

// IDPrefix returns the fixed 3-letter code scoping generated user IDs by role.
func (r Role) IDPrefix() string {
	return idPrefixes[r]
}

func (r Role) Valid() bool {
	_, ok := idPrefixes[r]
	return ok
}

func (r Role) IsStaff() bool {
	return r == RoleAdminStaff || r == RoleAcademicLeader || r == RoleLecturer
}

// StaffIDPrefix scopes generated staff numbers; shared by all staff roles.
const StaffIDPrefix = "SF"

// User is the closed set of account variants, tagged by Role. Staff roles
// carry Department/StaffID; lecturers additionally keep weak by-ID references
// to their academic leader and assigned modules; students carry the
// enrollment year (the student number is the user ID itself).
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"` // stored as-is; see DESIGN.md
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Gender     string    `json:"gender"`
	Age        int       `json:"age"`
	Role       Role      `json:"role"`
	IsActive   bool      `json:"is_active"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`

	// staff roles only
	Department string `json:"department,omitempty"`
	StaffID    string `json:"staff_id,omitempty"`

	// lecturers only
	AcademicLeaderID  string   `json:"academic_leader_id,omitempty"`
	AssignedModuleIDs []string `json:"assigned_module_ids,omitempty"`

	// students only
	EnrollmentYear int `json:"enrollment_year,omitempty"`
}

func (u *User) IsAdminStaff() bool     { return u.Role == RoleAdminStaff }
func (u *User) IsAcademicLeader() bool { return u.Role == RoleAcademicLeader }
func (u *User) IsLecturer() bool       { return u.Role == RoleLecturer }
func (u *User) IsStudent() bool        { return u.Role == RoleStudent }

// CanLogin reports whether the account clears both registration gates.
func (u *User) CanLogin() bool {
	return u.IsActive && u.IsApproved
}

// HasModule reports whether a lecturer is assigned the given module.
func (u *User) HasModule(moduleID string) bool {
	for _, id := range u.AssignedModuleIDs {
		if id == moduleID {
			return true
		}
	}
	return false
}
