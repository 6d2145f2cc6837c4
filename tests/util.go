package testutil

import (
	"testing"

	"github.com/trezcool/afs/core"
	"github.com/trezcool/afs/core/assessment"
	"github.com/trezcool/afs/core/course"
	"github.com/trezcool/afs/core/grading"
	"github.com/trezcool/afs/core/user"
	"github.com/trezcool/afs/storage/flatfile"
)

// Logger routes store logs through the test output.
type Logger struct {
	T *testing.T
}

var _ core.Logger = (*Logger)(nil)

func (l Logger) Info(msg string, keyvals ...interface{}) {
	l.T.Helper()
	l.T.Log(append([]interface{}{msg}, keyvals...)...)
}

func (l Logger) Error(msg string, err error, keyvals ...interface{}) {
	l.T.Helper()
	l.T.Log(append([]interface{}{msg, err}, keyvals...)...)
}

// OpenDB opens a flat-file store in a fresh temp dir.
func OpenDB(t *testing.T) *flatfile.DB {
	t.Helper()
	return OpenDBAt(t, t.TempDir())
}

// OpenDBAt opens a flat-file store over an existing data dir.
func OpenDBAt(t *testing.T, dir string) *flatfile.DB {
	t.Helper()
	db, err := flatfile.Open(dir, Logger{T: t})
	if err != nil {
		t.Fatalf("flatfile.Open() failed: %v", err)
	}
	return db
}

// Password clears the registration password policy and is dissimilar to the
// fixture usernames.
const Password = "V3ry$trongPwd"

func NewUserService(t *testing.T, db *flatfile.DB) *user.Service {
	t.Helper()
	return user.NewService(flatfile.NewUserRepository(db), Logger{T: t})
}

func NewCourseService(t *testing.T, db *flatfile.DB) *course.Service {
	t.Helper()
	return course.NewService(flatfile.NewCourseRepository(db), Logger{T: t})
}

func NewAssessmentService(t *testing.T, db *flatfile.DB) *assessment.Service {
	t.Helper()
	return assessment.NewService(flatfile.NewAssessmentRepository(db), Logger{T: t})
}

func NewGradingService(t *testing.T, db *flatfile.DB) *grading.Service {
	t.Helper()
	return grading.NewService(flatfile.NewGradingRepository(db), Logger{T: t})
}

// CreateUser registers a pre-approved account.
func CreateUser(t *testing.T, svc *user.Service, name, uname string, role user.Role) user.User {
	t.Helper()
	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Password:        Password,
		PasswordConfirm: Password,
		Role:            role,
		PreApproved:     true,
	}
	if role.IsStaff() {
		nu.Department = "Computing"
	}
	usr, err := svc.Register(nu)
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", uname, err)
	}
	return usr
}

// CreateModule creates a module with sane defaults.
func CreateModule(t *testing.T, svc *course.Service, name, code string) course.Module {
	t.Helper()
	mod, err := svc.CreateModule(course.NewModule{
		Name:        name,
		Code:        code,
		CreditHours: 3,
		Department:  "Computing",
	})
	if err != nil {
		t.Fatalf("CreateModule(%s) failed: %v", code, err)
	}
	return mod
}

// CreateClass creates a class on the given module.
func CreateClass(t *testing.T, svc *course.Service, name, moduleID string, capacity int) course.Class {
	t.Helper()
	cls, err := svc.CreateClass(course.NewClass{
		Name:     name,
		ModuleID: moduleID,
		Semester: "2025-S1",
		Capacity: capacity,
	})
	if err != nil {
		t.Fatalf("CreateClass(%s) failed: %v", name, err)
	}
	return cls
}

// CreateAssessment creates an assessment with sane defaults.
func CreateAssessment(t *testing.T, svc *assessment.Service, name, moduleID, classID, lecturerID string, typ assessment.Type) assessment.Assessment {
	t.Helper()
	asm, err := svc.Create(assessment.NewAssessment{
		Name:      name,
		Type:      typ,
		ModuleID:  moduleID,
		ClassID:   classID,
		CreatedBy: lecturerID,
	})
	if err != nil {
		t.Fatalf("CreateAssessment(%s) failed: %v", name, err)
	}
	return asm
}
