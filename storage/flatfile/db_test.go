package flatfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/afs/core/assessment"
	"github.com/trezcool/afs/core/user"
	testutil "github.com/trezcool/afs/tests"
)

func TestReopen_roundTrip(t *testing.T) {
	dir := t.TempDir()

	db := testutil.OpenDBAt(t, dir)
	usrSvc := testutil.NewUserService(t, db)
	crsSvc := testutil.NewCourseService(t, db)
	asmSvc := testutil.NewAssessmentService(t, db)
	grdSvc := testutil.NewGradingService(t, db)

	lec := testutil.CreateUser(t, usrSvc, "Bob Lee", "boblee", user.RoleLecturer)
	stu := testutil.CreateUser(t, usrSvc, "Jane Doe", "janedoe", user.RoleStudent)
	mod := testutil.CreateModule(t, crsSvc, "Data Structures", "CS201")
	cls := testutil.CreateClass(t, crsSvc, "DS Group A", mod.ID, 30)
	require.NoError(t, crsSvc.Enroll(cls.ID, stu.ID))
	require.NoError(t, usrSvc.AssignModule(lec.ID, mod.ID))

	asm := testutil.CreateAssessment(t, asmSvc, "Midterm", mod.ID, cls.ID, lec.ID, assessment.TypeClassTest)
	require.NoError(t, asmSvc.RecordMark(asm.ID, stu.ID, 42.5))

	fb, err := asmSvc.CreateFeedback(assessment.NewFeedback{
		AssessmentID:   asm.ID,
		StudentID:      stu.ID,
		LecturerID:     lec.ID,
		Content:        "Good attempt, revisit question 3.",
		SuggestedMarks: 45,
	})
	require.NoError(t, err)
	require.NoError(t, asmSvc.DeliverFeedback(fb.ID))
	require.NoError(t, asmSvc.AddComment(fb.ID, stu.ID, "Thanks, will do."))

	_, err = grdSvc.Get() // seeds the default system
	require.NoError(t, err)
	_, err = grdSvc.UpdatePassing(40)
	require.NoError(t, err)

	// a fresh DB over the same directory must see everything
	db2 := testutil.OpenDBAt(t, dir)
	usrSvc2 := testutil.NewUserService(t, db2)
	crsSvc2 := testutil.NewCourseService(t, db2)
	asmSvc2 := testutil.NewAssessmentService(t, db2)
	grdSvc2 := testutil.NewGradingService(t, db2)

	lec2, err := usrSvc2.GetByID(lec.ID)
	require.NoError(t, err)
	assert.Equal(t, lec.Username, lec2.Username)
	assert.Equal(t, lec.StaffID, lec2.StaffID)
	assert.Equal(t, []string{mod.ID}, lec2.AssignedModuleIDs)
	assert.True(t, lec2.CanLogin())

	stu2, err := usrSvc2.GetByID(stu.ID)
	require.NoError(t, err)
	assert.Equal(t, stu.EnrollmentYear, stu2.EnrollmentYear)
	// timestamps persist with second precision
	assert.WithinDuration(t, stu.CreatedAt, stu2.CreatedAt, time.Second)

	mod2, err := crsSvc2.GetModule(mod.ID)
	require.NoError(t, err)
	assert.Equal(t, mod.Code, mod2.Code)

	cls2, err := crsSvc2.GetClass(cls.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{stu.ID}, cls2.StudentIDs)
	assert.True(t, cls2.IsEnrolled(stu.ID))

	asm2, err := asmSvc2.Get(asm.ID)
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusGraded, asm2.Status)
	mark, ok := asm2.MarkFor(stu.ID)
	require.True(t, ok)
	assert.Equal(t, 42.5, mark)

	fb2, err := asmSvc2.GetFeedback(fb.ID)
	require.NoError(t, err)
	assert.True(t, fb2.IsDelivered)
	assert.Equal(t, "Thanks, will do.", fb2.Comment)

	gs2, err := grdSvc2.Get()
	require.NoError(t, err)
	assert.Equal(t, 40.0, gs2.PassingPercentage)
	assert.Len(t, gs2.Scales, 8)
}

func TestLoad_skipsMalformedLines(t *testing.T) {
	dir := t.TempDir()

	db := testutil.OpenDBAt(t, dir)
	usrSvc := testutil.NewUserService(t, db)
	testutil.CreateUser(t, usrSvc, "Jane Doe", "janedoe", user.RoleStudent)

	path := filepath.Join(dir, "users.txt")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not a record\nSTUDENT|STU099|short\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	db2 := testutil.OpenDBAt(t, dir)
	all, err := testutil.NewUserService(t, db2).QueryAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "janedoe", all[0].Username)
}

func TestCreate_writeFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()

	db := testutil.OpenDBAt(t, dir)
	usrSvc := testutil.NewUserService(t, db)

	// a directory in place of the data file makes every write fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, "users.txt"), 0o755))

	usr, err := usrSvc.Register(user.NewUser{
		Name:            "Jane Doe",
		Username:        "janedoe",
		Role:            user.RoleStudent,
		Password:        testutil.Password,
		PasswordConfirm: testutil.Password,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users.txt")

	// the in-memory table keeps the record; only durability failed
	kept, err := usrSvc.GetByUsername("janedoe")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, kept.ID)
}

func TestOpen_missingFiles(t *testing.T) {
	db := testutil.OpenDB(t)

	users, err := testutil.NewUserService(t, db).QueryAll()
	require.NoError(t, err)
	assert.Empty(t, users)

	mods, err := testutil.NewCourseService(t, db).QueryAllModules()
	require.NoError(t, err)
	assert.Empty(t, mods)

	asms, err := testutil.NewAssessmentService(t, db).QueryAll()
	require.NoError(t, err)
	assert.Empty(t, asms)
}
