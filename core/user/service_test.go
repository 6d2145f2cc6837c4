package user_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/trezcool/afs/core/user"
	testutil "github.com/trezcool/afs/tests"
)

func TestRegister_usernameUniqueness(t *testing.T) {
	svc := testutil.NewUserService(t, testutil.OpenDB(t))

	nu := user.NewUser{
		Name:            "Jamie Low",
		Username:        "jamielow",
		Password:        testutil.Password,
		PasswordConfirm: testutil.Password,
		Role:            user.RoleStudent,
	}
	if _, err := svc.Register(nu); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if _, err := svc.Register(nu); err == nil {
		t.Fatal("Register() with duplicate username succeeded")
	}

	users, err := svc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	var count int
	for _, usr := range users {
		if usr.Username == "jamielow" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d records with username jamielow, want 1", count)
	}
}

func TestNextID_maxBased(t *testing.T) {
	svc := testutil.NewUserService(t, testutil.OpenDB(t))

	for i := 1; i <= 5; i++ {
		usr := testutil.CreateUser(t, svc, fmt.Sprintf("Student %d", i), fmt.Sprintf("student%d", i), user.RoleStudent)
		if want := fmt.Sprintf("STU%03d", i); usr.ID != want {
			t.Fatalf("got ID %s, want %s", usr.ID, want)
		}
	}
	if got := svc.NextID(user.RoleStudent); got != "STU006" {
		t.Errorf("NextID() = %s, want STU006", got)
	}

	// gaps left by deletion are never reused
	if err := svc.Delete("STU003"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if got := svc.NextID(user.RoleStudent); got != "STU006" {
		t.Errorf("NextID() after delete = %s, want STU006", got)
	}
}

func TestNextID_rolesScopedSeparately(t *testing.T) {
	svc := testutil.NewUserService(t, testutil.OpenDB(t))

	testutil.CreateUser(t, svc, "Student One", "studentone", user.RoleStudent)
	lec := testutil.CreateUser(t, svc, "Lecturer One", "lecturerone", user.RoleLecturer)

	if lec.ID != "LEC001" {
		t.Errorf("lecturer ID = %s, want LEC001", lec.ID)
	}
	if got := svc.NextID(user.RoleStudent); got != "STU002" {
		t.Errorf("NextID(STUDENT) = %s, want STU002", got)
	}
	if lec.StaffID != "SF001" {
		t.Errorf("staff ID = %s, want SF001", lec.StaffID)
	}
}

// a "|" or line break in a free-text field would corrupt the record's line and
// drop it on the next load, so registration must reject them up front
func TestRegister_rejectsRecordBreakingText(t *testing.T) {
	svc := testutil.NewUserService(t, testutil.OpenDB(t))

	tests := []struct {
		name string
		nu   user.NewUser
	}{
		{name: "pipe in name", nu: user.NewUser{Name: "Jane|Doe", Username: "janedoe"}},
		{name: "newline in name", nu: user.NewUser{Name: "Jane\nDoe", Username: "janedoe"}},
		{name: "pipe in password", nu: user.NewUser{Name: "Jane Doe", Username: "janedoe", Password: "V3ry|strongPwd"}},
		{name: "pipe in department", nu: user.NewUser{Name: "Jane Doe", Username: "janedoe", Department: "Comp|Sci"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.nu.Role = user.RoleStudent
			if tt.nu.Password == "" {
				tt.nu.Password = testutil.Password
			}
			tt.nu.PasswordConfirm = tt.nu.Password
			if _, err := svc.Register(tt.nu); err == nil {
				t.Error("Register() accepted a record-breaking value")
			}
		})
	}

	users, err := svc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("got %d records, want 0", len(users))
	}
}

func TestAuthenticate_approvalGating(t *testing.T) {
	svc := testutil.NewUserService(t, testutil.OpenDB(t))

	usr, err := svc.Register(user.NewUser{
		Name:            "Pending Person",
		Username:        "pendingperson",
		Password:        testutil.Password,
		PasswordConfirm: testutil.Password,
		Role:            user.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []struct {
		name    string
		prep    func() error
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "unapproved", uname: "pendingperson", pwd: testutil.Password, wantErr: user.ErrAuthFailed},
		{name: "unknown user", uname: "nobody", pwd: testutil.Password, wantErr: user.ErrAuthFailed},
		{
			name:    "wrong password",
			prep:    func() error { return svc.Approve(usr.ID) },
			uname:   "pendingperson",
			pwd:     "Wr0ng!password",
			wantErr: user.ErrAuthFailed,
		},
		{name: "approved", uname: "pendingperson", pwd: testutil.Password},
		{
			name:    "rejected",
			prep:    func() error { return svc.Reject(usr.ID) },
			uname:   "pendingperson",
			pwd:     testutil.Password,
			wantErr: user.ErrAuthFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prep != nil {
				if err := tt.prep(); err != nil {
					t.Fatalf("prep failed: %v", err)
				}
			}
			if _, err := svc.Authenticate(tt.uname, tt.pwd); !errors.Is(err, tt.wantErr) {
				t.Errorf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReject_keepsRecord(t *testing.T) {
	svc := testutil.NewUserService(t, testutil.OpenDB(t))

	usr := testutil.CreateUser(t, svc, "Reject Me", "rejectme", user.RoleStudent)
	if err := svc.Reject(usr.ID); err != nil {
		t.Fatalf("Reject() failed: %v", err)
	}

	got, err := svc.GetByID(usr.ID)
	if err != nil {
		t.Fatalf("GetByID() after reject failed: %v", err)
	}
	if got.IsActive || got.IsApproved {
		t.Errorf("rejected user flags = active:%v approved:%v, want both false", got.IsActive, got.IsApproved)
	}
}

func TestAssignModule(t *testing.T) {
	svc := testutil.NewUserService(t, testutil.OpenDB(t))

	lec := testutil.CreateUser(t, svc, "Lecturer One", "lecturerone", user.RoleLecturer)
	stu := testutil.CreateUser(t, svc, "Student One", "studentone", user.RoleStudent)

	if err := svc.AssignModule(lec.ID, "MOD001"); err != nil {
		t.Fatalf("AssignModule() failed: %v", err)
	}
	// assigning twice is a no-op
	if err := svc.AssignModule(lec.ID, "MOD001"); err != nil {
		t.Fatalf("AssignModule() twice failed: %v", err)
	}
	if err := svc.AssignModule(stu.ID, "MOD001"); !errors.Is(err, user.ErrNotLecturer) {
		t.Errorf("AssignModule(student) error = %v, want ErrNotLecturer", err)
	}

	got, _ := svc.GetByID(lec.ID)
	if len(got.AssignedModuleIDs) != 1 || !got.HasModule("MOD001") {
		t.Errorf("assigned modules = %v, want [MOD001]", got.AssignedModuleIDs)
	}

	if err := svc.UnassignModule(lec.ID, "MOD001"); err != nil {
		t.Fatalf("UnassignModule() failed: %v", err)
	}
	got, _ = svc.GetByID(lec.ID)
	if got.HasModule("MOD001") {
		t.Error("module still assigned after UnassignModule()")
	}
}

func TestFilter(t *testing.T) {
	svc := testutil.NewUserService(t, testutil.OpenDB(t))

	testutil.CreateUser(t, svc, "Alice Tan", "alicetan", user.RoleStudent)
	testutil.CreateUser(t, svc, "Bob Lee", "boblee", user.RoleLecturer)
	if _, err := svc.Register(user.NewUser{
		Name:            "Carol Lim",
		Username:        "carollim",
		Password:        testutil.Password,
		PasswordConfirm: testutil.Password,
		Role:            user.RoleStudent,
	}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	approved := true
	tests := []struct {
		name   string
		filter user.QueryFilter
		want   []string // usernames
	}{
		// results are sorted by ID; LEC sorts before STU
		{name: "empty returns all", want: []string{"boblee", "alicetan", "carollim"}},
		{name: "search name", filter: user.QueryFilter{Search: "alice"}, want: []string{"alicetan"}},
		{name: "role", filter: user.QueryFilter{Roles: []user.Role{user.RoleLecturer}}, want: []string{"boblee"}},
		{name: "approved only", filter: user.QueryFilter{IsApproved: &approved}, want: []string{"boblee", "alicetan"}},
		{
			name:   "role and search",
			filter: user.QueryFilter{Search: "lim", Roles: []user.Role{user.RoleStudent}},
			want:   []string{"carollim"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := svc.Filter(tt.filter)
			if err != nil {
				t.Fatalf("Filter() failed: %v", err)
			}
			var got []string
			for _, usr := range users {
				got = append(got, usr.Username)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Filter() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Filter() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}
