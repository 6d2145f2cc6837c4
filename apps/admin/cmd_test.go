package main

import (
	"errors"
	"testing"

	"github.com/trezcool/afs/core/assessment"
	"github.com/trezcool/afs/core/user"
	reportsvc "github.com/trezcool/afs/services/report"
	testutil "github.com/trezcool/afs/tests"
)

var usrSvc *user.Service

func setup(t *testing.T) *commandLine {
	db := testutil.OpenDB(t)
	usrSvc = testutil.NewUserService(t, db)
	crsSvc := testutil.NewCourseService(t, db)
	asmSvc := testutil.NewAssessmentService(t, db)
	grdSvc := testutil.NewGradingService(t, db)

	return &commandLine{
		usrSvc: usrSvc,
		rptSvc: reportsvc.NewService(usrSvc, crsSvc, asmSvc, grdSvc, testutil.Logger{T: t}),
	}
}

type cliTest struct {
	name     string
	args     []string // without program name
	wantErr  error
	wantFail bool // any validation failure
	extra    interface{}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no name", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "empty password", args: []string{"adduser", "-username", "awe", "-name", "Awe Some"}, wantErr: errHelp},
		{name: "staff without department", args: []string{"adduser", "-username", "awe", "-name", "Awe Some"},
			extra: extra{pwd: testutil.Password}, wantFail: true},
		{name: "student", args: []string{"adduser", "-username", "awe", "-name", "Awe Some", "-role", "STUDENT"},
			extra: extra{pwd: testutil.Password}},
		{name: "duplicate username", args: []string{"adduser", "-username", "awe", "-name", "Other Name", "-role", "STUDENT"},
			extra: extra{pwd: testutil.Password}, wantFail: true},
		{name: "admin staff", args: []string{"adduser", "-username", "boss", "-name", "Big Boss", "-department", "Computing"},
			extra: extra{pwd: testutil.Password}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantFail:
				if err == nil {
					t.Error("cli.run() succeeded, want a validation failure")
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	// admin-created accounts skip the approval queue
	usr, err := usrSvc.GetByUsername("awe")
	if err != nil {
		t.Fatalf("GetByUsername() failed: %v", err)
	}
	if !usr.CanLogin() {
		t.Error("admin-created account cannot log in")
	}
}

func Test_commandLine_approveUser(t *testing.T) {
	cli := setup(t)

	usr, err := usrSvc.Register(user.NewUser{
		Name:            "Jane Doe",
		Username:        "janedoe",
		Role:            user.RoleStudent,
		Password:        testutil.Password,
		PasswordConfirm: testutil.Password,
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no id", args: []string{"approveuser"}, wantErr: errHelp},
		{name: "user not found", args: []string{"approveuser", "-id", "STU999"}, wantErr: user.ErrNotFound},
		{name: "approve", args: []string{"approveuser", "-id", usr.ID}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			refreshed, err := usrSvc.GetByID(usr.ID)
			if err != nil {
				t.Fatalf("GetByID() failed: %v", err)
			}
			if !refreshed.CanLogin() {
				t.Error("approved account cannot log in")
			}
		})
	}
}

func Test_commandLine_exportMarks(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no assessment", args: []string{"exportmarks"}, wantErr: errHelp},
		{name: "assessment not found", args: []string{"exportmarks", "-assessment", "ASM999"}, wantErr: assessment.ErrNotFound},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); !errors.Is(err, tt.wantErr) {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
