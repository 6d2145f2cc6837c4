package main

import (
	"fmt"

	"github.com/trezcool/afs/core/user"
)

// addUser creates a pre-approved account, skipping the approval queue.
func (cli *commandLine) addUser(uname, name, role, email, dept, pwd string) error {
	usr, err := cli.usrSvc.Register(user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            user.Role(role),
		Department:      dept,
		PreApproved:     true,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", usr.ID, usr.Username)
	return nil
}

func (cli *commandLine) listUsers(pendingOnly bool) error {
	var users []user.User
	var err error
	if pendingOnly {
		approved := false
		users, err = cli.usrSvc.Filter(user.QueryFilter{IsApproved: &approved})
	} else {
		users, err = cli.usrSvc.QueryAll()
	}
	if err != nil {
		return err
	}
	for _, usr := range users {
		status := "pending"
		switch {
		case usr.CanLogin():
			status = "active"
		case !usr.IsActive:
			status = "disabled"
		}
		fmt.Printf("%-8s %-15s %-20s %-16s %s\n", usr.ID, string(usr.Role), usr.Name, usr.Username, status)
	}
	return nil
}

func (cli *commandLine) exportMarks(asmID, out string) error {
	f, err := cli.rptSvc.ExportAssessmentMarks(asmID)
	if err != nil {
		return err
	}
	if err = f.SaveAs(out); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", out)
	return nil
}
