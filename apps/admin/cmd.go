package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/afs/core/user"
	reportsvc "github.com/trezcool/afs/services/report"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc *user.Service
	rptSvc *reportsvc.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -username USERNAME -name NAME -role ROLE [-email EMAIL] [-department DEPT] - create a pre-approved account; the password will be prompted")
	fmt.Println("  approveuser -id USERID - clear a pending registration for login")
	fmt.Println("  listusers [-pending] - list accounts")
	fmt.Println("  exportmarks -assessment ASMID -out FILE.xlsx - export an assessment mark sheet")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The account's username.")
	addUserName := addUserCmd.String("name", "", "The account's full name.")
	addUserRole := addUserCmd.String("role", string(user.RoleAdminStaff), "One of ADMIN_STAFF, ACADEMIC_LEADER, LECTURER, STUDENT.")
	addUserEmail := addUserCmd.String("email", "", "The account's email.")
	addUserDept := addUserCmd.String("department", "", "Department (staff roles).")

	approveCmd := flag.NewFlagSet("approveuser", flag.ExitOnError)
	approveID := approveCmd.String("id", "", "The user ID to approve.")

	listCmd := flag.NewFlagSet("listusers", flag.ExitOnError)
	listPending := listCmd.Bool("pending", false, "Only accounts awaiting approval.")

	exportCmd := flag.NewFlagSet("exportmarks", flag.ExitOnError)
	exportAsm := exportCmd.String("assessment", "", "The assessment ID to export.")
	exportOut := exportCmd.String("out", "marks.xlsx", "The output workbook path.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserName, *addUserRole, *addUserEmail, *addUserDept, string(pwd))
	case "approveuser":
		if err := approveCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *approveID == "" {
			approveCmd.Usage()
			return errHelp
		}
		return cli.usrSvc.Approve(*approveID)
	case "listusers":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listUsers(*listPending)
	case "exportmarks":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportAsm == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportMarks(*exportAsm, *exportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}
