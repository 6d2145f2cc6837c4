package main

import (
	"log"
	"os"

	"github.com/trezcool/afs/core"
	"github.com/trezcool/afs/core/assessment"
	"github.com/trezcool/afs/core/course"
	"github.com/trezcool/afs/core/grading"
	"github.com/trezcool/afs/core/user"
	logsvc "github.com/trezcool/afs/services/logger"
	reportsvc "github.com/trezcool/afs/services/report"
	"github.com/trezcool/afs/storage/flatfile"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logSvc := logsvc.NewConsoleLogger(logger)

	// set up DB
	db, err := flatfile.Open(core.Conf.GetString("dataDir"), logSvc)
	errAndDie(err)

	// set up services
	usrSvc := user.NewService(flatfile.NewUserRepository(db), logSvc)
	crsSvc := course.NewService(flatfile.NewCourseRepository(db), logSvc)
	asmSvc := assessment.NewService(flatfile.NewAssessmentRepository(db), logSvc)
	grdSvc := grading.NewService(flatfile.NewGradingRepository(db), logSvc)
	rptSvc := reportsvc.NewService(usrSvc, crsSvc, asmSvc, grdSvc, logSvc)

	// start CLI
	cli := commandLine{
		usrSvc: usrSvc,
		rptSvc: rptSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
