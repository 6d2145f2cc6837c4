// Package reportsvc assembles spreadsheet reports over the core services:
// assessment mark sheets, class rosters, and bulk mark import.
package reportsvc

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/afs/core"
	"github.com/trezcool/afs/core/assessment"
	"github.com/trezcool/afs/core/course"
	"github.com/trezcool/afs/core/grading"
	"github.com/trezcool/afs/core/user"
)

type Service struct {
	usrSvc *user.Service
	crsSvc *course.Service
	asmSvc *assessment.Service
	grdSvc *grading.Service
	log    core.Logger
}

func NewService(
	usrSvc *user.Service,
	crsSvc *course.Service,
	asmSvc *assessment.Service,
	grdSvc *grading.Service,
	log core.Logger,
) *Service {
	return &Service{
		usrSvc: usrSvc,
		crsSvc: crsSvc,
		asmSvc: asmSvc,
		grdSvc: grdSvc,
		log:    log,
	}
}

// ExportAssessmentMarks builds a workbook with one row per student of the
// assessment's class: mark, percentage, grade letter, GPA and pass/fail
// against the active grading system. Students without a recorded mark show
// empty mark cells.
func (svc *Service) ExportAssessmentMarks(asmID string) (*excelize.File, error) {
	asm, err := svc.asmSvc.Get(asmID)
	if err != nil {
		return nil, err
	}
	mod := svc.crsSvc.ResolveModule(asm.ModuleID)
	gs, err := svc.grdSvc.Get()
	if err != nil {
		return nil, err
	}

	studentIDs := svc.assessedStudents(asm)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	setRow(f, sheet, 1, asm.Name, string(asm.Type), mod.Name)
	setRow(f, sheet, 2, "Student ID", "Name", "Mark", fmt.Sprintf("Out of %v", asm.Type.TotalMarks()),
		"Percentage", "Grade", "GPA", "Result")

	row := 3
	var total float64
	var graded int
	for _, stuID := range studentIDs {
		name := svc.studentName(stuID)
		mark, ok := asm.MarkFor(stuID)
		if !ok {
			setRow(f, sheet, row, stuID, name, "", "", "", grading.NoGrade, "", "")
			row++
			continue
		}
		pct, _ := asm.PercentageFor(stuID)
		gpa, _ := gs.GPAFor(pct)
		result := "FAIL"
		if gs.IsPassing(pct) {
			result = "PASS"
		}
		setRow(f, sheet, row, stuID, name, mark, asm.Type.TotalMarks(), pct, gs.LetterFor(pct), gpa, result)
		total += pct
		graded++
		row++
	}
	if graded > 0 {
		setRow(f, sheet, row+1, "Average", "", "", "", total/float64(graded))
	}
	return f, nil
}

// ExportClassRoster builds a workbook listing a class's enrolled students with
// the resolved module and lecturer in the header.
func (svc *Service) ExportClassRoster(classID string) (*excelize.File, error) {
	cls, err := svc.crsSvc.GetClass(classID)
	if err != nil {
		return nil, err
	}
	mod := svc.crsSvc.ResolveModule(cls.ModuleID)

	lecturer := "Unassigned"
	if cls.HasLecturer() {
		if lec, err := svc.usrSvc.GetByID(cls.LecturerID); err == nil {
			lecturer = lec.Name
		}
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	setRow(f, sheet, 1, cls.Name, mod.Name, cls.Semester, lecturer)
	setRow(f, sheet, 2, "Enrolled", fmt.Sprintf("%d / %d", len(cls.StudentIDs), cls.Capacity))
	setRow(f, sheet, 3, "Student ID", "Name", "Email")

	row := 4
	for _, stuID := range cls.StudentIDs {
		var name, email string
		if stu, err := svc.usrSvc.GetByID(stuID); err == nil {
			name, email = stu.Name, stu.Email
		}
		setRow(f, sheet, row, stuID, name, email)
		row++
	}
	return f, nil
}

// ImportMarks reads marks from the first sheet (column A = student ID,
// column B = mark; row 1 is a header) and records them on the assessment.
// Bad rows and out-of-range marks are skipped; the imported count is returned.
func (svc *Service) ImportMarks(r io.Reader, asmID string) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			svc.log.Error("report: closing workbook", err)
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, err
	}

	var imported int
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 || row[0] == "" {
			svc.log.Info("report: skipping row with missing data", "row", i+1)
			continue
		}
		mark, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			svc.log.Info("report: skipping row with bad mark", "row", i+1, "mark", row[1])
			continue
		}
		if err := svc.asmSvc.RecordMark(asmID, row[0], mark); err != nil {
			svc.log.Info("report: skipping mark", "row", i+1, "student", row[0], "err", err)
			continue
		}
		imported++
	}
	return imported, nil
}

// assessedStudents returns the class roster when the class resolves, falling
// back to the students that already have marks.
func (svc *Service) assessedStudents(asm assessment.Assessment) []string {
	if asm.ClassID != "" {
		if cls, err := svc.crsSvc.GetClass(asm.ClassID); err == nil {
			return cls.StudentIDs
		}
	}
	ids := make([]string, 0, len(asm.Marks))
	for id := range asm.Marks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (svc *Service) studentName(stuID string) string {
	if stu, err := svc.usrSvc.GetByID(stuID); err == nil {
		return stu.Name
	}
	return ""
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for col, val := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, val)
	}
}
