package course

import (
	"errors"

	"github.com/trezcool/afs/core"
)

var (
	// errors
	ErrModuleNotFound  = errors.New("module not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrClassFull       = errors.New("class is at full capacity")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this class")
	ErrNotEnrolled     = errors.New("student is not enrolled in this class")
	ErrCapacityTooLow  = errors.New("capacity cannot drop below current enrollment")
)

type (
	Repository interface {
		CreateModule(mod Module) (Module, error)
		QueryAllModules() ([]Module, error)
		GetModuleByID(id string) (Module, error)
		UpdateModule(mod Module) (Module, error)
		DeleteModulesByID(ids ...string) error

		CreateClass(cls Class) (Class, error)
		QueryAllClasses() ([]Class, error)
		GetClassByID(id string) (Class, error)
		UpdateClass(cls Class) (Class, error)
		DeleteClassesByID(ids ...string) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Modules

func (svc *Service) CreateModule(nm NewModule) (Module, error) {
	if err := nm.Validate(); err != nil {
		return Module{}, err
	}
	mod := Module{
		ID:          svc.NextModuleID(),
		Name:        nm.Name,
		Code:        nm.Code,
		Description: nm.Description,
		CreditHours: nm.CreditHours,
		Department:  nm.Department,
	}
	return svc.repo.CreateModule(mod)
}

func (svc *Service) QueryAllModules() ([]Module, error) {
	return svc.repo.QueryAllModules()
}

func (svc *Service) GetModule(id string) (Module, error) {
	return svc.repo.GetModuleByID(id)
}

// ResolveModule looks up a weak module reference, falling back to a synthetic
// placeholder when it dangles.
func (svc *Service) ResolveModule(id string) Module {
	mod, err := svc.repo.GetModuleByID(id)
	if err != nil {
		return PlaceholderModule(id)
	}
	return mod
}

func (svc *Service) UpdateModule(id string, um UpdateModule) (Module, error) {
	if err := um.Validate(); err != nil {
		return Module{}, err
	}
	mod, err := svc.repo.GetModuleByID(id)
	if err != nil {
		return Module{}, err
	}
	if um.Name != "" {
		mod.Name = um.Name
	}
	if um.Code != "" {
		mod.Code = um.Code
	}
	if um.Description != "" {
		mod.Description = um.Description
	}
	if um.CreditHours > 0 {
		mod.CreditHours = um.CreditHours
	}
	if um.Department != "" {
		mod.Department = um.Department
	}
	return svc.repo.UpdateModule(mod)
}

// DeleteModule removes a module. References from classes and assessments are
// left dangling by ID; ResolveModule falls back to a placeholder on lookup.
func (svc *Service) DeleteModule(ids ...string) error {
	return svc.repo.DeleteModulesByID(ids...)
}

func (svc *Service) NextModuleID() string {
	mods, err := svc.repo.QueryAllModules()
	if err != nil {
		svc.log.Error("course: scanning module IDs", err)
	}
	ids := make([]string, 0, len(mods))
	for _, mod := range mods {
		ids = append(ids, mod.ID)
	}
	return core.NextSeqID(ModuleIDPrefix, ids)
}

// Classes

func (svc *Service) CreateClass(nc NewClass) (Class, error) {
	if err := nc.Validate(); err != nil {
		return Class{}, err
	}
	cls := Class{
		ID:         svc.NextClassID(),
		Name:       nc.Name,
		ModuleID:   nc.ModuleID,
		LecturerID: nc.LecturerID,
		Semester:   nc.Semester,
		Capacity:   nc.Capacity,
	}
	return svc.repo.CreateClass(cls)
}

func (svc *Service) QueryAllClasses() ([]Class, error) {
	return svc.repo.QueryAllClasses()
}

func (svc *Service) GetClass(id string) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *Service) ClassesByLecturer(lecturerID string) ([]Class, error) {
	all, err := svc.repo.QueryAllClasses()
	if err != nil {
		return nil, err
	}
	classes := make([]Class, 0, len(all))
	for _, cls := range all {
		if cls.LecturerID == lecturerID {
			classes = append(classes, cls)
		}
	}
	return classes, nil
}

func (svc *Service) ClassesByStudent(studentID string) ([]Class, error) {
	all, err := svc.repo.QueryAllClasses()
	if err != nil {
		return nil, err
	}
	classes := make([]Class, 0, len(all))
	for _, cls := range all {
		if cls.IsEnrolled(studentID) {
			classes = append(classes, cls)
		}
	}
	return classes, nil
}

func (svc *Service) UpdateClass(id string, uc UpdateClass) (Class, error) {
	if err := uc.Validate(); err != nil {
		return Class{}, err
	}
	cls, err := svc.repo.GetClassByID(id)
	if err != nil {
		return Class{}, err
	}
	if uc.Name != "" {
		cls.Name = uc.Name
	}
	if uc.LecturerID != nil { // empty string unassigns
		cls.LecturerID = *uc.LecturerID
	}
	if uc.Semester != "" {
		cls.Semester = uc.Semester
	}
	if uc.Capacity > 0 {
		if uc.Capacity < len(cls.StudentIDs) {
			return Class{}, ErrCapacityTooLow
		}
		cls.Capacity = uc.Capacity
	}
	return svc.repo.UpdateClass(cls)
}

func (svc *Service) DeleteClass(ids ...string) error {
	return svc.repo.DeleteClassesByID(ids...)
}

// Enroll adds a student to a class, refusing once capacity is reached.
func (svc *Service) Enroll(classID, studentID string) error {
	cls, err := svc.repo.GetClassByID(classID)
	if err != nil {
		return err
	}
	if cls.IsEnrolled(studentID) {
		return ErrAlreadyEnrolled
	}
	if cls.IsFull() {
		return ErrClassFull
	}
	cls.StudentIDs = append(cls.StudentIDs, studentID)
	_, err = svc.repo.UpdateClass(cls)
	return err
}

// Withdraw removes a student from a class.
func (svc *Service) Withdraw(classID, studentID string) error {
	cls, err := svc.repo.GetClassByID(classID)
	if err != nil {
		return err
	}
	if !cls.IsEnrolled(studentID) {
		return ErrNotEnrolled
	}
	students := cls.StudentIDs[:0]
	for _, id := range cls.StudentIDs {
		if id != studentID {
			students = append(students, id)
		}
	}
	cls.StudentIDs = students
	_, err = svc.repo.UpdateClass(cls)
	return err
}

func (svc *Service) NextClassID() string {
	classes, err := svc.repo.QueryAllClasses()
	if err != nil {
		svc.log.Error("course: scanning class IDs", err)
	}
	ids := make([]string, 0, len(classes))
	for _, cls := range classes {
		ids = append(ids, cls.ID)
	}
	return core.NextSeqID(ClassIDPrefix, ids)
}
