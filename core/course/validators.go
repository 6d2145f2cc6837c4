package course

import (
	"github.com/trezcool/afs/core"
)

// NewModule contains information needed to create a new Module.
type NewModule struct {
	Name        string `json:"name" validate:"required,nofieldsep"`
	Code        string `json:"code" validate:"required,min=2,nofieldsep"`
	Description string `json:"description" validate:"nofieldsep"`
	CreditHours int    `json:"credit_hours" validate:"required,gt=0"`
	Department  string `json:"department" validate:"required,nofieldsep"`
}

func (nm *NewModule) Validate() error {
	nm.Name = core.CleanString(nm.Name)
	nm.Code = core.CleanString(nm.Code)
	nm.Description = core.CleanString(nm.Description)
	nm.Department = core.CleanString(nm.Department)
	return core.Validate.Struct(nm)
}

// UpdateModule defines what information may be provided to modify an existing
// Module. Empty fields fall back to the original values.
type UpdateModule struct {
	Name        string `json:"name" validate:"nofieldsep"`
	Code        string `json:"code" validate:"omitempty,min=2,nofieldsep"`
	Description string `json:"description" validate:"nofieldsep"`
	CreditHours int    `json:"credit_hours" validate:"omitempty,gt=0"`
	Department  string `json:"department" validate:"nofieldsep"`
}

func (um *UpdateModule) Validate() error {
	um.Name = core.CleanString(um.Name)
	um.Code = core.CleanString(um.Code)
	um.Description = core.CleanString(um.Description)
	um.Department = core.CleanString(um.Department)
	return core.Validate.Struct(um)
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name       string `json:"name" validate:"required,nofieldsep"`
	ModuleID   string `json:"module_id" validate:"required"`
	LecturerID string `json:"lecturer_id"`
	Semester   string `json:"semester" validate:"required,nofieldsep"`
	Capacity   int    `json:"capacity" validate:"required,gt=0"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Semester = core.CleanString(nc.Semester)
	return core.Validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing
// Class. Capacity may not drop below current enrollment.
type UpdateClass struct {
	Name       string  `json:"name" validate:"nofieldsep"`
	LecturerID *string `json:"lecturer_id"`
	Semester   string  `json:"semester" validate:"nofieldsep"`
	Capacity   int     `json:"capacity" validate:"omitempty,gt=0"`
}

func (uc *UpdateClass) Validate() error {
	uc.Name = core.CleanString(uc.Name)
	uc.Semester = core.CleanString(uc.Semester)
	return core.Validate.Struct(uc)
}
