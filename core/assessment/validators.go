package assessment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/afs/core"
)

var (
	validTypeTag  = "validasmtype"
	validTypeText = "invalid assessment type"
)

func init() {
	_ = core.Validate.RegisterValidation(validTypeTag, validTypeValidation)
	core.RegisterCustomTranslation(validTypeTag, validTypeText)
}

// NewAssessment contains information needed to create a new Assessment.
type NewAssessment struct {
	Name      string    `json:"name" validate:"required,nofieldsep"`
	Type      Type      `json:"type" validate:"required,validasmtype"`
	ModuleID  string    `json:"module_id" validate:"required"`
	ClassID   string    `json:"class_id"`
	CreatedBy string    `json:"created_by" validate:"required"`
	DueDate   time.Time `json:"due_date"`
}

func (na *NewAssessment) Validate() error {
	na.Name = core.CleanString(na.Name)
	return core.Validate.Struct(na)
}

// UpdateAssessment defines what information may be provided to modify an
// existing Assessment; the type is immutable once marks exist.
type UpdateAssessment struct {
	Name    string    `json:"name" validate:"nofieldsep"`
	DueDate time.Time `json:"due_date"`
}

func (ua *UpdateAssessment) Validate() error {
	ua.Name = core.CleanString(ua.Name)
	return core.Validate.Struct(ua)
}

// NewFeedback contains information needed to file feedback on a student's work.
type NewFeedback struct {
	AssessmentID   string  `json:"assessment_id" validate:"required"`
	StudentID      string  `json:"student_id" validate:"required"`
	LecturerID     string  `json:"lecturer_id" validate:"required"`
	Content        string  `json:"content" validate:"required,nofieldsep"`
	SuggestedMarks float64 `json:"suggested_marks" validate:"gte=0"`
}

func (nf *NewFeedback) Validate() error {
	nf.Content = core.CleanString(nf.Content)
	return core.Validate.Struct(nf)
}

// validTypeValidation checks that the provided type is one of AllTypes.
func validTypeValidation(fl validator.FieldLevel) bool {
	return Type(fl.Field().String()).Valid()
}
