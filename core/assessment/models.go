package assessment

import (
	"time"
)

// ID prefixes
const (
	IDPrefix         = "ASM"
	FeedbackIDPrefix = "FB"
)

// Type classifies an assessment and fixes its weightage and total marks.
type Type string

const (
	TypeAssignment   Type = "ASSIGNMENT"
	TypeClassTest    Type = "CLASS_TEST"
	TypeFinalExam    Type = "FINAL_EXAM"
	TypeProject      Type = "PROJECT"
	TypeQuiz         Type = "QUIZ"
	TypePresentation Type = "PRESENTATION"
)

type typeInfo struct {
	weightage  float64 // % of the module grade
	totalMarks float64
}

var typeInfos = map[Type]typeInfo{
	TypeAssignment:   {20, 100},
	TypeClassTest:    {10, 50},
	TypeFinalExam:    {40, 100},
	TypeProject:      {20, 100},
	TypeQuiz:         {5, 20},
	TypePresentation: {5, 50},
}

var AllTypes = []Type{TypeAssignment, TypeClassTest, TypeFinalExam, TypeProject, TypeQuiz, TypePresentation}

func (t Type) Valid() bool {
	_, ok := typeInfos[t]
	return ok
}

func (t Type) Weightage() float64  { return typeInfos[t].weightage }
func (t Type) TotalMarks() float64 { return typeInfos[t].totalMarks }

// Status of an assessment; GRADED as soon as at least one mark is recorded.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusGraded  Status = "GRADED"
)

// Assessment is a graded piece of work for a module/class. CreatedBy, ModuleID
// and ClassID are weak by-ID references. Marks maps studentID to the recorded
// mark, 0 <= mark <= Type.TotalMarks.
type Assessment struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Type      Type               `json:"type"`
	ModuleID  string             `json:"module_id"`
	ClassID   string             `json:"class_id"`
	CreatedBy string             `json:"created_by"` // lecturer ID
	CreatedAt time.Time          `json:"created_at"`
	DueDate   time.Time          `json:"due_date"`
	Status    Status             `json:"status"`
	Marks     map[string]float64 `json:"marks"`
}

// MarkFor returns the recorded mark for a student, if any.
func (a *Assessment) MarkFor(studentID string) (float64, bool) {
	mark, ok := a.Marks[studentID]
	return mark, ok
}

// PercentageFor returns the student's mark as a percentage of the total.
func (a *Assessment) PercentageFor(studentID string) (float64, bool) {
	mark, ok := a.Marks[studentID]
	if !ok {
		return 0, false
	}
	return mark / a.Type.TotalMarks() * 100, true
}

func (a *Assessment) IsOverdue(now time.Time) bool {
	return !a.DueDate.IsZero() && now.After(a.DueDate)
}

// Feedback is a lecturer's note on a student's assessment work. Comment holds
// the single student reply; there is no thread history.
type Feedback struct {
	ID             string    `json:"id"`
	AssessmentID   string    `json:"assessment_id"`
	StudentID      string    `json:"student_id"`
	LecturerID     string    `json:"lecturer_id"`
	Content        string    `json:"content"`
	SuggestedMarks float64   `json:"suggested_marks"`
	CreatedAt      time.Time `json:"created_at"`
	IsDelivered    bool      `json:"is_delivered"`
	Comment        string    `json:"comment,omitempty"`
}

func (f *Feedback) HasComment() bool {
	return f.Comment != ""
}
