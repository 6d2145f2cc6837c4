package assessment

import (
	"errors"
	"time"

	"github.com/trezcool/afs/core"
)

var (
	// errors
	ErrNotFound         = errors.New("assessment not found")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrMarkOutOfRange   = errors.New("mark is out of range for this assessment type")
	ErrNotAddressee     = errors.New("only the addressed student may comment")
	ErrCommentExists    = errors.New("feedback already has a student comment")
	ErrNotDelivered     = errors.New("feedback has not been delivered yet")
)

type (
	Repository interface {
		CreateAssessment(asm Assessment) (Assessment, error)
		QueryAllAssessments() ([]Assessment, error)
		GetAssessmentByID(id string) (Assessment, error)
		UpdateAssessment(asm Assessment) (Assessment, error)
		DeleteAssessmentsByID(ids ...string) error

		CreateFeedback(fb Feedback) (Feedback, error)
		QueryAllFeedback() ([]Feedback, error)
		GetFeedbackByID(id string) (Feedback, error)
		UpdateFeedback(fb Feedback) (Feedback, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (svc *Service) Create(na NewAssessment) (Assessment, error) {
	if err := na.Validate(); err != nil {
		return Assessment{}, err
	}
	asm := Assessment{
		ID:        svc.NextID(),
		Name:      na.Name,
		Type:      na.Type,
		ModuleID:  na.ModuleID,
		ClassID:   na.ClassID,
		CreatedBy: na.CreatedBy,
		CreatedAt: time.Now(),
		DueDate:   na.DueDate,
		Status:    StatusPending,
		Marks:     make(map[string]float64),
	}
	return svc.repo.CreateAssessment(asm)
}

func (svc *Service) QueryAll() ([]Assessment, error) {
	return svc.repo.QueryAllAssessments()
}

func (svc *Service) Get(id string) (Assessment, error) {
	return svc.repo.GetAssessmentByID(id)
}

func (svc *Service) ByModule(moduleID string) ([]Assessment, error) {
	return svc.filter(func(asm Assessment) bool { return asm.ModuleID == moduleID })
}

func (svc *Service) ByClass(classID string) ([]Assessment, error) {
	return svc.filter(func(asm Assessment) bool { return asm.ClassID == classID })
}

func (svc *Service) ByLecturer(lecturerID string) ([]Assessment, error) {
	return svc.filter(func(asm Assessment) bool { return asm.CreatedBy == lecturerID })
}

func (svc *Service) filter(keep func(Assessment) bool) ([]Assessment, error) {
	all, err := svc.repo.QueryAllAssessments()
	if err != nil {
		return nil, err
	}
	asms := make([]Assessment, 0, len(all))
	for _, asm := range all {
		if keep(asm) {
			asms = append(asms, asm)
		}
	}
	return asms, nil
}

func (svc *Service) Update(id string, ua UpdateAssessment) (Assessment, error) {
	if err := ua.Validate(); err != nil {
		return Assessment{}, err
	}
	asm, err := svc.repo.GetAssessmentByID(id)
	if err != nil {
		return Assessment{}, err
	}
	if ua.Name != "" {
		asm.Name = ua.Name
	}
	if !ua.DueDate.IsZero() {
		asm.DueDate = ua.DueDate
	}
	return svc.repo.UpdateAssessment(asm)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteAssessmentsByID(ids...)
}

// RecordMark stores a student's mark, transitioning the assessment to GRADED
// on the first recorded mark. Out-of-range marks are rejected.
func (svc *Service) RecordMark(asmID, studentID string, mark float64) error {
	asm, err := svc.repo.GetAssessmentByID(asmID)
	if err != nil {
		return err
	}
	if mark < 0 || mark > asm.Type.TotalMarks() {
		return ErrMarkOutOfRange
	}
	if asm.Marks == nil {
		asm.Marks = make(map[string]float64)
	}
	asm.Marks[studentID] = mark
	asm.Status = StatusGraded
	_, err = svc.repo.UpdateAssessment(asm)
	return err
}

func (svc *Service) NextID() string {
	asms, err := svc.repo.QueryAllAssessments()
	if err != nil {
		svc.log.Error("assessment: scanning IDs", err)
	}
	ids := make([]string, 0, len(asms))
	for _, asm := range asms {
		ids = append(ids, asm.ID)
	}
	return core.NextSeqID(IDPrefix, ids)
}

// Feedback

func (svc *Service) CreateFeedback(nf NewFeedback) (Feedback, error) {
	if err := nf.Validate(); err != nil {
		return Feedback{}, err
	}
	fb := Feedback{
		ID:             svc.NextFeedbackID(),
		AssessmentID:   nf.AssessmentID,
		StudentID:      nf.StudentID,
		LecturerID:     nf.LecturerID,
		Content:        nf.Content,
		SuggestedMarks: nf.SuggestedMarks,
		CreatedAt:      time.Now(),
	}
	return svc.repo.CreateFeedback(fb)
}

func (svc *Service) GetFeedback(id string) (Feedback, error) {
	return svc.repo.GetFeedbackByID(id)
}

func (svc *Service) FeedbackByStudent(studentID string) ([]Feedback, error) {
	return svc.filterFeedback(func(fb Feedback) bool { return fb.StudentID == studentID })
}

func (svc *Service) FeedbackByAssessment(asmID string) ([]Feedback, error) {
	return svc.filterFeedback(func(fb Feedback) bool { return fb.AssessmentID == asmID })
}

func (svc *Service) filterFeedback(keep func(Feedback) bool) ([]Feedback, error) {
	all, err := svc.repo.QueryAllFeedback()
	if err != nil {
		return nil, err
	}
	fbs := make([]Feedback, 0, len(all))
	for _, fb := range all {
		if keep(fb) {
			fbs = append(fbs, fb)
		}
	}
	return fbs, nil
}

// DeliverFeedback flags the feedback as released to its student.
func (svc *Service) DeliverFeedback(id string) error {
	fb, err := svc.repo.GetFeedbackByID(id)
	if err != nil {
		return err
	}
	fb.IsDelivered = true
	_, err = svc.repo.UpdateFeedback(fb)
	return err
}

// AddComment records the single student reply on a delivered feedback. Only
// the addressed student may comment, and only once.
func (svc *Service) AddComment(feedbackID, studentID, text string) error {
	fb, err := svc.repo.GetFeedbackByID(feedbackID)
	if err != nil {
		return err
	}
	if fb.StudentID != studentID {
		return ErrNotAddressee
	}
	if !fb.IsDelivered {
		return ErrNotDelivered
	}
	if fb.HasComment() {
		return ErrCommentExists
	}
	text = core.CleanString(text)
	if err = core.Validate.Var(text, "nofieldsep"); err != nil {
		return err
	}
	fb.Comment = text
	_, err = svc.repo.UpdateFeedback(fb)
	return err
}

func (svc *Service) NextFeedbackID() string {
	fbs, err := svc.repo.QueryAllFeedback()
	if err != nil {
		svc.log.Error("assessment: scanning feedback IDs", err)
	}
	ids := make([]string, 0, len(fbs))
	for _, fb := range fbs {
		ids = append(ids, fb.ID)
	}
	return core.NextSeqID(FeedbackIDPrefix, ids)
}
