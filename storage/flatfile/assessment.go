package flatfile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/afs/core/assessment"
)

// assessment line: id|name|type|moduleID|classID|createdBy|created|due|status|stu:mark,stu:mark
const assessmentFields = 10

func encodeAssessment(asm assessment.Assessment) string {
	return strings.Join([]string{
		asm.ID,
		asm.Name,
		string(asm.Type),
		asm.ModuleID,
		asm.ClassID,
		asm.CreatedBy,
		formatTime(asm.CreatedAt),
		formatTime(asm.DueDate),
		string(asm.Status),
		encodeMarks(asm.Marks),
	}, fieldSep)
}

func decodeAssessment(line string) (assessment.Assessment, error) {
	flds := strings.Split(line, fieldSep)
	if len(flds) < assessmentFields {
		return assessment.Assessment{}, errFieldCount
	}
	typ := assessment.Type(flds[2])
	if !typ.Valid() {
		return assessment.Assessment{}, errors.Errorf("unknown assessment type %q", flds[2])
	}
	createdAt, err := parseTime(flds[6])
	if err != nil {
		return assessment.Assessment{}, errors.Wrap(err, "created date")
	}
	dueDate, err := parseTime(flds[7])
	if err != nil {
		return assessment.Assessment{}, errors.Wrap(err, "due date")
	}
	marks, err := decodeMarks(flds[9])
	if err != nil {
		return assessment.Assessment{}, err
	}
	return assessment.Assessment{
		ID:        flds[0],
		Name:      flds[1],
		Type:      typ,
		ModuleID:  flds[3],
		ClassID:   flds[4],
		CreatedBy: flds[5],
		CreatedAt: createdAt,
		DueDate:   dueDate,
		Status:    assessment.Status(flds[8]),
		Marks:     marks,
	}, nil
}

// encodeMarks packs the studentID->mark map as "stu:mark" pairs in studentID
// order so rewrites are deterministic.
func encodeMarks(marks map[string]float64) string {
	ids := make([]string, 0, len(marks))
	for id := range marks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	pairs := make([]string, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, id+pairSep+formatFloat(marks[id]))
	}
	return joinList(pairs)
}

func decodeMarks(s string) (map[string]float64, error) {
	marks := make(map[string]float64)
	for _, pair := range splitList(s) {
		parts := strings.SplitN(pair, pairSep, 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("bad mark entry %q", pair)
		}
		mark, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "mark for %s", parts[0])
		}
		marks[parts[0]] = mark
	}
	return marks, nil
}

// feedback line: id|assessmentID|studentID|lecturerID|content|suggestedMarks|created|delivered|comment
const feedbackFields = 9

func encodeFeedback(fb assessment.Feedback) string {
	return strings.Join([]string{
		fb.ID,
		fb.AssessmentID,
		fb.StudentID,
		fb.LecturerID,
		fb.Content,
		formatFloat(fb.SuggestedMarks),
		formatTime(fb.CreatedAt),
		formatBool(fb.IsDelivered),
		fb.Comment,
	}, fieldSep)
}

func decodeFeedback(line string) (assessment.Feedback, error) {
	flds := strings.Split(line, fieldSep)
	if len(flds) < feedbackFields {
		return assessment.Feedback{}, errFieldCount
	}
	marks, err := strconv.ParseFloat(flds[5], 64)
	if err != nil {
		return assessment.Feedback{}, errors.Wrap(err, "suggested marks")
	}
	createdAt, err := parseTime(flds[6])
	if err != nil {
		return assessment.Feedback{}, errors.Wrap(err, "created date")
	}
	delivered, err := strconv.ParseBool(flds[7])
	if err != nil {
		return assessment.Feedback{}, errors.Wrap(err, "delivered flag")
	}
	return assessment.Feedback{
		ID:             flds[0],
		AssessmentID:   flds[1],
		StudentID:      flds[2],
		LecturerID:     flds[3],
		Content:        flds[4],
		SuggestedMarks: marks,
		CreatedAt:      createdAt,
		IsDelivered:    delivered,
		Comment:        flds[8],
	}, nil
}

func cloneAssessment(asm *assessment.Assessment) assessment.Assessment {
	cp := *asm
	cp.Marks = make(map[string]float64, len(asm.Marks))
	for id, mark := range asm.Marks {
		cp.Marks[id] = mark
	}
	return cp
}

func (db *DB) loadAssessments() error {
	lines, err := readLines(db.path(assessmentsFile))
	if err != nil {
		return err
	}
	for i, line := range lines {
		asm, err := decodeAssessment(line)
		if err != nil {
			db.log.Info("flatfile: skipping bad assessment record", "file", assessmentsFile, "line", i+1, "err", err)
			continue
		}
		if _, ok := db.module.table[asm.ModuleID]; !ok {
			db.log.Info("flatfile: assessment references unknown module", "assessment", asm.ID, "module", asm.ModuleID)
		}
		db.assessment.table[asm.ID] = &asm
	}
	return nil
}

func (db *DB) loadFeedback() error {
	lines, err := readLines(db.path(feedbackFile))
	if err != nil {
		return err
	}
	for i, line := range lines {
		fb, err := decodeFeedback(line)
		if err != nil {
			db.log.Info("flatfile: skipping bad feedback record", "file", feedbackFile, "line", i+1, "err", err)
			continue
		}
		db.feedback.table[fb.ID] = &fb
	}
	return nil
}

func (db *DB) saveAllAssessments() error {
	lines := make([]string, 0, len(db.assessment.table))
	for _, asm := range sortedAssessments(db.assessment.table) {
		lines = append(lines, encodeAssessment(asm))
	}
	return writeLines(db.path(assessmentsFile), lines)
}

func (db *DB) saveAllFeedback() error {
	lines := make([]string, 0, len(db.feedback.table))
	for _, fb := range sortedFeedback(db.feedback.table) {
		lines = append(lines, encodeFeedback(fb))
	}
	return writeLines(db.path(feedbackFile), lines)
}

func sortedAssessments(table map[string]*assessment.Assessment) []assessment.Assessment {
	asms := make([]assessment.Assessment, 0, len(table))
	for _, asm := range table {
		asms = append(asms, cloneAssessment(asm))
	}
	sort.Slice(asms, func(i, j int) bool { return asms[i].ID < asms[j].ID })
	return asms
}

func sortedFeedback(table map[string]*assessment.Feedback) []assessment.Feedback {
	fbs := make([]assessment.Feedback, 0, len(table))
	for _, fb := range table {
		fbs = append(fbs, *fb)
	}
	sort.Slice(fbs, func(i, j int) bool { return fbs[i].ID < fbs[j].ID })
	return fbs
}

// assessmentRepository

type assessmentRepository struct {
	db *DB
}

func NewAssessmentRepository(db *DB) assessment.Repository {
	return &assessmentRepository{db: db}
}

func (repo *assessmentRepository) CreateAssessment(asm assessment.Assessment) (assessment.Assessment, error) {
	repo.db.assessment.Lock()
	defer repo.db.assessment.Unlock()

	repo.db.assessment.table[asm.ID] = &asm
	if err := appendLine(repo.db.path(assessmentsFile), encodeAssessment(asm)); err != nil {
		repo.db.log.Error("flatfile: persisting assessment", err, "id", asm.ID)
		return asm, err
	}
	return asm, nil
}

func (repo *assessmentRepository) QueryAllAssessments() ([]assessment.Assessment, error) {
	repo.db.assessment.RLock()
	defer repo.db.assessment.RUnlock()
	return sortedAssessments(repo.db.assessment.table), nil
}

func (repo *assessmentRepository) GetAssessmentByID(id string) (assessment.Assessment, error) {
	repo.db.assessment.RLock()
	defer repo.db.assessment.RUnlock()

	if asm, ok := repo.db.assessment.table[id]; ok {
		return cloneAssessment(asm), nil
	}
	return assessment.Assessment{}, assessment.ErrNotFound
}

func (repo *assessmentRepository) UpdateAssessment(asm assessment.Assessment) (assessment.Assessment, error) {
	repo.db.assessment.Lock()
	defer repo.db.assessment.Unlock()

	if _, ok := repo.db.assessment.table[asm.ID]; !ok {
		return assessment.Assessment{}, assessment.ErrNotFound
	}
	repo.db.assessment.table[asm.ID] = &asm
	if err := repo.db.saveAllAssessments(); err != nil {
		repo.db.log.Error("flatfile: persisting assessment update", err, "id", asm.ID)
		return asm, err
	}
	return asm, nil
}

func (repo *assessmentRepository) DeleteAssessmentsByID(ids ...string) error {
	repo.db.assessment.Lock()
	defer repo.db.assessment.Unlock()

	for _, id := range ids {
		delete(repo.db.assessment.table, id)
	}
	if err := repo.db.saveAllAssessments(); err != nil {
		repo.db.log.Error("flatfile: persisting assessment delete", err)
		return err
	}
	return nil
}

func (repo *assessmentRepository) CreateFeedback(fb assessment.Feedback) (assessment.Feedback, error) {
	repo.db.feedback.Lock()
	defer repo.db.feedback.Unlock()

	repo.db.feedback.table[fb.ID] = &fb
	if err := appendLine(repo.db.path(feedbackFile), encodeFeedback(fb)); err != nil {
		repo.db.log.Error("flatfile: persisting feedback", err, "id", fb.ID)
		return fb, err
	}
	return fb, nil
}

func (repo *assessmentRepository) QueryAllFeedback() ([]assessment.Feedback, error) {
	repo.db.feedback.RLock()
	defer repo.db.feedback.RUnlock()
	return sortedFeedback(repo.db.feedback.table), nil
}

func (repo *assessmentRepository) GetFeedbackByID(id string) (assessment.Feedback, error) {
	repo.db.feedback.RLock()
	defer repo.db.feedback.RUnlock()

	if fb, ok := repo.db.feedback.table[id]; ok {
		return *fb, nil
	}
	return assessment.Feedback{}, assessment.ErrFeedbackNotFound
}

func (repo *assessmentRepository) UpdateFeedback(fb assessment.Feedback) (assessment.Feedback, error) {
	repo.db.feedback.Lock()
	defer repo.db.feedback.Unlock()

	if _, ok := repo.db.feedback.table[fb.ID]; !ok {
		return assessment.Feedback{}, assessment.ErrFeedbackNotFound
	}
	repo.db.feedback.table[fb.ID] = &fb
	if err := repo.db.saveAllFeedback(); err != nil {
		repo.db.log.Error("flatfile: persisting feedback update", err, "id", fb.ID)
		return fb, err
	}
	return fb, nil
}
