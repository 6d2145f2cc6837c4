package flatfile

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/afs/core/grading"
)

// grading line: id|name|passing|tier,tier,... with tier = gradeID:letter:min:max:desc:gpa
const (
	gradingFields    = 4
	gradingTierParts = 6
)

func encodeGradingSystem(gs grading.System) string {
	tiers := make([]string, 0, len(gs.Scales))
	for _, s := range gs.Scales {
		tiers = append(tiers, strings.Join([]string{
			s.GradeID,
			s.Letter,
			formatFloat(s.MinPercentage),
			formatFloat(s.MaxPercentage),
			s.Description,
			formatFloat(s.GPA),
		}, pairSep))
	}
	return strings.Join([]string{
		gs.ID,
		gs.Name,
		formatFloat(gs.PassingPercentage),
		joinList(tiers),
	}, fieldSep)
}

func decodeGradingSystem(line string) (grading.System, error) {
	flds := strings.Split(line, fieldSep)
	if len(flds) < gradingFields {
		return grading.System{}, errFieldCount
	}
	passing, err := strconv.ParseFloat(flds[2], 64)
	if err != nil {
		return grading.System{}, errors.Wrap(err, "passing percentage")
	}
	gs := grading.System{
		ID:                flds[0],
		Name:              flds[1],
		PassingPercentage: passing,
	}
	for _, tier := range splitList(flds[3]) {
		parts := strings.Split(tier, pairSep)
		if len(parts) != gradingTierParts {
			return grading.System{}, errors.Errorf("bad grading tier %q", tier)
		}
		min, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return grading.System{}, errors.Wrap(err, "tier min")
		}
		max, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return grading.System{}, errors.Wrap(err, "tier max")
		}
		gpa, err := strconv.ParseFloat(parts[5], 64)
		if err != nil {
			return grading.System{}, errors.Wrap(err, "tier gpa")
		}
		gs.Scales = append(gs.Scales, grading.Scale{
			GradeID:       parts[0],
			Letter:        parts[1],
			MinPercentage: min,
			MaxPercentage: max,
			Description:   parts[4],
			GPA:           gpa,
		})
	}
	return gs, nil
}

func cloneGradingSystem(gs *grading.System) grading.System {
	cp := *gs
	cp.Scales = append([]grading.Scale(nil), gs.Scales...)
	return cp
}

// loadGrading reads the single grading record; extra lines are ignored with a
// warning.
func (db *DB) loadGrading() error {
	lines, err := readLines(db.path(gradingFile))
	if err != nil {
		return err
	}
	for i, line := range lines {
		gs, err := decodeGradingSystem(line)
		if err != nil {
			db.log.Info("flatfile: skipping bad grading record", "file", gradingFile, "line", i+1, "err", err)
			continue
		}
		if db.grading.system != nil {
			db.log.Info("flatfile: ignoring extra grading record", "file", gradingFile, "line", i+1)
			continue
		}
		db.grading.system = &gs
	}
	return nil
}

// gradingRepository

type gradingRepository struct {
	db *DB
}

func NewGradingRepository(db *DB) grading.Repository {
	return &gradingRepository{db: db}
}

func (repo *gradingRepository) GetGradingSystem() (grading.System, error) {
	repo.db.grading.RLock()
	defer repo.db.grading.RUnlock()

	if repo.db.grading.system == nil {
		return grading.System{}, grading.ErrNotFound
	}
	return cloneGradingSystem(repo.db.grading.system), nil
}

func (repo *gradingRepository) SaveGradingSystem(gs grading.System) (grading.System, error) {
	repo.db.grading.Lock()
	defer repo.db.grading.Unlock()

	repo.db.grading.system = &gs
	if err := writeLines(repo.db.path(gradingFile), []string{encodeGradingSystem(gs)}); err != nil {
		repo.db.log.Error("flatfile: persisting grading system", err, "id", gs.ID)
		return gs, err
	}
	return gs, nil
}
