package grading

import (
	"errors"

	"github.com/trezcool/afs/core"
)

var ErrNotFound = errors.New("grading system not found")

type (
	Repository interface {
		GetGradingSystem() (System, error)
		SaveGradingSystem(gs System) (System, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Get returns the active grading system, seeding the default 8-tier scale on
// first use.
func (svc *Service) Get() (System, error) {
	gs, err := svc.repo.GetGradingSystem()
	if errors.Is(err, ErrNotFound) {
		gs = System{
			ID:                core.NextSeqID(SystemIDPrefix, nil),
			Name:              "Default Grading System",
			PassingPercentage: core.Conf.GetFloat64("defaultPassingPercentage"),
			Scales:            DefaultScales(),
		}
		return svc.repo.SaveGradingSystem(gs)
	}
	return gs, err
}

func (svc *Service) Save(gs System) (System, error) {
	return svc.repo.SaveGradingSystem(gs)
}

func (svc *Service) UpdatePassing(pct float64) (System, error) {
	gs, err := svc.Get()
	if err != nil {
		return System{}, err
	}
	gs.PassingPercentage = pct
	return svc.repo.SaveGradingSystem(gs)
}

// UpdateScale replaces the tier matching gradeID. Tier order is preserved;
// ranges are not validated for contiguity or overlap (first-match lookup
// semantics are kept as-is).
func (svc *Service) UpdateScale(scale Scale) (System, error) {
	gs, err := svc.Get()
	if err != nil {
		return System{}, err
	}
	for i, s := range gs.Scales {
		if s.GradeID == scale.GradeID {
			gs.Scales[i] = scale
			return svc.repo.SaveGradingSystem(gs)
		}
	}
	return System{}, ErrNotFound
}
