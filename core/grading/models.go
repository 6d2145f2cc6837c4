package grading

// SystemIDPrefix scopes generated grading system IDs.
const SystemIDPrefix = "GS"

// NoGrade is returned when no scale entry covers a percentage.
const NoGrade = "N/A"

// Scale is one tier of a grading system, covering [MinPercentage, MaxPercentage].
type Scale struct {
	GradeID       string  `json:"grade_id"`
	Letter        string  `json:"letter"`
	MinPercentage float64 `json:"min_percentage"`
	MaxPercentage float64 `json:"max_percentage"`
	Description   string  `json:"description"`
	GPA           float64 `json:"gpa"`
}

func (s Scale) Contains(pct float64) bool {
	return pct >= s.MinPercentage && pct <= s.MaxPercentage
}

// System is an ordered set of grading tiers. Ranges are intended to be
// contiguous and non-overlapping across [0,100] but are not validated; lookup
// is first-match-wins in tier order, so overlapping or gapped ranges give
// order-dependent or NoGrade results.
type System struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	PassingPercentage float64 `json:"passing_percentage"`
	Scales            []Scale `json:"scales"`
}

// DefaultScales seeds every new grading system with the standard 8 tiers.
func DefaultScales() []Scale {
	return []Scale{
		{GradeID: "G1", Letter: "A+", MinPercentage: 90, MaxPercentage: 100, Description: "Outstanding", GPA: 4.0},
		{GradeID: "G2", Letter: "A", MinPercentage: 80, MaxPercentage: 89.99, Description: "Excellent", GPA: 3.7},
		{GradeID: "G3", Letter: "B+", MinPercentage: 75, MaxPercentage: 79.99, Description: "Very Good", GPA: 3.3},
		{GradeID: "G4", Letter: "B", MinPercentage: 70, MaxPercentage: 74.99, Description: "Good", GPA: 3.0},
		{GradeID: "G5", Letter: "C+", MinPercentage: 65, MaxPercentage: 69.99, Description: "Credit", GPA: 2.7},
		{GradeID: "G6", Letter: "C", MinPercentage: 60, MaxPercentage: 64.99, Description: "Satisfactory", GPA: 2.3},
		{GradeID: "G7", Letter: "D", MinPercentage: 50, MaxPercentage: 59.99, Description: "Marginal Pass", GPA: 2.0},
		{GradeID: "G8", Letter: "F", MinPercentage: 0, MaxPercentage: 49.99, Description: "Fail", GPA: 0.0},
	}
}

// LetterFor returns the letter of the first tier containing pct, or NoGrade.
func (gs *System) LetterFor(pct float64) string {
	for _, s := range gs.Scales {
		if s.Contains(pct) {
			return s.Letter
		}
	}
	return NoGrade
}

// GPAFor returns the GPA of the first tier containing pct.
func (gs *System) GPAFor(pct float64) (float64, bool) {
	for _, s := range gs.Scales {
		if s.Contains(pct) {
			return s.GPA, true
		}
	}
	return 0, false
}

func (gs *System) IsPassing(pct float64) bool {
	return pct >= gs.PassingPercentage
}
