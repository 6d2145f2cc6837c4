package course

// ID prefixes
const (
	ModuleIDPrefix = "MOD"
	ClassIDPrefix  = "CLS"
)

type Module struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	CreditHours int    `json:"credit_hours"`
	Department  string `json:"department"`
}

// PlaceholderModule stands in for a module reference that no longer resolves
// (e.g. the module was deleted after classes were created against it).
func PlaceholderModule(id string) Module {
	return Module{ID: id, Name: "Unknown Module", Code: "N/A"}
}

// Class is a scheduled offering of a module. The module and lecturer are weak
// by-ID references; LecturerID may be empty ("unassigned"). StudentIDs keeps
// enrollment order and is bounded by Capacity.
type Class struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ModuleID   string   `json:"module_id"`
	LecturerID string   `json:"lecturer_id,omitempty"`
	Semester   string   `json:"semester"`
	Capacity   int      `json:"capacity"`
	StudentIDs []string `json:"student_ids"`
}

func (c *Class) IsFull() bool {
	return len(c.StudentIDs) >= c.Capacity
}

func (c *Class) IsEnrolled(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

func (c *Class) HasLecturer() bool {
	return c.LecturerID != ""
}
