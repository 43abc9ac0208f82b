// Package registry holds the fixed Statement of Architecture Work template:
// the ordered section catalog and the TOGAF phase list. The catalog is
// immutable at runtime; documents reference sections by id.
package registry

type SectionType string

const (
	TypeRichText    SectionType = "rich_text"
	TypeTable       SectionType = "table"
	TypeTogafPhases SectionType = "togaf_phases"
)

type Part string

const (
	PartI  Part = "I"
	PartII Part = "II"
)

// PartTitle returns the fixed display name used for part headings in every
// rendered output.
func PartTitle(p Part) string {
	switch p {
	case PartI:
		return "Statement of Architecture Work"
	case PartII:
		return "Baseline and Target Architectures"
	default:
		return string(p)
	}
}

// SectionDef describes one template section. Columns is present iff
// Type == TypeTable.
type SectionDef struct {
	ID       string
	Title    string
	Type     SectionType
	Part     Part
	Level    int
	Hint     string
	Preamble string
	Columns  []string
}

// Phase is one entry of the fixed TOGAF phase list used by
// TypeTogafPhases sections.
type Phase struct {
	Key   string
	Label string
}

var phases = []Phase{
	{Key: "a", Label: "Phase A: Architecture Vision"},
	{Key: "b", Label: "Phase B: Business Architecture"},
	{Key: "c", Label: "Phase C: Information Systems Architectures"},
	{Key: "d", Label: "Phase D: Technology Architecture"},
	{Key: "e", Label: "Phase E: Opportunities and Solutions"},
	{Key: "f", Label: "Phase F: Migration Planning"},
	{Key: "g", Label: "Phase G: Implementation Governance"},
	{Key: "h", Label: "Phase H: Architecture Change Management"},
	{Key: "rm", Label: "Requirements Management"},
}

var sections = []SectionDef{
	{ID: "1", Title: "Project Request and Background", Type: TypeRichText, Part: PartI, Level: 2,
		Hint: "Summarize the Request for Architecture Work that initiated this engagement."},
	{ID: "1.1", Title: "Background", Type: TypeRichText, Part: PartI, Level: 3,
		Hint: "Describe the organizational and business context behind the request."},
	{ID: "2", Title: "Project Description and Scope", Type: TypeRichText, Part: PartI, Level: 2},
	{ID: "2.1", Title: "Business Objectives", Type: TypeTable, Part: PartI, Level: 3,
		Preamble: "The following objectives drive the scope and priorities of this architecture work.",
		Columns:  []string{"Business Objective", "Notes"}},
	{ID: "2.2", Title: "Scope", Type: TypeRichText, Part: PartI, Level: 3,
		Hint: "State what is in and out of scope, including organizational units and time horizon."},
	{ID: "2.3", Title: "Stakeholders and Their Concerns", Type: TypeRichText, Part: PartI, Level: 3},
	{ID: "3", Title: "Architecture Vision", Type: TypeRichText, Part: PartI, Level: 2},
	{ID: "3.1", Title: "Vision Statement", Type: TypeRichText, Part: PartI, Level: 3,
		Hint: "Summarize the target state this work will deliver."},
	{ID: "4", Title: "Managerial Approach", Type: TypeRichText, Part: PartI, Level: 2},
	{ID: "4.1", Title: "Project Plan and Schedule", Type: TypeTogafPhases, Part: PartI, Level: 3,
		Preamble: "Planned activities and timing for each architecture development phase."},
	{ID: "5", Title: "Change of Scope Procedures", Type: TypeRichText, Part: PartI, Level: 2,
		Hint: "Describe how scope changes are raised, assessed and approved."},
	{ID: "6", Title: "Roles, Responsibilities and Deliverables", Type: TypeRichText, Part: PartI, Level: 2},
	{ID: "6.1", Title: "Assignments", Type: TypeTable, Part: PartI, Level: 3,
		Columns: []string{"Role", "Responsibility", "Deliverable"}},
	{ID: "7", Title: "Risks and Issues", Type: TypeRichText, Part: PartII, Level: 2},
	{ID: "7.1", Title: "Risk Register", Type: TypeTable, Part: PartII, Level: 3,
		Columns: []string{"Risk #", "Description", "Priority", "Status"}},
	{ID: "8", Title: "Baseline Architecture", Type: TypeRichText, Part: PartII, Level: 2},
	{ID: "8.1", Title: "Baseline Summary", Type: TypeRichText, Part: PartII, Level: 3,
		Hint: "Describe the as-is architecture relevant to this engagement."},
	{ID: "9", Title: "Target Architecture", Type: TypeRichText, Part: PartII, Level: 2},
	{ID: "9.1", Title: "Target Summary", Type: TypeRichText, Part: PartII, Level: 3,
		Hint: "Describe the to-be architecture at the level of detail agreed for this engagement."},
	{ID: "10", Title: "Gap Analysis", Type: TypeRichText, Part: PartII, Level: 2},
	{ID: "10.1", Title: "Identified Gaps", Type: TypeTable, Part: PartII, Level: 3,
		Columns: []string{"Gap", "Impacted Capability", "Remediation"}},
}

// Sections returns the template catalog in document order. Callers receive
// a copy so the catalog cannot be mutated.
func Sections() []SectionDef {
	out := make([]SectionDef, len(sections))
	copy(out, sections)
	return out
}

// Phases returns the fixed TOGAF phase list.
func Phases() []Phase {
	out := make([]Phase, len(phases))
	copy(out, phases)
	return out
}

// Lookup finds a template section by id.
func Lookup(id string) (SectionDef, bool) {
	for _, def := range sections {
		if def.ID == id {
			return def, true
		}
	}
	return SectionDef{}, false
}
