package document

import (
	"sort"

	"soaw/api/internal/registry"
)

// DefaultSections builds one empty, correctly shaped SectionData per
// template section. The result's key set always equals the catalog's id
// set, which is what lets persisted documents heal when sections are added
// to the catalog after the document was created.
func DefaultSections(defs []registry.SectionDef) map[string]SectionData {
	out := make(map[string]SectionData, len(defs))
	for _, def := range defs {
		out[def.ID] = defaultSection(def)
	}
	return out
}

func defaultSection(def registry.SectionDef) SectionData {
	switch def.Type {
	case registry.TypeTable:
		columns := make([]string, len(def.Columns))
		copy(columns, def.Columns)
		return SectionData{Table: &TableData{
			Columns: columns,
			Rows:    [][]string{make([]string, len(columns))},
		}}
	case registry.TypeTogafPhases:
		togaf := make(map[string]string, 9)
		for _, phase := range registry.Phases() {
			togaf[phase.Key] = ""
		}
		return SectionData{Togaf: togaf}
	default:
		return SectionData{}
	}
}

// MergeSections reconciles a persisted flat sections map (possibly written
// against an older catalog) with the current catalog. Template entries are
// overlaid onto defaults so newly added catalog sections appear with their
// default shape; persisted keys no longer in the catalog are dropped.
// Custom-namespaced entries are extracted into an ordered CustomSection
// list using their title/insertAfter side fields. existing carries the
// document's customs in their current creation order; entries whose
// payload omits the position side field keep that order, and ids new to
// the document go after them.
func MergeSections(defs []registry.SectionDef, persisted map[string]SectionData, existing []CustomSection) (map[string]SectionData, []CustomSection) {
	merged := DefaultSections(defs)

	knownOrder := make(map[string]int, len(existing))
	for i, custom := range existing {
		knownOrder[custom.ID] = i + 1
	}

	type orderedCustom struct {
		section  CustomSection
		position int
	}
	var customs []orderedCustom

	for id, data := range persisted {
		if IsCustomID(id) {
			position := data.Position
			if position == 0 {
				position = knownOrder[id]
			}
			customs = append(customs, orderedCustom{
				section: CustomSection{
					ID:          id,
					Title:       data.Title,
					Content:     data.Content,
					InsertAfter: data.InsertAfter,
				},
				position: position,
			})
			continue
		}
		base, ok := merged[id]
		if !ok {
			continue
		}
		merged[id] = overlaySection(base, data)
	}

	// Creation order: explicit position first, then the document's known
	// order; entries with neither sort after everything, by id so the
	// result stays deterministic.
	sort.SliceStable(customs, func(i, j int) bool {
		pi, pj := customs[i].position, customs[j].position
		if (pi == 0) != (pj == 0) {
			return pj == 0
		}
		if pi != pj {
			return pi < pj
		}
		return customs[i].section.ID < customs[j].section.ID
	})

	out := make([]CustomSection, 0, len(customs))
	for _, c := range customs {
		out = append(out, c.section)
	}
	return merged, out
}

// overlaySection shallow-merges persisted fields onto the default entry,
// keeping the default shape where the persisted record is missing a part
// (a table payload saved before a column was added, a togaf map missing a
// phase key).
func overlaySection(base, persisted SectionData) SectionData {
	out := base
	out.Content = persisted.Content
	out.Hidden = persisted.Hidden
	if persisted.Table != nil {
		out.Table = persisted.Table
	}
	if persisted.Togaf != nil && out.Togaf != nil {
		togaf := make(map[string]string, len(out.Togaf))
		for key := range out.Togaf {
			togaf[key] = ""
			if value, ok := persisted.Togaf[key]; ok {
				togaf[key] = value
			}
		}
		out.Togaf = togaf
	}
	return out
}

// FlattenSections is the inverse of MergeSections for the save payload:
// template sections plus custom sections tagged by their namespaced id and
// carrying title/insertAfter/position side fields, merged back into one
// flat map.
func FlattenSections(sections map[string]SectionData, customs []CustomSection) map[string]SectionData {
	out := make(map[string]SectionData, len(sections)+len(customs))
	for id, data := range sections {
		out[id] = data
	}
	for i, custom := range customs {
		out[custom.ID] = SectionData{
			Content:     custom.Content,
			Title:       custom.Title,
			InsertAfter: custom.InsertAfter,
			Position:    i + 1,
		}
	}
	return out
}
