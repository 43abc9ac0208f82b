package document

import "soaw/api/internal/registry"

type UnitKind string

const (
	UnitPartHeader UnitKind = "part_header"
	UnitTemplate   UnitKind = "template"
	UnitCustom     UnitKind = "custom"
)

// Unit is the atomic renderable item produced by Order and consumed by
// every renderer. Exactly the fields for its kind are set.
type Unit struct {
	Kind   UnitKind
	Part   registry.Part
	Def    registry.SectionDef
	Data   SectionData
	Custom CustomSection
}

// Order produces the single linear unit sequence shared by the editor view
// and both fixed-format renderers: part headers before their first member,
// template sections in catalog order, custom sections immediately after
// their insertAfter target in creation order, and remaining customs
// (empty or stale insertAfter) appended at the end exactly once.
func Order(defs []registry.SectionDef, sections map[string]SectionData, customs []CustomSection) []Unit {
	units := make([]Unit, 0, len(defs)+len(customs)+2)
	emitted := make(map[string]bool, len(customs))

	var currentPart registry.Part
	for _, def := range defs {
		if def.Part != currentPart {
			currentPart = def.Part
			units = append(units, Unit{Kind: UnitPartHeader, Part: currentPart})
		}
		units = append(units, Unit{Kind: UnitTemplate, Def: def, Data: sections[def.ID]})
		for _, custom := range customs {
			if custom.InsertAfter != def.ID || emitted[custom.ID] {
				continue
			}
			emitted[custom.ID] = true
			units = append(units, Unit{Kind: UnitCustom, Custom: custom})
		}
	}

	for _, custom := range customs {
		if emitted[custom.ID] {
			continue
		}
		emitted[custom.ID] = true
		units = append(units, Unit{Kind: UnitCustom, Custom: custom})
	}

	return units
}
