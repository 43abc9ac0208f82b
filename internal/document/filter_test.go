package document

import (
	"testing"

	"soaw/api/internal/registry"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{name: "plain text", markup: "hello", want: "hello"},
		{name: "paragraph", markup: "<p>Background text</p>", want: "Background text"},
		{name: "nested marks", markup: "<p><strong><em>bold italic</em></strong></p>", want: "bold italic"},
		{name: "empty tags", markup: "<p></p><p>  </p>", want: "  "},
		{name: "unclosed tag still yields text", markup: "<p>unclosed", want: "unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.markup); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.markup, got, tt.want)
			}
		})
	}
}

func TestIsRenderableRichText(t *testing.T) {
	def := registry.SectionDef{ID: "1.1", Type: registry.TypeRichText}

	tests := []struct {
		name string
		data SectionData
		want bool
	}{
		{name: "with content", data: SectionData{Content: "<p>Text</p>"}, want: true},
		{name: "empty", data: SectionData{}, want: false},
		{name: "whitespace only", data: SectionData{Content: "   "}, want: false},
		{name: "empty tags only", data: SectionData{Content: "<p></p><p> </p>"}, want: false},
		{name: "hidden with content", data: SectionData{Content: "<p>Text</p>", Hidden: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsRenderable(Unit{Kind: UnitTemplate, Def: def, Data: tt.data})
			if got != tt.want {
				t.Errorf("IsRenderable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRenderableTable(t *testing.T) {
	def := registry.SectionDef{ID: "2.1", Type: registry.TypeTable, Columns: []string{"A", "B"}}

	tests := []struct {
		name string
		rows [][]string
		want bool
	}{
		{name: "no rows", rows: nil, want: false},
		{name: "default blank row", rows: [][]string{{"", ""}}, want: false},
		{name: "one partly filled row", rows: [][]string{{"Grow revenue", ""}}, want: true},
		{name: "blank row then filled row", rows: [][]string{{"", ""}, {"", "Q1 target"}}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := SectionData{Table: &TableData{Columns: []string{"A", "B"}, Rows: tt.rows}}
			got := IsRenderable(Unit{Kind: UnitTemplate, Def: def, Data: data})
			if got != tt.want {
				t.Errorf("IsRenderable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRenderableTogaf(t *testing.T) {
	def := registry.SectionDef{ID: "4.1", Type: registry.TypeTogafPhases}

	empty := map[string]string{"a": "", "b": " ", "rm": ""}
	if IsRenderable(Unit{Kind: UnitTemplate, Def: def, Data: SectionData{Togaf: empty}}) {
		t.Error("all-blank togaf section should not be renderable")
	}

	filled := map[string]string{"a": "Vision workshop", "b": "", "rm": ""}
	if !IsRenderable(Unit{Kind: UnitTemplate, Def: def, Data: SectionData{Togaf: filled}}) {
		t.Error("togaf section with one filled phase should be renderable")
	}
}

func TestCustomUnitsAlwaysRenderable(t *testing.T) {
	unit := Unit{Kind: UnitCustom, Custom: CustomSection{ID: "custom_1", Title: "Note"}}
	if !IsRenderable(unit) {
		t.Error("custom units are always renderable")
	}
}

func TestFilterElidesEmptyPartHeader(t *testing.T) {
	defs := testCatalog()
	sections := DefaultSections(defs)
	sections["1.1"] = SectionData{Content: "<p>Text</p>"}
	// Everything in part II stays empty.

	units := Filter(Order(defs, sections, nil))
	for _, unit := range units {
		if unit.Kind == UnitPartHeader && unit.Part == registry.PartII {
			t.Error("part II header should be elided when all members are filtered")
		}
		if unit.Kind == UnitTemplate && unit.Def.Part == registry.PartII {
			t.Errorf("empty part II section %q should be filtered", unit.Def.ID)
		}
	}
}

func TestFilterKeepsHeaderForPartWithCustomTail(t *testing.T) {
	defs := testCatalog()
	sections := DefaultSections(defs)
	sections["1.1"] = SectionData{Content: "<p>Text</p>"}
	customs := []CustomSection{{ID: "custom_1", Title: "Appendix", InsertAfter: "7.1"}}

	units := Filter(Order(defs, sections, customs))
	sawPartII := false
	for _, unit := range units {
		if unit.Kind == UnitPartHeader && unit.Part == registry.PartII {
			sawPartII = true
		}
	}
	if !sawPartII {
		t.Error("part II header should survive when a custom section lives there")
	}
}
