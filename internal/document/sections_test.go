package document

import (
	"reflect"
	"testing"

	"soaw/api/internal/registry"
)

func testCatalog() []registry.SectionDef {
	return []registry.SectionDef{
		{ID: "1.1", Title: "Background", Type: registry.TypeRichText, Part: registry.PartI, Level: 3},
		{ID: "2.1", Title: "Business Objectives", Type: registry.TypeTable, Part: registry.PartI, Level: 3,
			Columns: []string{"Business Objective", "Notes"}},
		{ID: "4.1", Title: "Project Plan and Schedule", Type: registry.TypeTogafPhases, Part: registry.PartI, Level: 3},
		{ID: "7.1", Title: "Risk Register", Type: registry.TypeTable, Part: registry.PartII, Level: 3,
			Columns: []string{"Risk #", "Description", "Priority", "Status"}},
	}
}

func TestDefaultSectionsShapes(t *testing.T) {
	defs := testCatalog()
	defaults := DefaultSections(defs)

	if len(defaults) != len(defs) {
		t.Fatalf("expected %d defaults, got %d", len(defs), len(defaults))
	}

	rich := defaults["1.1"]
	if rich.Content != "" || rich.Table != nil || rich.Togaf != nil {
		t.Errorf("unexpected rich default: %+v", rich)
	}

	table := defaults["2.1"]
	if table.Table == nil {
		t.Fatal("table default missing table data")
	}
	if len(table.Table.Rows) != 1 || len(table.Table.Rows[0]) != 2 {
		t.Errorf("table default should have one blank row of column width, got %+v", table.Table.Rows)
	}

	togaf := defaults["4.1"]
	if len(togaf.Togaf) != 9 {
		t.Fatalf("togaf default should carry all 9 phase keys, got %d", len(togaf.Togaf))
	}
	for key, value := range togaf.Togaf {
		if value != "" {
			t.Errorf("phase %q default should be empty, got %q", key, value)
		}
	}
}

func TestMergeHealsMissingCatalogSections(t *testing.T) {
	// Persisted map predates section 7.1 being added to the catalog.
	persisted := map[string]SectionData{
		"1.1": {Content: "<p>Background text</p>"},
	}
	merged, customs := MergeSections(testCatalog(), persisted, nil)

	if len(customs) != 0 {
		t.Fatalf("expected no custom sections, got %d", len(customs))
	}
	if merged["1.1"].Content != "<p>Background text</p>" {
		t.Errorf("persisted content lost in merge: %+v", merged["1.1"])
	}
	healed, ok := merged["7.1"]
	if !ok {
		t.Fatal("section 7.1 missing from merged store")
	}
	if healed.Table == nil || len(healed.Table.Rows) != 1 || len(healed.Table.Rows[0]) != 4 {
		t.Errorf("healed table has wrong default shape: %+v", healed.Table)
	}
}

func TestMergeDropsOrphanedKeys(t *testing.T) {
	persisted := map[string]SectionData{
		"99.9": {Content: "<p>From a removed template section</p>"},
	}
	merged, _ := MergeSections(testCatalog(), persisted, nil)
	if _, ok := merged["99.9"]; ok {
		t.Error("orphaned persisted key should be dropped")
	}
}

func TestMergeExtractsCustomSectionsInCreationOrder(t *testing.T) {
	persisted := map[string]SectionData{
		"custom_b": {Content: "<p>Second</p>", Title: "Second", InsertAfter: "2.1", Position: 2},
		"custom_a": {Content: "<p>First</p>", Title: "First", InsertAfter: "2.1", Position: 1},
	}
	_, customs := MergeSections(testCatalog(), persisted, nil)
	if len(customs) != 2 {
		t.Fatalf("expected 2 custom sections, got %d", len(customs))
	}
	if customs[0].ID != "custom_a" || customs[1].ID != "custom_b" {
		t.Errorf("custom sections out of creation order: %+v", customs)
	}
	if customs[0].Title != "First" || customs[0].InsertAfter != "2.1" {
		t.Errorf("side fields not recovered: %+v", customs[0])
	}
}

func TestMergeKeepsKnownOrderWithoutPositions(t *testing.T) {
	// A client sending only title/insertAfter side fields must not shuffle
	// the customs the document already has.
	existing := []CustomSection{
		{ID: "custom_zz", Title: "First", InsertAfter: "2.1"},
		{ID: "custom_aa", Title: "Second", InsertAfter: "2.1"},
	}
	persisted := map[string]SectionData{
		"custom_aa":  {Title: "Second", InsertAfter: "2.1"},
		"custom_zz":  {Title: "First", InsertAfter: "2.1"},
		"custom_new": {Title: "Added", InsertAfter: "1.1"},
	}
	_, customs := MergeSections(testCatalog(), persisted, existing)

	if len(customs) != 3 {
		t.Fatalf("expected 3 custom sections, got %d", len(customs))
	}
	if customs[0].ID != "custom_zz" || customs[1].ID != "custom_aa" {
		t.Errorf("known creation order lost: %+v", customs)
	}
	if customs[2].ID != "custom_new" {
		t.Errorf("new custom should append after known ones: %+v", customs)
	}
}

func TestMergeFillsMissingTogafPhases(t *testing.T) {
	persisted := map[string]SectionData{
		"4.1": {Togaf: map[string]string{"a": "Kick-off in March"}},
	}
	merged, _ := MergeSections(testCatalog(), persisted, nil)
	togaf := merged["4.1"].Togaf
	if len(togaf) != 9 {
		t.Fatalf("merged togaf should carry all phase keys, got %d", len(togaf))
	}
	if togaf["a"] != "Kick-off in March" {
		t.Errorf("persisted phase value lost: %q", togaf["a"])
	}
	if togaf["rm"] != "" {
		t.Errorf("missing phase should default to empty, got %q", togaf["rm"])
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	defs := testCatalog()
	sections := DefaultSections(defs)
	sections["1.1"] = SectionData{Content: "<p>Body</p>"}
	customs := []CustomSection{
		{ID: "custom_1", Title: "Budget Note", Content: "<p>$50k</p>", InsertAfter: "2.1"},
	}

	flat := FlattenSections(sections, customs)
	merged, gotCustoms := MergeSections(defs, flat, nil)

	if !reflect.DeepEqual(merged["1.1"], sections["1.1"]) {
		t.Errorf("template section changed in round trip: %+v", merged["1.1"])
	}
	if !reflect.DeepEqual(gotCustoms, customs) {
		t.Errorf("custom sections changed in round trip: %+v", gotCustoms)
	}
}
