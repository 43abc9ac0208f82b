package export

import (
	"strings"
	"testing"
	"time"

	"soaw/api/internal/document"
	"soaw/api/internal/registry"
)

func TestRenderRichText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text wrapped in paragraph",
			input:    "hello world",
			expected: "<p>hello world</p>",
		},
		{
			name:     "paragraph passes through",
			input:    "<p>Background text</p>",
			expected: "<p>Background text</p>",
		},
		{
			name:     "mark aliases normalized",
			input:    "<p><b>bold</b> and <i>italic</i></p>",
			expected: "<p><strong>bold</strong> and <em>italic</em></p>",
		},
		{
			name:     "lists survive",
			input:    "<ul><li>one</li><li>two</li></ul>",
			expected: "<ul><li>one</li><li>two</li></ul>",
		},
		{
			name:     "unknown tags unwrapped",
			input:    `<p><span style="color:red">text</span></p>`,
			expected: "<p>text</p>",
		},
		{
			name:     "script content escaped away",
			input:    "<p>safe</p><script>alert(1)</script>",
			expected: "<p>safe</p>",
		},
		{
			name:     "h1 clamped below section headings",
			input:    "<h1>Inner Title</h1>",
			expected: "<h4>Inner Title</h4>",
		},
		{
			name:     "h3 clamped to second sub-level",
			input:    "<h3>Deep Title</h3>",
			expected: "<h5>Deep Title</h5>",
		},
		{
			name:     "javascript href dropped",
			input:    `<p><a href="javascript:alert(1)">link</a></p>`,
			expected: "<p>link</p>",
		},
		{
			name:     "http link kept",
			input:    `<p><a href="https://example.com">link</a></p>`,
			expected: `<a href="https://example.com">link</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderRichText(tt.input)
			if !strings.Contains(result, tt.expected) {
				t.Errorf("RenderRichText(%q) = %q, want it to contain %q", tt.input, result, tt.expected)
			}
		})
	}

	if got := RenderRichText("<p>safe</p><script>alert(1)</script>"); strings.Contains(got, "alert") {
		t.Errorf("script body leaked into output: %q", got)
	}
}

func exportMeta() Meta {
	return Meta{
		Name:           "Payments Platform SoAW",
		Status:         document.StatusInReview,
		RevisionNumber: 2,
		Info:           document.Info{PreparedBy: "Dana", ReviewedBy: "Priya", ReviewDate: "2026-03-01"},
		VersionHistory: []document.VersionEntry{
			{Version: "1.0", Date: "2026-02-20", RevisedBy: "Dana", Description: "Initial draft"},
		},
		Signatories: []document.Signatory{
			{UserID: "usr_1", DisplayName: "Dana", Email: "dana@example.com", Status: document.SignatoryPending},
		},
		GeneratedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func exportUnits() []document.Unit {
	riskDef, _ := registry.Lookup("2.1")
	return []document.Unit{
		{Kind: document.UnitPartHeader, Part: registry.PartI},
		{Kind: document.UnitTemplate,
			Def:  registry.SectionDef{ID: "1.1", Title: "Background", Type: registry.TypeRichText, Part: registry.PartI, Level: 3},
			Data: document.SectionData{Content: "<p>Background text</p>"}},
		{Kind: document.UnitTemplate, Def: riskDef,
			Data: document.SectionData{Table: &document.TableData{
				Columns: []string{"Business Objective", "Notes"},
				Rows:    [][]string{{"Grow revenue", "Q1 target"}, {"", ""}},
			}}},
		{Kind: document.UnitTemplate,
			Def:  registry.SectionDef{ID: "4.1", Title: "Project Plan and Schedule", Type: registry.TypeTogafPhases, Part: registry.PartI, Level: 3},
			Data: document.SectionData{Togaf: map[string]string{"a": "Vision workshop in March"}}},
		{Kind: document.UnitCustom,
			Custom: document.CustomSection{ID: "custom_1", Title: "Budget Note", Content: "<p>$50k ceiling</p>", InsertAfter: "2.1"}},
	}
}

func TestBuildBodyHTML(t *testing.T) {
	body := BuildBodyHTML(exportMeta(), exportUnits())

	for _, want := range []string{
		"Payments Platform SoAW",
		"In Review",
		"Revision 2",
		"Prepared By",
		"Version History",
		"Part I: Statement of Architecture Work",
		"1.1 Background",
		"<p>Background text</p>",
		"2.1 Business Objectives",
		"Grow revenue",
		"Phase A: Architecture Vision",
		"Vision workshop in March",
		"Budget Note",
		`<span class="custom-badge">Custom</span>`,
		"Signatures",
		"dana@example.com",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	// Table sections keep their filled rows only; the trailing blank editor
	// row never reaches the output.
	if strings.Contains(body, "<tr><td></td><td></td></tr>") {
		t.Error("all-blank table row leaked into output")
	}
}

func TestPhaseTableKeepsEveryPhaseRow(t *testing.T) {
	units := []document.Unit{
		{Kind: document.UnitTemplate,
			Def:  registry.SectionDef{ID: "4.1", Title: "Project Plan and Schedule", Type: registry.TypeTogafPhases, Level: 3},
			Data: document.SectionData{Togaf: map[string]string{"a": "Vision workshop in March"}}},
	}
	body := BuildBodyHTML(Meta{Name: "Doc"}, units)

	for _, phase := range registry.Phases() {
		if !strings.Contains(body, phase.Label) {
			t.Errorf("phase table missing row for %q", phase.Label)
		}
	}
	if !strings.Contains(body, "<td>Phase A: Architecture Vision</td><td>Vision workshop in March</td>") {
		t.Error("filled phase lost its value")
	}
	if !strings.Contains(body, "<td>Phase B: Business Architecture</td><td>&mdash;</td>") {
		t.Error("blank phase should render a placeholder, not disappear")
	}
}

func TestBuildBodyHTMLSectionHeadingLevels(t *testing.T) {
	units := []document.Unit{
		{Kind: document.UnitTemplate,
			Def:  registry.SectionDef{ID: "1", Title: "Project Request and Background", Type: registry.TypeRichText, Level: 2},
			Data: document.SectionData{Content: "<p>Summary</p>"}},
		{Kind: document.UnitTemplate,
			Def:  registry.SectionDef{ID: "1.1", Title: "Background", Type: registry.TypeRichText, Level: 3},
			Data: document.SectionData{Content: "<p>Detail</p>"}},
	}
	body := BuildBodyHTML(Meta{Name: "Doc"}, units)

	if !strings.Contains(body, `<h2 class="section-title">1 Project Request and Background</h2>`) {
		t.Error("major sections should render as h2")
	}
	if !strings.Contains(body, `<h3 class="section-title">1.1 Background</h3>`) {
		t.Error("minor sections should render as h3")
	}
}

func TestRenderStandaloneHTML(t *testing.T) {
	meta := exportMeta()
	result, err := Render(FormatHTML, meta, exportUnits())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	page := string(result.Data)
	if !strings.Contains(page, "<!DOCTYPE html>") {
		t.Error("standalone page missing doctype")
	}
	if !strings.Contains(page, "<p>Background text</p>") {
		t.Error("body HTML was escaped instead of rendered raw")
	}
	if !strings.Contains(page, "March 10, 2026") {
		t.Error("generated date missing from footer")
	}
	if result.Filename != "Payments-Platform-SoAW_2026-03-10.html" {
		t.Errorf("unexpected filename %q", result.Filename)
	}
	if result.MimeType != "text/html; charset=utf-8" {
		t.Errorf("unexpected mime type %q", result.MimeType)
	}
}

func TestParseFormat(t *testing.T) {
	for _, value := range []string{"html", "pdf", "docx"} {
		if _, err := ParseFormat(value); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", value, err)
		}
	}
	if _, err := ParseFormat("odt"); err != ErrUnsupportedFormat {
		t.Errorf("ParseFormat(odt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello-World"},
		{"My Document v1.2", "My-Document-v12"},
		{"Special!@#$%Chars", "SpecialChars"},
		{"", "document"},
		{"Very Long Title That Exceeds Fifty Characters Limit", "Very-Long-Title-That-Exceeds-Fifty-Characters-Limi"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := sanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello world", "hello%20world"},
		{"test+sign", "test%2Bsign"},
		{"special<>", "special%3C%3E"},
		{"normal-text.txt", "normal-text.txt"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := percentEncodeForDataURL(tt.input)
			if result != tt.expected {
				t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
