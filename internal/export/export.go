package export

import (
	"fmt"
	"html/template"

	"soaw/api/internal/document"
)

// Render produces the requested format from shared ordered and filtered
// units. The HTML format is the standalone page used for preview and
// printing; PDF and DOCX are derived from the same page.
func Render(format Format, meta Meta, units []document.Unit) (*Result, error) {
	body := BuildBodyHTML(meta, units)
	page, err := RenderStandaloneHTML(TemplateData{
		Title:       meta.Name,
		BodyHTML:    template.HTML(body),
		GeneratedAt: meta.GeneratedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	base := exportFilename(meta.Name, meta)
	switch format {
	case FormatHTML:
		return &Result{
			Data:     []byte(page),
			Filename: base + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatPDF:
		return exportPDF(page, base)
	case FormatDOCX:
		return exportDOCX(page, base)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// exportFilename builds the {name}_{date} base every format shares.
func exportFilename(name string, meta Meta) string {
	return sanitizeFilename(name) + "_" + meta.GeneratedAt.Format("2006-01-02")
}

// sanitizeFilename creates a safe filename from a document name
func sanitizeFilename(name string) string {
	result := ""
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result += string(r)
		case r == ' ':
			result += "-"
		case r == '-', r == '_':
			result += string(r)
		default:
			// Skip other characters
		}
	}

	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "document"
	}
	return result
}
