package export

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"soaw/api/internal/document"
	"soaw/api/internal/registry"
)

// BuildBodyHTML assembles the document body shared by every output format:
// title block, document-information table, version history, then the
// ordered and filtered units, then the signature block.
func BuildBodyHTML(meta Meta, units []document.Unit) string {
	var sb strings.Builder

	writeTitleBlock(&sb, meta)
	writeInfoTable(&sb, meta.Info)
	writeVersionHistory(&sb, meta.VersionHistory)

	for _, unit := range units {
		switch unit.Kind {
		case document.UnitPartHeader:
			fmt.Fprintf(&sb, `<h1 class="part-title">Part %s: %s</h1>`+"\n",
				html.EscapeString(string(unit.Part)), html.EscapeString(registry.PartTitle(unit.Part)))
		case document.UnitTemplate:
			writeTemplateSection(&sb, unit.Def, unit.Data)
		case document.UnitCustom:
			writeCustomSection(&sb, unit.Custom)
		}
	}

	writeSignatureBlock(&sb, meta)
	return sb.String()
}

func writeTitleBlock(sb *strings.Builder, meta Meta) {
	fmt.Fprintf(sb, `<h1 class="document-title">%s</h1>`+"\n", html.EscapeString(meta.Name))
	fmt.Fprintf(sb, `<p class="document-status">Status: %s &middot; Revision %d</p>`+"\n",
		html.EscapeString(statusLabel(meta.Status)), meta.RevisionNumber)
}

func statusLabel(status document.Status) string {
	switch status {
	case document.StatusDraft:
		return "Draft"
	case document.StatusInReview:
		return "In Review"
	case document.StatusApproved:
		return "Approved"
	case document.StatusSigned:
		return "Signed"
	}
	return string(status)
}

func writeInfoTable(sb *strings.Builder, info document.Info) {
	sb.WriteString(`<table class="document-info"><tbody>` + "\n")
	writeInfoRow(sb, "Prepared By", info.PreparedBy)
	writeInfoRow(sb, "Reviewed By", info.ReviewedBy)
	writeInfoRow(sb, "Review Date", info.ReviewDate)
	sb.WriteString("</tbody></table>\n")
}

func writeInfoRow(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "<tr><th>%s</th><td>%s</td></tr>\n",
		html.EscapeString(label), html.EscapeString(value))
}

func writeVersionHistory(sb *strings.Builder, entries []document.VersionEntry) {
	if len(entries) == 0 {
		return
	}
	sb.WriteString(`<h2 class="section-title">Version History</h2>` + "\n")
	sb.WriteString(`<table class="data-table"><thead><tr>` +
		"<th>Version</th><th>Date</th><th>Revised By</th><th>Description</th>" +
		"</tr></thead><tbody>\n")
	for _, entry := range entries {
		fmt.Fprintf(sb, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(entry.Version), html.EscapeString(entry.Date),
			html.EscapeString(entry.RevisedBy), html.EscapeString(entry.Description))
	}
	sb.WriteString("</tbody></table>\n")
}

func writeTemplateSection(sb *strings.Builder, def registry.SectionDef, data document.SectionData) {
	writeSectionHeading(sb, def.Level, def.ID+" "+def.Title)
	if def.Preamble != "" {
		fmt.Fprintf(sb, `<p class="preamble">%s</p>`+"\n", html.EscapeString(def.Preamble))
	}
	switch def.Type {
	case registry.TypeTable:
		writeDataTable(sb, def.Columns, data.Table)
	case registry.TypeTogafPhases:
		writePhaseTable(sb, data.Togaf)
	default:
		sb.WriteString(RenderRichText(data.Content) + "\n")
	}
}

func writeCustomSection(sb *strings.Builder, custom document.CustomSection) {
	fmt.Fprintf(sb, `<h3 class="section-title">%s <span class="custom-badge">Custom</span></h3>`+"\n",
		html.EscapeString(custom.Title))
	sb.WriteString(RenderRichText(custom.Content) + "\n")
}

func writeSectionHeading(sb *strings.Builder, level int, title string) {
	tag := "h3"
	if level <= 2 {
		tag = "h2"
	}
	fmt.Fprintf(sb, `<%s class="section-title">%s</%s>`+"\n", tag, html.EscapeString(title), tag)
}

func writeDataTable(sb *strings.Builder, columns []string, table *document.TableData) {
	if table != nil && len(table.Columns) > 0 {
		columns = table.Columns
	}
	sb.WriteString(`<table class="data-table"><thead><tr>`)
	for _, col := range columns {
		fmt.Fprintf(sb, "<th>%s</th>", html.EscapeString(col))
	}
	sb.WriteString("</tr></thead><tbody>\n")
	if table != nil {
		for _, row := range table.Rows {
			if rowIsBlank(row) {
				continue
			}
			sb.WriteString("<tr>")
			for _, cell := range row {
				fmt.Fprintf(sb, "<td>%s</td>", html.EscapeString(cell))
			}
			sb.WriteString("</tr>\n")
		}
	}
	sb.WriteString("</tbody></table>\n")
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// writePhaseTable emits one row per fixed phase. Blank phases keep their
// label with a placeholder glyph; dropping rows would make a partially
// filled plan look complete.
func writePhaseTable(sb *strings.Builder, togaf map[string]string) {
	sb.WriteString(`<table class="data-table"><thead><tr><th>Phase</th><th>Planned Activities</th></tr></thead><tbody>` + "\n")
	for _, phase := range registry.Phases() {
		value := strings.TrimSpace(togaf[phase.Key])
		cell := "&mdash;"
		if value != "" {
			cell = html.EscapeString(value)
		}
		fmt.Fprintf(sb, "<tr><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(phase.Label), cell)
	}
	sb.WriteString("</tbody></table>\n")
}

func writeSignatureBlock(sb *strings.Builder, meta Meta) {
	if len(meta.Signatories) == 0 {
		return
	}
	sb.WriteString(`<h2 class="section-title">Signatures</h2>` + "\n")
	sb.WriteString(`<table class="data-table"><thead><tr>` +
		"<th>Name</th><th>Email</th><th>Status</th><th>Signed At</th>" +
		"</tr></thead><tbody>\n")
	for _, signatory := range meta.Signatories {
		signedAt := ""
		if signatory.SignedAt != nil {
			signedAt = signatory.SignedAt.Format("2006-01-02")
		}
		fmt.Fprintf(sb, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(signatory.DisplayName), html.EscapeString(signatory.Email),
			html.EscapeString(string(signatory.Status)), html.EscapeString(signedAt))
	}
	sb.WriteString("</tbody></table>\n")
}
