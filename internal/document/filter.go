package document

import (
	"strings"

	"golang.org/x/net/html"

	"soaw/api/internal/registry"
)

// StripMarkup extracts the text content of a rich markup string. Malformed
// markup degrades to the raw input rather than failing; the filter only
// needs to know whether anything visible is left.
func StripMarkup(markup string) string {
	if !strings.Contains(markup, "<") {
		return markup
	}
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return sb.String()
}

// IsRenderable reports whether a unit contributes visible content. All
// renderers apply it identically. Part headers are handled by Filter,
// which knows whether any member survived.
func IsRenderable(unit Unit) bool {
	switch unit.Kind {
	case UnitPartHeader:
		return true
	case UnitCustom:
		// Authors control custom-section relevance by deleting them.
		return true
	}

	data := unit.Data
	if data.Hidden {
		return false
	}
	switch unit.Def.Type {
	case registry.TypeTable:
		if data.Table == nil {
			return false
		}
		for _, row := range data.Table.Rows {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					return true
				}
			}
		}
		return false
	case registry.TypeTogafPhases:
		for _, value := range data.Togaf {
			if strings.TrimSpace(value) != "" {
				return true
			}
		}
		return false
	default:
		return strings.TrimSpace(StripMarkup(data.Content)) != ""
	}
}

// Filter drops non-renderable units and elides part headers whose members
// were all filtered out. A naive single pass would emit a header before
// discovering it has no visible children, so visibility is resolved first
// and headers re-checked afterwards.
func Filter(units []Unit) []Unit {
	visible := make([]bool, len(units))
	for i, unit := range units {
		visible[i] = IsRenderable(unit)
	}

	out := make([]Unit, 0, len(units))
	for i, unit := range units {
		if !visible[i] {
			continue
		}
		if unit.Kind == UnitPartHeader {
			if !partHasVisibleMember(units, visible, i) {
				continue
			}
		}
		out = append(out, unit)
	}
	return out
}

func partHasVisibleMember(units []Unit, visible []bool, headerIndex int) bool {
	for i := headerIndex + 1; i < len(units); i++ {
		if units[i].Kind == UnitPartHeader {
			return false
		}
		if visible[i] {
			return true
		}
	}
	return false
}
