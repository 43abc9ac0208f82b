package export

import (
	"strings"

	"golang.org/x/net/html"
)

// Editor markup is limited to a small construct set. Anything outside it is
// unwrapped so its text survives while the unknown tag does not.
var aliasTags = map[string]string{
	"strong": "strong", "b": "strong",
	"em": "em", "i": "em",
	"u": "u",
	"s": "s", "strike": "s", "del": "s",
}

var blockTags = map[string]bool{
	"p": true, "ul": true, "ol": true, "li": true, "blockquote": true,
}

// Dropped with their contents, not just unwrapped.
var skipTags = map[string]bool{
	"script": true, "style": true, "iframe": true, "object": true,
}

// RenderRichText sanitizes editor markup into the HTML fragment embedded in
// exports. Headings inside section content are clamped to h4/h5 so they
// always sit below the h2/h3 section headings. Markup that cannot be parsed
// degrades to an escaped paragraph instead of failing the export.
func RenderRichText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	if !strings.Contains(markup, "<") {
		return "<p>" + html.EscapeString(markup) + "</p>"
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "<p>" + html.EscapeString(markup) + "</p>"
	}
	body := findBody(root)
	if body == nil {
		return "<p>" + html.EscapeString(markup) + "</p>"
	}

	var sb strings.Builder
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		renderNode(&sb, child)
	}
	return sb.String()
}

func findBody(node *html.Node) *html.Node {
	if node.Type == html.ElementNode && node.Data == "body" {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBody(child); found != nil {
			return found
		}
	}
	return nil
}

func renderNode(sb *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		sb.WriteString(html.EscapeString(node.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	tag := node.Data
	switch {
	case skipTags[tag]:
		return
	case tag == "br":
		sb.WriteString("<br>")
		return
	case blockTags[tag]:
		renderWrapped(sb, node, tag)
	case aliasTags[tag] != "":
		renderWrapped(sb, node, aliasTags[tag])
	case tag == "a":
		renderLink(sb, node)
	case isHeading(tag):
		renderWrapped(sb, node, clampHeading(tag))
	default:
		renderChildren(sb, node)
	}
}

func renderChildren(sb *strings.Builder, node *html.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		renderNode(sb, child)
	}
}

func renderWrapped(sb *strings.Builder, node *html.Node, tag string) {
	sb.WriteString("<" + tag + ">")
	renderChildren(sb, node)
	sb.WriteString("</" + tag + ">")
}

func renderLink(sb *strings.Builder, node *html.Node) {
	href := ""
	for _, attr := range node.Attr {
		if attr.Key == "href" {
			href = attr.Val
			break
		}
	}
	if href == "" || strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:") {
		renderChildren(sb, node)
		return
	}
	sb.WriteString(`<a href="` + html.EscapeString(href) + `">`)
	renderChildren(sb, node)
	sb.WriteString("</a>")
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// Content headings get two levels below the h2/h3 section headings.
func clampHeading(tag string) string {
	if tag[1] <= '2' {
		return "h4"
	}
	return "h5"
}
