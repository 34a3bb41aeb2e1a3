// internal/services/scraper/content.go
package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// extractText walks the parsed document and collects visible text, skipping
// script, style and noscript subtrees.
func extractText(n *html.Node) string {
	var extract func(*html.Node, *strings.Builder)

	extract = func(n *html.Node, sb *strings.Builder) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c, sb)
		}
	}

	var sb strings.Builder
	extract(n, &sb)
	return sb.String()
}

// collapseWhitespace reduces all whitespace runs to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate caps content length for faster model processing.
func truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars] + "..."
}
