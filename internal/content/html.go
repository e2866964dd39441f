package content

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Pre-compiled expressions for HTML cleanup. Order matters: containers whose
// bodies are never content (scripts, nav, svg) go first, then structural tags
// are rewritten as markdown so the extraction pass can see the document
// outline, then everything left is stripped.
var (
	scriptTag   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag     = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag      = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	navTag      = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	footerTag   = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	asideTag    = regexp.MustCompile(`(?is)<aside[^>]*>.*?</aside>`)
	htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)

	headingOpen  = regexp.MustCompile(`(?i)<h([1-6])[^>]*>`)
	headingClose = regexp.MustCompile(`(?i)</h[1-6]>`)
	listItemOpen = regexp.MustCompile(`(?i)<li[^>]*>`)
	preOpen      = regexp.MustCompile(`(?i)<pre[^>]*>`)
	preClose     = regexp.MustCompile(`(?i)</pre>`)
	imgTag       = regexp.MustCompile(`(?i)<img[^>]*>`)
	brTag        = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockClose   = regexp.MustCompile(`(?i)</(p|div|li|tr|blockquote|table|dl|dd|section|article|ul|ol)>`)
	blockOpen    = regexp.MustCompile(`(?i)<(p|div|tr|blockquote|table|dl|dt|section|article)[^>]*>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)

	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// looksLikeHTML reports whether raw markup needs tag stripping before the
// markdown extraction pass.
func looksLikeHTML(raw string) bool {
	lower := strings.ToLower(raw)
	for _, marker := range []string{"<html", "<body", "<div", "<p>", "<h1", "<h2", "<article", "<!doctype"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// htmlToMarkdown converts scraped HTML into markdown-shaped plain text,
// preserving headings, list items, and code blocks, and reports how many
// image tags were dropped.
func htmlToMarkdown(raw string) (string, int) {
	content := raw

	// Containers with no extractable prose.
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = navTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = asideTag.ReplaceAllString(content, "")
	content = htmlComment.ReplaceAllString(content, "")

	images := len(imgTag.FindAllString(content, -1))
	content = imgTag.ReplaceAllString(content, "")

	// Structural tags become markdown markers.
	content = headingOpen.ReplaceAllStringFunc(content, func(tag string) string {
		m := headingOpen.FindStringSubmatch(tag)
		level := 1
		if len(m) == 2 {
			fmt.Sscanf(m[1], "%d", &level)
		}
		return "\n" + strings.Repeat("#", level) + " "
	})
	content = headingClose.ReplaceAllString(content, "\n")
	content = listItemOpen.ReplaceAllString(content, "\n- ")
	content = preOpen.ReplaceAllString(content, "\n```\n")
	content = preClose.ReplaceAllString(content, "\n```\n")
	content = brTag.ReplaceAllString(content, "\n")
	content = blockOpen.ReplaceAllString(content, "\n")
	content = blockClose.ReplaceAllString(content, "\n")

	// Everything else is markup noise.
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	return normalizeWhitespace(content), images
}

// normalizeWhitespace collapses runs of spaces, trims line edges, and keeps
// at most one blank line between blocks.
func normalizeWhitespace(content string) string {
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	trimmed := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed = append(trimmed, strings.TrimSpace(line))
	}
	content = strings.Join(trimmed, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
