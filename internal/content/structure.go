package content

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

// extraction is the outcome of one markdown structure pass: the structured
// content plus the raw counts the quality metrics are computed from.
type extraction struct {
	structured *hig.StructuredContent
	headings   int
	listItems  int
	codeBlocks int
	images     int
}

// Heading labels that route the list items and paragraphs that follow them.
var (
	guidelinesHeading = regexp.MustCompile(`(?i)\bguidelines?\b|\bbest practices\b`)
	examplesHeading   = regexp.MustCompile(`(?i)\bexamples?\b`)
	relatedHeading    = regexp.MustCompile(`(?i)\brelated\b`)

	// specLine captures "Label: value" pairs; the value guard avoids
	// swallowing URLs ("https://...").
	specLine = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 ()/+-]{1,39}):\s+([^/].*)$`)
)

type bucket int

const (
	bucketOverview bucket = iota
	bucketGuidelines
	bucketExamples
	bucketRelated
	bucketOther
)

var markdown = goldmark.New()

// extractStructure parses markdown-shaped text and maps it onto the
// structured-content model: leading paragraphs become the overview, list
// items under a Guidelines/Examples/Related heading fill those arrays, and
// "Label: value" lines populate the specifications map.
func extractStructure(source string) extraction {
	src := []byte(source)
	doc := markdown.Parser().Parse(gmtext.NewReader(src))

	result := extraction{
		structured: &hig.StructuredContent{
			Specifications: map[string]string{},
		},
	}

	current := bucketOverview
	var overviewParts []string
	sawHeading := false

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			result.headings++
			label := nodeText(n, src)
			switch {
			case !sawHeading && n.Level == 1:
				// The document title; the overview follows it.
				current = bucketOverview
			case guidelinesHeading.MatchString(label):
				current = bucketGuidelines
			case examplesHeading.MatchString(label):
				current = bucketExamples
			case relatedHeading.MatchString(label):
				current = bucketRelated
			default:
				current = bucketOther
			}
			sawHeading = true

		case *ast.Paragraph, *ast.TextBlock:
			text := nodeText(node, src)
			if text == "" {
				continue
			}
			if consumed := collectSpecs(text, result.structured.Specifications); consumed {
				continue
			}
			if current == bucketOverview {
				overviewParts = append(overviewParts, text)
			}

		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				result.listItems++
				text := nodeText(item, src)
				if text == "" {
					continue
				}
				if collectSpecs(text, result.structured.Specifications) {
					continue
				}
				switch current {
				case bucketGuidelines:
					result.structured.Guidelines = append(result.structured.Guidelines, text)
				case bucketExamples:
					result.structured.Examples = append(result.structured.Examples, text)
				case bucketRelated:
					result.structured.RelatedConcepts = append(result.structured.RelatedConcepts, text)
				}
			}

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			result.codeBlocks++
		}
	}

	// Inline nodes (images, code spans) live below the block level.
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindImage {
			result.images++
		}
		return ast.WalkContinue, nil
	})

	result.structured.Overview = strings.Join(overviewParts, "\n\n")
	if len(result.structured.Specifications) == 0 {
		result.structured.Specifications = nil
	}
	return result
}

// collectSpecs pulls "Label: value" lines out of a text block into specs.
// Returns true when every line of the block was a specification, meaning the
// block carries no prose worth keeping elsewhere.
func collectSpecs(text string, specs map[string]string) bool {
	lines := strings.Split(text, "\n")
	matched := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			matched++
			continue
		}
		m := specLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if label != "" && value != "" {
			specs[label] = value
			matched++
		}
	}
	return matched == len(lines) && matched > 0
}

// nodeText flattens the inline text of a node, keeping soft breaks as
// newlines so specification lines stay line-addressable.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.URL(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
