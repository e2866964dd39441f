package content

import (
	"strings"

	gmtext "github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// ExtractOutline lists a section's subheading titles in document order.
// The page title is excluded; heading levels two and three form the
// outline.
func ExtractOutline(text string) []string {
	src := []byte(text)
	doc := markdown.Parser().Parse(gmtext.NewReader(src))

	tree, err := toc.Inspect(doc, src,
		toc.MinDepth(2),
		toc.MaxDepth(3),
		toc.Compact(true),
	)
	if err != nil || tree == nil {
		return nil
	}

	var out []string
	var walk func(items toc.Items)
	walk = func(items toc.Items) {
		for _, item := range items {
			if title := strings.TrimSpace(string(item.Title)); title != "" {
				out = append(out, title)
			}
			walk(item.Items)
		}
	}
	walk(tree.Items)
	return out
}
