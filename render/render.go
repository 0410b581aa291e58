// Package render serializes section trees, tables, and page fragment
// streams into markdown and plain text. Rendering is a pure function of
// its input: the same tree always yields byte-identical output.
package render

import (
	"strings"

	"github.com/structura-io/structura/model"
)

// Markdown renders a section tree as markdown. Headings are literal '#'
// characters repeated level times, a space, then the heading text; body
// paragraphs are separated by a single blank line; tables use the
// pipe-delimited header/separator/data syntax.
func Markdown(root *model.Section) string {
	var parts []string
	collectMarkdown(root, &parts)
	return strings.Join(parts, "\n\n")
}

func collectMarkdown(s *model.Section, parts *[]string) {
	if s.Heading != "" && s.Level > 0 {
		*parts = append(*parts, strings.Repeat("#", s.Level)+" "+s.Heading)
	}
	for _, para := range paragraphs(s.Content) {
		*parts = append(*parts, para)
	}
	for _, t := range s.Tables {
		if md := t.ToMarkdown(); md != "" {
			*parts = append(*parts, md)
		}
	}
	for _, child := range s.Children {
		collectMarkdown(child, parts)
	}
}

// PlainText renders a section tree as plain text: the same traversal as
// Markdown with all markup stripped, parts separated by newlines.
func PlainText(root *model.Section) string {
	var parts []string
	collectPlain(root, &parts)
	return strings.Join(parts, "\n")
}

func collectPlain(s *model.Section, parts *[]string) {
	if s.Heading != "" && s.Level > 0 {
		*parts = append(*parts, s.Heading)
	}
	if s.Content != "" {
		*parts = append(*parts, s.Content)
	}
	for _, t := range s.Tables {
		*parts = append(*parts, t.PlainText())
	}
	for _, child := range s.Children {
		collectPlain(child, parts)
	}
}

// PageText renders one page's plain text: ordered fragments not consumed
// by a table, one per line, followed by the page's tables as tab-separated
// rows.
func PageText(fragments []model.Fragment, consumed map[int]bool, pageTables []*model.Table) string {
	var parts []string
	for i, f := range fragments {
		if consumed[i] {
			continue
		}
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	for _, t := range pageTables {
		parts = append(parts, t.PlainText())
	}
	return strings.Join(parts, "\n")
}

// paragraphs splits section content into its body paragraphs (one per
// stored line), dropping empties.
func paragraphs(content string) []string {
	if content == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
