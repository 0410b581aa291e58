package model

import "strings"

// Document is the result of structuring one document: ordered pages, the
// section tree, all tables, and the two deterministic renderings.
type Document struct {
	// Pages in page-number order.
	Pages []*Page

	// Root is the synthetic level-0 root of the section tree.
	Root *Section

	// Tables aggregates every table across all pages in page order.
	Tables []*Table

	// Content is the plain-text rendering: per-page content concatenated
	// in page order.
	Content string

	// Markdown is the markdown rendering of the section tree and tables.
	Markdown string
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// WordCount returns the number of whitespace-separated words in the
// document's plain text.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Content))
}

// GetPage returns a page by 1-indexed number, or nil when out of range.
func (d *Document) GetPage(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}
