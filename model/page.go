package model

// Page holds one page's structured output: fragments in reading order,
// reconstructed tables, and image references.
type Page struct {
	// Number is the 1-indexed page number.
	Number int

	// Width and Height are the page dimensions, when known.
	Width  float64
	Height float64

	// Fragments are the page's fragments in resolved reading order.
	Fragments []Fragment

	// Tables are the tables reconstructed on this page.
	Tables []*Table

	// Images are references to images placed on the page.
	Images []ImageRef

	// Content is the page's rendered plain text.
	Content string
}

// IsEmpty reports whether the page carries no content at all.
func (p *Page) IsEmpty() bool {
	return len(p.Fragments) == 0 && len(p.Tables) == 0 && len(p.Images) == 0
}
