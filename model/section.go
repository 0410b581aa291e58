package model

import "fmt"

// InvariantViolation reports a broken internal contract. It is used for
// programming errors inside the structuring core, never for malformed input
// data, and is raised via panic at the point the contract breaks.
type InvariantViolation struct {
	Msg string
}

// Error implements the error interface.
func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}

// Section is a node of the heading-nested document tree. Level 0 is the
// synthetic root; levels 1..N increase with nesting depth. Every child's
// level is strictly greater than its parent's; siblings may repeat levels.
type Section struct {
	// Heading is the heading text. Empty for the root and for implicit
	// body-only sections.
	Heading string

	// Level is the heading level (0 = root).
	Level int

	// Content is the section's body text, lines joined by newlines.
	Content string

	// Tables are tables attached to this section, in document order.
	Tables []*Table

	// Children are nested subsections in document order.
	Children []*Section
}

// NewRootSection creates the synthetic level-0 root.
func NewRootSection() *Section {
	return &Section{Level: 0}
}

// AddChild appends a child section. The child's level must be strictly
// greater than the parent's; anything else is a contract violation in the
// tree builder and panics.
func (s *Section) AddChild(child *Section) {
	if child.Level <= s.Level {
		panic(&InvariantViolation{
			Msg: fmt.Sprintf("child section level %d not greater than parent level %d", child.Level, s.Level),
		})
	}
	s.Children = append(s.Children, child)
}

// AppendContent adds a line of body text to the section.
func (s *Section) AppendContent(text string) {
	if text == "" {
		return
	}
	if s.Content != "" {
		s.Content += "\n"
	}
	s.Content += text
}

// Walk visits the section and all descendants depth-first in document order.
// Returning false from fn stops the walk.
func (s *Section) Walk(fn func(*Section) bool) bool {
	if !fn(s) {
		return false
	}
	for _, child := range s.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}
