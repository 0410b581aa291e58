// Package section folds an ordered, heading-classified fragment stream
// into a heading-nested tree of sections.
package section

import "github.com/structura-io/structura/model"

// Builder folds headings and body text, fed in document order, into a
// section tree rooted at a synthetic level-0 section. It maintains a stack
// of open sections; a heading at level L closes every open section at
// level >= L and opens a new one under the surviving top.
//
// The resulting tree always satisfies the level invariant: every child's
// level is strictly greater than its parent's, and sibling order matches
// document order.
type Builder struct {
	root  *model.Section
	stack []*model.Section
}

// NewBuilder creates a builder with an empty root section.
func NewBuilder() *Builder {
	root := model.NewRootSection()
	return &Builder{
		root:  root,
		stack: []*model.Section{root},
	}
}

// AddHeading opens a new section at the given level. Levels below 1 are
// treated as body text.
func (b *Builder) AddHeading(text string, level int) {
	if level < 1 {
		b.AddBody(text)
		return
	}

	for len(b.stack) > 1 && b.top().Level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}

	sec := &model.Section{Heading: text, Level: level}
	b.top().AddChild(sec)
	b.stack = append(b.stack, sec)
}

// AddBody appends body text to the currently open section. Text arriving
// before any heading accumulates on the root.
func (b *Builder) AddBody(text string) {
	b.top().AppendContent(text)
}

// AttachTable records a table on the currently open section.
func (b *Builder) AttachTable(t *model.Table) {
	top := b.top()
	top.Tables = append(top.Tables, t)
}

// Root returns the tree's root. The builder may keep being fed afterward;
// the root is live, not a snapshot.
func (b *Builder) Root() *model.Section {
	return b.root
}

func (b *Builder) top() *model.Section {
	return b.stack[len(b.stack)-1]
}
