// Package structura turns position-tagged text fragments into an
// ordered, hierarchical document: fragments are sorted into reading
// order, headings are inferred from font statistics, tables are
// reconstructed from ruling lines or spatial alignment, and the result
// is folded into a section tree with markdown and plain-text renderings.
//
// Basic usage:
//
//	s := structura.New()
//	doc, warnings, err := s.Structure(ctx, pages)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("warnings:", structura.FormatWarnings(warnings))
//	}
//	fmt.Println(doc.Markdown)
//
// The same input always produces byte-identical output regardless of
// worker count.
package structura

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/structura-io/structura/config"
	"github.com/structura-io/structura/hybrid"
	"github.com/structura-io/structura/layout"
	"github.com/structura-io/structura/model"
	"github.com/structura-io/structura/render"
	"github.com/structura-io/structura/section"
	"github.com/structura-io/structura/source"
	"github.com/structura-io/structura/tables"
)

// Structurer runs the structuring pipeline. A Structurer is safe for
// concurrent use; all mutable state lives in the per-call pipeline.
type Structurer struct {
	log             *log.Logger
	tunables        config.Tunables
	headerOverrides map[int][]string
}

// New creates a Structurer with default tunables and a discarded logger.
func New(opts ...Option) *Structurer {
	s := &Structurer{
		log:      log.New(io.Discard),
		tunables: config.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// pageResult carries one page's phase-two output into the serial fold.
type pageResult struct {
	page     *model.Page
	ordered  []model.Fragment
	consumed map[int]bool
	table    *model.Table
	degraded bool
	warnings []Warning
}

// Structure processes the given pages into a document. Page indices in
// the input are positional: pages[i] is treated as page i regardless of
// its Number field.
//
// Processing is three-phased. Font statistics are computed over all
// digital fragments first; pages are then processed in parallel (hybrid
// merge, reading order, table reconstruction); finally the pages are
// folded in order into the section tree and rendered. A panic in a page
// stage degrades that page to an unordered text concatenation and is
// reported as a warning, never as an error.
func (s *Structurer) Structure(ctx context.Context, pages []source.PageContent) (*model.Document, []Warning, error) {
	stats := s.computeFontStats(pages)

	results := make([]pageResult, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	merger := hybrid.NewMergerWithConfig(s.tunables.Hybrid)
	resolver := layout.NewResolverWithConfig(s.tunables.Reading)
	builder := tables.NewBuilderWithConfig(s.tunables.Tables)

	for i := range pages {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = s.processPage(i, pages[i], merger, resolver, builder)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	doc, warnings := s.fold(results, stats)
	return doc, warnings, nil
}

// StructureSource drains a page source and structures its pages. A page
// the source fails to deliver becomes an empty page with a warning.
func (s *Structurer) StructureSource(ctx context.Context, src source.PageSource) (*model.Document, []Warning, error) {
	n := src.PageCount()
	pages := make([]source.PageContent, n)
	var sourceWarnings []Warning
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		pc, err := src.Page(i)
		if err != nil {
			s.log.Warn("page source failed", "page", i, "err", err)
			sourceWarnings = append(sourceWarnings, Warning{
				Page:    i,
				Kind:    WarnPageError,
				Message: err.Error(),
			})
			pc = source.PageContent{Number: i}
		}
		pc.Number = i
		pages[i] = pc
	}

	doc, warnings, err := s.Structure(ctx, pages)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(sourceWarnings, warnings...)
	sortWarnings(warnings)
	return doc, warnings, nil
}

func (s *Structurer) workers() int {
	if s.tunables.Workers > 0 {
		return s.tunables.Workers
	}
	return runtime.NumCPU()
}

// computeFontStats snapshots font statistics over every digital fragment
// in the document. Recognized fragments carry no trustworthy font
// metrics and are excluded.
func (s *Structurer) computeFontStats(pages []source.PageContent) layout.FontStats {
	var frags []model.Fragment
	for _, pc := range pages {
		for _, f := range pc.Fragments {
			if f.Source == model.SourceDigital {
				frags = append(frags, f)
			}
		}
	}
	return layout.ComputeFontStats(frags, s.tunables.Heading)
}

// processPage runs the parallel per-page stages. It never lets a panic
// escape: a failed page degrades to its raw fragment text.
func (s *Structurer) processPage(idx int, pc source.PageContent, merger *hybrid.Merger, resolver *layout.Resolver, builder *tables.Builder) (res pageResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("page stage panicked", "page", idx, "panic", r)
			res = degradedPage(idx, pc, r)
		}
	}()

	var warnings []Warning
	if len(pc.Fragments) == 0 && len(pc.Recognized) == 0 {
		warnings = append(warnings, Warning{
			Page:    idx,
			Kind:    WarnEmptyPage,
			Message: "page has no fragments",
		})
	}

	frags := pc.Fragments
	if len(pc.Recognized) > 0 {
		// A recognized stream implies the source rendered a page image.
		// Near-empty digital text means a scanned page: the recognized
		// fragments are the page's content. Form-shaped pages merge both
		// streams. Anything else is a normal digital page; its recognized
		// stream is redundant, but dropping it leaves a trace.
		switch {
		case merger.Eligible(frags), merger.IsScannedPage(pc.DigitalChars(), 1):
			before := len(pc.Recognized)
			frags = merger.Merge(frags, pc.Recognized)
			s.log.Debug("hybrid merge", "page", idx, "recognized", before, "kept", len(frags)-len(pc.Fragments))
		default:
			warnings = append(warnings, Warning{
				Page:    idx,
				Kind:    WarnRecognizedDropped,
				Message: fmt.Sprintf("%d recognized fragments dropped on digital page", len(pc.Recognized)),
			})
		}
	}

	ordered := resolver.Resolve(frags, pc.Width)

	multiColumn := resolver.ColumnCount(frags, pc.Width) > 1
	tres := builder.Build(idx, ordered, pc.Segments, s.headerOverrides[idx], multiColumn)
	if tres.CapExceeded {
		warnings = append(warnings, Warning{
			Page:    idx,
			Kind:    WarnSegmentCap,
			Message: fmt.Sprintf("too many ruling segments (limit %d), used spatial fallback", s.tunables.Tables.MaxLineSegments),
		})
	}
	if tres.Discarded {
		warnings = append(warnings, Warning{
			Page:    idx,
			Kind:    WarnTableDiscarded,
			Message: "candidate table grid failed validation",
		})
	}

	var pageTables []*model.Table
	if tres.Table != nil {
		pageTables = append(pageTables, tres.Table)
	}

	page := &model.Page{
		Number:    idx + 1,
		Width:     pc.Width,
		Height:    pc.Height,
		Fragments: ordered,
		Tables:    pageTables,
		Images:    pc.Images,
		Content:   render.PageText(ordered, tres.Consumed, pageTables),
	}
	return pageResult{
		page:     page,
		ordered:  ordered,
		consumed: tres.Consumed,
		table:    tres.Table,
		warnings: warnings,
	}
}

// degradedPage builds the fallback result for a panicked page: raw
// fragment text in input order, no reading order, no tables.
func degradedPage(idx int, pc source.PageContent, cause any) pageResult {
	var parts []string
	for _, f := range pc.Fragments {
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	content := strings.Join(parts, "\n")
	return pageResult{
		page: &model.Page{
			Number:    idx + 1,
			Width:     pc.Width,
			Height:    pc.Height,
			Fragments: pc.Fragments,
			Images:    pc.Images,
			Content:   content,
		},
		degraded: true,
		warnings: []Warning{{
			Page:    idx,
			Kind:    WarnPagePanic,
			Message: fmt.Sprintf("page degraded to unordered text: %v", cause),
		}},
	}
}

// fold is the serial third phase: pages are walked in order, headings
// open sections, body text accumulates on the open section, and tables
// attach where they were found.
func (s *Structurer) fold(results []pageResult, stats layout.FontStats) (*model.Document, []Warning) {
	tree := section.NewBuilder()
	var (
		docPages    []*model.Page
		docTables   []*model.Table
		pageTexts   []string
		allWarnings []Warning
	)

	for _, res := range results {
		allWarnings = append(allWarnings, res.warnings...)
		docPages = append(docPages, res.page)
		pageTexts = append(pageTexts, res.page.Content)

		if res.degraded {
			if res.page.Content != "" {
				tree.AddBody(res.page.Content)
			}
			continue
		}

		for i, f := range res.ordered {
			if res.consumed[i] || f.Text == "" {
				continue
			}
			if level := stats.Level(f); level > 0 {
				tree.AddHeading(f.Text, level)
			} else {
				tree.AddBody(f.Text)
			}
		}
		if res.table != nil {
			tree.AttachTable(res.table)
			docTables = append(docTables, res.table)
		}
	}

	root := tree.Root()
	doc := &model.Document{
		Pages:    docPages,
		Root:     root,
		Tables:   docTables,
		Content:  strings.Join(pageTexts, "\n"),
		Markdown: render.Markdown(root),
	}
	sortWarnings(allWarnings)
	return doc, allWarnings
}

// sortWarnings orders warnings by page then kind so output is stable
// under any worker interleaving.
func sortWarnings(warnings []Warning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Page != warnings[j].Page {
			return warnings[i].Page < warnings[j].Page
		}
		return warnings[i].Kind < warnings[j].Kind
	})
}
