package structura

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/structura-io/structura/model"
	"github.com/structura-io/structura/source"
)

func frag(x0, y0, x1, y1 float64, text string, size float64) model.Fragment {
	return model.Fragment{
		BBox:     model.NewBBox(x0, y0, x1, y1),
		Text:     text,
		FontSize: size,
		Source:   model.SourceDigital,
	}
}

func hseg(y, x0, x1 float64) model.LineSegment {
	return model.LineSegment{A: model.Point{X: x0, Y: y}, B: model.Point{X: x1, Y: y}}
}

func vseg(x, y0, y1 float64) model.LineSegment {
	return model.LineSegment{A: model.Point{X: x, Y: y0}, B: model.Point{X: x, Y: y1}}
}

func TestStructureTwoColumns(t *testing.T) {
	// Two columns separated by a wide gap: the left column must be
	// read completely before the right one.
	page := source.PageContent{
		Width:  600,
		Height: 800,
		Fragments: []model.Fragment{
			frag(320, 110, 420, 120, "B0", 10),
			frag(50, 200, 150, 210, "A1", 10),
			frag(50, 100, 150, 110, "A0", 10),
			frag(320, 210, 420, 220, "B1", 10),
		},
	}

	doc, warnings, err := New().Structure(context.Background(), []source.PageContent{page})
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	want := "A0\nA1\nB0\nB1"
	if doc.Content != want {
		t.Errorf("content = %q, want %q", doc.Content, want)
	}
}

func TestStructureHeadingHierarchy(t *testing.T) {
	page := source.PageContent{
		Width:  600,
		Height: 800,
		Fragments: []model.Fragment{
			frag(50, 50, 250, 70, "Title", 20),
			frag(50, 100, 350, 110, "Intro body", 10),
			frag(50, 150, 250, 164, "Section A", 14),
			frag(50, 200, 350, 210, "Body A", 10),
			frag(50, 250, 350, 260, "More body", 10),
		},
	}

	doc, _, err := New().Structure(context.Background(), []source.PageContent{page})
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}

	root := doc.Root
	if len(root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(root.Children))
	}
	title := root.Children[0]
	if title.Heading != "Title" || title.Level != 1 {
		t.Errorf("top section = %q level %d, want Title level 1", title.Heading, title.Level)
	}
	if title.Content != "Intro body" {
		t.Errorf("title content = %q, want %q", title.Content, "Intro body")
	}
	if len(title.Children) != 1 {
		t.Fatalf("Title has %d children, want 1", len(title.Children))
	}
	sub := title.Children[0]
	if sub.Heading != "Section A" || sub.Level != 2 {
		t.Errorf("subsection = %q level %d, want Section A level 2", sub.Heading, sub.Level)
	}
	if sub.Content != "Body A\nMore body" {
		t.Errorf("subsection content = %q", sub.Content)
	}

	wantMD := "# Title\n\nIntro body\n\n## Section A\n\nBody A\n\nMore body"
	if doc.Markdown != wantMD {
		t.Errorf("markdown:\n%s\nwant:\n%s", doc.Markdown, wantMD)
	}
}

func tablePage() source.PageContent {
	return source.PageContent{
		Width:  600,
		Height: 800,
		Fragments: []model.Fragment{
			frag(100, 40, 200, 50, "Report", 10),
			frag(110, 110, 150, 140, "Name", 10),
			frag(210, 110, 250, 140, "Age", 10),
			frag(110, 160, 160, 190, "Alice", 10),
			frag(210, 160, 230, 190, "30", 10),
		},
		Segments: []model.LineSegment{
			hseg(100, 95, 305),
			hseg(150, 95, 305),
			hseg(200, 95, 305),
			vseg(100, 95, 205),
			vseg(200, 95, 205),
			vseg(300, 95, 205),
		},
	}
}

func TestStructureTableFromRulings(t *testing.T) {
	doc, _, err := New().Structure(context.Background(), []source.PageContent{tablePage()})
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}

	if len(doc.Tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(doc.Tables))
	}
	tab := doc.Tables[0]
	if len(tab.Headers) != 2 || tab.Headers[0] != "Name" || tab.Headers[1] != "Age" {
		t.Errorf("headers = %v, want [Name Age]", tab.Headers)
	}
	if len(tab.Rows) != 1 || tab.Rows[0][0] != "Alice" || tab.Rows[0][1] != "30" {
		t.Errorf("rows = %v, want [[Alice 30]]", tab.Rows)
	}

	// Cell fragments leave the body text and reappear only inside the
	// table rendering.
	want := "Report\nName\tAge\nAlice\t30"
	if doc.Content != want {
		t.Errorf("content = %q, want %q", doc.Content, want)
	}
	if !strings.Contains(doc.Markdown, "| Name | Age |") {
		t.Errorf("markdown missing table header row:\n%s", doc.Markdown)
	}
}

func TestStructureTableHeaderOverride(t *testing.T) {
	s := New(WithTableHeaders(0, []string{"Person", "Years"}))
	doc, _, err := s.Structure(context.Background(), []source.PageContent{tablePage()})
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	if len(doc.Tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(doc.Tables))
	}
	tab := doc.Tables[0]
	if tab.Headers[0] != "Person" || tab.Headers[1] != "Years" {
		t.Errorf("headers = %v, want [Person Years]", tab.Headers)
	}
	// The detected header row demotes to data.
	if len(tab.Rows) != 2 || tab.Rows[0][0] != "Name" {
		t.Errorf("rows = %v, want detected header demoted to first data row", tab.Rows)
	}
}

func TestStructureHybridMerge(t *testing.T) {
	labels := []string{
		"Full name:", "Birth date:", "Address:", "Phone number:",
		"Occupation:", "Employer:", "Signature:", "Filing date:",
	}
	var frags []model.Fragment
	for i, label := range labels {
		y := 50 + float64(i)*30
		frags = append(frags, frag(50, y, 130, y+10, label, 10))
	}
	recognized := []model.Fragment{
		// Duplicate of the printed first label: same box, dropped.
		{BBox: model.NewBBox(50, 50, 130, 60), Text: "Full name:", Source: model.SourceRecognized, Confidence: 90},
		// Handwritten value next to it: empty area, kept.
		{BBox: model.NewBBox(150, 48, 230, 60), Text: "John Doe", Source: model.SourceRecognized, Confidence: 85},
	}

	page := source.PageContent{
		Width:      600,
		Height:     800,
		Fragments:  frags,
		Recognized: recognized,
	}

	doc, warnings, err := New().Structure(context.Background(), []source.PageContent{page})
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if got := strings.Count(doc.Content, "Full name:"); got != 1 {
		t.Errorf("%q appears %d times, want 1", "Full name:", got)
	}
	if !strings.Contains(doc.Content, "John Doe") {
		t.Error("handwritten value missing from content")
	}
	// Label and value share a line, value to the right.
	if !strings.Contains(doc.Content, "Full name:\nJohn Doe") &&
		!strings.Contains(doc.Content, "Full name: John Doe") {
		// Reading order keeps them adjacent one way or the other.
		idx1 := strings.Index(doc.Content, "Full name:")
		idx2 := strings.Index(doc.Content, "John Doe")
		if idx2 < idx1 {
			t.Errorf("value precedes its label in %q", doc.Content)
		}
	}
}

func TestStructureTwoColumnProseNoTable(t *testing.T) {
	// Two prose columns whose lines happen to share baselines. The
	// alignment must not be mistaken for a borderless table.
	var frags []model.Fragment
	for i := 0; i < 4; i++ {
		y := 100 + float64(i)*30
		frags = append(frags, frag(50, y, 180, y+10, "left prose line", 10))
		frags = append(frags, frag(320, y, 450, y+10, "right prose line", 10))
	}
	page := source.PageContent{Width: 600, Height: 800, Fragments: frags}

	doc, warnings, err := New().Structure(context.Background(), []source.PageContent{page})
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(doc.Tables) != 0 {
		t.Fatalf("got %d tables, want 0", len(doc.Tables))
	}

	// Column order survives: the left column reads out in full first.
	want := strings.Join([]string{
		"left prose line", "left prose line", "left prose line", "left prose line",
		"right prose line", "right prose line", "right prose line", "right prose line",
	}, "\n")
	if doc.Content != want {
		t.Errorf("content = %q, want %q", doc.Content, want)
	}
}

func TestStructureRecognizedOnlyPage(t *testing.T) {
	page := source.PageContent{
		Width:  600,
		Height: 800,
		Recognized: []model.Fragment{
			{BBox: model.NewBBox(50, 50, 250, 70), Text: "handwritten note", Source: model.SourceRecognized, Confidence: 88},
		},
	}

	doc, warnings, err := New().Structure(context.Background(), []source.PageContent{page})
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if doc.Content != "handwritten note" {
		t.Errorf("content = %q, want %q", doc.Content, "handwritten note")
	}
}

func TestStructureRecognizedDroppedOnDigitalPage(t *testing.T) {
	// A normal prose page sits outside the hybrid band, so the
	// recognized stream is discarded with a warning instead of
	// polluting the digital text.
	page := source.PageContent{
		Width:  600,
		Height: 800,
		Fragments: []model.Fragment{
			frag(50, 100, 550, 112, strings.Repeat("word ", 30), 10),
			frag(50, 120, 550, 132, strings.Repeat("word ", 30), 10),
		},
		Recognized: []model.Fragment{
			{BBox: model.NewBBox(50, 300, 250, 320), Text: "stray scanner artifact", Source: model.SourceRecognized, Confidence: 70},
		},
	}

	doc, warnings, err := New().Structure(context.Background(), []source.PageContent{page})
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnRecognizedDropped || warnings[0].Page != 0 {
		t.Errorf("warnings = %v, want one recognized_dropped for page 0", warnings)
	}
	if strings.Contains(doc.Content, "stray scanner artifact") {
		t.Errorf("dropped recognized text leaked into content: %q", doc.Content)
	}
}

func TestStructureEmptyPage(t *testing.T) {
	pages := []source.PageContent{
		{Width: 600, Height: 800, Fragments: []model.Fragment{frag(50, 50, 150, 60, "First", 10)}},
		{Width: 600, Height: 800},
		{Width: 600, Height: 800, Fragments: []model.Fragment{frag(50, 50, 150, 60, "Last", 10)}},
	}

	doc, warnings, err := New().Structure(context.Background(), pages)
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnEmptyPage || warnings[0].Page != 1 {
		t.Errorf("warnings = %v, want one empty_page for page 1", warnings)
	}
	if doc.PageCount() != 3 {
		t.Fatalf("PageCount = %d, want 3", doc.PageCount())
	}
	if doc.Pages[1].Content != "" {
		t.Errorf("empty page content = %q", doc.Pages[1].Content)
	}
	if doc.Content != "First\n\nLast" {
		t.Errorf("content = %q, want %q", doc.Content, "First\n\nLast")
	}
}

func TestStructureContentIsPageConcat(t *testing.T) {
	pages := []source.PageContent{tablePage(), {Width: 600, Height: 800,
		Fragments: []model.Fragment{frag(50, 50, 150, 60, "Appendix", 10)}}}

	doc, _, err := New().Structure(context.Background(), pages)
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}

	var parts []string
	for _, p := range doc.Pages {
		parts = append(parts, p.Content)
	}
	if doc.Content != strings.Join(parts, "\n") {
		t.Error("document content is not the page-order concatenation of page content")
	}
}

func TestStructureDeterministic(t *testing.T) {
	pages := []source.PageContent{tablePage(), {
		Width:  600,
		Height: 800,
		Fragments: []model.Fragment{
			frag(50, 50, 250, 70, "Heading", 20),
			frag(50, 100, 350, 110, "Body", 10),
		},
	}}

	first, _, err := New(WithWorkers(1)).Structure(context.Background(), pages)
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	for _, workers := range []int{2, 4, 8} {
		doc, _, err := New(WithWorkers(workers)).Structure(context.Background(), pages)
		if err != nil {
			t.Fatalf("Structure with %d workers error: %v", workers, err)
		}
		if doc.Markdown != first.Markdown {
			t.Errorf("markdown differs with %d workers", workers)
		}
		if doc.Content != first.Content {
			t.Errorf("content differs with %d workers", workers)
		}
	}
}

func TestStructureCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New().Structure(ctx, []source.PageContent{tablePage()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type flakySource struct{}

func (flakySource) PageCount() int { return 2 }

func (flakySource) Page(i int) (source.PageContent, error) {
	if i == 1 {
		return source.PageContent{}, errors.New("decode failed")
	}
	return source.PageContent{
		Width:  600,
		Height: 800,
		Fragments: []model.Fragment{
			{BBox: model.NewBBox(50, 50, 150, 60), Text: "Hello", FontSize: 10},
		},
	}, nil
}

func TestStructureSourcePageError(t *testing.T) {
	doc, warnings, err := New().StructureSource(context.Background(), flakySource{})
	if err != nil {
		t.Fatalf("StructureSource error: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", doc.PageCount())
	}
	if doc.Pages[1].Content != "" {
		t.Errorf("failed page content = %q, want empty", doc.Pages[1].Content)
	}
	// The failed page raises both a collaborator warning and an
	// empty-page warning.
	var kinds []WarningKind
	for _, w := range warnings {
		if w.Page != 1 {
			t.Errorf("warning on page %d, want all on page 1: %v", w.Page, w)
		}
		kinds = append(kinds, w.Kind)
	}
	if len(kinds) != 2 || kinds[0] != WarnEmptyPage || kinds[1] != WarnPageError {
		t.Errorf("warning kinds = %v, want [empty_page page_error]", kinds)
	}
}

func TestStructureNoPages(t *testing.T) {
	doc, warnings, err := New().Structure(context.Background(), nil)
	if err != nil {
		t.Fatalf("Structure error: %v", err)
	}
	if doc.PageCount() != 0 || doc.Content != "" || doc.Markdown != "" {
		t.Errorf("empty input produced non-empty document: %+v", doc)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Page: 0, Kind: WarnSegmentCap, Message: "too many segments"},
		{Page: 2, Kind: WarnPagePanic, Message: "boom"},
	}
	got := FormatWarnings(warnings)
	want := "page 0: segment_cap: too many segments\npage 2: page_panic: boom"
	if got != want {
		t.Errorf("FormatWarnings = %q, want %q", got, want)
	}
	if FormatWarnings(nil) != "" {
		t.Error("FormatWarnings(nil) should be empty")
	}
}
