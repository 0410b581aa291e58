package ocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/structura-io/structura/model"
	"github.com/structura-io/structura/source"
)

// Client implements the pipeline's recognition engine contract in both
// the enabled and stub builds.
var _ source.Engine = (*Client)(nil)

// Word is a single recognized word with its pixel-space bounding box and
// the engine's confidence, 0 to 100.
type Word struct {
	Text       string
	BBox       model.BBox
	Confidence float64
}

// Line is a recognized line of words. BBox is the union of the word
// boxes.
type Line struct {
	Words []Word
	BBox  model.BBox
}

// Config tunes how recognized output is filtered before it enters the
// pipeline.
type Config struct {
	// MinWordConfidence drops words the engine is unsure about.
	MinWordConfidence float64

	// MinAlnumChars drops lines with fewer alphanumeric characters,
	// which are almost always recognition noise.
	MinAlnumChars int
}

// DefaultConfig returns the filtering defaults.
func DefaultConfig() Config {
	return Config{
		MinWordConfidence: 40,
		MinAlnumChars:     3,
	}
}

// ParseHOCR parses Tesseract hOCR output into lines of words. Word boxes
// come from the bbox property and confidence from x_wconf; words missing
// either are skipped.
func ParseHOCR(data []byte) ([]Line, error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	var lines []Line
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_line") {
			if line, ok := parseLine(n); ok {
				lines = append(lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return lines, nil
}

func parseLine(n *html.Node) (Line, bool) {
	var line Line
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			if w, ok := parseWord(n); ok {
				line.Words = append(line.Words, w)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	if len(line.Words) == 0 {
		return Line{}, false
	}
	line.BBox = line.Words[0].BBox
	for _, w := range line.Words[1:] {
		line.BBox = line.BBox.Union(w.BBox)
	}
	return line, true
}

func parseWord(n *html.Node) (Word, bool) {
	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return Word{}, false
	}
	bbox, conf, ok := parseTitle(attr(n, "title"))
	if !ok {
		return Word{}, false
	}
	return Word{Text: text, BBox: bbox, Confidence: conf}, true
}

// parseTitle extracts "bbox x0 y0 x1 y1" and "x_wconf n" from an hOCR
// title attribute.
func parseTitle(title string) (model.BBox, float64, bool) {
	var bbox model.BBox
	conf := -1.0
	haveBBox := false
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bbox":
			if len(fields) != 5 {
				continue
			}
			vals := make([]float64, 4)
			ok := true
			for i, s := range fields[1:] {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					ok = false
					break
				}
				vals[i] = v
			}
			if ok {
				bbox = model.NewBBox(vals[0], vals[1], vals[2], vals[3])
				haveBBox = true
			}
		case "x_wconf":
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					conf = v
				}
			}
		}
	}
	if !haveBBox || conf < 0 {
		return model.BBox{}, 0, false
	}
	return bbox, conf, true
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

var (
	leadingNoise  = regexp.MustCompile(`^[|._\-:;'"!,\s]+`)
	trailingNoise = regexp.MustCompile(`[|._\-:;'"!\s]+$`)
)

// cleanLine strips leading and trailing punctuation-only recognition
// artifacts.
func cleanLine(text string) string {
	text = strings.TrimSpace(text)
	text = leadingNoise.ReplaceAllString(text, "")
	text = trailingNoise.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func alnumCount(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Fragments converts parsed lines into recognized fragments on the given
// page, in pixel coordinates. Low-confidence words are dropped first;
// lines that come out empty or with too few alphanumeric characters are
// skipped entirely. Fragment confidence is the mean confidence of the
// surviving words.
func Fragments(lines []Line, page int, cfg Config) []model.Fragment {
	var out []model.Fragment
	for _, line := range lines {
		var kept []Word
		for _, w := range line.Words {
			if w.Confidence < cfg.MinWordConfidence {
				continue
			}
			kept = append(kept, w)
		}
		if len(kept) == 0 {
			continue
		}

		texts := make([]string, len(kept))
		sum := 0.0
		bbox := kept[0].BBox
		for i, w := range kept {
			texts[i] = w.Text
			sum += w.Confidence
			bbox = bbox.Union(w.BBox)
		}

		text := cleanLine(strings.Join(texts, " "))
		if text == "" || alnumCount(text) < cfg.MinAlnumChars {
			continue
		}

		out = append(out, model.Fragment{
			Page:       page,
			BBox:       bbox,
			Text:       text,
			Source:     model.SourceRecognized,
			Confidence: sum / float64(len(kept)),
		})
	}
	return out
}

// NormalizeCoords rescales recognized fragments from pixel space at the
// given render DPI into page units (points, 1 pt = 1/72 inch), so overlap
// checks against digital fragments compare like with like.
func NormalizeCoords(frags []model.Fragment, dpi float64) []model.Fragment {
	if dpi <= 0 || len(frags) == 0 {
		return frags
	}
	scale := 72.0 / dpi
	out := make([]model.Fragment, len(frags))
	for i, f := range frags {
		f.BBox = model.NewBBox(f.BBox.X0*scale, f.BBox.Y0*scale, f.BBox.X1*scale, f.BBox.Y1*scale)
		out[i] = f
	}
	return out
}
