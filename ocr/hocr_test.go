package ocr

import (
	"math"
	"testing"

	"github.com/structura-io/structura/model"
)

const sampleHOCR = `<!DOCTYPE html>
<html>
<body>
<div class='ocr_page' title='bbox 0 0 2500 3300'>
 <div class='ocr_carea'>
  <p class='ocr_par'>
   <span class='ocr_line' title='bbox 100 100 700 140'>
    <span class='ocrx_word' title='bbox 100 100 300 140; x_wconf 96'>Invoice</span>
    <span class='ocrx_word' title='bbox 320 100 700 140; x_wconf 91'>Total</span>
   </span>
   <span class='ocr_line' title='bbox 100 200 400 240'>
    <span class='ocrx_word' title='bbox 100 200 250 240; x_wconf 88'>John</span>
    <span class='ocrx_word' title='bbox 260 200 400 240; x_wconf 12'>%$#</span>
   </span>
   <span class='ocr_line' title='bbox 100 300 160 330'>
    <span class='ocrx_word' title='bbox 100 300 160 330; x_wconf 95'>|._</span>
   </span>
  </p>
 </div>
</div>
</body>
</html>`

func TestParseHOCR(t *testing.T) {
	lines, err := ParseHOCR([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	first := lines[0]
	if len(first.Words) != 2 {
		t.Fatalf("first line has %d words, want 2", len(first.Words))
	}
	if first.Words[0].Text != "Invoice" {
		t.Errorf("first word = %q, want Invoice", first.Words[0].Text)
	}
	if first.Words[0].Confidence != 96 {
		t.Errorf("first word confidence = %v, want 96", first.Words[0].Confidence)
	}
	want := model.NewBBox(100, 100, 700, 140)
	if first.BBox != want {
		t.Errorf("line bbox = %+v, want %+v", first.BBox, want)
	}
}

func TestParseHOCRBadInput(t *testing.T) {
	// html.Parse is forgiving; garbage just yields no lines.
	lines, err := ParseHOCR([]byte("not hocr at all"))
	if err != nil {
		t.Fatalf("ParseHOCR error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("got %d lines from garbage, want 0", len(lines))
	}
}

func TestFragmentsFiltering(t *testing.T) {
	lines, err := ParseHOCR([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR error: %v", err)
	}

	frags := Fragments(lines, 3, DefaultConfig())

	// Line two loses its low-confidence word but keeps "John"; line
	// three is punctuation noise and is dropped entirely.
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}

	if frags[0].Text != "Invoice Total" {
		t.Errorf("fragment text = %q, want %q", frags[0].Text, "Invoice Total")
	}
	if frags[0].Page != 3 {
		t.Errorf("fragment page = %d, want 3", frags[0].Page)
	}
	if frags[0].Source != model.SourceRecognized {
		t.Errorf("fragment source = %v, want recognized", frags[0].Source)
	}
	if math.Abs(frags[0].Confidence-93.5) > 1e-9 {
		t.Errorf("fragment confidence = %v, want 93.5", frags[0].Confidence)
	}

	if frags[1].Text != "John" {
		t.Errorf("second fragment text = %q, want John", frags[1].Text)
	}
	wantBox := model.NewBBox(100, 200, 250, 240)
	if frags[1].BBox != wantBox {
		t.Errorf("second fragment bbox = %+v, want %+v", frags[1].BBox, wantBox)
	}
}

func TestCleanLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"|. Hello world -_", "Hello world"},
		{"  plain text  ", "plain text"},
		{"|._-", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanLine(tt.in); got != tt.want {
			t.Errorf("cleanLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCoords(t *testing.T) {
	frags := []model.Fragment{
		{BBox: model.NewBBox(300, 600, 900, 750)},
	}
	out := NormalizeCoords(frags, 300)

	// 72/300 scale: 300px -> 72pt, 600px -> 144pt.
	want := model.NewBBox(72, 144, 216, 180)
	if out[0].BBox != want {
		t.Errorf("normalized bbox = %+v, want %+v", out[0].BBox, want)
	}

	// Input slice is left untouched.
	if frags[0].BBox.X0 != 300 {
		t.Error("NormalizeCoords mutated its input")
	}
}

func TestNormalizeCoordsNoDPI(t *testing.T) {
	frags := []model.Fragment{{BBox: model.NewBBox(1, 2, 3, 4)}}
	out := NormalizeCoords(frags, 0)
	if out[0].BBox != frags[0].BBox {
		t.Error("zero dpi should leave coordinates unchanged")
	}
}
