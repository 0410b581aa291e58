package layout

import "golang.org/x/text/unicode/bidi"

// Direction represents the dominant writing direction of a piece of text.
type Direction int

const (
	// LTR (left-to-right) for Latin, Cyrillic, CJK, etc.
	LTR Direction = iota
	// RTL (right-to-left) for Arabic, Hebrew, etc.
	RTL
	// Neutral for text with no strong directional characters.
	Neutral
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case RTL:
		return "rtl"
	case Neutral:
		return "neutral"
	default:
		return "ltr"
	}
}

// DetectDirection returns the dominant direction of text by counting strong
// directional characters per the Unicode bidi classification. Text with no
// strong characters is Neutral.
func DetectDirection(text string) Direction {
	ltr, rtl := 0, 0

	for i := 0; i < len(text); {
		props, size := bidi.LookupString(text[i:])
		if size == 0 {
			break
		}
		switch props.Class() {
		case bidi.L:
			ltr++
		case bidi.R, bidi.AL:
			rtl++
		}
		i += size
	}

	if ltr == 0 && rtl == 0 {
		return Neutral
	}
	if rtl > ltr {
		return RTL
	}
	return LTR
}
