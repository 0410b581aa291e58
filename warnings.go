package structura

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal processing issue.
type WarningKind string

const (
	// WarnPageError means the page source failed to deliver a page; an
	// empty page stands in for it.
	WarnPageError WarningKind = "page_error"

	// WarnPagePanic means a page stage panicked; the page degraded to
	// an unordered concatenation of its fragment text.
	WarnPagePanic WarningKind = "page_panic"

	// WarnEmptyPage means a page carried no fragments at all. The page
	// still appears in the result, empty.
	WarnEmptyPage WarningKind = "empty_page"

	// WarnRecognizedDropped means a page carried recognized fragments
	// but its digital text ruled out both hybrid merging and scanned-page
	// routing, so the recognized stream was not used.
	WarnRecognizedDropped WarningKind = "recognized_dropped"

	// WarnTableDiscarded means a candidate table grid was found but
	// failed validation and was dropped.
	WarnTableDiscarded WarningKind = "table_discarded"

	// WarnSegmentCap means a page had more ruling segments than the
	// cap allows; table detection fell back to spatial clustering.
	WarnSegmentCap WarningKind = "segment_cap"
)

// Warning records a non-fatal issue encountered while structuring a
// page. Warnings never abort processing; they describe what degraded.
type Warning struct {
	// Page is the 0-based page index the warning applies to.
	Page int

	// Kind classifies the issue.
	Kind WarningKind

	// Message is a human-readable description.
	Message string
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s: %s", w.Page, w.Kind, w.Message)
}

// FormatWarnings joins warnings into a single newline-separated string
// for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}
