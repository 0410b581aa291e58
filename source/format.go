package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies a supported input document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// HTML indicates an HTML document.
	HTML
	// Email indicates an RFC 5322 email message (.eml).
	Email
	// Image indicates a standalone raster image (PNG, JPEG, TIFF).
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case HTML:
		return "HTML"
	case Email:
		return "Email"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// DetectFormat determines document format from the filename extension.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".html", ".htm":
		return HTML
	case ".eml":
		return Email
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return Image
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format. It is more
// reliable than extension detection. Returns Unknown when the bytes are
// ambiguous (ZIP containers need the archive listing to disambiguate).
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	// PNG magic
	if data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return Image
	}

	// JPEG magic
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return Image
	}

	// TIFF magic, both byte orders
	if (data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A && data[3] == 0x00) ||
		(data[0] == 'M' && data[1] == 'M' && data[2] == 0x00 && data[3] == 0x2A) {
		return Image
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	return Unknown
}

func detectHTMLMagic(data []byte) bool {
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}
	upper := strings.ToUpper(string(data[start:]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	return false
}

// ErrUnsupportedFormat is returned by Registry.Open when no constructor
// is registered for the detected format.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// Constructor builds a PageSource over raw document bytes.
type Constructor func(r io.ReaderAt, size int64) (PageSource, error)

// Registry maps formats to decoder constructors. A registry is built
// explicitly by the caller; there is no package-level registration, so
// the set of supported formats is always visible at the construction
// site.
type Registry struct {
	constructors map[Format]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[Format]Constructor)}
}

// Register binds a constructor to a format. Registering Unknown or a
// format that already has a constructor is an error.
func (r *Registry) Register(f Format, c Constructor) error {
	if f == Unknown {
		return errors.New("source: cannot register Unknown format")
	}
	if c == nil {
		return errors.New("source: nil constructor")
	}
	if _, dup := r.constructors[f]; dup {
		return fmt.Errorf("source: format %s already registered", f)
	}
	r.constructors[f] = c
	return nil
}

// Supported reports whether the registry has a constructor for f.
func (r *Registry) Supported(f Format) bool {
	_, ok := r.constructors[f]
	return ok
}

// Open detects the format from the filename and builds a PageSource for
// it. Returns ErrUnsupportedFormat when the format is unknown or has no
// registered constructor.
func (r *Registry) Open(filename string, ra io.ReaderAt, size int64) (PageSource, error) {
	f := DetectFormat(filename)
	c, ok := r.constructors[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, f, filename)
	}
	return c(ra, size)
}
