//go:build !ocr

// Package ocr recognizes text in page images and returns it as
// position-tagged fragments the structuring pipeline can merge with
// digitally extracted text.
//
// This is the stub implementation used when the "ocr" build tag is not
// set. Constructors return ErrOCRNotEnabled; the hOCR parser, fragment
// filtering, and image preprocessing remain available without the tag.
//
// To enable recognition, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"errors"

	"github.com/structura-io/structura/model"
)

// ErrOCRNotEnabled is returned when recognition is requested but support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is a stub recognition client that returns errors for all
// operations.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// NewWithConfig returns ErrOCRNotEnabled.
func NewWithConfig(cfg Config) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client. It is safe to call on a nil
// client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// RecognizePage returns ErrOCRNotEnabled.
func (c *Client) RecognizePage(imageData []byte, page int) ([]model.Fragment, error) {
	return nil, ErrOCRNotEnabled
}
