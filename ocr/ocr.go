//go:build ocr

// Package ocr recognizes text in page images and returns it as
// position-tagged fragments the structuring pipeline can merge with
// digitally extracted text.
//
// This package wraps the Tesseract engine via gosseract and requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/structura-io/structura/model"
)

// Client wraps Tesseract for page recognition.
type Client struct {
	client *gosseract.Client
	config Config
}

// New creates a recognition client with default filtering. The client
// must be closed when no longer needed to release engine resources.
func New() (*Client, error) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a recognition client with the given filtering
// configuration.
func NewWithConfig(cfg Config) (*Client, error) {
	client := gosseract.NewClient()
	// Single column of variable-size text gives better line order than
	// full auto segmentation on most documents.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_COLUMN); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting segmentation mode: %w", err)
	}
	return &Client{client: client, config: cfg}, nil
}

// Close releases engine resources.
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the recognition language(s). Multiple languages can
// be given "+" separated, e.g. "eng+fra". Default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// RecognizePage runs recognition on image data (PNG or JPEG) and returns
// filtered fragments for the page, in pixel coordinates. Use
// NormalizeCoords to bring them into page units.
func (c *Client) RecognizePage(imageData []byte, page int) ([]model.Fragment, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decoding page image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Preprocess(img)); err != nil {
		return nil, fmt.Errorf("encoding preprocessed image: %w", err)
	}

	if err := c.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("setting image: %w", err)
	}
	hocr, err := c.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	lines, err := ParseHOCR([]byte(hocr))
	if err != nil {
		return nil, err
	}
	return Fragments(lines, page, c.config), nil
}
