//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("New() error = %v, want ErrOCRNotEnabled", err)
	}
	if client != nil {
		t.Error("expected nil client when recognition is disabled")
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}

func TestStubRecognizePage(t *testing.T) {
	var client Client
	if _, err := client.RecognizePage([]byte{1, 2, 3}, 0); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizePage error = %v, want ErrOCRNotEnabled", err)
	}
}
