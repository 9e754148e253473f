package imageprep

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodePayload(t *testing.T, p Payload) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(p.Base64)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("payload is not valid jpeg: %v", err)
	}
	return img
}

func TestPrepareRejectsOversizedInput(t *testing.T) {
	_, err := Prepare(make([]byte, MaxUploadBytes+1))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Code != ErrCodeImageTooLarge {
		t.Fatalf("expected code %q, got %q", ErrCodeImageTooLarge, validationErr.Code)
	}
}

func TestPrepareAcceptsBoundarySizeInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	data := encodePNG(t, img)
	// The size limit applies to the original bytes; trailing padding after
	// the PNG stream keeps the image decodable.
	padded := append(data, make([]byte, MaxUploadBytes-len(data))...)
	if len(padded) != MaxUploadBytes {
		t.Fatalf("expected padded input of %d bytes, got %d", MaxUploadBytes, len(padded))
	}

	payload, err := Prepare(padded)
	if err != nil {
		t.Fatalf("unexpected error at boundary size: %v", err)
	}
	decodePayload(t, payload)
}

func TestPrepareRejectsMissingImage(t *testing.T) {
	_, err := Prepare(nil)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Code != ErrCodeMissingImage {
		t.Fatalf("expected code %q, got %q", ErrCodeMissingImage, validationErr.Code)
	}
}

func TestPrepareRejectsUndecodableBytes(t *testing.T) {
	_, err := Prepare([]byte("not an image at all"))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Code != ErrCodeInvalidImage {
		t.Fatalf("expected code %q, got %q", ErrCodeInvalidImage, validationErr.Code)
	}
}

func TestPrepareCompositesAlphaOntoWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	// Fully transparent pixels must come out white after flattening.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 0})
		}
	}

	payload, err := Prepare(encodePNG(t, img))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := decodePayload(t, payload)
	r, g, b, _ := decoded.At(1, 1).RGBA()
	// JPEG is lossy; allow a small deviation from pure white.
	const min = 0xf000
	if r < min || g < min || b < min {
		t.Fatalf("expected near-white pixel, got r=%#x g=%#x b=%#x", r, g, b)
	}
}

func TestPrepareConvertsGrayscale(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 6))
	payload, err := Prepare(encodePNG(t, img))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Format != Format {
		t.Fatalf("expected format %q, got %q", Format, payload.Format)
	}
	decodePayload(t, payload)
}

func TestPrepareBoundsLargeDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, maxDimension*2, maxDimension/2))
	payload, err := Prepare(encodePNG(t, img))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Width != maxDimension {
		t.Fatalf("expected width %d, got %d", maxDimension, payload.Width)
	}
	if payload.Height != maxDimension/4 {
		t.Fatalf("expected height %d, got %d", maxDimension/4, payload.Height)
	}
}

func TestPreparePreservesSmallDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	payload, err := Prepare(encodePNG(t, img))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Width != 40 || payload.Height != 30 {
		t.Fatalf("expected 40x30, got %dx%d", payload.Width, payload.Height)
	}
}
