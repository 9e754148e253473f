package imageprep

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxUploadBytes bounds the original upload. The check runs before any
	// decode so oversized inputs are rejected cheaply.
	MaxUploadBytes = 5 << 20

	// maxDimension bounds either side of the encoded diagram; larger scans
	// are downscaled preserving aspect ratio before encoding.
	maxDimension = 2048

	jpegQuality = 95

	// Format is the canonical encoding every payload uses.
	Format = "jpeg"
)

// Payload is the model-ready form of an uploaded diagram.
type Payload struct {
	Base64 string
	Format string
	Width  int
	Height int
}

// Prepare normalizes arbitrary raster bytes into the canonical payload:
// any alpha channel is composited onto an opaque white background, all color
// modes are converted to RGB, dimensions are bounded, and the result is
// JPEG-encoded and base64-wrapped. Pure transform, no side effects.
func Prepare(imageBytes []byte) (Payload, error) {
	if len(imageBytes) == 0 {
		return Payload{}, &ValidationError{
			Code:    ErrCodeMissingImage,
			Message: "image data is required",
		}
	}
	if len(imageBytes) > MaxUploadBytes {
		return Payload{}, &ValidationError{
			Code:    ErrCodeImageTooLarge,
			Message: fmt.Sprintf("image exceeds the %d byte limit", MaxUploadBytes),
		}
	}

	src, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return Payload{}, &ValidationError{
			Code:    ErrCodeInvalidImage,
			Message: fmt.Sprintf("decode image: %v", err),
		}
	}

	normalized := bound(flatten(src))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, normalized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Payload{}, fmt.Errorf("encode jpeg: %w", err)
	}

	b := normalized.Bounds()
	return Payload{
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Format: Format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// flatten composites the image onto an opaque white background, removing any
// alpha channel and leaving plain RGB behind.
func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// bound downscales the image so neither side exceeds maxDimension, keeping
// the aspect ratio.
func bound(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= maxDimension && height <= maxDimension {
		return src
	}

	scale := float64(maxDimension) / float64(width)
	if s := float64(maxDimension) / float64(height); s < scale {
		scale = s
	}
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
