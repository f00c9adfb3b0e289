package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder

	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

const (
	// MaxUploadSize is the hard cap on uploaded cover images.
	MaxUploadSize = 5 * 1024 * 1024

	// targetSize is what the ladder tries to compress a cover down to.
	targetSize = 300 * 1024
)

// compressionLadder is tried in order until the encoded output fits
// targetSize. The last rung's output is used even if it doesn't fit;
// a 400px quality-40 JPEG over 300KB is pathological enough to ship anyway.
var compressionLadder = []struct {
	maxDim  int
	quality int
}{
	{1200, 70},
	{800, 60},
	{600, 50},
	{400, 40},
}

// Result holds a processed cover image.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	Attempts int
	BlurHash string
}

// Processor normalizes uploaded cover images to size-bounded JPEGs.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: logger}
}

// Process validates, decodes, and compresses an uploaded image.
// JPEG, PNG, GIF, and WebP inputs are accepted; output is always JPEG.
func (p *Processor) Process(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, domainerrors.ErrUnsupportedImage.WithCause(fmt.Errorf("empty image data"))
	}
	if len(data) > MaxUploadSize {
		return nil, domainerrors.ErrImageTooLarge.WithDetails(map[string]any{
			"size_bytes": len(data),
			"max_bytes":  MaxUploadSize,
		})
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.ErrUnsupportedImage.WithCause(err)
	}

	var (
		encoded []byte
		scaled  image.Image
		attempt int
	)
	for i, rung := range compressionLadder {
		attempt = i + 1
		scaled = scaleToFit(img, rung.maxDim)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: rung.quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		encoded = buf.Bytes()

		if len(encoded) <= targetSize {
			break
		}
	}

	hash, err := ComputeBlurHash(scaled)
	if err != nil {
		// A cover without a placeholder is still a cover.
		p.logger.Warn("blurhash computation failed", "error", err)
		hash = ""
	}

	bounds := scaled.Bounds()
	p.logger.Debug("processed cover image",
		"input_format", format,
		"input_bytes", len(data),
		"output_bytes", len(encoded),
		"attempts", attempt,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
	)

	return &Result{
		Data:     encoded,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Attempts: attempt,
		BlurHash: hash,
	}, nil
}

// scaleToFit scales img down so its larger side is at most maxDim,
// preserving aspect ratio. Covers are usually portrait, so the height is
// just as likely to be the binding side as the width. Images already small
// enough are re-drawn as-is so the encoder always sees an RGBA image.
func scaleToFit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	dstWidth := srcWidth
	dstHeight := srcHeight
	if longest := max(srcWidth, srcHeight); longest > maxDim {
		dstWidth = (srcWidth * maxDim) / longest
		dstHeight = (srcHeight * maxDim) / longest
		if dstWidth < 1 {
			dstWidth = 1
		}
		if dstHeight < 1 {
			dstHeight = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
