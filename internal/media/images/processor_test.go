package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// noisyImage produces an incompressible image so the ladder actually has
// work to do.
func noisyImage(width, height int) image.Image {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func flatImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 120, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcess_LargeNoisyImage(t *testing.T) {
	p := NewProcessor(testLogger())

	input := encodePNG(t, noisyImage(2000, 1500))
	require.Greater(t, len(input), 1024*1024, "test input should be multi-megabyte")
	require.Less(t, len(input), MaxUploadSize)

	result, err := p.Process(input)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Data)
	assert.GreaterOrEqual(t, result.Attempts, 1)
	assert.LessOrEqual(t, result.Attempts, len(compressionLadder))
	assert.NotEmpty(t, result.BlurHash)

	// Output is always a decodable JPEG.
	decoded, format, err := image.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), 1200)

	// If it never fit the target, every rung must have been tried.
	if len(result.Data) > targetSize {
		assert.Equal(t, len(compressionLadder), result.Attempts)
	}
}

func TestProcess_SmallImageFirstAttempt(t *testing.T) {
	p := NewProcessor(testLogger())

	result, err := p.Process(encodePNG(t, flatImage(300, 450)))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attempts)
	assert.Less(t, len(result.Data), targetSize)
	// Never upscaled.
	assert.Equal(t, 300, result.Width)
	assert.Equal(t, 450, result.Height)
}

func TestProcess_JPEGInput(t *testing.T) {
	p := NewProcessor(testLogger())

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, flatImage(600, 800), &jpeg.Options{Quality: 90}))

	result, err := p.Process(buf.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Data)
}

func TestProcess_TooLarge(t *testing.T) {
	p := NewProcessor(testLogger())

	_, err := p.Process(make([]byte, MaxUploadSize+1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrImageTooLarge)
}

func TestProcess_NotAnImage(t *testing.T) {
	p := NewProcessor(testLogger())

	_, err := p.Process([]byte("definitely not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedImage)
}

func TestProcess_Empty(t *testing.T) {
	p := NewProcessor(testLogger())

	_, err := p.Process(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedImage)
}

func TestProcess_TallPortraitBoundedByHeight(t *testing.T) {
	p := NewProcessor(testLogger())

	// A narrow, very tall cover: the width alone fits every rung, the
	// height must be the side that triggers scaling.
	result, err := p.Process(encodePNG(t, flatImage(900, 3000)))
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Height, 1200)
	assert.LessOrEqual(t, result.Width, 1200)
	// Aspect ratio preserved: 900x3000 at max dimension 1200 is 360x1200.
	assert.Equal(t, 360, result.Width)
	assert.Equal(t, 1200, result.Height)
}

func TestScaleToFit(t *testing.T) {
	wide := scaleToFit(flatImage(2400, 1200), 1200)
	assert.Equal(t, 1200, wide.Bounds().Dx())
	assert.Equal(t, 600, wide.Bounds().Dy())

	tall := scaleToFit(flatImage(1200, 2400), 1200)
	assert.Equal(t, 600, tall.Bounds().Dx())
	assert.Equal(t, 1200, tall.Bounds().Dy())

	kept := scaleToFit(flatImage(500, 700), 1200)
	assert.Equal(t, 500, kept.Bounds().Dx())
	assert.Equal(t, 700, kept.Bounds().Dy())
}

func TestComputeBlurHash(t *testing.T) {
	hash, err := ComputeBlurHash(flatImage(400, 600))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.GreaterOrEqual(t, len(hash), 6)
}
