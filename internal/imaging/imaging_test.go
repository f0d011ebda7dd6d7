package imaging_test

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/bloomhouse/admin-console/internal/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, makeImage(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, makeImage(w, h), nil))
	return buf.Bytes()
}

func TestProcess_ResizesWideImage(t *testing.T) {
	res, err := imaging.Process(bytes.NewReader(pngBytes(t, 400, 200)), imaging.Options{MaxWidth: 100})

	require.NoError(t, err)
	assert.True(t, res.Resized)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 50, res.Height)
	assert.Equal(t, 400, res.OriginalWidth)
	assert.Equal(t, "image/jpeg", res.ContentType)

	decoded, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
}

func TestProcess_DoesNotUpscale(t *testing.T) {
	raw := jpegBytes(t, 80, 60)

	res, err := imaging.Process(bytes.NewReader(raw), imaging.Options{MaxWidth: 1200})

	require.NoError(t, err)
	assert.False(t, res.Resized)
	assert.Equal(t, 80, res.Width)
	assert.Equal(t, 60, res.Height)
	assert.Equal(t, raw, res.Data)
}

func TestProcess_KeepPNG(t *testing.T) {
	res, err := imaging.Process(bytes.NewReader(pngBytes(t, 300, 300)), imaging.Options{MaxWidth: 150, KeepPNG: true})

	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	cfg, err := png.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.Width)
}

func TestProcess_PNGWithoutKeepIsConvertedToJPEG(t *testing.T) {
	res, err := imaging.Process(bytes.NewReader(pngBytes(t, 20, 20)), imaging.Options{})

	require.NoError(t, err)
	assert.False(t, res.Resized)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, "image/png", res.SourceType)
}

func TestProcess_DataURL(t *testing.T) {
	raw := jpegBytes(t, 10, 10)
	res, err := imaging.Process(bytes.NewReader(raw), imaging.Options{})
	require.NoError(t, err)

	url := res.DataURL()
	require.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	enc := res.Encoded()
	assert.Equal(t, len(raw), enc.SizeBytes)
	assert.Equal(t, url, enc.DataURL)
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		opts    imaging.Options
		wantErr error
	}{
		{name: "empty", input: nil, wantErr: imaging.ErrEmpty},
		{name: "not an image", input: []byte("hello, this is plain text"), wantErr: imaging.ErrUnsupported},
		{name: "too large", input: bytes.Repeat([]byte{0xff}, 64), opts: imaging.Options{MaxBytes: 32}, wantErr: imaging.ErrTooLarge},
		{name: "too many pixels", input: pngBytes(t, 400, 300), opts: imaging.Options{MaxPixels: 100_000}, wantErr: imaging.ErrTooManyPixels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := imaging.Process(bytes.NewReader(tt.input), tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// withDimensions rewrites the IHDR width and height of a PNG, leaving the pixel data as is
func withDimensions(raw []byte, w, h uint32) []byte {
	out := bytes.Clone(raw)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestProcess_RejectsDeclaredDimensionsBeforeDecoding(t *testing.T) {
	huge := withDimensions(pngBytes(t, 4, 4), 12000, 12000)

	_, err := imaging.Process(bytes.NewReader(huge), imaging.Options{MaxBytes: 1 << 20})

	require.Error(t, err)
	assert.ErrorIs(t, err, imaging.ErrTooLarge)
	assert.ErrorIs(t, err, imaging.ErrTooManyPixels)
	assert.Contains(t, err.Error(), "12000x12000")
}

func TestProcess_AllowsImagesWithinPixelLimit(t *testing.T) {
	res, err := imaging.Process(bytes.NewReader(pngBytes(t, 200, 100)), imaging.Options{MaxPixels: 20_000})

	require.NoError(t, err)
	assert.Equal(t, 200, res.Width)
}
