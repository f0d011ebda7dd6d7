// Package imaging prepares uploaded images for the upstream API: it sniffs the type,
// downsizes wide images and returns them as base64 data URLs.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

const (
	DefaultMaxBytes  = 10 << 20
	DefaultQuality   = 80
	DefaultMaxPixels = 40_000_000
)

var (
	ErrTooLarge      = errors.New("image exceeds maximum upload size")
	ErrTooManyPixels = fmt.Errorf("%w: too many pixels", ErrTooLarge)
	ErrUnsupported   = errors.New("unsupported image type")
	ErrEmpty         = errors.New("image is empty")
)

// Options controls Process. Zero values fall back to defaults; MaxWidth 0 disables resizing.
type Options struct {
	MaxBytes  int64
	// MaxPixels bounds width*height as declared in the image header, checked before decoding
	MaxPixels int
	MaxWidth  int
	Quality   int
	KeepPNG   bool
}

// Result is a processed image
type Result struct {
	Data           []byte
	ContentType    string
	SourceType     string
	Width          int
	Height         int
	OriginalWidth  int
	OriginalHeight int
	Resized        bool
}

// Base64 returns the encoded image bytes
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.Data)
}

// DataURL returns the image as a data: URL, the format the upstream stores
func (r *Result) DataURL() string {
	return "data:" + r.ContentType + ";base64," + r.Base64()
}

// Encoded converts the result into the API representation
func (r *Result) Encoded() domain.EncodedImage {
	return domain.EncodedImage{
		DataURL:     r.DataURL(),
		ContentType: r.ContentType,
		Width:       r.Width,
		Height:      r.Height,
		SizeBytes:   len(r.Data),
		Resized:     r.Resized,
	}
}

// Process reads an image, resizes it to opts.MaxWidth when wider, and re-encodes it.
// Images that need no resizing keep their original bytes when the output format matches.
func Process(r io.Reader, opts Options) (*Result, error) {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(raw)) > maxBytes {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(raw)
	c, ok := codecs[mt.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mt.String())
	}
	if err := checkPixels(c, mt.String(), raw, opts.MaxPixels); err != nil {
		return nil, err
	}
	src, err := c.decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", mt.String(), err)
	}

	bounds := src.Bounds()
	res := &Result{
		SourceType:     mt.String(),
		OriginalWidth:  bounds.Dx(),
		OriginalHeight: bounds.Dy(),
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
	}

	img := src
	if opts.MaxWidth > 0 && bounds.Dx() > opts.MaxWidth {
		img = resize(src, opts.MaxWidth)
		res.Width = img.Bounds().Dx()
		res.Height = img.Bounds().Dy()
		res.Resized = true
	}

	outPNG := opts.KeepPNG && mt.Is("image/png")

	switch {
	case !res.Resized && mt.Is("image/jpeg"):
		res.Data = raw
		res.ContentType = "image/jpeg"
		return res, nil
	case !res.Resized && outPNG:
		res.Data = raw
		res.ContentType = "image/png"
		return res, nil
	}

	var buf bytes.Buffer
	if outPNG {
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
		res.ContentType = "image/png"
	} else {
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = DefaultQuality
		}
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		res.ContentType = "image/jpeg"
	}
	res.Data = buf.Bytes()
	return res, nil
}

type codec struct {
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

var codecs = map[string]codec{
	"image/jpeg": {jpeg.Decode, jpeg.DecodeConfig},
	"image/png":  {png.Decode, png.DecodeConfig},
	"image/gif":  {gif.Decode, gif.DecodeConfig},
	"image/webp": {webp.Decode, webp.DecodeConfig},
}

// checkPixels reads only the header, so oversized images are refused before any pixel buffer exists
func checkPixels(c codec, contentType string, raw []byte, maxPixels int) error {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, err := c.decodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", contentType, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("failed to decode %s: empty dimensions", contentType)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	return nil
}

// resize scales src to width keeping the aspect ratio
func resize(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// flatten composites transparent pixels onto white, since JPEG has no alpha channel
func flatten(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
