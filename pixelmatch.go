/*
Pixelmatch
Copyright (c) 2019, Mapbox
Copyright (c) 2024, Chroma Software Inc.

Permission to use, copy, modify, and/or distribute this software for any
purpose with or without fee is hereby granted, provided that the above
copyright notice and this permission notice appear in all copies.

THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
PERFORMANCE OF THIS SOFTWARE.
*/

// Package pixelmatch is a Go port of the pixelmatch pixel-level image
// comparison library (https://github.com/mapbox/pixelmatch), extended with
// blur detection so that soft or gradient-heavy regions do not trip visual
// regression tests.
//
// The core operates on raw RGBA byte buffers (row-major, 4 bytes per pixel,
// non-premultiplied); see [DiffImages] for an image.Image front end.
package pixelmatch

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
)

var (
	// ErrInvalidPixelData is returned when a required pixel buffer is missing.
	ErrInvalidPixelData = errors.New("image data must be a non-nil byte buffer")
	// ErrSizeMismatch is returned when the input or output buffer lengths differ.
	ErrSizeMismatch = errors.New("image sizes do not match")
	// ErrDimensionMismatch is returned when a buffer length is not width*height*4.
	ErrDimensionMismatch = errors.New("image data size does not match width/height")
)

// Options are the knobs of a single comparison. Every call to [Pixelmatch]
// builds its own snapshot from the defaults and the supplied [Option] values;
// there is no shared mutable default state.
type Options struct {
	// Matching threshold in [0, 1]; smaller values catch subtler differences.
	threshold float64

	// Count anti-aliased pixels as differences instead of ignoring them.
	includeAA bool

	// Opacity of the grayscale backdrop in the rendered diff.
	alpha float64

	// Color used for anti-aliased pixels in the rendered diff.
	aaColor color.RGBA

	// Color used for differing pixels in the rendered diff.
	diffColor color.RGBA

	// Render only flagged pixels, leaving the backdrop untouched.
	diffMask bool

	// Scale diff-pixel opacity by the magnitude of the difference.
	diffMaskDebug bool
}

// Option adjusts a single comparison.
type Option func(*Options)

// Threshold sets the matching threshold (default 0.1). Smaller is more
// sensitive; 0 flags every perceptible difference.
func Threshold(t float64) Option {
	return func(o *Options) { o.threshold = t }
}

// IncludeAA counts anti-aliased pixels as differences instead of detecting
// and ignoring them (the default).
func IncludeAA(v bool) Option {
	return func(o *Options) { o.includeAA = v }
}

// Alpha sets the opacity of the grayscale backdrop (default 0.1).
func Alpha(a float64) Option {
	return func(o *Options) { o.alpha = a }
}

// AAColor sets the marker color for anti-aliased pixels (default yellow).
func AAColor(c color.RGBA) Option {
	return func(o *Options) { o.aaColor = c }
}

// DiffColor sets the marker color for differing pixels (default red).
func DiffColor(c color.RGBA) Option {
	return func(o *Options) { o.diffColor = c }
}

// DiffMask renders flagged pixels only, over whatever the output buffer
// already contains, instead of a full image with a grayscale backdrop.
func DiffMask(v bool) Option {
	return func(o *Options) { o.diffMask = v }
}

// DiffMaskDebug scales each diff marker's alpha by the magnitude of the
// pixel's perceptual delta instead of drawing it fully opaque.
func DiffMaskDebug(v bool) Option {
	return func(o *Options) { o.diffMaskDebug = v }
}

func defaultOptions() Options {
	return Options{
		threshold: 0.1,
		alpha:     0.1,
		aaColor:   color.RGBA{R: 255, G: 255, B: 0, A: 255},
		diffColor: color.RGBA{R: 255, G: 0, B: 0, A: 255},
	}
}

// Pixelmatch compares two equally-sized RGBA buffers and returns the number
// of pixels that genuinely differ. img1 and img2 are row-major, 4 bytes per
// pixel (R, G, B, A in [0, 255], non-premultiplied). If output is non-nil it
// must have the same length and receives a rendered diff: a grayscale
// backdrop for matching pixels, yellow for anti-aliasing, green for blurred
// regions, red for real differences. The inputs are never written; output is
// exclusively owned by the call for its duration.
func Pixelmatch(img1, img2, output []byte, width, height int, opts ...Option) (int, error) {
	if img1 == nil || img2 == nil {
		return 0, fmt.Errorf("%w: img1 and img2 are required", ErrInvalidPixelData)
	}
	if len(img1) != len(img2) {
		return 0, fmt.Errorf("%w: img1 is %d bytes, img2 is %d bytes", ErrSizeMismatch, len(img1), len(img2))
	}
	if output != nil && len(output) != len(img1) {
		return 0, fmt.Errorf("%w: output is %d bytes, want %d", ErrSizeMismatch, len(output), len(img1))
	}
	if len(img1) != width*height*4 {
		return 0, fmt.Errorf("%w: %d bytes for %dx%d, want %d",
			ErrDimensionMismatch, len(img1), width, height, width*height*4)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Fast path: byte-identical buffers cannot contain differences. The
	// backdrop is still rendered so callers get the same output either way.
	if bytes.Equal(img1, img2) {
		if output != nil && !o.diffMask {
			for pos := 0; pos < len(img1); pos += 4 {
				drawGrayPixel(img1, pos, o.alpha, output)
			}
		}
		return 0, nil
	}

	// Maximum acceptable squared YIQ distance between two pixels.
	maxDelta := maxYIQDelta * o.threshold * o.threshold
	diff := 0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := (y*width + x) * 4
			delta := colorDelta(img1, img2, pos, pos, false)

			if delta > maxDelta {
				switch {
				case !o.includeAA && (antialiased(img1, x, y, width, height, img2) ||
					antialiased(img2, x, y, width, height, img1)):
					// One of the images has anti-aliasing here; not counted
					// and never part of a mask.
					if output != nil && !o.diffMask {
						drawPixel(output, pos, o.aaColor.R, o.aaColor.G, o.aaColor.B, 255)
					}

				case imageBlurred(img1, img2, x, y, width, height, o.threshold):
					// Both images are locally soft here; tolerated but marked.
					if output != nil {
						drawPixel(output, pos, 0, 255, 0, 255)
					}

				default:
					if output != nil {
						a := uint8(255)
						if o.diffMaskDebug {
							a = uint8(255 * math.Sqrt(delta/maxYIQDelta))
						}
						drawPixel(output, pos, o.diffColor.R, o.diffColor.G, o.diffColor.B, a)
					}
					diff++
				}
			} else if output != nil && !o.diffMask {
				drawGrayPixel(img1, pos, o.alpha, output)
			}
		}
	}

	return diff, nil
}

func drawPixel(output []byte, pos int, r, g, b, a uint8) {
	output[pos+0] = r
	output[pos+1] = g
	output[pos+2] = b
	output[pos+3] = a
}

// drawGrayPixel writes img's pixel at pos as luma blended toward white,
// producing the dimmed backdrop of the rendered diff.
func drawGrayPixel(img []byte, pos int, alpha float64, output []byte) {
	y := rgb2y(float64(img[pos]), float64(img[pos+1]), float64(img[pos+2]))
	val := uint8(blend(y, alpha*float64(img[pos+3])/255))
	output[pos+0] = val
	output[pos+1] = val
	output[pos+2] = val
	output[pos+3] = 255
}
