/*
Image adapter
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

package pixelmatch

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// DiffImages compares two decoded images of equal dimensions and returns the
// mismatched pixel count together with the rendered diff. It is a thin front
// end over [Pixelmatch]: inputs are normalized to non-premultiplied RGBA and
// the diff is rendered into a freshly allocated image.
func DiffImages(a, b image.Image, opts ...Option) (int, *image.NRGBA, error) {
	if a == nil || b == nil {
		return 0, nil, fmt.Errorf("%w: both images are required", ErrInvalidPixelData)
	}
	if a.Bounds().Size() != b.Bounds().Size() {
		return 0, nil, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, a.Bounds().Size(), b.Bounds().Size())
	}

	na := toNRGBA(a)
	nb := toNRGBA(b)
	w := na.Rect.Dx()
	h := na.Rect.Dy()

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	n, err := Pixelmatch(na.Pix, nb.Pix, out.Pix, w, h, opts...)
	if err != nil {
		return 0, nil, err
	}

	return n, out, nil
}

// toNRGBA returns img as an origin-anchored NRGBA image with a packed
// stride, copying only when the underlying representation does not already
// match the raw buffer layout the core expects.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok &&
		n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}
