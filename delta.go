/*
Color delta metric
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

// maxYIQDelta is the maximum possible value of the squared YIQ color
// distance, used to normalize the matching threshold.
const maxYIQDelta = 35215

// colorDelta computes the squared perceptual distance between the pixel at
// offset k in img1 and the pixel at offset m in img2, according to the paper
// "Measuring perceived color difference using YIQ NTSC transmission color
// space in mobile applications" by Y. Kotsarenko and F. Ramos. With yOnly it
// returns the signed brightness difference instead.
func colorDelta(img1, img2 []byte, k, m int, yOnly bool) float64 {
	if img1[k+0] == img2[m+0] &&
		img1[k+1] == img2[m+1] &&
		img1[k+2] == img2[m+2] &&
		img1[k+3] == img2[m+3] {
		return 0
	}

	return yiqDelta(
		float64(img1[k+0]), float64(img1[k+1]), float64(img1[k+2]), float64(img1[k+3]),
		float64(img2[m+0]), float64(img2[m+1]), float64(img2[m+2]), float64(img2[m+3]),
		yOnly,
	)
}

// yiqDelta is colorDelta over already-extracted channel values, so that the
// blur detector can feed it fractional block averages.
func yiqDelta(r1, g1, b1, a1, r2, g2, b2, a2 float64, yOnly bool) float64 {
	if a1 < 255 {
		a1 /= 255
		r1 = blend(r1, a1)
		g1 = blend(g1, a1)
		b1 = blend(b1, a1)
	}
	if a2 < 255 {
		a2 /= 255
		r2 = blend(r2, a2)
		g2 = blend(g2, a2)
		b2 = blend(b2, a2)
	}

	y := rgb2y(r1, g1, b1) - rgb2y(r2, g2, b2)

	// Brightness difference only.
	if yOnly {
		return y
	}

	i := rgb2i(r1, g1, b1) - rgb2i(r2, g2, b2)
	q := rgb2q(r1, g1, b1) - rgb2q(r2, g2, b2)

	return 0.5053*y*y + 0.299*i*i + 0.1957*q*q
}

func rgb2y(r, g, b float64) float64 { return r*0.29889531 + g*0.58662247 + b*0.11448223 }
func rgb2i(r, g, b float64) float64 { return r*0.59597799 - g*0.27417610 - b*0.32180189 }
func rgb2q(r, g, b float64) float64 { return r*0.21147017 - g*0.52261711 + b*0.31114694 }

// blend composites a channel over a white background in proportion to the
// pixel's opacity a, given as a fraction in [0, 1].
func blend(c, a float64) float64 { return 255 + (c-255)*a }
