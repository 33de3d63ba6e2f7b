/*
Anti-aliasing detection
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

// antialiased reports whether the pixel at (x1, y1) in img is likely part of
// anti-aliasing, based on "Anti-aliased Pixel and Intensity Slope Detector"
// by V. Vysniauskas, 2009. A true anti-aliased edge pixel sits between a
// darker and a brighter neighbor, and that extreme neighbor lies in a flat
// region of both images.
func antialiased(img []byte, x1, y1, width, height int, img2 []byte) bool {
	x0 := max(x1-1, 0)
	y0 := max(y1-1, 0)
	x2 := min(x1+1, width-1)
	y2 := min(y1+1, height-1)
	pos := (y1*width + x1) * 4

	zeroes := 0
	if x1 == x0 || x1 == x2 || y1 == y0 || y1 == y2 {
		zeroes = 1
	}

	var (
		mn, mx             float64
		mnX, mnY, mxX, mxY int
	)

	// Go through the 8 adjacent pixels.
	for x := x0; x <= x2; x++ {
		for y := y0; y <= y2; y++ {
			if x == x1 && y == y1 {
				continue
			}

			// Brightness delta between the center pixel and the adjacent one.
			delta := colorDelta(img, img, pos, (y*width+x)*4, true)

			if delta == 0 {
				zeroes++
				// More than 2 equal siblings means flat region, not an edge.
				if zeroes > 2 {
					return false
				}
			} else if delta < mn {
				// Remember the darkest pixel.
				mn = delta
				mnX = x
				mnY = y
			} else if delta > mx {
				// Remember the brightest pixel.
				mx = delta
				mxX = x
				mxY = y
			}
		}
	}

	// Without both darker and brighter siblings it is not anti-aliasing.
	if mn == 0 || mx == 0 {
		return false
	}

	// The pixel is anti-aliased if either the darkest or the brightest
	// sibling sits in a flat region in both images.
	return (hasManySiblings(img, mnX, mnY, width, height) && hasManySiblings(img2, mnX, mnY, width, height)) ||
		(hasManySiblings(img, mxX, mxY, width, height) && hasManySiblings(img2, mxX, mxY, width, height))
}

// hasManySiblings reports whether the pixel at (x1, y1) has 3 or more
// adjacent pixels of the exact same color.
func hasManySiblings(img []byte, x1, y1, width, height int) bool {
	x0 := max(x1-1, 0)
	y0 := max(y1-1, 0)
	x2 := min(x1+1, width-1)
	y2 := min(y1+1, height-1)
	pos := (y1*width + x1) * 4

	zeroes := 0
	if x1 == x0 || x1 == x2 || y1 == y0 || y1 == y2 {
		zeroes = 1
	}

	for x := x0; x <= x2; x++ {
		for y := y0; y <= y2; y++ {
			if x == x1 && y == y1 {
				continue
			}

			p := (y*width + x) * 4
			if img[pos+0] == img[p+0] &&
				img[pos+1] == img[p+1] &&
				img[pos+2] == img[p+2] &&
				img[pos+3] == img[p+3] {
				zeroes++
			}

			if zeroes > 2 {
				return true
			}
		}
	}

	return false
}
