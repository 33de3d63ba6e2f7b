/*
Blur detection
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

// imageBlurred reports whether the pixel at (x, y) lies in a region where
// both images are locally blurred or gradient-like. Single pixels inside a
// soft gradient can spuriously exceed the per-pixel threshold; averaging
// small blocks smooths that variance out while a real step edge still pushes
// some block average over the threshold. Note the block distances compare
// against the linear threshold, not the squared per-pixel maximum.
func imageBlurred(img1, img2 []byte, x, y, width, height int, threshold float64) bool {
	// A blurred difference shows up as a neighborhood-wide change; a pixel
	// whose siblings mostly agree between the images is not in one.
	if !hasManyChangedSiblings(img1, img2, x, y, width, height) {
		return false
	}

	x0 := max(x-1, 0)
	y0 := max(y-1, 0)
	x2 := min(x+1, width-1)
	y2 := min(y+1, height-1)

	// Every 2x2 block anchored in the neighborhood must average out to
	// nearly the same color in both images.
	for bx := x0; bx <= x2; bx++ {
		for by := y0; by <= y2; by++ {
			if blockDelta(img1, img2, bx, by, width, height) > threshold {
				return false
			}
		}
	}

	return true
}

// hasManyChangedSiblings reports whether at least half of the adjacent
// pixels differ between img1 and img2 in any channel.
func hasManyChangedSiblings(img1, img2 []byte, x1, y1, width, height int) bool {
	x0 := max(x1-1, 0)
	y0 := max(y1-1, 0)
	x2 := min(x1+1, width-1)
	y2 := min(y1+1, height-1)

	total := (x2-x0+1)*(y2-y0+1) - 1
	required := total / 2
	changed := 0
	remaining := total

	for x := x0; x <= x2; x++ {
		for y := y0; y <= y2; y++ {
			if x == x1 && y == y1 {
				continue
			}

			p := (y*width + x) * 4
			if img1[p+0] != img2[p+0] ||
				img1[p+1] != img2[p+1] ||
				img1[p+2] != img2[p+2] ||
				img1[p+3] != img2[p+3] {
				changed++
			}
			remaining--

			if changed >= required {
				return true
			}
			if changed+remaining < required {
				return false
			}
		}
	}

	return changed >= required
}

// blockDelta computes the perceptual distance between the two images'
// average colors over the 2x2 block whose top-left corner is (x, y). Blocks
// that stick out past the image edge average over the in-bounds pixels only.
func blockDelta(img1, img2 []byte, x, y, width, height int) float64 {
	var (
		r1, g1, b1, a1 float64
		r2, g2, b2, a2 float64
		n              float64
	)

	bx1 := min(x+1, width-1)
	by1 := min(y+1, height-1)

	for bx := x; bx <= bx1; bx++ {
		for by := y; by <= by1; by++ {
			p := (by*width + bx) * 4

			r1 += float64(img1[p+0])
			g1 += float64(img1[p+1])
			b1 += float64(img1[p+2])
			a1 += float64(img1[p+3])

			r2 += float64(img2[p+0])
			g2 += float64(img2[p+1])
			b2 += float64(img2[p+2])
			a2 += float64(img2[p+3])

			n++
		}
	}

	return yiqDelta(r1/n, g1/n, b1/n, a1/n, r2/n, g2/n, b2/n, a2/n, false)
}
