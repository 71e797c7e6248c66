package analyzer

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/lottietrim/internal/system"
)

// BoundingBox finds the tight rectangle of pixels for which isBackground
// returns false. A nil predicate means Transparent.
//
// Coordinates are relative to img.Bounds().Min. Pixels are handed to the
// predicate as non-premultiplied 8-bit values.
func BoundingBox(img image.Image, isBackground Predicate) Box {
	if isBackground == nil {
		isBackground = Transparent
	}

	nrgba, release := toNRGBA(img)
	defer release()

	width := nrgba.Rect.Dx()
	height := nrgba.Rect.Dy()

	// Каждый столбец и строка помечаются, если в них есть хоть один пиксель переднего плана
	columnEmpty := make([]bool, width)
	rowEmpty := make([]bool, height)
	for i := range columnEmpty {
		columnEmpty[i] = true
	}
	for i := range rowEmpty {
		rowEmpty[i] = true
	}

	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			if !isBackground(p[0], p[1], p[2], p[3]) {
				columnEmpty[x] = false
				rowEmpty[y] = false
			}
		}
	}

	minX, maxX, foundX := edges(columnEmpty)
	minY, maxY, foundY := edges(rowEmpty)

	return Box{
		MinX:  minX,
		MinY:  minY,
		MaxX:  maxX,
		MaxY:  maxY,
		Empty: !foundX || !foundY,
	}
}

// edges scans a column or row mask from both ends. When nothing is marked,
// lo ends up at len(empty) and hi is forced to 0.
func edges(empty []bool) (lo, hi int, found bool) {
	n := len(empty)
	for lo < n && empty[lo] {
		lo++
	}
	hi = n - 1
	for hi > lo && empty[hi] {
		hi--
	}
	if hi < lo {
		hi = 0
	}
	return lo, hi, lo < n
}

// toNRGBA returns img as a zero-origin *image.NRGBA, converting into a
// pooled buffer when needed. release must be called once the pixels are no
// longer used.
func toNRGBA(img image.Image) (*image.NRGBA, func()) {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n, func() {}
	}

	bounds := img.Bounds()
	dst := system.GetImage(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Rect, img, bounds.Min, xdraw.Src)
	return dst, func() { system.PutImage(dst) }
}
