package engine

import (
	"context"
	"fmt"
	"image"

	"github.com/ivlev/lottietrim/internal/analyzer"
)

// sizeChecker records the raster size of the first frame and rejects
// later frames of a different size.
type sizeChecker struct {
	src  FrameRenderer
	size image.Point
	seen bool
}

func (c *sizeChecker) RenderFrame(ctx context.Context, index int) (image.Image, error) {
	img, err := c.src.RenderFrame(ctx, index)
	if err != nil {
		return nil, err
	}
	size := img.Bounds().Size()
	if !c.seen {
		c.size, c.seen = size, true
	} else if size != c.size {
		return nil, fmt.Errorf("frame %d is %dx%d, earlier frames are %dx%d",
			index, size.X, size.Y, c.size.X, c.size.Y)
	}
	return img, nil
}

// toCanvas maps boxes found on a raster of size raster onto a canvas of
// size canvas. A raster pixel lands on the canvas pixel that contains it.
func toCanvas(res *Result, raster, canvas image.Point) (*Result, error) {
	if raster.X <= 0 || raster.Y <= 0 || canvas.X <= 0 || canvas.Y <= 0 {
		return nil, fmt.Errorf("cannot map %dx%d frames onto a %dx%d canvas",
			raster.X, raster.Y, canvas.X, canvas.Y)
	}
	sx := float64(canvas.X) / float64(raster.X)
	sy := float64(canvas.Y) / float64(raster.Y)

	scale := func(b analyzer.Box) analyzer.Box {
		return analyzer.Box{
			MinX:  int(float64(b.MinX) * sx),
			MinY:  int(float64(b.MinY) * sy),
			MaxX:  min(int(float64(b.MaxX)*sx), canvas.X-1),
			MaxY:  min(int(float64(b.MaxY)*sy), canvas.Y-1),
			Empty: b.Empty,
		}
	}

	out := &Result{
		PerFrame: make([]analyzer.Box, len(res.PerFrame)),
		Overall:  analyzer.Sentinel(),
	}
	for i, b := range res.PerFrame {
		out.PerFrame[i] = scale(b)
		out.Overall = analyzer.Union(out.Overall, out.PerFrame[i])
	}
	return out, nil
}
