// Package source produces raster frames of an animation.
package source

import (
	"context"
	"fmt"
	"image"
)

// Source renders frames by index. Implementations are not safe for
// concurrent use: a source may reposition shared playback state while it
// produces a frame.
type Source interface {
	FrameCount() int
	RenderFrame(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// ErrFrameRange is returned for indices outside [0, FrameCount()).
type ErrFrameRange struct {
	Index int
	Count int
}

func (e *ErrFrameRange) Error() string {
	return fmt.Sprintf("frame %d out of range [0, %d)", e.Index, e.Count)
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return &ErrFrameRange{Index: index, Count: count}
	}
	return nil
}
