package source

import (
	"context"
	"image"

	"github.com/ivlev/lottietrim/internal/lottie"
	"github.com/ivlev/lottietrim/internal/renderer"
)

// LottieSource renders document frames with the built-in rasterizer.
// Frame indices are composition frame numbers.
type LottieSource struct {
	doc *lottie.Document
	r   *renderer.Renderer
}

func NewLottieSource(doc *lottie.Document) *LottieSource {
	return &LottieSource{doc: doc, r: renderer.New(doc)}
}

func (s *LottieSource) FrameCount() int {
	return max(int(s.doc.OutPoint), 0)
}

func (s *LottieSource) RenderFrame(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkIndex(index, s.FrameCount()); err != nil {
		return nil, err
	}
	return s.r.Render(float64(index))
}

func (s *LottieSource) Close() error {
	return nil
}
