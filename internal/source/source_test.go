package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/ivlev/lottietrim/internal/analyzer"
	"github.com/ivlev/lottietrim/internal/lottie"
)

func writeFrame(t *testing.T, path string, x, y int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	img.SetNRGBA(x, y, color.NRGBA{R: 200, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if strings.HasSuffix(path, ".bmp") {
		require.NoError(t, bmp.Encode(f, img))
	} else {
		require.NoError(t, png.Encode(f, img))
	}
}

func TestImageSourceOrdersFrames(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, filepath.Join(dir, "frame_002.png"), 5, 4)
	writeFrame(t, filepath.Join(dir, "frame_000.png"), 1, 1)
	writeFrame(t, filepath.Join(dir, "frame_001.bmp"), 3, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	src, err := NewImageSource(dir)
	require.NoError(t, err)
	defer src.Close()
	require.Equal(t, 3, src.FrameCount())

	want := []analyzer.Box{
		{MinX: 1, MinY: 1, MaxX: 1, MaxY: 1},
		{MinX: 3, MinY: 2, MaxX: 3, MaxY: 2},
		{MinX: 5, MinY: 4, MaxX: 5, MaxY: 4},
	}
	for i, w := range want {
		img, err := src.RenderFrame(context.Background(), i)
		require.NoError(t, err)
		// BMP хранит пиксели без альфы, фон становится непрозрачным чёрным
		isBackground, _ := analyzer.NewPredicate("black")
		assert.Equal(t, w, analyzer.BoundingBox(img, isBackground), "frame %d", i)
	}

	var rangeErr *ErrFrameRange
	_, err = src.RenderFrame(context.Background(), 3)
	assert.ErrorAs(t, err, &rangeErr)
}

func TestImageSourceSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "only.png")
	writeFrame(t, path, 2, 3)

	src, err := NewImageSource(path)
	require.NoError(t, err)
	assert.Equal(t, 1, src.FrameCount())
}

func TestImageSourceCancelled(t *testing.T) {
	src := &ImageSource{paths: []string{"unused.png"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.RenderFrame(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakePlayer struct {
	total   int
	cursor  int
	seeks   []int
	failAt  int
	snapErr error
}

func (p *fakePlayer) TotalFrames() int  { return p.total }
func (p *fakePlayer) CurrentFrame() int { return p.cursor }

func (p *fakePlayer) Seek(frame int) error {
	p.seeks = append(p.seeks, frame)
	if frame == p.failAt {
		return errors.New("seek failed")
	}
	p.cursor = frame
	return nil
}

func (p *fakePlayer) SVG() ([]byte, error) {
	if p.snapErr != nil {
		return nil, p.snapErr
	}
	return []byte{byte(p.cursor)}, nil
}

func TestPlayerSourceRestoresCursor(t *testing.T) {
	p := &fakePlayer{total: 10, cursor: 7, failAt: -1}
	src := NewPlayerSource(p)

	var captured []byte
	src.rasterize = func(data []byte) (image.Image, error) {
		captured = append(captured, data...)
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	for _, frame := range []int{2, 3} {
		_, err := src.RenderFrame(context.Background(), frame)
		require.NoError(t, err)
		assert.Equal(t, 7, p.CurrentFrame())
	}
	assert.Equal(t, []byte{2, 3}, captured)
	assert.Equal(t, []int{2, 7, 3, 7}, p.seeks)
}

func TestPlayerSourceErrors(t *testing.T) {
	snapErr := errors.New("no svg")
	p := &fakePlayer{total: 5, cursor: 1, failAt: -1, snapErr: snapErr}
	src := NewPlayerSource(p)

	_, err := src.RenderFrame(context.Background(), 3)
	assert.ErrorIs(t, err, snapErr)
	assert.Equal(t, 1, p.CurrentFrame(), "cursor restored after a failed snapshot")

	p = &fakePlayer{total: 5, cursor: 1, failAt: 4}
	_, err = NewPlayerSource(p).RenderFrame(context.Background(), 4)
	assert.ErrorContains(t, err, "seek to 4")
	assert.Equal(t, 1, p.CurrentFrame())

	_, err = NewPlayerSource(p).RenderFrame(context.Background(), 5)
	var rangeErr *ErrFrameRange
	assert.ErrorAs(t, err, &rangeErr)
}

func TestSVGDirPlayer(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.svg", "a.svg", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}

	p, err := NewSVGDirPlayer(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalFrames())

	data, err := p.SVG()
	require.NoError(t, err)
	assert.Equal(t, "a.svg", string(data))

	require.NoError(t, p.Seek(1))
	data, err = p.SVG()
	require.NoError(t, err)
	assert.Equal(t, "b.svg", string(data))

	assert.Error(t, p.Seek(2))
	assert.Equal(t, 1, p.CurrentFrame())
}

func TestRasterizeSVG(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="30">` +
		`<rect x="10" y="5" width="8" height="6" fill="#ff0000"/></svg>`

	img, err := RasterizeSVG([]byte(svg))
	if err != nil {
		t.Skipf("MuPDF недоступен: %v", err)
	}
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	isBackground, _ := analyzer.NewPredicate("white")
	box := analyzer.BoundingBox(img, isBackground)
	assert.False(t, box.Empty)
	assert.InDelta(t, 10, box.MinX, 1)
	assert.InDelta(t, 5, box.MinY, 1)
	assert.InDelta(t, 17, box.MaxX, 1)
	assert.InDelta(t, 10, box.MaxY, 1)
}

func TestLottieSource(t *testing.T) {
	doc, err := lottie.Load(strings.NewReader(`{"fr":30,"ip":0,"op":3,"w":20,"h":20,"layers":[
	 {"ty":1,"ip":0,"op":3,"sc":"#0000ff","sw":5,"sh":5,"ks":{"p":{"a":0,"k":[10,10]}}}]}`))
	require.NoError(t, err)

	src := NewLottieSource(doc)
	assert.Equal(t, 3, src.FrameCount())

	img, err := src.RenderFrame(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, analyzer.Box{MinX: 10, MinY: 10, MaxX: 14, MaxY: 14}, analyzer.BoundingBox(img, nil))

	_, err = src.RenderFrame(context.Background(), 3)
	assert.Error(t, err)
}
