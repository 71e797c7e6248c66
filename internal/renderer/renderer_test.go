package renderer

import (
	"encoding/json"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/lottietrim/internal/analyzer"
	"github.com/ivlev/lottietrim/internal/lottie"
)

// boxDoc is a 100x80 canvas with one red 20x10 rectangle whose center moves
// from (30,40) at frame 0 to (70,40) at frame 10.
const boxDoc = `{"v":"5.7.4","fr":30,"ip":0,"op":11,"w":100,"h":80,"layers":[
 {"ty":4,"ind":1,"nm":"box","ip":0,"op":11,"st":0,
  "ks":{"o":{"a":0,"k":100},"r":{"a":0,"k":0},"a":{"a":0,"k":[0,0,0]},"s":{"a":0,"k":[100,100,100]},
        "p":{"a":1,"k":[{"t":0,"s":[30,40,0]},{"t":10,"s":[70,40,0]}]}},
  "shapes":[{"ty":"gr","it":[
   {"ty":"rc","s":{"a":0,"k":[20,10]},"p":{"a":0,"k":[0,0]},"r":{"a":0,"k":0}},
   {"ty":"fl","c":{"a":0,"k":[1,0,0,1]},"o":{"a":0,"k":100}},
   {"ty":"tr","p":{"a":0,"k":[0,0]},"a":{"a":0,"k":[0,0]},"s":{"a":0,"k":[100,100]},"r":{"a":0,"k":0},"o":{"a":0,"k":100}}]}]},
 {"ty":1,"ind":2,"nm":"late","ip":8,"op":11,"st":0,"sc":"#00ff00","sw":4,"sh":4,
  "ks":{"p":{"a":0,"k":[90,70]}}}
]}`

func loadDoc(t *testing.T, src string) *lottie.Document {
	t.Helper()
	var doc lottie.Document
	require.NoError(t, json.Unmarshal([]byte(src), &doc))
	return &doc
}

func assertBox(t *testing.T, want, got analyzer.Box) {
	t.Helper()
	assert.False(t, got.Empty)
	assert.InDelta(t, want.MinX, got.MinX, 1, "MinX")
	assert.InDelta(t, want.MinY, got.MinY, 1, "MinY")
	assert.InDelta(t, want.MaxX, got.MaxX, 1, "MaxX")
	assert.InDelta(t, want.MaxY, got.MaxY, 1, "MaxY")
}

func TestRenderStaticFrame(t *testing.T) {
	r := New(loadDoc(t, boxDoc))

	w, h := r.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 80, h)

	img, err := r.Render(0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 80), img.Bounds())

	assertBox(t, analyzer.Box{MinX: 20, MinY: 35, MaxX: 39, MaxY: 44}, analyzer.BoundingBox(img, nil))

	c := img.RGBAAt(30, 40)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(255), c.A)
}

func TestRenderAnimatedPositionAndInPoint(t *testing.T) {
	r := New(loadDoc(t, boxDoc))

	img, err := r.Render(5)
	require.NoError(t, err)
	assertBox(t, analyzer.Box{MinX: 40, MinY: 35, MaxX: 59, MaxY: 44}, analyzer.BoundingBox(img, nil))

	// с 8-го кадра появляется зелёный квадрат в правом нижнем углу
	img, err = r.Render(10)
	require.NoError(t, err)
	assertBox(t, analyzer.Box{MinX: 60, MinY: 35, MaxX: 93, MaxY: 73}, analyzer.BoundingBox(img, nil))
}

func TestRenderTrimmedMatchesCrop(t *testing.T) {
	doc := loadDoc(t, boxDoc)
	box := analyzer.Box{MinX: 10, MinY: 30, MaxX: 50, MaxY: 50}

	original, err := New(doc).Render(0)
	require.NoError(t, err)

	trimmed := lottie.Trim(doc, box)
	r := New(trimmed)
	w, h := r.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 20, h)

	cropped, err := r.Render(0)
	require.NoError(t, err)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := original.RGBAAt(x+box.MinX, y+box.MinY)
			got := cropped.RGBAAt(x, y)
			if !assert.Equal(t, want, got, "pixel (%d,%d)", x, y) {
				return
			}
		}
	}
}

func TestRenderUnknownAsset(t *testing.T) {
	doc := loadDoc(t, `{"fr":30,"ip":0,"op":1,"w":10,"h":10,"layers":[{"ty":0,"refId":"nope","ip":0,"op":1}]}`)
	_, err := New(doc).Render(0)
	assert.ErrorIs(t, err, lottie.ErrUnknownAsset)
}

func TestRenderEmptyCanvas(t *testing.T) {
	doc := loadDoc(t, `{"fr":30,"ip":0,"op":1,"w":0,"h":0,"layers":[]}`)
	img, err := New(doc).Render(0)
	require.NoError(t, err)
	assert.True(t, img.Bounds().Empty())
}

func TestValueAt(t *testing.T) {
	static := map[string]any{"a": 0.0, "k": []any{1.0, 2.0}}
	assert.Equal(t, []float64{1, 2}, valueAt(static, 7))

	scalar := map[string]any{"a": 0.0, "k": 50.0}
	assert.Equal(t, []float64{50}, valueAt(scalar, 0))

	animated := map[string]any{"a": 1.0, "k": []any{
		map[string]any{"t": 0.0, "s": []any{0.0}},
		map[string]any{"t": 10.0, "s": []any{100.0}, "h": 1.0},
		map[string]any{"t": 20.0, "s": []any{0.0}},
	}}
	assert.Equal(t, []float64{0}, valueAt(animated, -5))
	assert.Equal(t, []float64{25}, valueAt(animated, 2.5))
	assert.Equal(t, []float64{100}, valueAt(animated, 15), "hold keyframe")
	assert.Equal(t, []float64{0}, valueAt(animated, 30))

	legacy := map[string]any{"a": 1.0, "k": []any{
		map[string]any{"t": 0.0, "s": []any{0.0}, "e": []any{10.0}},
		map[string]any{"t": 10.0},
	}}
	assert.Equal(t, []float64{5}, valueAt(legacy, 5))
	assert.Equal(t, []float64{10}, valueAt(legacy, 12))

	assert.Equal(t, []float64{100, 100}, valueAt(nil, 0, 100, 100))
}
