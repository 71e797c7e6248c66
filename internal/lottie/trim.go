package lottie

import (
	"github.com/ivlev/lottietrim/internal/analyzer"
)

// assetIDLength is the number of hex characters after the "animation-" prefix.
const assetIDLength = 8

// Trim returns a copy of doc whose canvas is the box. The original layers
// move into a new precomposition asset, and a single precomp layer places
// that asset at (-box.MinX, -box.MinY). doc is not modified.
//
// The new canvas is box.Width() x box.Height(). Timing fields are copied
// unchanged.
func Trim(doc *Document, box analyzer.Box) *Document {
	out := doc.Clone()
	if out.Assets == nil {
		out.Assets = []Asset{}
	}

	id := newAssetID(out)

	// out.Layers уже глубокая копия и принадлежит out
	layers := out.Layers
	if layers == nil {
		layers = []Layer{}
	}
	out.Assets = append(out.Assets, Asset{ID: id, Layers: layers})
	out.Layers = []Layer{precompLayer(id, doc, box)}

	out.Width = float64(box.Width())
	out.Height = float64(box.Height())
	return out
}

// precompLayer builds the layer that draws asset id translated so that the
// box's top-left corner lands on the origin. Its size and timing describe
// the referenced composition, i.e. the source document.
func precompLayer(id string, src *Document, box analyzer.Box) Layer {
	return Layer{
		"ddd":   0.0,
		"ind":   0.0,
		"ty":    float64(LayerPrecomp),
		"nm":    "Precomp Layer",
		"refId": id,
		"ks": map[string]any{
			"a":  staticValue(0.0, 0.0),
			"p":  staticValue(float64(-box.MinX), float64(-box.MinY)),
			"s":  staticValue(100.0, 100.0),
			"r":  staticValue(0.0),
			"sk": staticValue(0.0),
			"sa": staticValue(0.0),
			"o":  staticValue(100.0),
		},
		"fr": src.FrameRate,
		"w":  src.Width,
		"h":  src.Height,
		"ip": src.InPoint,
		"op": src.OutPoint,
		"st": 0.0,
	}
}

// staticValue encodes a non-animated property. A single component is
// written as a scalar.
func staticValue(k ...float64) map[string]any {
	if len(k) == 1 {
		return map[string]any{"a": 0.0, "k": k[0]}
	}
	v := make([]any, len(k))
	for i, c := range k {
		v[i] = c
	}
	return map[string]any{"a": 0.0, "k": v}
}

// newAssetID returns an id not used by any asset of doc.
func newAssetID(doc *Document) string {
	for {
		id := "animation-" + NewID(assetIDLength)
		if _, taken := doc.Asset(id); !taken {
			return id
		}
	}
}
