// Package renderer rasterizes a subset of Lottie with gogpu/gg.
//
// Supported: precomposition, solid, null and shape layers; rectangle,
// ellipse and path geometry with solid fills; static and linearly keyframed
// transforms; layer parenting, in/out points and start time. Images, text,
// masks, mattes, strokes, gradients and effects are skipped.
package renderer

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/ivlev/lottietrim/internal/lottie"
)

// maxDepth bounds precomposition nesting so a self-referencing asset cannot
// recurse forever.
const maxDepth = 32

// Renderer draws frames of one document. It keeps no state between calls
// but is not safe for concurrent use with a document that is being mutated.
type Renderer struct {
	doc    *lottie.Document
	assets map[string]*lottie.Asset
}

// New returns a renderer for doc.
func New(doc *lottie.Document) *Renderer {
	assets := make(map[string]*lottie.Asset, len(doc.Assets))
	for i := range doc.Assets {
		assets[doc.Assets[i].ID] = &doc.Assets[i]
	}
	return &Renderer{doc: doc, assets: assets}
}

// Size returns the canvas size in pixels.
func (r *Renderer) Size() (width, height int) {
	return int(math.Round(r.doc.Width)), int(math.Round(r.doc.Height))
}

// Render draws the given frame onto a transparent canvas.
func (r *Renderer) Render(frame float64) (*image.RGBA, error) {
	w, h := r.Size()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))), nil
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	if err := r.drawLayers(dc, r.doc.Layers, frame, 1, 0); err != nil {
		return nil, fmt.Errorf("frame %v: %w", frame, err)
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("frame %v: %w", frame, err)
	}
	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("frame %v: unexpected image type %T", frame, dc.Image())
	}
	return img, nil
}

// drawLayers draws a composition's layers bottom to top: the first layer
// of the list is the topmost one.
func (r *Renderer) drawLayers(dc *gg.Context, layers []lottie.Layer, frame, opacity float64, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("precomposition nesting deeper than %d", maxDepth)
	}

	byIndex := make(map[float64]lottie.Layer, len(layers))
	for _, l := range layers {
		if ind, ok := l["ind"].(float64); ok {
			byIndex[ind] = l
		}
	}

	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if !visible(l, frame) {
			continue
		}

		dc.Push()
		applyParents(dc, l, byIndex, frame)
		layerOpacity := applyTransform(dc, l, localFrame(l, frame))
		err := r.drawLayer(dc, l, frame, opacity*layerOpacity, depth)
		dc.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawLayer(dc *gg.Context, l lottie.Layer, frame, opacity float64, depth int) error {
	if opacity <= 0 {
		return nil
	}

	switch l.Type() {
	case lottie.LayerPrecomp:
		asset, ok := r.assets[l.RefID()]
		if !ok {
			return fmt.Errorf("%w: %q", lottie.ErrUnknownAsset, l.RefID())
		}
		if w, h := l.Float("w", 0), l.Float("h", 0); w > 0 && h > 0 {
			dc.ClipRect(0, 0, w, h)
		}
		return r.drawLayers(dc, asset.Layers, localFrame(l, frame), opacity, depth+1)

	case lottie.LayerSolid:
		w, h := l.Float("sw", 0), l.Float("sh", 0)
		if w <= 0 || h <= 0 {
			return nil
		}
		c := gg.Hex(l.String("sc"))
		dc.SetRGBA(c.R, c.G, c.B, c.A*opacity)
		dc.ClearPath()
		dc.DrawRectangle(0, 0, w, h)
		return dc.Fill()

	case lottie.LayerShape:
		items, _ := l.List("shapes")
		return drawShapes(dc, items, localFrame(l, frame), opacity, nil)

	default:
		// Null layers only carry transforms for their children.
		return nil
	}
}

// visible reports whether frame falls in [ip, op) and the layer is not hidden.
func visible(l lottie.Layer, frame float64) bool {
	if hidden, _ := l["hd"].(bool); hidden {
		return false
	}
	ip := l.Float("ip", math.Inf(-1))
	op := l.Float("op", math.Inf(1))
	return frame >= ip && frame < op
}

// localFrame maps a composition frame into the layer's own timeline.
func localFrame(l lottie.Layer, frame float64) float64 {
	stretch := l.Float("sr", 1)
	if stretch == 0 {
		stretch = 1
	}
	return (frame - l.Float("st", 0)) / stretch
}

// applyParents applies the transforms of l's parent chain, outermost first.
func applyParents(dc *gg.Context, l lottie.Layer, byIndex map[float64]lottie.Layer, frame float64) {
	var chain []lottie.Layer
	seen := map[float64]bool{}
	for {
		p, ok := l["parent"].(float64)
		if !ok || seen[p] {
			break
		}
		seen[p] = true
		parent, ok := byIndex[p]
		if !ok {
			break
		}
		chain = append(chain, parent)
		l = parent
	}
	for i := len(chain) - 1; i >= 0; i-- {
		applyTransform(dc, chain[i], localFrame(chain[i], frame))
	}
}

// applyTransform applies the layer's "ks" transform and returns its
// opacity in [0, 1].
func applyTransform(dc *gg.Context, l lottie.Layer, frame float64) float64 {
	ks, ok := l.Object("ks")
	if !ok {
		return 1
	}
	return transform(dc, ks, frame)
}

// transform applies position, rotation, scale and anchor of a transform
// object: T(p) · R(r) · S(s/100) · T(-a).
func transform(dc *gg.Context, ks map[string]any, frame float64) float64 {
	var px, py float64
	if p, ok := ks["p"].(map[string]any); ok && number(p["s"], 0) == 1 {
		px = component(valueAt(p["x"], frame), 0, 0)
		py = component(valueAt(p["y"], frame), 0, 0)
	} else {
		pos := valueAt(ks["p"], frame)
		px, py = component(pos, 0, 0), component(pos, 1, 0)
	}

	anchor := valueAt(ks["a"], frame)
	scale := valueAt(ks["s"], frame, 100, 100)
	rotation := component(valueAt(ks["r"], frame), 0, 0)
	if _, ok := ks["rz"]; ok {
		rotation = component(valueAt(ks["rz"], frame), 0, 0)
	}

	dc.Translate(px, py)
	if rotation != 0 {
		dc.Rotate(rotation * math.Pi / 180)
	}
	dc.Scale(component(scale, 0, 100)/100, component(scale, 1, 100)/100)
	dc.Translate(-component(anchor, 0, 0), -component(anchor, 1, 0))

	o := component(valueAt(ks["o"], frame), 0, 100)
	return math.Max(0, math.Min(o, 100)) / 100
}
