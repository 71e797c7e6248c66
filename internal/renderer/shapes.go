package renderer

import (
	"math"

	"github.com/gogpu/gg"
)

// fill is a resolved "fl" item.
type fill struct {
	r, g, b, a float64
	evenOdd    bool
}

// drawShapes draws a shape list. Fills apply to every geometry of the same
// list and of nested groups; items listed first are drawn on top.
func drawShapes(dc *gg.Context, items []any, frame, opacity float64, inherited []fill) error {
	fills := append([]fill(nil), inherited...)
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok || isHidden(item) {
			continue
		}
		if item["ty"] == "fl" {
			fills = append(fills, resolveFill(item, frame, opacity))
		}
	}

	for i := len(items) - 1; i >= 0; i-- {
		item, ok := items[i].(map[string]any)
		if !ok || isHidden(item) {
			continue
		}

		switch item["ty"] {
		case "gr":
			if err := drawGroup(dc, item, frame, opacity, fills); err != nil {
				return err
			}
		case "rc", "el", "sh":
			for _, f := range fills {
				if f.a <= 0 {
					continue
				}
				dc.ClearPath()
				if !buildGeometry(dc, item, frame) {
					break
				}
				if f.evenOdd {
					dc.SetFillRule(gg.FillRuleEvenOdd)
				} else {
					dc.SetFillRule(gg.FillRuleNonZero)
				}
				dc.SetRGBA(f.r, f.g, f.b, f.a)
				if err := dc.Fill(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// drawGroup applies the group's "tr" item and draws its children.
func drawGroup(dc *gg.Context, group map[string]any, frame, opacity float64, inherited []fill) error {
	children, _ := group["it"].([]any)

	dc.Push()
	defer dc.Pop()

	for _, raw := range children {
		if tr, ok := raw.(map[string]any); ok && tr["ty"] == "tr" {
			opacity *= transform(dc, tr, frame)
			break
		}
	}
	if opacity <= 0 {
		return nil
	}

	// Унаследованные заливки уже учитывают прозрачность родителя; здесь
	// дополнительно применяется прозрачность группы.
	scaled := make([]fill, len(inherited))
	for i, f := range inherited {
		scaled[i] = f
		scaled[i].a *= opacity
	}
	return drawShapes(dc, children, frame, opacity, scaled)
}

func resolveFill(item map[string]any, frame, opacity float64) fill {
	c := valueAt(item["c"], frame, 0, 0, 0, 1)
	o := component(valueAt(item["o"], frame), 0, 100)
	return fill{
		r:       component(c, 0, 0),
		g:       component(c, 1, 0),
		b:       component(c, 2, 0),
		a:       component(c, 3, 1) * math.Max(0, math.Min(o, 100)) / 100 * opacity,
		evenOdd: number(item["r"], 1) == 2,
	}
}

// buildGeometry appends the item's outline to the current path.
func buildGeometry(dc *gg.Context, item map[string]any, frame float64) bool {
	switch item["ty"] {
	case "rc":
		p := valueAt(item["p"], frame, 0, 0)
		s := valueAt(item["s"], frame, 0, 0)
		w, h := component(s, 0, 0), component(s, 1, 0)
		if w <= 0 || h <= 0 {
			return false
		}
		x, y := component(p, 0, 0)-w/2, component(p, 1, 0)-h/2
		if r := component(valueAt(item["r"], frame), 0, 0); r > 0 {
			dc.DrawRoundedRectangle(x, y, w, h, math.Min(r, math.Min(w, h)/2))
		} else {
			dc.DrawRectangle(x, y, w, h)
		}
		return true

	case "el":
		p := valueAt(item["p"], frame, 0, 0)
		s := valueAt(item["s"], frame, 0, 0)
		w, h := component(s, 0, 0), component(s, 1, 0)
		if w <= 0 || h <= 0 {
			return false
		}
		dc.DrawEllipse(component(p, 0, 0), component(p, 1, 0), w/2, h/2)
		return true

	case "sh":
		return buildPath(dc, bezierAt(item["ks"], frame))
	}
	return false
}

// bezierAt returns the path object of a shape property. Keyframed paths are
// not interpolated: the value of the active keyframe is used.
func bezierAt(prop any, frame float64) map[string]any {
	m, ok := prop.(map[string]any)
	if !ok {
		return nil
	}
	if path, ok := m["k"].(map[string]any); ok {
		return path
	}

	keyframes, _ := m["k"].([]any)
	var current map[string]any
	for _, raw := range keyframes {
		kf, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if current != nil && frame < number(kf["t"], 0) {
			break
		}
		if s, ok := kf["s"].([]any); ok && len(s) > 0 {
			if path, ok := s[0].(map[string]any); ok {
				current = path
			}
		}
	}
	return current
}

// buildPath converts a Lottie bezier ({"v","i","o","c"}) into path commands.
// In and out tangents are relative to their vertex.
func buildPath(dc *gg.Context, path map[string]any) bool {
	if path == nil {
		return false
	}
	v := points(path["v"])
	in := points(path["i"])
	out := points(path["o"])
	if len(v) < 2 {
		return false
	}
	closed, _ := path["c"].(bool)

	tangent := func(list [][2]float64, i int) [2]float64 {
		if i < len(list) {
			return list[i]
		}
		return [2]float64{}
	}
	segment := func(from, to int) {
		c1 := tangent(out, from)
		c2 := tangent(in, to)
		dc.CubicTo(
			v[from][0]+c1[0], v[from][1]+c1[1],
			v[to][0]+c2[0], v[to][1]+c2[1],
			v[to][0], v[to][1],
		)
	}

	dc.MoveTo(v[0][0], v[0][1])
	for i := 1; i < len(v); i++ {
		segment(i-1, i)
	}
	if closed {
		segment(len(v)-1, 0)
		dc.ClosePath()
	}
	return true
}

func points(v any) [][2]float64 {
	list, _ := v.([]any)
	out := make([][2]float64, 0, len(list))
	for _, raw := range list {
		p := numbers(raw)
		out = append(out, [2]float64{component(p, 0, 0), component(p, 1, 0)})
	}
	return out
}

func isHidden(item map[string]any) bool {
	hidden, _ := item["hd"].(bool)
	return hidden
}
