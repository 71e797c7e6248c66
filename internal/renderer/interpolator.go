package renderer

// Property values in a Lottie document are either static ({"a":0,"k":v})
// or keyframed ({"a":1,"k":[{"t":0,"s":[...]}, ...]}). Keyframes are
// interpolated linearly; bezier easing handles ("i"/"o") are ignored and
// hold keyframes ("h":1) keep their start value.

// valueAt evaluates a numeric property at frame. def is returned when the
// property is absent or malformed.
func valueAt(prop any, frame float64, def ...float64) []float64 {
	m, ok := prop.(map[string]any)
	if !ok {
		return def
	}

	k, ok := m["k"]
	if !ok {
		return def
	}

	if !isAnimated(m) {
		if v := numbers(k); v != nil {
			return v
		}
		return def
	}

	keyframes, ok := k.([]any)
	if !ok || len(keyframes) == 0 {
		return def
	}

	var prev map[string]any
	for _, raw := range keyframes {
		kf, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if frame < number(kf["t"], 0) {
			if prev == nil {
				// До первого ключевого кадра
				return firstValue(kf, def)
			}
			return interpolate(prev, kf, frame, def)
		}
		prev = kf
	}
	return lastValue(keyframes, def)
}

// interpolate evaluates the segment that starts at prev and ends at next.
func interpolate(prev, next map[string]any, frame float64, def []float64) []float64 {
	start := numbers(prev["s"])
	if start == nil {
		return def
	}
	if number(prev["h"], 0) == 1 {
		return start
	}

	end := numbers(prev["e"])
	if end == nil {
		end = numbers(next["s"])
	}
	if end == nil || len(end) != len(start) {
		return start
	}

	t0 := number(prev["t"], 0)
	t1 := number(next["t"], 0)
	if t1 <= t0 {
		return start
	}
	t := (frame - t0) / (t1 - t0)

	out := make([]float64, len(start))
	for i := range start {
		out[i] = lerp(start[i], end[i], t)
	}
	return out
}

func firstValue(kf map[string]any, def []float64) []float64 {
	if v := numbers(kf["s"]); v != nil {
		return v
	}
	return def
}

// lastValue returns the value held after the final keyframe. Older exports
// leave "s" off the last keyframe and put the value in the previous "e".
func lastValue(keyframes []any, def []float64) []float64 {
	last, _ := keyframes[len(keyframes)-1].(map[string]any)
	if v := numbers(last["s"]); v != nil {
		return v
	}
	if len(keyframes) < 2 {
		return def
	}
	prev, _ := keyframes[len(keyframes)-2].(map[string]any)
	if v := numbers(prev["e"]); v != nil {
		return v
	}
	if v := numbers(prev["s"]); v != nil {
		return v
	}
	return def
}

func isAnimated(m map[string]any) bool {
	if number(m["a"], 0) == 1 {
		return true
	}
	// Some exporters omit "a"; a list of objects is keyframes.
	if list, ok := m["k"].([]any); ok && len(list) > 0 {
		_, obj := list[0].(map[string]any)
		return obj
	}
	return false
}

// numbers converts a scalar or a numeric array into a slice.
func numbers(v any) []float64 {
	switch n := v.(type) {
	case float64:
		return []float64{n}
	case []any:
		if len(n) == 0 {
			return nil
		}
		out := make([]float64, 0, len(n))
		for _, e := range n {
			f, ok := e.(float64)
			if !ok {
				return nil
			}
			out = append(out, f)
		}
		return out
	default:
		return nil
	}
}

func number(v any, def float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return def
}

// component returns v[i], or def if v is too short.
func component(v []float64, i int, def float64) float64 {
	if i < len(v) {
		return v[i]
	}
	return def
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
