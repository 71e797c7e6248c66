package lottie

// Layer types used by the package.
const (
	LayerPrecomp = 0
	LayerSolid   = 1
	LayerImage   = 2
	LayerNull    = 3
	LayerShape   = 4
)

// Type returns the layer's "ty" value, or -1 if it is missing.
func (l Layer) Type() int {
	return int(l.Float("ty", -1))
}

// RefID returns the asset id a precomposition or image layer references.
func (l Layer) RefID() string {
	return l.String("refId")
}

// Float returns a numeric field, or def if absent or not a number.
func (l Layer) Float(key string, def float64) float64 {
	return toFloat(l[key], def)
}

// String returns a string field, or "" if absent.
func (l Layer) String(key string) string {
	s, _ := l[key].(string)
	return s
}

// Object returns a nested object field.
func (l Layer) Object(key string) (map[string]any, bool) {
	m, ok := l[key].(map[string]any)
	return m, ok
}

// List returns a nested array field.
func (l Layer) List(key string) ([]any, bool) {
	s, ok := l[key].([]any)
	return s, ok
}

func toFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return def
	}
}
