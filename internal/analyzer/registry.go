package analyzer

import "fmt"

// NewPredicate returns the background predicate for the named variant
func NewPredicate(variant string) (Predicate, error) {
	switch variant {
	case "transparent", "":
		return Transparent, nil
	case "alpha":
		return func(_, _, _, a uint8) bool { return a == 0 }, nil
	case "white":
		// MuPDF и браузерные растеризаторы подкладывают белую страницу
		return func(r, g, b, a uint8) bool {
			return a == 0 || (r == 255 && g == 255 && b == 255 && a == 255)
		}, nil
	case "black":
		return func(r, g, b, a uint8) bool {
			return a == 0 || (r == 0 && g == 0 && b == 0 && a == 255)
		}, nil
	default:
		return nil, fmt.Errorf("unknown background variant: %s", variant)
	}
}
