package lottie

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAsset   = errors.New("layer references unknown asset")
	ErrDuplicateAsset = errors.New("duplicate asset id")
)

// Validate checks that asset ids are unique and that every precomposition
// reference resolves.
func (d *Document) Validate() error {
	ids := make(map[string]bool, len(d.Assets))
	for _, a := range d.Assets {
		if ids[a.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateAsset, a.ID)
		}
		ids[a.ID] = true
	}

	if err := checkRefs(d.Layers, ids, "layers"); err != nil {
		return err
	}
	for _, a := range d.Assets {
		if err := checkRefs(a.Layers, ids, "assets["+a.ID+"]"); err != nil {
			return err
		}
	}
	return nil
}

func checkRefs(layers []Layer, ids map[string]bool, where string) error {
	for i, l := range layers {
		ref := l.RefID()
		if ref == "" {
			continue
		}
		if !ids[ref] {
			return fmt.Errorf("%w: %s[%d] refId %q", ErrUnknownAsset, where, i, ref)
		}
	}
	return nil
}
