// Package lottie holds the in-memory Lottie animation document and the
// transformations applied to it.
//
// Documents are treated as immutable values: every transformation returns a
// new *Document and leaves its input untouched.
package lottie

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
)

// Layer is one node of the layer tree, kept as the raw keyed structure it
// was decoded from so that no field is lost or reinterpreted.
type Layer map[string]any

// Document is a Lottie animation. Top-level keys the package does not model
// are carried in Extra and written back unchanged.
type Document struct {
	Version   string  `json:"v,omitempty"`
	Name      string  `json:"nm,omitempty"`
	FrameRate float64 `json:"fr"`
	InPoint   float64 `json:"ip"`
	OutPoint  float64 `json:"op"`
	Width     float64 `json:"w"`
	Height    float64 `json:"h"`
	Layers    []Layer `json:"layers"`
	Assets    []Asset `json:"assets,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Asset is an entry of the document's asset collection. Precomposition
// assets carry Layers; image and other assets keep their keys in Extra.
type Asset struct {
	ID     string  `json:"id"`
	Layers []Layer `json:"layers,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var documentKeys = []string{"v", "nm", "fr", "ip", "op", "w", "h", "layers", "assets"}

var assetKeys = []string{"id", "layers"}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+len(documentKeys))
	for k, v := range d.Extra {
		out[k] = v
	}
	if d.Version != "" {
		out["v"] = d.Version
	}
	if d.Name != "" {
		out["nm"] = d.Name
	}
	out["fr"] = d.FrameRate
	out["ip"] = d.InPoint
	out["op"] = d.OutPoint
	out["w"] = d.Width
	out["h"] = d.Height
	if d.Layers == nil {
		out["layers"] = []Layer{}
	} else {
		out["layers"] = d.Layers
	}
	if d.Assets != nil {
		out["assets"] = d.Assets
	}
	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraKeys(data, documentKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*d = Document(p)
	return nil
}

func (a Asset) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+len(assetKeys))
	for k, v := range a.Extra {
		out[k] = v
	}
	out["id"] = a.ID
	if a.Layers != nil {
		out["layers"] = a.Layers
	}
	return json.Marshal(out)
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	type plain Asset
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraKeys(data, assetKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*a = Asset(p)
	return nil
}

// extraKeys returns the object's keys that are not in known.
func extraKeys(data []byte, known []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{}
	if err := copier.CopyWithOption(out, d, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched types, which cannot happen for Document -> Document
		panic(fmt.Sprintf("lottie: clone document: %v", err))
	}

	// copier materialises nil slices and maps; keep absent keys absent
	if d.Layers == nil {
		out.Layers = nil
	}
	if d.Extra == nil {
		out.Extra = nil
	}
	if d.Assets == nil {
		out.Assets = nil
	}
	for i := range d.Assets {
		if d.Assets[i].Layers == nil {
			out.Assets[i].Layers = nil
		}
		if d.Assets[i].Extra == nil {
			out.Assets[i].Extra = nil
		}
	}
	return out
}

// Asset returns the asset with the given id.
func (d *Document) Asset(id string) (*Asset, bool) {
	for i := range d.Assets {
		if d.Assets[i].ID == id {
			return &d.Assets[i], true
		}
	}
	return nil, false
}

// FrameRange returns the first and last frame index the document plays:
// [ip, op-1].
func (d *Document) FrameRange() (first, last int) {
	first = int(d.InPoint)
	last = int(d.OutPoint) - 1
	if last < first {
		last = first
	}
	return first, last
}
