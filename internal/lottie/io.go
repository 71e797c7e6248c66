package lottie

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load decodes a Lottie JSON document.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode lottie: %w", err)
	}
	return &doc, nil
}

// LoadFile reads a Lottie JSON document from path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Save encodes doc as compact JSON.
func Save(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode lottie: %w", err)
	}
	return nil
}

// SaveFile writes doc to path, replacing any existing file.
func SaveFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
