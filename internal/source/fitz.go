package source

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// nativeDPI renders one SVG/PDF unit as one pixel.
const nativeDPI = 72

// FitzPDFSource serves frames exported as pages of a PDF document.
type FitzPDFSource struct {
	doc *fitz.Document
	dpi int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = nativeDPI
	}
	return &FitzPDFSource{doc: doc, dpi: dpi}, nil
}

func (f *FitzPDFSource) FrameCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) RenderFrame(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkIndex(index, f.doc.NumPage()); err != nil {
		return nil, err
	}
	return f.doc.ImageDPI(index, float64(f.dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

// RasterizeSVG renders an SVG document at its native size. MuPDF paints the
// page white, so frames produced this way need the "white" background.
func RasterizeSVG(data []byte) (image.Image, error) {
	f, err := os.CreateTemp("", "lottietrim_*.svg")
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return rasterizeFile(f.Name())
}

func rasterizeFile(path string) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(0, nativeDPI)
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
