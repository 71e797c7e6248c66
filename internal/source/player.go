package source

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Player is a stateful animation player that can only export the frame
// under its cursor.
type Player interface {
	TotalFrames() int
	CurrentFrame() int
	Seek(frame int) error
	SVG() ([]byte, error)
}

// PlayerSource captures frames from a Player. Every capture moves the
// cursor to the requested frame and puts it back afterwards, so the player
// is observed at the same position before and after RenderFrame.
type PlayerSource struct {
	player    Player
	rasterize func([]byte) (image.Image, error)
}

func NewPlayerSource(p Player) *PlayerSource {
	return &PlayerSource{player: p, rasterize: RasterizeSVG}
}

func (s *PlayerSource) FrameCount() int {
	return s.player.TotalFrames()
}

func (s *PlayerSource) RenderFrame(ctx context.Context, index int) (img image.Image, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkIndex(index, s.player.TotalFrames()); err != nil {
		return nil, err
	}

	prev := s.player.CurrentFrame()
	if err := s.player.Seek(index); err != nil {
		return nil, fmt.Errorf("seek to %d: %w", index, err)
	}
	defer func() {
		if restoreErr := s.player.Seek(prev); restoreErr != nil && err == nil {
			img, err = nil, fmt.Errorf("restore cursor %d: %w", prev, restoreErr)
		}
	}()

	data, err := s.player.SVG()
	if err != nil {
		return nil, fmt.Errorf("snapshot frame %d: %w", index, err)
	}
	return s.rasterize(data)
}

func (s *PlayerSource) Close() error {
	if c, ok := s.player.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// SVGDirPlayer plays a directory of SVG snapshots, one file per frame in
// lexical order.
type SVGDirPlayer struct {
	paths  []string
	cursor int
}

func NewSVGDirPlayer(dir string) (*SVGDirPlayer, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".svg") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return &SVGDirPlayer{paths: paths}, nil
}

func (p *SVGDirPlayer) TotalFrames() int  { return len(p.paths) }
func (p *SVGDirPlayer) CurrentFrame() int { return p.cursor }

func (p *SVGDirPlayer) Seek(frame int) error {
	if err := checkIndex(frame, len(p.paths)); err != nil {
		return err
	}
	p.cursor = frame
	return nil
}

func (p *SVGDirPlayer) SVG() ([]byte, error) {
	if err := checkIndex(p.cursor, len(p.paths)); err != nil {
		return nil, err
	}
	return os.ReadFile(p.paths[p.cursor])
}

// NewSVGSource rasterizes the SVG frames in dir through go-fitz.
func NewSVGSource(dir string) (*PlayerSource, error) {
	p, err := NewSVGDirPlayer(dir)
	if err != nil {
		return nil, err
	}
	return NewPlayerSource(p), nil
}
