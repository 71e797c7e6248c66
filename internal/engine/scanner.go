package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/ivlev/lottietrim/internal/analyzer"
)

// ErrInterrupted is matched by errors returned when a FrameFunc stops a scan.
var ErrInterrupted = errors.New("scan interrupted")

// InterruptedError reports the frame after which the scan was stopped.
type InterruptedError struct {
	Frame int
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("scan interrupted at frame %d", e.Frame)
}

func (e *InterruptedError) Is(target error) bool {
	return target == ErrInterrupted
}

// FrameRenderer produces the raster of one frame. Calls are never
// concurrent.
type FrameRenderer interface {
	RenderFrame(ctx context.Context, index int) (image.Image, error)
}

// FrameFunc observes progress after each frame. Returning false stops the
// scan.
type FrameFunc func(frame int, frameBox, overall analyzer.Box, first, last int) bool

// Result holds one box per scanned frame, in frame order, and their union.
type Result struct {
	PerFrame []analyzer.Box
	Overall  analyzer.Box
}

type State int

const (
	Running State = iota
	Cancelled
	Completed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Cancelled:
		return "cancelled"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Option func(*Scanner)

func WithPredicate(p analyzer.Predicate) Option {
	return func(s *Scanner) { s.isBackground = p }
}

func WithFrameFunc(fn FrameFunc) Option {
	return func(s *Scanner) { s.onFrame = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// maxPrealloc caps the per-frame slice reserved up front; the range itself
// is only bounded by what the renderer accepts.
const maxPrealloc = 1024

// Scanner walks a frame range one frame per Step.
type Scanner struct {
	src          FrameRenderer
	first, last  int
	next         int
	state        State
	isBackground analyzer.Predicate
	onFrame      FrameFunc
	logger       *log.Logger

	perFrame []analyzer.Box
	overall  analyzer.Box
}

// NewScanner validates the inclusive range [first, last]. No frame is
// requested until the first Step.
func NewScanner(src FrameRenderer, first, last int, opts ...Option) (*Scanner, error) {
	if src == nil {
		return nil, errors.New("nil frame renderer")
	}
	if first < 0 || last < first {
		return nil, fmt.Errorf("invalid frame range [%d, %d]", first, last)
	}

	s := &Scanner{
		src:          src,
		first:        first,
		last:         last,
		next:         first,
		isBackground: analyzer.Transparent,
		logger:       log.New(io.Discard, "", 0),
		perFrame:     make([]analyzer.Box, 0, prealloc(first, last)),
		overall:      analyzer.Sentinel(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// prealloc avoids last-first+1, which overflows for last == math.MaxInt.
func prealloc(first, last int) int {
	if last-first >= maxPrealloc {
		return maxPrealloc
	}
	return last - first + 1
}

func (s *Scanner) State() State { return s.state }

// Frame is the next frame Step will process.
func (s *Scanner) Frame() int { return s.next }

// Result is available once the scanner has completed.
func (s *Scanner) Result() (*Result, bool) {
	if s.state != Completed {
		return nil, false
	}
	return &Result{PerFrame: s.perFrame, Overall: s.overall}, true
}

// Step renders and classifies one frame. A scanner that has stopped, by
// cancellation or by error, stays Cancelled.
func (s *Scanner) Step(ctx context.Context) error {
	switch s.state {
	case Completed:
		return nil
	case Cancelled:
		return errors.New("scanner is cancelled")
	}

	if err := ctx.Err(); err != nil {
		s.state = Cancelled
		return err
	}

	frame := s.next
	img, err := s.src.RenderFrame(ctx, frame)
	if err != nil {
		s.state = Cancelled
		return fmt.Errorf("render frame %d: %w", frame, err)
	}

	box := analyzer.BoundingBox(img, s.isBackground)
	s.perFrame = append(s.perFrame, box)
	s.overall = analyzer.Union(s.overall, box)
	s.logger.Printf("[*] Кадр %d: %s, итог %s", frame, box, s.overall)

	if s.onFrame != nil && !s.onFrame(frame, box, s.overall, s.first, s.last) {
		s.state = Cancelled
		s.logger.Printf("[!] Сканирование прервано на кадре %d", frame)
		return &InterruptedError{Frame: frame}
	}

	s.next++
	if frame == s.last {
		s.state = Completed
	}
	return nil
}

// ComputeRange scans [first, last] strictly in order and returns the
// per-frame boxes and their union. Context cancellation is observed between
// frames.
func ComputeRange(ctx context.Context, src FrameRenderer, first, last int, opts ...Option) (*Result, error) {
	s, err := NewScanner(src, first, last, opts...)
	if err != nil {
		return nil, err
	}
	for s.State() == Running {
		if err := s.Step(ctx); err != nil {
			return nil, err
		}
	}
	res, _ := s.Result()
	return res, nil
}
