package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/lottietrim/internal/analyzer"
	"github.com/ivlev/lottietrim/internal/config"
	"github.com/ivlev/lottietrim/internal/lottie"
	"github.com/ivlev/lottietrim/internal/report"
	"github.com/ivlev/lottietrim/internal/source"
	"github.com/ivlev/lottietrim/internal/system"
)

// ErrNothingVisible is returned when no frame of the range has content to
// trim to.
var ErrNothingVisible = errors.New("no visible pixels in frame range")

// Summary describes one finished trim.
type Summary struct {
	Input    string
	Output   string
	Report   string
	Box      analyzer.Box
	Frames   int
	Duration time.Duration
}

type TrimProject struct {
	Config *config.Config
	Source source.Source
	Logger *log.Logger
}

// NewTrimProject prepares a run. When src is nil the source is opened from
// the config once the document is loaded.
func NewTrimProject(cfg *config.Config, src source.Source) *TrimProject {
	return &TrimProject{
		Config: cfg,
		Source: src,
		Logger: log.New(io.Discard, "", 0),
	}
}

func (p *TrimProject) Run(ctx context.Context) (*Summary, error) {
	startTime := time.Now()
	cfg := p.Config

	doc, err := lottie.LoadFile(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения анимации: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	first, last := doc.FrameRange()
	if cfg.FirstFrame >= 0 {
		first = cfg.FirstFrame
	}
	if cfg.LastFrame >= 0 {
		last = cfg.LastFrame
	}

	background := cfg.DefaultBackground()
	var overall analyzer.Box
	var scanned *report.Report

	if cfg.ReportInput != "" {
		saved, err := report.ReadReport(cfg.ReportInput)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения отчёта: %w", err)
		}
		if !saved.Covers(first, last) {
			return nil, fmt.Errorf("отчёт %s покрывает кадры [%d, %d], нужны [%d, %d]",
				cfg.ReportInput, saved.FirstFrame, saved.LastFrame, first, last)
		}
		if saved.Background != background {
			return nil, fmt.Errorf("отчёт %s снят с фоном %q, нужен %q",
				cfg.ReportInput, saved.Background, background)
		}
		if filepath.Base(saved.Input) != filepath.Base(cfg.InputPath) {
			log.Printf("[!] Отчёт %s сделан для %s, а не для %s",
				cfg.ReportInput, saved.Input, cfg.InputPath)
		}
		overall = saved.Overall
		p.Logger.Printf("[*] Используется отчёт: %s", cfg.ReportInput)
	} else {
		res, err := p.scan(ctx, doc, background, first, last)
		if err != nil {
			return nil, err
		}
		overall = res.Overall
		scanned = report.New(cfg.InputPath, background, first, res.PerFrame, res.Overall)
	}

	if overall.Empty {
		return nil, ErrNothingVisible
	}

	w, h := int(math.Round(doc.Width)), int(math.Round(doc.Height))
	box := overall.Expand(cfg.Margin, w, h)

	trimmed := lottie.Trim(doc, box)
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0755); err != nil {
		return nil, err
	}
	if err := lottie.SaveFile(cfg.OutputPath, trimmed); err != nil {
		return nil, fmt.Errorf("ошибка записи результата: %w", err)
	}

	summary := &Summary{
		Input:  cfg.InputPath,
		Output: cfg.OutputPath,
		Box:    box,
		Frames: last - first + 1,
	}

	if scanned != nil && cfg.ReportPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.ReportPath), 0755); err != nil {
			return nil, err
		}
		if err := report.WriteReport(scanned, cfg.ReportPath); err != nil {
			return nil, fmt.Errorf("ошибка записи отчёта: %w", err)
		}
		summary.Report = cfg.ReportPath
	}

	summary.Duration = time.Since(startTime)
	p.Logger.Printf("[*] %s: %dx%d -> %dx%d, рамка %s",
		filepath.Base(cfg.InputPath), w, h, box.Width(), box.Height(), box)

	if cfg.ShowStats {
		p.printStats(summary)
	}
	return summary, nil
}

func (p *TrimProject) scan(ctx context.Context, doc *lottie.Document, background string, first, last int) (*Result, error) {
	isBackground, err := analyzer.NewPredicate(background)
	if err != nil {
		return nil, err
	}

	src := p.Source
	if src == nil {
		src, err = OpenSource(p.Config, doc)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации источника: %w", err)
		}
		defer src.Close()
	}

	if n := src.FrameCount(); first >= n || last >= n {
		return nil, fmt.Errorf("кадры [%d, %d] вне источника: %w",
			first, last, &source.ErrFrameRange{Index: max(first, last), Count: n})
	}

	name := filepath.Base(p.Config.InputPath)
	total := last - first + 1
	progress := func(frame int, _, _ analyzer.Box, first, _ int) bool {
		if p.Config.Verbose {
			fmt.Printf("[>] %s: %d/%d\n", name, frame-first+1, total)
		}
		return true
	}

	sized := &sizeChecker{src: src}
	res, err := ComputeRange(ctx, sized, first, last,
		WithPredicate(isBackground),
		WithFrameFunc(progress),
		WithLogger(p.Logger),
	)
	if err != nil {
		return nil, err
	}

	canvas := image.Pt(int(math.Round(doc.Width)), int(math.Round(doc.Height)))
	if sized.size != canvas {
		log.Printf("[!] %s: кадры %dx%d, холст %dx%d, рамки пересчитаны в единицы документа",
			name, sized.size.X, sized.size.Y, canvas.X, canvas.Y)
		return toCanvas(res, sized.size, canvas)
	}
	return res, nil
}

// OpenSource creates the frame source named by cfg.SourceKind.
func OpenSource(cfg *config.Config, doc *lottie.Document) (source.Source, error) {
	switch cfg.SourceKind {
	case "lottie", "":
		return source.NewLottieSource(doc), nil
	case "frames":
		return source.NewImageSource(cfg.FramesPath)
	case "svg":
		return source.NewSVGSource(cfg.FramesPath)
	case "pdf":
		return source.NewFitzPDFSource(cfg.FramesPath, cfg.DPI)
	default:
		return nil, fmt.Errorf("неизвестный источник кадров: %s", cfg.SourceKind)
	}
}

func (p *TrimProject) printStats(s *Summary) {
	fps := float64(s.Frames) / s.Duration.Seconds()
	stats, err := system.CollectStats()
	host := stats.String()
	if err != nil {
		host = fmt.Sprintf("недоступно: %v", err)
	}

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Input: %s\n"+
			"Frames: %d\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"Host: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, filepath.Base(s.Input), s.Frames, s.Duration.Seconds(), fps, host,
	)
}
