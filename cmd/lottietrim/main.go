package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/ivlev/lottietrim/internal/analyzer"
	"github.com/ivlev/lottietrim/internal/config"
	"github.com/ivlev/lottietrim/internal/engine"
	"github.com/ivlev/lottietrim/internal/report"
	"github.com/ivlev/lottietrim/internal/system"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{"input", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	cfg := config.Default()
	flag.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Папка для обрезанных анимаций (<имя>_trimmed.json)")
	flag.StringVar(&cfg.SourceKind, "source", cfg.SourceKind, "Источник кадров: lottie (встроенный растеризатор), frames (папка изображений), svg (папка SVG), pdf (страницы PDF)")
	flag.StringVar(&cfg.FramesPath, "frames", "", "Путь к кадрам для -source frames/svg/pdf")
	flag.IntVar(&cfg.FirstFrame, "first", cfg.FirstFrame, "Первый кадр (-1: ip анимации)")
	flag.IntVar(&cfg.LastFrame, "last", cfg.LastFrame, "Последний кадр включительно (-1: op-1 анимации)")
	flag.StringVar(&cfg.Background, "background", "", "Фон: transparent, alpha, white, black (по умолчанию зависит от источника)")
	flag.IntVar(&cfg.Margin, "margin", 0, "Отступ вокруг найденной рамки, пикселей")
	flag.IntVar(&cfg.DPI, "dpi", cfg.DPI, "DPI для -source pdf")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Сколько анимаций обрабатывать одновременно")
	flag.StringVar(&cfg.ReportDir, "report-dir", "", "Папка для YAML-отчётов с рамками кадров")
	flag.StringVar(&cfg.ReportInput, "report-input", "", "Взять рамку из отчёта вместо растеризации (\"latest\": самый свежий в -report-dir)")
	flag.BoolVar(&cfg.ShowStats, "stats", false, "Показать статистику производительности")
	flag.BoolVar(&cfg.Verbose, "v", false, "Подробный вывод по кадрам")
	flag.Parse()

	cfg.BuildVersion = buildVersion

	if _, err := analyzer.NewPredicate(cfg.Background); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	if cfg.SourceKind != "lottie" && cfg.FramesPath == "" {
		log.Fatalf("[-] Ошибка: для -source %s нужен -frames", cfg.SourceKind)
	}

	if cfg.ReportInput == "latest" {
		latest, err := report.FindLatestReport(cfg.ReportDir)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		cfg.ReportInput = latest
		fmt.Printf("[*] Выбран отчёт: %s\n", latest)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		latest, err := system.FindLatestAnimation("input")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите анимацию в input/", err)
		}
		inputs = []string{latest}
		fmt.Printf("[*] Выбран файл: %s\n", latest)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var logger *log.Logger
	if cfg.Verbose {
		logger = log.Default()
	}

	fmt.Println("--- [LOTTIE TRIM] ---")
	fmt.Printf("[*] Анимаций: %d | Источник: %s | Фон: %s | Потоков: %d\n",
		len(inputs), cfg.SourceKind, cfg.DefaultBackground(), cfg.Workers)
	fmt.Println("---------------------")

	summaries, err := engine.RunBatch(ctx, cfg, inputs, logger)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	for _, s := range summaries {
		fmt.Printf("[+++] %s -> %s (%dx%d, рамка %s, %.2fs)\n",
			s.Input, s.Output, s.Box.Width(), s.Box.Height(), s.Box, s.Duration.Seconds())
		if s.Report != "" {
			fmt.Printf("[*] Отчёт: %s\n", s.Report)
		}
	}
}
