package config

// Config holds the settings of one trim run. RunBatch copies it per input
// and fills InputPath, OutputPath and ReportPath.
type Config struct {
	InputPath    string
	OutputPath   string
	OutputDir    string
	SourceKind   string // lottie, frames, svg, pdf
	FramesPath   string
	FirstFrame   int // -1: ip документа
	LastFrame    int // -1: op-1 документа
	Background   string
	Margin       int
	DPI          int
	Workers      int
	ReportDir    string
	ReportPath   string
	ReportInput  string
	ShowStats    bool
	Verbose      bool
	BuildVersion string
}

// Default returns the settings used when no flags are given.
func Default() *Config {
	return &Config{
		OutputDir:  "output",
		SourceKind: "lottie",
		FirstFrame: -1,
		LastFrame:  -1,
		DPI:        72,
		Workers:    1,
	}
}

// DefaultBackground picks the background variant matching how a source
// kind rasterizes: MuPDF paints a white page, the others leave it clear.
func (c *Config) DefaultBackground() string {
	if c.Background != "" {
		return c.Background
	}
	switch c.SourceKind {
	case "svg", "pdf":
		return "white"
	default:
		return "transparent"
	}
}
