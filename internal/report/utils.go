package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GenerateReportPath creates a timestamped report filename for input
func GenerateReportPath(dir, input string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", name, timestamp))
}

// FindLatestReport finds the most recently modified report file in dir
func FindLatestReport(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read reports directory: %w", err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		// файл мог исчезнуть после ReadDir
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = filepath.Join(dir, entry.Name())
			latestTime = info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no report files found in %s", dir)
	}
	return latest, nil
}
