package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logging "csvviz/internal/infra/log"

	"go.uber.org/zap"
)

// ChartPath derives "<input without its last extension>_<kind>.png".
// Only the extension of the final path element is removed.
func ChartPath(inputPath, kind string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + "_" + kind + ".png"
}

// SaveChart writes data to path, replacing any existing file, and checks
// that a non-empty file ended up on disk.
func SaveChart(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("chart image is empty")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat chart file: %w", err)
	}
	if fileInfo.Size() == 0 {
		os.Remove(path)
		logging.LogWarn("Chart file is empty after writing", zap.String("filename", path))
		return fmt.Errorf("chart file is empty after writing")
	}

	logging.LogInfo("Chart saved",
		zap.String("filename", path),
		zap.Int64("fileSize", fileInfo.Size()))

	return nil
}
