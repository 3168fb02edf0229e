package charts

import (
	"fmt"
	"os"
	"path/filepath"

	logging "csvviz/internal/infra/log"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// System fonts tried after a configured path. freetype reads TrueType
// outlines only, so .otf and .ttc collections are not listed.
var fontPaths = []string{
	"~/.fonts/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/Library/Fonts/Arial.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// fontSet hands out faces of one typeface scaled for the figure DPI.
type fontSet struct {
	font *truetype.Font
	dpi  float64
	path string // "" for the embedded face
}

func (fs *fontSet) face(points float64) font.Face {
	return truetype.NewFace(fs.font, &truetype.Options{
		Size:    points,
		DPI:     fs.dpi,
		Hinting: font.HintingFull,
	})
}

func embeddedFont() (*truetype.Font, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	return f, nil
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

func parseFontFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}

// loadFonts tries the configured font, then the system list, then falls
// back to the embedded Go font. Only a broken embedded font is an error.
func loadFonts(configured string, dpi float64) (*fontSet, error) {
	candidates := fontPaths
	if configured != "" {
		candidates = append([]string{configured}, fontPaths...)
	}

	for _, p := range candidates {
		path := expandPath(p)
		if _, err := os.Stat(path); err != nil {
			if p == configured {
				logging.LogWarn("Configured font not found, trying system fonts", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		f, err := parseFontFile(path)
		if err != nil {
			logging.LogWarn("Font file exists but failed to load", zap.String("path", path), zap.Error(err))
			continue
		}
		logging.LogDebug("Loaded chart font", zap.String("path", path))
		return &fontSet{font: f, dpi: dpi, path: path}, nil
	}

	f, err := embeddedFont()
	if err != nil {
		return nil, &MissingCapabilityError{Capability: "font", Err: err}
	}
	logging.LogDebug("Using embedded chart font", zap.Int("paths_checked", len(candidates)))
	return &fontSet{font: f, dpi: dpi}, nil
}
