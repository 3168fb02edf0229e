package charts

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// MissingCapabilityError means the rendering backend cannot produce images
// in this build or environment.
type MissingCapabilityError struct {
	Capability string // "font" or "png"
	Err        error
}

func (e *MissingCapabilityError) Error() string {
	return fmt.Sprintf("chart rendering unavailable (%s): %v", e.Capability, e.Err)
}

func (e *MissingCapabilityError) Unwrap() error {
	return e.Err
}

// CheckCapabilities renders and encodes a tiny probe image with the
// embedded font. It touches no user data, so any error it returns is a
// *MissingCapabilityError.
func CheckCapabilities() error {
	f, err := embeddedFont()
	if err != nil {
		return &MissingCapabilityError{Capability: "font", Err: err}
	}

	fs := &fontSet{font: f, dpi: 72}
	dc := gg.NewContext(16, 16)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(fs.face(8))
	dc.SetColor(color.Black)
	dc.DrawStringAnchored("0", 8, 8, 0.5, 0.5)

	if w, _ := dc.MeasureString("0"); w <= 0 {
		return &MissingCapabilityError{Capability: "font", Err: fmt.Errorf("embedded font has no glyph metrics")}
	}

	if err := encodePNG(io.Discard, dc.Image(), 72); err != nil {
		return &MissingCapabilityError{Capability: "png", Err: err}
	}
	return nil
}
