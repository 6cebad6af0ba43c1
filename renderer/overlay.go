package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/math/fixed"
)

const (
	overlayFontSize = 11
	overlayPadding  = 4
)

var monobold = mustParseTTF(gomonobold.TTF)

func mustParseTTF(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

// Draw the frame statistics in the top-left corner of dst over a
// translucent backdrop.
func drawOverlay(dst *image.RGBA, stats FrameStats) {
	face := truetype.NewFace(monobold, &truetype.Options{
		Size:    overlayFontSize,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	lines := []string{
		fmt.Sprintf("%s %.1f ms", stats.Tracer, float64(stats.RenderTime.Microseconds())/1000),
		fmt.Sprintf("hits %d/%d", stats.Hits, stats.Rays),
	}

	lineH := face.Metrics().Height.Ceil()
	var width int
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}

	backdrop := image.Rect(0, 0, width+2*overlayPadding, len(lines)*lineH+2*overlayPadding)
	draw.Draw(dst, backdrop, image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	dr := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
	}
	for idx, line := range lines {
		dr.Dot = fixed.Point26_6{
			X: fixed.I(overlayPadding),
			Y: fixed.I(overlayPadding + idx*lineH + face.Metrics().Ascent.Ceil()),
		}
		dr.DrawString(line)
	}
}
