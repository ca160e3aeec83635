package visualizer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	palette    = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728"}
	textColor  = color.RGBA{40, 40, 40, 255}
	background = "#ffffff"
	gridColor  = "#dddddd"
	axisColor  = "#444444"
)

// svgDoc accumulates SVG elements for one chart.
type svgDoc struct {
	w, h int
	sb   strings.Builder
}

func newSVG(w, h int) *svgDoc {
	d := &svgDoc{w: w, h: h}
	fmt.Fprintf(&d.sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	d.rect(0, 0, float64(w), float64(h), background)
	return d
}

func (d *svgDoc) rect(x, y, w, h float64, fill string) {
	fmt.Fprintf(&d.sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`, x, y, w, h, fill)
}

func (d *svgDoc) line(x1, y1, x2, y2 float64, stroke string, width float64) {
	fmt.Fprintf(&d.sb, `<path d="M %.1f %.1f L %.1f %.1f" stroke="%s" stroke-width="%.1f" fill="none"/>`,
		x1, y1, x2, y2, stroke, width)
}

func (d *svgDoc) polyline(pts [][2]float64, stroke string, width float64) {
	if len(pts) < 2 {
		return
	}
	var path strings.Builder
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s %.1f %.1f ", cmd, p[0], p[1])
	}
	fmt.Fprintf(&d.sb, `<path d="%s" stroke="%s" stroke-width="%.1f" fill="none" stroke-linejoin="round"/>`,
		strings.TrimSpace(path.String()), stroke, width)
}

func (d *svgDoc) circle(cx, cy, r float64, fill string) {
	fmt.Fprintf(&d.sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`, cx, cy, r, fill)
}

func (d *svgDoc) String() string {
	return d.sb.String() + "</svg>"
}

// rasterize draws the document onto a new RGBA image.
func (d *svgDoc) rasterize() (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(d.String())))
	if err != nil {
		return nil, fmt.Errorf("parse chart svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(d.w), float64(d.h))

	img := image.NewRGBA(image.Rect(0, 0, d.w, d.h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(d.w, d.h, img, img.Bounds())
	raster := rasterx.NewDasher(d.w, d.h, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

type textAlign int

const (
	alignLeft textAlign = iota
	alignCenter
	alignRight
)

// label is text drawn after rasterizing; oksvg has no text support.
type label struct {
	x, y  int
	text  string
	align textAlign
}

func drawLabels(img *image.RGBA, labels []label) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
	}
	for _, l := range labels {
		width := drawer.MeasureString(l.text).Round()
		x := l.x
		switch l.align {
		case alignCenter:
			x -= width / 2
		case alignRight:
			x -= width
		}
		drawer.Dot = fixed.P(x, l.y)
		drawer.DrawString(l.text)
	}
}

// niceCeil rounds v up to a multiple of step, and at least step.
func niceCeil(v, step int) int {
	if v <= 0 {
		return step
	}
	return ((v + step - 1) / step) * step
}
