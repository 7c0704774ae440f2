package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/bitbaby"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cellPadding = 12
	rowHeight   = 22
	margin      = 16
)

// DefaultBackground is the background of exported images.
const DefaultBackground = "#101010"

// PNG rasterizes snapshots into PNG images.
//
// The image is laid out at scale 1 with a fixed size bitmap font, then
// upscaled by Scale with nearest neighbour sampling so glyphs stay crisp.
type PNG struct {
	Scale      int
	Background color.Color
}

var (
	textColor  = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	headColor  = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
	lineColor  = color.RGBA{0xff, 0xff, 0xff, 0x1a}
	tagColors  = map[bitbaby.Tag]color.Color{bitbaby.TagPos: color.RGBA{0x22, 0xc5, 0x5e, 0xff}, bitbaby.TagNeg: color.RGBA{0xef, 0x44, 0x44, 0xff}, bitbaby.TagMuted: color.RGBA{0x6b, 0x72, 0x80, 0xff}}
	statusTint = map[string]color.Color{
		"status-hit":  color.RGBA{0x60, 0xa5, 0xfa, 0xff},
		"status-miss": color.RGBA{0xf5, 0x9e, 0x0b, 0xff},
		"status-over": color.RGBA{0x22, 0xc5, 0x5e, 0xff},
	}
)

// NewPNG returns a rasterizer with this scale and "#rrggbb" background.
func NewPNG(scale int, background string) (*PNG, error) {
	if scale < 1 {
		return nil, fmt.Errorf("invalid scale %d", scale)
	}
	bg, err := ParseHexColor(background)
	if err != nil {
		return nil, err
	}
	return &PNG{Scale: scale, Background: bg}, nil
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// Rasterize draws s and writes it to w as PNG.
func (p *PNG) Rasterize(ctx context.Context, s *bitbaby.Snapshot, w io.Writer) error {
	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()

	footer := []string{"Total", "", s.Totals[0], s.Totals[1], s.Totals[2], "", ""}
	widths := columnWidths(face, s, footer)

	tableWidth := 0
	for _, cw := range widths {
		tableWidth += cw
	}
	// title, header, rows, footer
	lines := 2 + len(s.Rows) + 1
	bounds := image.Rect(0, 0, tableWidth+2*margin, lines*rowHeight+2*margin)

	img := image.NewRGBA(bounds)
	bg := p.Background
	if bg == nil {
		bg, _ = ParseHexColor(DefaultBackground)
	}
	xdraw.Draw(img, bounds, image.NewUniform(bg), image.Point{}, xdraw.Src)

	drawText := func(x, line int, text string, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.P(x, margin+line*rowHeight+(rowHeight+ascent)/2-2),
		}
		d.DrawString(text)
	}
	drawRule := func(line int) {
		y := margin + line*rowHeight
		xdraw.Draw(img, image.Rect(margin, y, margin+tableWidth, y+1), image.NewUniform(lineColor), image.Point{}, xdraw.Over)
	}

	drawText(margin+cellPadding, 0, "BitBaby PnL  "+s.Date, textColor)

	x := margin
	for i, h := range s.Header {
		drawText(x+cellPadding, 1, h, headColor)
		x += widths[i]
	}
	drawRule(2)

	for r, row := range s.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		x := margin
		for i, c := range row {
			drawText(x+cellPadding, 2+r, c.Text, cellColor(s.Header[i], c))
			x += widths[i]
		}
	}

	last := 2 + len(s.Rows)
	drawRule(last)
	x = margin
	for i, text := range footer {
		c := color.Color(textColor)
		if i >= 2 && i <= 4 {
			c = tagColors[s.TotalTags[i-2]]
		}
		drawText(x+cellPadding, last, text, c)
		x += widths[i]
	}

	scale := max(p.Scale, 1)
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, bounds, xdraw.Src, nil)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("could not encode png: %w", err)
	}
	return nil
}

func cellColor(column string, c bitbaby.Cell) color.Color {
	if c.Class != "" {
		if tint, ok := statusTint[c.Class]; ok {
			return tint
		}
	}
	switch column {
	case "L1", "L2", "L3":
		return tagColors[c.Tag]
	}
	return textColor
}

// columnWidths returns the width of each column, padding included.
func columnWidths(face font.Face, s *bitbaby.Snapshot, footer []string) []int {
	widths := make([]int, len(s.Header))
	fit := func(i int, text string) {
		if w := font.MeasureString(face, text).Ceil() + 2*cellPadding; w > widths[i] {
			widths[i] = w
		}
	}
	for i, h := range s.Header {
		fit(i, h)
	}
	for _, row := range s.Rows {
		for i, c := range row {
			fit(i, c.Text)
		}
	}
	for i, text := range footer {
		fit(i, text)
	}
	return widths
}
