// Package render draws a game snapshot as a PNG board image.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/park285/pente-server/internal/pente"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderOptions tunes one image.
type RenderOptions struct {
	// HUD is the status line above the board. Empty uses a plain default.
	HUD string
	// MarkLastMove puts a dot on the most recent stone.
	MarkLastMove bool
	// CellSize overrides the grid spacing in pixels.
	CellSize int
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, snap *pente.Snapshot, opts RenderOptions) ([]byte, error)
}

type svgBoardRenderer struct{}

func NewBoardRenderer() BoardRenderer { return &svgBoardRenderer{} }

const (
	defaultCellSize = 32
	sideMargin      = 36
	topMargin       = 64
	bottomMargin    = 36
	hudHeight       = 30
	hudGap          = 12
	hudRadius       = 8
)

var (
	woodColor      = color.RGBA{222, 184, 124, 255}
	gridLineColor  = color.RGBA{92, 64, 34, 255}
	starPointColor = color.RGBA{70, 48, 24, 255}
	backdropColor  = color.RGBA{38, 41, 56, 255}
	hudPanelColor  = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTextColor   = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	labelColor     = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	lastMoveColor  = color.NRGBA{R: 214, G: 48, B: 49, A: 230}
)

var starPoints = []pente.Coord{
	{Row: 3, Col: 3}, {Row: 3, Col: 9}, {Row: 3, Col: 15},
	{Row: 9, Col: 3}, {Row: 9, Col: 9}, {Row: 9, Col: 15},
	{Row: 15, Col: 3}, {Row: 15, Col: 9}, {Row: 15, Col: 15},
}

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, snap *pente.Snapshot, opts RenderOptions) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}
	cell := opts.CellSize
	if cell <= 0 {
		cell = defaultCellSize
	}
	boardSize := cell * pente.Size
	origin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, boardSize+sideMargin*2, boardSize+topMargin+bottomMargin))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backdropColor), image.Point{}, imagedraw.Src)
	imagedraw.Draw(img, boardRect, image.NewUniform(woodColor), image.Point{}, imagedraw.Src)

	drawGrid(img, cell, origin)
	if err := drawStones(img, snap, cell, origin); err != nil {
		return nil, err
	}
	if opts.MarkLastMove && snap.LastMove != nil {
		drawDisc(img, cellCenter(snap.LastMove.At, cell, origin), cell/7, lastMoveColor)
	}
	drawLabels(img, cell, origin)

	hud := strings.TrimSpace(opts.HUD)
	if hud == "" {
		hud = defaultHUD(snap)
	}
	drawHUD(img, hud, boardRect)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func defaultHUD(snap *pente.Snapshot) string {
	if snap.Winner != "" {
		return fmt.Sprintf("X:%d O:%d  %s wins by %s", snap.CapturedX, snap.CapturedO, snap.Winner, snap.Method)
	}
	return fmt.Sprintf("X:%d O:%d  %s to move", snap.CapturedX, snap.CapturedO, snap.Next)
}

func cellCenter(c pente.Coord, cell int, origin image.Point) image.Point {
	return image.Point{
		X: origin.X + c.Col*cell + cell/2,
		Y: origin.Y + c.Row*cell + cell/2,
	}
}

// drawGrid draws lines through cell centers; stones sit on intersections.
func drawGrid(img *image.RGBA, cell int, origin image.Point) {
	first := cell / 2
	last := first + (pente.Size-1)*cell
	line := image.NewUniform(gridLineColor)
	for i := 0; i < pente.Size; i++ {
		off := first + i*cell
		imagedraw.Draw(img, image.Rect(origin.X+first, origin.Y+off, origin.X+last+1, origin.Y+off+1), line, image.Point{}, imagedraw.Src)
		imagedraw.Draw(img, image.Rect(origin.X+off, origin.Y+first, origin.X+off+1, origin.Y+last+1), line, image.Point{}, imagedraw.Src)
	}
	for _, p := range starPoints {
		drawDisc(img, cellCenter(p, cell, origin), cell/9+1, starPointColor)
	}
}

func drawStones(img *image.RGBA, snap *pente.Snapshot, cell int, origin image.Point) error {
	size := cell - 2
	for row := 0; row < pente.Size; row++ {
		for col := 0; col < pente.Size; col++ {
			v := snap.At(row, col)
			if v == pente.Empty {
				continue
			}
			stone, err := stoneImage(v, size)
			if err != nil {
				return err
			}
			c := cellCenter(pente.Coord{Row: row, Col: col}, cell, origin)
			dst := image.Rect(c.X-size/2, c.Y-size/2, c.X-size/2+size, c.Y-size/2+size)
			imagedraw.Draw(img, dst, stone, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

// drawLabels numbers rows down the left edge and columns along the bottom,
// matching the row/col used by the move API.
func drawLabels(img *image.RGBA, cell int, origin image.Point) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(labelColor), Face: basicfont.Face7x13}
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	bottom := origin.Y + pente.Size*cell
	for i := 0; i < pente.Size; i++ {
		label := strconv.Itoa(i)
		c := cellCenter(pente.Coord{Row: i, Col: i}, cell, origin)
		drawCenteredText(d, label, origin.X-sideMargin/2, c.Y+ascent/2)
		drawCenteredText(d, label, c.X, bottom+ascent+6)
	}
}

func drawHUD(img *image.RGBA, text string, boardRect image.Rectangle) {
	d := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	width := d.MeasureString(text).Round() + 32
	if width > boardRect.Dx() {
		width = boardRect.Dx()
	}
	bottom := boardRect.Min.Y - hudGap
	left := boardRect.Min.X + (boardRect.Dx()-width)/2
	rect := image.Rect(left, bottom-hudHeight, left+width, bottom)
	drawRoundedPanel(img, rect, hudRadius, hudPanelColor)
	drawCenteredString(d, rect, text, hudTextColor)
}

func drawCenteredString(d *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	m := d.Face.Metrics()
	w := d.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-w)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	d.Src = image.NewUniform(clr)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}

func drawCenteredText(d *font.Drawer, text string, centerX, baseline int) {
	w := d.MeasureString(text).Round()
	d.Dot = fixed.P(centerX-w/2, baseline)
	d.DrawString(text)
}
