package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// SheetBackground fills the gaps between contact sheet cells.
var SheetBackground = color.NRGBA{32, 32, 32, 255}

// ContactSheet scales every frame into a thumb×thumb cell and lays the cells
// out row by row, cols per row, with gap pixels between them. Nil frames
// leave their cell empty.
func ContactSheet(frames []*image.NRGBA, cols, thumb, gap int) *image.NRGBA {
	if len(frames) == 0 || thumb <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	if cols < 1 {
		cols = 1
	}
	if cols > len(frames) {
		cols = len(frames)
	}
	if gap < 0 {
		gap = 0
	}
	rows := (len(frames) + cols - 1) / cols
	w := cols*thumb + (cols+1)*gap
	h := rows*thumb + (rows+1)*gap

	sheet := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(SheetBackground), image.Point{}, draw.Src)

	for i, f := range frames {
		if f == nil {
			continue
		}
		col, row := i%cols, i/cols
		x := gap + col*(thumb+gap)
		y := gap + row*(thumb+gap)
		cell := image.Rect(x, y, x+thumb, y+thumb)
		draw.ApproxBiLinear.Scale(sheet, fit(cell, f.Bounds()), f, f.Bounds(), draw.Over, nil)
	}
	return sheet
}

// fit returns the largest rectangle with src's aspect ratio centred in cell.
func fit(cell, src image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	cw, ch := cell.Dx(), cell.Dy()
	if sw <= 0 || sh <= 0 {
		return image.Rectangle{Min: cell.Min, Max: cell.Min}
	}
	w, h := cw, sh*cw/sw
	if h > ch {
		w, h = sw*ch/sh, ch
	}
	x := cell.Min.X + (cw-w)/2
	y := cell.Min.Y + (ch-h)/2
	return image.Rect(x, y, x+w, y+h)
}
