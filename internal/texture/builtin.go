package texture

import (
	"image"
	"image/color"
)

// Built-in texture names.
const (
	NameCastle = "castle"
	NameGround = "ground"
)

const builtinSize = 64

// Builtin returns a generated texture for the well-known names, or nil.
func Builtin(name string) *image.NRGBA {
	switch stemOf(name) {
	case NameCastle:
		return Bricks(builtinSize, color.NRGBA{170, 150, 120, 255}, color.NRGBA{90, 80, 70, 255})
	case NameGround:
		return Checker(builtinSize, 8, color.NRGBA{110, 150, 90, 255}, color.NRGBA{90, 130, 75, 255})
	}
	return nil
}

// Checker returns a size x size checkerboard of cells x cells squares.
func Checker(size, cells int, a, b color.NRGBA) *image.NRGBA {
	if cells < 1 {
		cells = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	if cell < 1 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Bricks returns a running-bond brick pattern with mortar lines.
func Bricks(size int, brick, mortar color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	rowH := size / 8
	if rowH < 2 {
		rowH = 2
	}
	brickW := rowH * 2
	for y := 0; y < size; y++ {
		row := y / rowH
		shift := 0
		if row%2 == 1 {
			shift = brickW / 2
		}
		for x := 0; x < size; x++ {
			c := brick
			if y%rowH == 0 || (x+shift)%brickW == 0 {
				c = mortar
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
