// Package glyph turns strings into particle target point sets. Characters
// are rasterized one at a time into binary masks with a fixed bitmap face,
// then mask pixels are expanded into world-space sample points sized to the
// per-character particle budget.
package glyph

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/glyphflow/internal/vecmath"
)

// CharPoints is the sampled target set for one character.
type CharPoints struct {
	Char   rune
	Points []vecmath.Vec3
	Center vecmath.Vec3
}

const (
	maskW = 9
	maskH = 15
)

// rasterize draws a single character into a binary mask using the fixed
// 7x13 bitmap face.
func rasterize(ch rune) []bool {
	img := image.NewGray(image.Rect(0, 0, maskW, maskH))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(1, 12),
	}
	d.DrawString(string(ch))

	mask := make([]bool, maskW*maskH)
	for y := 0; y < maskH; y++ {
		for x := 0; x < maskW; x++ {
			mask[y*maskW+x] = img.GrayAt(x, y).Y > 127
		}
	}
	return mask
}

// SampleString produces per-character point sets for text. Each character is
// allotted budget points at most; targetWidth is the total world width of the
// string. zSpread adds random depth per point (0 for flat text, larger for
// anamorphic legibility). Empty text yields nil.
func SampleString(text string, targetWidth, zSpread float32, budget int, seed uint32) []CharPoints {
	runes := []rune(text)
	if len(runes) == 0 || budget <= 0 {
		return nil
	}

	charW := targetWidth / float32(len(runes))
	scale := charW / float32(maskW)

	out := make([]CharPoints, 0, len(runes))
	for ci, ch := range runes {
		mask := rasterize(ch)
		fg := 0
		for _, on := range mask {
			if on {
				fg++
			}
		}
		if fg == 0 {
			// Spaces and blank glyphs still occupy a slot so alignment holds.
			out = append(out, CharPoints{Char: ch, Center: charCenter(ci, len(runes), charW)})
			continue
		}

		// Subdivide each foreground pixel into sub x sub candidates, then
		// stride down to the budget.
		sub := 1
		for sub*sub*fg < budget {
			sub++
		}
		candidates := make([]vecmath.Vec3, 0, fg*sub*sub)
		center := charCenter(ci, len(runes), charW)

		for y := 0; y < maskH; y++ {
			for x := 0; x < maskW; x++ {
				if !mask[y*maskW+x] {
					continue
				}
				for sy := 0; sy < sub; sy++ {
					for sx := 0; sx < sub; sx++ {
						px := float32(x) + (float32(sx)+0.5)/float32(sub)
						py := float32(y) + (float32(sy)+0.5)/float32(sub)
						h := vecmath.Hash13(seed + uint32(ci*7919+y*131+x*17+sy*5+sx))
						wx := (px - float32(maskW)/2) * scale
						wy := (float32(maskH)/2 - py) * scale
						wz := (h.Z - 0.5) * zSpread
						jx := (h.X - 0.5) * scale * 0.5
						jy := (h.Y - 0.5) * scale * 0.5
						candidates = append(candidates, center.Add(vecmath.Vec3{X: wx + jx, Y: wy + jy, Z: wz}))
					}
				}
			}
		}

		stride := len(candidates) / budget
		if stride < 1 {
			stride = 1
		}
		points := make([]vecmath.Vec3, 0, budget)
		for k := 0; k < len(candidates) && len(points) < budget; k += stride {
			points = append(points, candidates[k])
		}

		out = append(out, CharPoints{Char: ch, Points: points, Center: center})
	}
	return out
}

func charCenter(index, count int, charW float32) vecmath.Vec3 {
	x := (float32(index) - float32(count-1)/2) * charW
	return vecmath.Vec3{X: x, Y: 0, Z: 0}
}

// RotateFrame rotates every point about the string origin so the text reads
// flat from viewDir instead of the default -Z view axis. The whole frame
// turns as one rigid body.
func RotateFrame(chars []CharPoints, viewDir vecmath.Vec3) {
	m := vecmath.RotationTo(viewDir)
	for ci := range chars {
		for pi := range chars[ci].Points {
			chars[ci].Points[pi] = vecmath.MulMat3(m, chars[ci].Points[pi])
		}
		chars[ci].Center = vecmath.MulMat3(m, chars[ci].Center)
	}
}
