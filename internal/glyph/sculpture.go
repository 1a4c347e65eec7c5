package glyph

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/glyphflow/internal/vecmath"
)

// Sculpture builds one static 3D point cloud that reads as textA from the
// front axis (xy projection) and textB from the top axis (xz projection).
// Both strings are rasterized onto same-size canvases; for every x column lit
// in A, the nearest lit column of B supplies candidate depths, and vice versa
// for columns only lit in B.
func Sculpture(textA, textB string, targetWidth float32, budget int, seed uint32) []vecmath.Vec3 {
	if len(textA) == 0 || len(textB) == 0 || budget <= 0 {
		return nil
	}

	w := maxInt(len(textA), len(textB)) * (maskW - 1)
	h := maskH
	maskA := rasterizeLine(textA, w, h)
	maskB := rasterizeLine(textB, w, h)

	colsA := columns(maskA, w, h)
	colsB := columns(maskB, w, h)

	candidates := make([]vecmath.Vec3, 0, 4096)
	scale := targetWidth / float32(w)
	seedN := seed

	worldX := func(x int) float32 { return (float32(x) - float32(w)/2) * scale }
	worldY := func(y int) float32 { return (float32(h)/2 - float32(y)) * scale }

	for x := 0; x < w; x++ {
		ys := colsA[x]
		if len(ys) == 0 {
			continue
		}
		bx := nearestLit(colsB, x)
		for _, y := range ys {
			// Each A pixel takes a few depths drawn from B's column so the
			// top-down silhouette fills in.
			for k := 0; k < 3; k++ {
				seedN++
				z := float32(0)
				if bx >= 0 {
					zs := colsB[bx]
					z = worldY(zs[int(vecmath.Hash11(seedN)*float32(len(zs)))%len(zs)])
				}
				candidates = append(candidates, vecmath.Vec3{X: worldX(x), Y: worldY(y), Z: z})
			}
		}
	}

	// Columns lit only in B get points spread across A's vertical extent so B
	// stays legible even where A is blank.
	for x := 0; x < w; x++ {
		if len(colsA[x]) > 0 || len(colsB[x]) == 0 {
			continue
		}
		for _, zy := range colsB[x] {
			for k := 0; k < 2; k++ {
				seedN++
				y := (vecmath.Hash11(seedN) - 0.5) * float32(h) * scale * 0.8
				candidates = append(candidates, vecmath.Vec3{X: worldX(x), Y: y, Z: worldY(zy)})
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}
	stride := len(candidates) / budget
	if stride < 1 {
		stride = 1
	}
	out := make([]vecmath.Vec3, 0, budget)
	for k := 0; k < len(candidates) && len(out) < budget; k += stride {
		out = append(out, candidates[k])
	}
	return out
}

func rasterizeLine(text string, w, h int) []bool {
	img := image.NewGray(image.Rect(0, 0, w, h))
	// Center the string horizontally on the shared canvas.
	adv := (maskW - 1) * len([]rune(text))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P((w-adv)/2, 12),
	}
	d.DrawString(text)

	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask[y*w+x] = img.GrayAt(x, y).Y > 127
		}
	}
	return mask
}

// columns buckets lit pixel rows by x column.
func columns(mask []bool, w, h int) [][]int {
	cols := make([][]int, w)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if mask[y*w+x] {
				cols[x] = append(cols[x], y)
			}
		}
	}
	return cols
}

func nearestLit(cols [][]int, x int) int {
	if len(cols[x]) > 0 {
		return x
	}
	for d := 1; d < len(cols); d++ {
		if x-d >= 0 && len(cols[x-d]) > 0 {
			return x - d
		}
		if x+d < len(cols) && len(cols[x+d]) > 0 {
			return x + d
		}
	}
	return -1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
