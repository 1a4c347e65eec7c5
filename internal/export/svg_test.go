package export

import (
	"strings"
	"testing"

	"github.com/san-kum/glyphflow/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(10, 5)
	c.Set(4, 4)
	c.Set(5, 5)

	svg := CanvasToSVG(c, 4)
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing xml header")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("unterminated svg")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
}

func TestCanvasToSVGEmpty(t *testing.T) {
	if svg := CanvasToSVG(nil, 4); svg != "" {
		t.Error("nil canvas should render nothing")
	}

	c := viz.NewCanvas(4, 4)
	svg := CanvasToSVG(c, 4)
	if strings.Contains(svg, "<circle") {
		t.Error("blank canvas should have no dots")
	}
}

func TestCurveToSVG(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	values := []float64{0.1, 0.5, 0.9, 0.2}

	svg := CurveToSVG(times, values, 400, 200, "#50fa7b")
	if !strings.Contains(svg, `stroke="#50fa7b"`) {
		t.Error("stroke color not applied")
	}
	if got := strings.Count(svg, " L"); got != 3 {
		t.Errorf("expected 3 line segments, got %d", got)
	}
}

func TestCurveToSVGDegenerate(t *testing.T) {
	if svg := CurveToSVG([]float64{1}, []float64{2}, 100, 100, "#fff"); svg != "" {
		t.Error("single point curve should render nothing")
	}
	if svg := CurveToSVG([]float64{1, 2}, []float64{2}, 100, 100, "#fff"); svg != "" {
		t.Error("mismatched lengths should render nothing")
	}
}

func TestCurveToSVGFlatLine(t *testing.T) {
	// A constant series must not divide by a zero range.
	times := []float64{0, 1, 2}
	values := []float64{5, 5, 5}
	svg := CurveToSVG(times, values, 100, 100, "#fff")
	if !strings.Contains(svg, "<path") {
		t.Error("flat curve should still render a path")
	}
}
