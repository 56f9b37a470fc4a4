// Package arrow maps a recorded shot shape to a 2D arrow path
package arrow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-generalize/golf-score-memo/model"
)

// 描画領域は 100x100 の viewBox
const (
	originX = 50
	originY = 80

	straightLength = 50
	midLength      = 30
	controlLength  = 15

	curveEndY      = 20
	control1Y      = 60
	control2Y      = 40
	curveOffset    = 30
	controlOffset  = 15
	opposedCurve   = 1.5
	opposedControl = 2

	defaultColor = "#333"
	toppedColor  = "#ff6b6b"
	balloonColor = "#4ecdc4"
)

// Point is a coordinate in the arrow's viewBox
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path describes an arrow: a straight line without controls,
// a quadratic curve with one control point or a cubic curve with two
type Path struct {
	Origin   Point   `json:"origin"`
	Controls []Point `json:"controls,omitempty"`
	End      Point   `json:"end"`
	Color    string  `json:"color"`
}

var (
	toppedPath = Path{
		Origin: Point{X: originX, Y: originY},
		End:    Point{X: 50, Y: 70},
		Color:  toppedColor,
	}
	balloonPath = Path{
		Origin:   Point{X: originX, Y: originY},
		Controls: []Point{{X: 50, Y: 30}},
		End:      Point{X: 50, Y: 40},
		Color:    balloonColor,
	}
)

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// PathFor returns the arrow for a start direction and curve
func PathFor(start model.DirectionStart, curve model.DirectionCurve) Path {
	switch start {
	case model.StartTopped:
		return toppedPath.clone()
	case model.StartBalloon:
		return balloonPath.clone()
	}

	angle := rad(start.Angle())
	sin, cos := math.Sin(angle), math.Cos(angle)
	origin := Point{X: originX, Y: originY}

	if curve == model.CurveStraight {
		return Path{
			Origin: origin,
			End:    Point{X: originX + sin*straightLength, Y: originY - cos*straightLength},
			Color:  defaultColor,
		}
	}

	side := float64(curve.Side())
	endOffset, ctrlOffset := side*curveOffset, side*controlOffset

	// 出だしと逆方向に曲がる場合は誇張する
	if s := start.Side(); s != 0 && s == -curve.Side() {
		endOffset *= opposedCurve
		ctrlOffset *= opposedControl
	}

	midX := originX + sin*midLength

	return Path{
		Origin: origin,
		Controls: []Point{
			{X: originX + sin*controlLength, Y: control1Y},
			{X: midX + ctrlOffset, Y: control2Y},
		},
		End:   Point{X: midX + endOffset, Y: curveEndY},
		Color: defaultColor,
	}
}

func (p Path) clone() Path {
	c := p
	if p.Controls != nil {
		c.Controls = append([]Point(nil), p.Controls...)
	}
	return c
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (p Point) String() string {
	return num(p.X) + " " + num(p.Y)
}

// D returns the SVG path data
func (p Path) D() string {
	switch len(p.Controls) {
	case 0:
		return fmt.Sprintf("M %s L %s", p.Origin, p.End)
	case 1:
		return fmt.Sprintf("M %s Q %s, %s", p.Origin, p.Controls[0], p.End)
	default:
		return fmt.Sprintf("M %s C %s, %s, %s", p.Origin, p.Controls[0], p.Controls[1], p.End)
	}
}

// SVG renders the path as a standalone svg element of the given pixel size
func (p Path) SVG(size int) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 100 100">`, size, size)
	fmt.Fprintf(&b, `<defs><marker id="arrowhead" markerWidth="10" markerHeight="10" refX="0" refY="3" orient="auto">`)
	fmt.Fprintf(&b, `<polygon points="0 0, 6 3, 0 6" fill="%s"/></marker></defs>`, p.Color)
	fmt.Fprintf(&b, `<path d="%s" stroke="%s" stroke-width="2.5" fill="none" marker-end="url(#arrowhead)"/>`, p.D(), p.Color)
	b.WriteString(`</svg>`)

	return b.String()
}
