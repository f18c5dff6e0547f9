package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"office-planner/internal/planner/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Rects   []Rect   `xml:"rect"`
	Paths   []Path   `xml:"path"`
	Lines   []Line   `xml:"line"`
	Groups  []Group  `xml:"g"`
}

// Group - <g> редакторов: элементы плана часто лежат внутри слоёв.
type Group struct {
	Rects  []Rect  `xml:"rect"`
	Paths  []Path  `xml:"path"`
	Lines  []Line  `xml:"line"`
	Groups []Group `xml:"g"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type Line struct {
	ID string  `xml:"id,attr"`
	X1 float64 `xml:"x1,attr"`
	Y1 float64 `xml:"y1,attr"`
	X2 float64 `xml:"x2,attr"`
	Y2 float64 `xml:"y2,attr"`
}

// ============================================================
// Parser
// ============================================================

// ParseSVG читает план этажа. Стены - элементы с id Wall_*,
// столы - прямоугольники Table_<номер>. Остальное пропускается.
func ParseSVG(r io.Reader) ([]models.SVGElement, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	root := Group{Rects: svg.Rects, Paths: svg.Paths, Lines: svg.Lines, Groups: svg.Groups}
	return collect(root, nil), nil
}

func collect(g Group, elements []models.SVGElement) []models.SVGElement {
	// Parse rects
	for _, rect := range g.Rects {
		kind := classifyElementByID(rect.ID)
		if kind == "" {
			continue
		}

		elements = append(elements, models.SVGElement{
			ID:   rect.ID,
			Kind: kind,
			Geometry: models.RectGeometry{
				X:      rect.X,
				Y:      rect.Y,
				Width:  rect.Width,
				Height: rect.Height,
			},
		})
	}

	// Parse paths
	for _, path := range g.Paths {
		if classifyElementByID(path.ID) != models.ElementWall {
			continue
		}

		elements = append(elements, models.SVGElement{
			ID:       path.ID,
			Kind:     models.ElementWall,
			Geometry: models.PathGeometry{D: path.D},
		})
	}

	// Parse lines
	for _, line := range g.Lines {
		if classifyElementByID(line.ID) != models.ElementWall {
			continue
		}

		elements = append(elements, models.SVGElement{
			ID:   line.ID,
			Kind: models.ElementWall,
			Geometry: models.LineGeometry{
				X1: line.X1,
				Y1: line.Y1,
				X2: line.X2,
				Y2: line.Y2,
			},
		})
	}

	for _, child := range g.Groups {
		elements = collect(child, elements)
	}
	return elements
}

func classifyElementByID(id string) models.ElementKind {
	if strings.HasPrefix(id, "Wall_") {
		return models.ElementWall
	}
	if strings.HasPrefix(id, "Table_") {
		return models.ElementTable
	}
	return ""
}

// TableID извлекает номер стола из id вида Table_12.
func TableID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "Table_"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("bad table id %q", id)
	}
	return n, nil
}
