package models

// ============================================================
// SVG Elements
// ============================================================

type ElementKind string

const (
	ElementWall  ElementKind = "wall"
	ElementTable ElementKind = "table"
)

// SVGElement - распознанный по id элемент импортируемого плана.
type SVGElement struct {
	ID       string
	Kind     ElementKind
	Geometry interface{}
}

type RectGeometry struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type PathGeometry struct {
	D string
}

type LineGeometry struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}
