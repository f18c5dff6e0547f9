package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"office-planner/internal/planner/geometry"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath парсит SVG path в ломаную. Поддерживаются M, L, H, V, Z
// и их относительные варианты; повторённые пары координат после M и L
// продолжают ломаную.
func ParsePath(d string) ([]geometry.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []geometry.Point
	var currentX, currentY float64

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				currentX, currentY = coords[i], coords[i+1]
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				currentX += coords[i]
				currentY += coords[i+1]
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "H":
			for _, x := range coords {
				currentX = x
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "h":
			for _, dx := range coords {
				currentX += dx
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "V":
			for _, y := range coords {
				currentY = y
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "v":
			for _, dy := range coords {
				currentY += dy
				points = append(points, geometry.Point{X: currentX, Y: currentY})
			}

		case "Z", "z":
			// Замыкаем путь, возвращаясь к первой точке
			if len(points) > 0 {
				points = append(points, points[0])
				currentX, currentY = points[0].X, points[0].Y
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no points", d)
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Разделитель: запятая или пробел
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	var coords []float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}

	return coords
}
