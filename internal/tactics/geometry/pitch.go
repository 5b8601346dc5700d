// Package geometry provides the canonical pitch coordinate system, zone
// maps, bounding boxes, and homography used throughout the tactics engine.
package geometry

import "math"

// Point is a canonical 2D pitch point, in meters, origin at a corner, x
// along the long axis.
type Point struct {
	X, Y float64
}

// Pitch describes a standard football pitch model.
type Pitch struct {
	Length float64 // meters, long axis (x)
	Width  float64 // meters, short axis (y)
}

// StandardPitch is the canonical 105x68m pitch used by every converter and
// metric engine in this module.
var StandardPitch = Pitch{Length: 105.0, Width: 68.0}

// Third identifies one of the three equal-width pitch bands along x.
type Third int

const (
	DefensiveThird Third = iota
	MiddleThird
	AttackingThird
)

// ThirdOf returns the pitch third containing x, splitting [0, L/3), [L/3,
// 2L/3), [2L/3, L] for the given pitch length.
func ThirdOf(x, pitchLength float64) Third {
	third := pitchLength / 3.0
	switch {
	case x < third:
		return DefensiveThird
	case x < 2*third:
		return MiddleThird
	default:
		return AttackingThird
	}
}

// AttackingTwoThirdsX reports whether x lies within the attacking two-thirds
// of the pitch for a team attacking in the given direction. attacksPositiveX
// is true for a team whose attacking goal is at x = pitchLength (e.g. the
// conventional "home attacks +x" direction).
func AttackingTwoThirdsX(x, pitchLength float64, attacksPositiveX bool) bool {
	third := pitchLength / 3.0
	if attacksPositiveX {
		return x > third
	}
	return x < 2*third
}

// Zone is one cell of the 4x3 (x by y) zone grid: 4 bands along x, 3 bands
// along y, 12 zones total, numbered row-major starting at the zone nearest
// the origin corner. The possession sequence extractor does not use it.
type Zone int

// ZoneOf maps a canonical pitch point to one of 12 zones using a 4x3 grid
// (4 along x, 3 along y). Points outside [0,length]x[0,width] are clamped.
func ZoneOf(p Point, pitch Pitch) Zone {
	const xBands, yBands = 4, 3
	xi := int(p.X / pitch.Length * xBands)
	yi := int(p.Y / pitch.Width * yBands)
	if xi < 0 {
		xi = 0
	}
	if xi >= xBands {
		xi = xBands - 1
	}
	if yi < 0 {
		yi = 0
	}
	if yi >= yBands {
		yi = yBands - 1
	}
	return Zone(yi*xBands + xi)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ConvertSourceA converts a point from source "A" conventions (120x80m
// pitch model) to the canonical 105x68m model via linear scaling.
func ConvertSourceA(x, y float64) Point {
	return Point{X: x * 105.0 / 120.0, Y: y * 68.0 / 80.0}
}

// InverseSourceA converts a canonical point back to source "A" conventions.
// Round-trips ConvertSourceA within floating point epsilon.
func InverseSourceA(p Point) (x, y float64) {
	return p.X * 120.0 / 105.0, p.Y * 80.0 / 68.0
}

// ConvertSourceB converts a point from source "B" conventions (normalized
// 0..1 on both axes) to the canonical 105x68m model.
func ConvertSourceB(x, y float64) Point {
	return Point{X: x * 105.0, Y: y * 68.0}
}

// InverseSourceB converts a canonical point back to source "B" conventions.
func InverseSourceB(p Point) (x, y float64) {
	return p.X / 105.0, p.Y / 68.0
}

// BoundingBox is a pixel-space rectangle with a detection confidence and
// class id.
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
	Confidence     float64
	ClassID        int
}

// Center returns the bounding box's center point in pixel space.
func (b BoundingBox) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2.0, (b.Y1 + b.Y2) / 2.0
}

// Width returns the bounding box's pixel width.
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height returns the bounding box's pixel height.
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }
