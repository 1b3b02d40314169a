// Package dxf writes a minimal ASCII DXF document: a two-layer drawing
// holding a board outline (lines and arcs) and mounting-hole circles.
// The feature surface is deliberately tiny — enough for mechanical CAD
// packages to import the board contour, nothing more.
package dxf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTraceGerber/pkg/geometry"
)

// Default layer names. Both can be overridden on the Document.
const (
	DefaultOutlineLayer = "OUTLINE"
	DefaultHolesLayer   = "MOUNTING_HOLES"
)

// AutoCAD color indices for the layer table.
const (
	colorWhite = 7
	colorRed   = 1
)

// Circle is a full circle entity, used for mounting holes.
type Circle struct {
	Center geometry.Point
	Radius float64
}

// Document accumulates entities and serializes them once. It is not meant
// for incremental or repeated writing.
type Document struct {
	OutlineLayer string
	HolesLayer   string

	segments []geometry.OutlineSegment
	circles  []Circle
}

// NewDocument returns an empty document with the default layer names.
func NewDocument() *Document {
	return &Document{
		OutlineLayer: DefaultOutlineLayer,
		HolesLayer:   DefaultHolesLayer,
	}
}

// AddSegment appends one outline segment to the outline layer.
func (d *Document) AddSegment(s geometry.OutlineSegment) {
	d.segments = append(d.segments, s)
}

// AddCircle appends one circle to the mounting-holes layer.
func (d *Document) AddCircle(c Circle) {
	d.circles = append(d.circles, c)
}

// OutlineCount returns the number of outline entities in the document.
func (d *Document) OutlineCount() int { return len(d.segments) }

// CircleCount returns the number of hole circles in the document.
func (d *Document) CircleCount() int { return len(d.circles) }

// WriteFile serializes the document to path, replacing any existing file.
// The document is written to a temporary file and renamed into place, so a
// serialization failure never leaves a partial file at path.
func (d *Document) WriteFile(path string) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := d.Write(file); err != nil {
		file.Close()
		os.Remove(file.Name())
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(file.Name(), path); err != nil {
		os.Remove(file.Name())
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
