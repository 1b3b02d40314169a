package dxf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceGerber/pkg/geometry"
)

// groupWriter emits DXF group code / value pairs, one per line. The first
// write error sticks and turns the remaining writes into no-ops.
type groupWriter struct {
	w   *bufio.Writer
	err error
}

func (g *groupWriter) pair(code int, value string) {
	if g.err != nil {
		return
	}
	if _, err := fmt.Fprintf(g.w, "%d\n%s\n", code, value); err != nil {
		g.err = err
	}
}

func (g *groupWriter) pairInt(code, value int) {
	g.pair(code, strconv.Itoa(value))
}

func (g *groupWriter) pairFloat(code int, value float64) {
	g.pair(code, strconv.FormatFloat(value, 'f', 6, 64))
}

// Write serializes the whole document: header, layer table, entities.
// Arcs that turn out geometrically inconsistent abort the write — a bad
// arc means the parse went wrong, and a silently incomplete drawing is
// worse than no drawing.
func (d *Document) Write(w io.Writer) error {
	g := &groupWriter{w: bufio.NewWriter(w)}

	d.writeHeader(g)
	d.writeLayerTable(g)

	g.pair(0, "SECTION")
	g.pair(2, "ENTITIES")
	for _, segment := range d.segments {
		switch s := segment.(type) {
		case geometry.Line:
			d.writeLine(g, s)
		case geometry.Arc:
			if err := d.writeArc(g, s); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported outline segment type %T", segment)
		}
	}
	for _, c := range d.circles {
		d.writeCircle(g, c)
	}
	g.pair(0, "ENDSEC")
	g.pair(0, "EOF")

	if g.err != nil {
		return fmt.Errorf("failed to write document: %w", g.err)
	}
	if err := g.w.Flush(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// writeHeader emits the HEADER section. $INSUNITS 4 declares millimeters.
func (d *Document) writeHeader(g *groupWriter) {
	g.pair(0, "SECTION")
	g.pair(2, "HEADER")
	g.pair(9, "$INSUNITS")
	g.pairInt(70, 4)
	g.pair(0, "ENDSEC")
}

// writeLayerTable emits the TABLES section with the two drawing layers.
func (d *Document) writeLayerTable(g *groupWriter) {
	g.pair(0, "SECTION")
	g.pair(2, "TABLES")
	g.pair(0, "TABLE")
	g.pair(2, "LAYER")
	g.pairInt(70, 2)

	g.pair(0, "LAYER")
	g.pair(2, d.OutlineLayer)
	g.pairInt(70, 0)
	g.pairInt(62, colorWhite)
	g.pair(6, "CONTINUOUS")

	g.pair(0, "LAYER")
	g.pair(2, d.HolesLayer)
	g.pairInt(70, 0)
	g.pairInt(62, colorRed)
	g.pair(6, "CONTINUOUS")

	g.pair(0, "ENDTAB")
	g.pair(0, "ENDSEC")
}

func (d *Document) writeLine(g *groupWriter, l geometry.Line) {
	g.pair(0, "LINE")
	g.pair(8, d.OutlineLayer)
	g.pairFloat(10, l.Start.X)
	g.pairFloat(20, l.Start.Y)
	g.pair(30, "0.0")
	g.pairFloat(11, l.End.X)
	g.pairFloat(21, l.End.Y)
	g.pair(31, "0.0")
}

// writeArc emits an ARC entity. DXF arcs always sweep counter-clockwise
// from start angle to end angle; Angles has already swapped the pair for
// clockwise source arcs.
func (d *Document) writeArc(g *groupWriter, a geometry.Arc) error {
	angles, err := a.Angles()
	if err != nil {
		return fmt.Errorf("failed to write arc: %w", err)
	}

	g.pair(0, "ARC")
	g.pair(8, d.OutlineLayer)
	g.pairFloat(10, a.Center.X)
	g.pairFloat(20, a.Center.Y)
	g.pair(30, "0.0")
	g.pairFloat(40, angles.Radius)
	g.pairFloat(50, angles.StartAngle)
	g.pairFloat(51, angles.EndAngle)
	return nil
}

func (d *Document) writeCircle(g *groupWriter, c Circle) {
	g.pair(0, "CIRCLE")
	g.pair(8, d.HolesLayer)
	g.pairFloat(10, c.Center.X)
	g.pairFloat(20, c.Center.Y)
	g.pair(30, "0.0")
	g.pairFloat(40, c.Radius)
}
