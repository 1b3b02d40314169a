// Package gerber reads the board outline from an RS-274X Gerber layer.
//
// Only the small command surface that matters for an outline contour is
// interpreted: format and unit declarations, interpolation mode switches,
// and coordinate blocks with move/draw operation codes. Everything else in
// the file (apertures, attributes, polygon fills, comments) is tolerated
// and skipped, so arbitrary production Gerbers parse without aborting.
package gerber

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/OpenTraceLab/OpenTraceGerber/pkg/coord"
	"github.com/OpenTraceLab/OpenTraceGerber/pkg/geometry"
)

// formatRe matches an FS parameter, e.g. "FSLAX46Y46".
// Groups: zero suppression (L/T/D), notation (A absolute / I incremental),
// X integer/decimal digits, Y integer/decimal digits.
var formatRe = regexp.MustCompile(`^FS([LTD])([AI])X([0-9])([0-9])Y([0-9])([0-9])$`)

// blockPrefixRe decides whether a data block is a coordinate/operation
// block at all: a recognized function letter followed by a number. Words
// that fail this test (deprecated RS-274D codes, stray attribute text) are
// tolerated; words that pass it but do not parse are structurally broken.
var blockPrefixRe = regexp.MustCompile(`^[GXYIJD][+-]?[0-9.]`)

// ParseFile reads and parses a Gerber outline layer from a file.
func ParseFile(filename string) ([]geometry.OutlineSegment, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a Gerber program and returns the outline segments in file
// order. The returned path is whatever the file drew: continuity and
// closure are not enforced here.
func Parse(r io.Reader) ([]geometry.OutlineSegment, error) {
	state := &plotterState{mode: Linear, units: coord.Millimeters}
	var segments []geometry.OutlineSegment

	scanner := bufio.NewScanner(r)
	lineNo := 0
	inMacro := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "G04") {
			continue
		}

		// Aperture macro bodies span multiple lines between %AM and the
		// closing %. Nothing in them is outline geometry.
		if inMacro {
			if strings.HasSuffix(line, "%") {
				inMacro = false
			}
			continue
		}

		if strings.HasPrefix(line, "%") {
			if strings.HasPrefix(line, "%AM") && !strings.HasSuffix(line, "%") {
				inMacro = true
				continue
			}
			if err := state.applyParameter(line); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		// A line may carry several *-terminated blocks.
		for _, block := range strings.Split(line, "*") {
			block = strings.ToUpper(strings.TrimSpace(block))
			if block == "" {
				continue
			}
			if block == "M02" || block == "M00" {
				// End of program. Anything after it is ignored.
				return segments, nil
			}

			segment, err := state.applyBlock(block)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if segment != nil {
				segments = append(segments, segment)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	// Missing M02 still yields whatever was drawn; partial outlines are
	// accepted as-is.
	return segments, nil
}

// applyParameter handles a %...% parameter line. Only FS and MO matter;
// every other parameter (AD, TF, TA, LP, ...) is tolerated and skipped.
func (p *plotterState) applyParameter(line string) error {
	param := strings.ToUpper(strings.Trim(line, "%"))
	if i := strings.IndexByte(param, '*'); i >= 0 {
		param = param[:i]
	}

	if m := formatRe.FindStringSubmatch(param); m != nil {
		if m[3] != m[5] || m[4] != m[6] {
			return &coord.FormatError{Reason: "X and Y formats disagree: " + param}
		}
		p.format = &coord.FormatSpec{
			IntegerDigits: int(m[3][0] - '0'),
			DecimalDigits: int(m[4][0] - '0'),
			Suppression:   coord.ZeroSuppression(m[1][0]),
		}
		p.incremental = m[2] == "I"
		return nil
	}

	switch param {
	case "MOIN":
		p.units = coord.Inches
	case "MOMM":
		p.units = coord.Millimeters
	}
	return nil
}

// applyBlock interprets one data block and returns the outline segment it
// produced, if any. Blocks that do not start with a recognized function
// letter are skipped; a block that does start with one but fails to parse
// is a hard error, because a malformed coordinate corrupts the outline.
func (p *plotterState) applyBlock(block string) (geometry.OutlineSegment, error) {
	if strings.HasPrefix(block, "G04") || !blockPrefixRe.MatchString(block) {
		return nil, nil
	}

	parsed, err := blockParser.ParseString("", block)
	if err != nil {
		return nil, &coord.ParseError{Token: block}
	}

	for _, g := range parsed.GCodes {
		switch g {
		case 1:
			p.mode = Linear
		case 2:
			p.mode = ClockwiseArc
		case 3:
			p.mode = CounterClockwiseArc
		case 70:
			p.units = coord.Inches
		case 71:
			p.units = coord.Millimeters
		case 90:
			p.incremental = false
		case 91:
			p.incremental = true
		}
		// Other G codes (region mode, quadrant mode, comments) carry no
		// outline geometry and are skipped.
	}

	next := p.current
	var offset geometry.Point
	for _, a := range parsed.Axes {
		v, err := coord.Resolve(a.Raw, p.format, p.units)
		if err != nil {
			return nil, err
		}
		switch a.Axis {
		case "X":
			next.X = p.resolveAbsolute(v, p.current.X)
		case "Y":
			next.Y = p.resolveAbsolute(v, p.current.Y)
		case "I":
			offset.X = v // offsets are deltas regardless of notation
		case "J":
			offset.Y = v
		}
	}

	if parsed.Op == nil {
		return nil, nil
	}

	switch op := *parsed.Op; {
	case op >= 10:
		p.aperture = op
		return nil, nil
	case op == 2 || op == 3:
		// Pen-up move, or a flash (flashes land pads, not outline).
		p.setCurrent(next)
		return nil, nil
	case op == 1:
		return p.draw(next, offset), nil
	default:
		return nil, &coord.ParseError{Token: block}
	}
}

// draw emits the segment from the current point to next under the active
// interpolation mode. A draw before any point is established degrades to a
// move, matching how plotters treat a pen-down with no position.
func (p *plotterState) draw(next, offset geometry.Point) geometry.OutlineSegment {
	if !p.haveCurrent {
		p.setCurrent(next)
		return nil
	}
	start := p.current
	p.setCurrent(next)

	if p.mode == Linear {
		return geometry.Line{Start: start, End: next}
	}

	direction := geometry.CounterClockwise
	if p.mode == ClockwiseArc {
		direction = geometry.Clockwise
	}
	return geometry.Arc{
		Start:     start,
		End:       next,
		Center:    geometry.Point{X: start.X + offset.X, Y: start.Y + offset.Y},
		Direction: direction,
	}
}

func (p *plotterState) resolveAbsolute(v, previous float64) float64 {
	if p.incremental {
		return previous + v
	}
	return v
}

func (p *plotterState) setCurrent(pt geometry.Point) {
	p.current = pt
	p.haveCurrent = true
}
