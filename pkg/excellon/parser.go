// Package excellon reads drill hits from an Excellon drill file.
//
// The header phase collects tool diameters and unit declarations; the body
// phase turns coordinate commands into DrillHit records at the active
// tool's diameter. Canned cycles, routing and the less common tool-change
// dialects are out of scope and tolerated where they can be, never
// misread as hits.
package excellon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceGerber/pkg/coord"
	"github.com/OpenTraceLab/OpenTraceGerber/pkg/geometry"
)

var (
	// toolDefRe matches a header tool definition, e.g. "T1C3.200".
	// Feed and speed suffixes ("T1C0.8F200S65") are accepted and ignored.
	toolDefRe = regexp.MustCompile(`^T(\d+)C([+-]?[0-9]*\.?[0-9]+)`)

	// toolSelectRe matches a body tool selection, e.g. "T01".
	toolSelectRe = regexp.MustCompile(`^T(\d+)$`)

	// fileFormatRe matches the digit-count annotation some CAD packages
	// write into the header, e.g. ";FILE_FORMAT=2:4". Without it,
	// fixed-point coordinates have no declared format and are rejected.
	fileFormatRe = regexp.MustCompile(`^;\s*FILE_FORMAT\s*=\s*(\d+):(\d+)$`)

	axisXRe = regexp.MustCompile(`X([+-]?[0-9]*\.?[0-9]+)`)
	axisYRe = regexp.MustCompile(`Y([+-]?[0-9]*\.?[0-9]+)`)
)

// parseState is the per-file state of one Excellon parse pass.
type parseState struct {
	units       coord.Units
	suppression coord.ZeroSuppression
	format      *coord.FormatSpec
	incremental bool
	tools       ToolTable
	currentTool int // 0 = no tool selected
	current     geometry.Point
}

// ParseFile reads and parses an Excellon drill file. plated is true for the
// PTH drill layer and false for NPTH.
func ParseFile(filename string, plated bool) ([]DrillHit, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, plated)
}

// Parse reads an Excellon program and returns its drill hits in file order.
func Parse(r io.Reader, plated bool) ([]DrillHit, error) {
	// Excellon's historical default unit is inches; METRIC switches to mm.
	state := &parseState{
		units:       coord.Inches,
		suppression: coord.LeadingOmitted,
		tools:       make(ToolTable),
	}
	var hits []DrillHit

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ";") {
			state.applyComment(strings.ToUpper(line))
			continue
		}

		done, hit, err := state.applyLine(strings.ToUpper(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if hit != nil {
			h := *hit
			h.Plated = plated
			hits = append(hits, h)
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return hits, nil
}

// applyComment scans header comments for the FILE_FORMAT digit counts.
// All other comments are skipped.
func (s *parseState) applyComment(line string) {
	m := fileFormatRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	integer, _ := strconv.Atoi(m[1])
	decimal, _ := strconv.Atoi(m[2])
	s.format = &coord.FormatSpec{
		IntegerDigits: integer,
		DecimalDigits: decimal,
		Suppression:   s.suppression,
	}
}

// applyLine interprets one command line. done reports that the program
// ended (M30); hit is non-nil when the line produced a drill hit.
func (s *parseState) applyLine(line string) (done bool, hit *DrillHit, err error) {
	switch {
	case strings.HasPrefix(line, "INCH"):
		s.units = coord.Inches
		s.applyZeroMode(line)
		return false, nil, nil
	case strings.HasPrefix(line, "METRIC"):
		s.units = coord.Millimeters
		s.applyZeroMode(line)
		return false, nil, nil
	case line == "M30":
		return true, nil, nil
	case line == "G90":
		s.incremental = false
		return false, nil, nil
	case line == "G91":
		s.incremental = true
		return false, nil, nil
	}

	if m := toolDefRe.FindStringSubmatch(line); m != nil {
		code, _ := strconv.Atoi(m[1])
		diameter, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return false, nil, &coord.ParseError{Token: m[2]}
		}
		// Stored in mm using the units active at definition time.
		s.tools[code] = diameter * s.units.Factor()
		return false, nil, nil
	}

	if m := toolSelectRe.FindStringSubmatch(line); m != nil {
		code, _ := strconv.Atoi(m[1])
		s.currentTool = code // T0 means tool unload
		return false, nil, nil
	}

	if strings.HasPrefix(line, "X") || strings.HasPrefix(line, "Y") {
		hit, err := s.applyHit(line)
		return false, hit, err
	}

	// M48, %, FMAT, G05 and friends carry no hit data; skip them.
	return false, nil, nil
}

// applyZeroMode picks up the LZ/TZ suffix of a units line. "LZ" keeps
// leading zeros (trailing omitted), "TZ" keeps trailing zeros (leading
// omitted).
func (s *parseState) applyZeroMode(line string) {
	switch {
	case strings.HasSuffix(line, ",LZ"):
		s.suppression = coord.TrailingOmitted
	case strings.HasSuffix(line, ",TZ"):
		s.suppression = coord.LeadingOmitted
	default:
		return
	}
	if s.format != nil {
		s.format.Suppression = s.suppression
	}
}

// applyHit resolves a coordinate command into a drill hit at the active
// tool's diameter.
func (s *parseState) applyHit(line string) (*DrillHit, error) {
	if s.currentTool == 0 {
		return nil, fmt.Errorf("drill hit before any tool selection")
	}
	diameter, ok := s.tools[s.currentTool]
	if !ok {
		return nil, &UnknownToolError{Tool: s.currentTool}
	}

	next := s.current
	if m := axisXRe.FindStringSubmatch(line); m != nil {
		v, err := coord.Resolve(m[1], s.format, s.units)
		if err != nil {
			return nil, err
		}
		next.X = s.resolveAbsolute(v, s.current.X)
	}
	if m := axisYRe.FindStringSubmatch(line); m != nil {
		v, err := coord.Resolve(m[1], s.format, s.units)
		if err != nil {
			return nil, err
		}
		next.Y = s.resolveAbsolute(v, s.current.Y)
	}
	s.current = next

	return &DrillHit{Position: next, Diameter: diameter}, nil
}

func (s *parseState) resolveAbsolute(v, previous float64) float64 {
	if s.incremental {
		return previous + v
	}
	return v
}
