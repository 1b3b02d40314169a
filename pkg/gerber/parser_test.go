package gerber

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceGerber/pkg/coord"
	"github.com/OpenTraceLab/OpenTraceGerber/pkg/geometry"
)

const rectangleProgram = `%TF.GenerationSoftware,KiCad,Pcbnew,7.0.0*%
%TF.FileFunction,Profile,NP*%
%FSLAX46Y46*%
%MOMM*%
%ADD10C,0.100000*%
G04 board outline*
D10*
G01*
X0Y0D02*
X100000000Y0D01*
X100000000Y50000000D01*
X0Y50000000D01*
X0Y0D01*
M02*
`

func TestParseRectangle(t *testing.T) {
	segments, err := Parse(strings.NewReader(rectangleProgram))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(segments) != 4 {
		t.Fatalf("Parse() returned %d segments, want 4", len(segments))
	}

	corners := []geometry.Point{
		{X: 0, Y: 0},
		{X: 100, Y: 0},
		{X: 100, Y: 50},
		{X: 0, Y: 50},
		{X: 0, Y: 0},
	}
	for i, segment := range segments {
		line, ok := segment.(geometry.Line)
		if !ok {
			t.Fatalf("segment %d is %T, want Line", i, segment)
		}
		if line.Start != corners[i] || line.End != corners[i+1] {
			t.Errorf("segment %d = %v -> %v, want %v -> %v",
				i, line.Start, line.End, corners[i], corners[i+1])
		}
	}
}

// Consecutive draws with no pen-up between them must chain exactly:
// each segment starts where the previous one ended.
func TestParseContinuity(t *testing.T) {
	program := `%FSLAX46Y46*%
%MOMM*%
G01*
X0Y0D02*
X10000000Y3000000D01*
X20000000Y-2500000D01*
X35000000Y12500000D01*
M02*
`
	segments, err := Parse(strings.NewReader(program))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("Parse() returned %d segments, want 3", len(segments))
	}
	for i := 0; i < len(segments)-1; i++ {
		if segments[i].EndPoint() != segments[i+1].StartPoint() {
			t.Errorf("segment %d end %v != segment %d start %v",
				i, segments[i].EndPoint(), i+1, segments[i+1].StartPoint())
		}
	}
}

func TestParseArc(t *testing.T) {
	program := `%FSLAX46Y46*%
%MOMM*%
G01*
X10000000Y0D02*
G02*
X0Y10000000I-10000000J0D01*
M02*
`
	segments, err := Parse(strings.NewReader(program))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("Parse() returned %d segments, want 1", len(segments))
	}

	arc, ok := segments[0].(geometry.Arc)
	if !ok {
		t.Fatalf("segment is %T, want Arc", segments[0])
	}
	if arc.Direction != geometry.Clockwise {
		t.Errorf("Direction = %v, want clockwise", arc.Direction)
	}
	if arc.Start != (geometry.Point{X: 10, Y: 0}) {
		t.Errorf("Start = %v, want (10,0)", arc.Start)
	}
	if arc.End != (geometry.Point{X: 0, Y: 10}) {
		t.Errorf("End = %v, want (0,10)", arc.End)
	}
	// Center is start plus the I/J offset.
	if arc.Center != (geometry.Point{X: 0, Y: 0}) {
		t.Errorf("Center = %v, want (0,0)", arc.Center)
	}
}

func TestParseInchUnits(t *testing.T) {
	program := `%FSLAX24Y24*%
%MOIN*%
G01*
X0Y0D02*
X10000Y0D01*
M02*
`
	segments, err := Parse(strings.NewReader(program))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("Parse() returned %d segments, want 1", len(segments))
	}
	line := segments[0].(geometry.Line)
	if math.Abs(line.End.X-25.4) > 1e-9 {
		t.Errorf("End.X = %v, want 25.4 (1 inch)", line.End.X)
	}
}

// In incremental notation every coordinate is a delta from the current
// point, so a run of deltas accumulates.
func TestParseIncrementalNotation(t *testing.T) {
	program := `%FSLIX46Y46*%
%MOMM*%
G01*
X10000000Y10000000D02*
X5000000Y0D01*
X5000000Y0D01*
M02*
`
	segments, err := Parse(strings.NewReader(program))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("Parse() returned %d segments, want 2", len(segments))
	}
	last := segments[1].(geometry.Line)
	want := geometry.Point{X: 20, Y: 10}
	if last.End != want {
		t.Errorf("final point = %v, want %v", last.End, want)
	}
}

// A pen-up move breaks the path without an error; the gap is passed
// through as-is.
func TestParsePenUpGap(t *testing.T) {
	program := `%FSLAX46Y46*%
%MOMM*%
G01*
X0Y0D02*
X10000000Y0D01*
X50000000Y50000000D02*
X60000000Y50000000D01*
M02*
`
	segments, err := Parse(strings.NewReader(program))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("Parse() returned %d segments, want 2", len(segments))
	}
	if segments[0].EndPoint() == segments[1].StartPoint() {
		t.Error("expected a gap between the two segments")
	}
}

func TestParseToleratesUnknownCommands(t *testing.T) {
	program := `%TF.SameCoordinates,Original*%
%LPD*%
G04 a comment that should be ignored*
%FSLAX46Y46*%
%MOMM*%
%AMROUNDRECT*
0 Rectangle with rounded corners*
0 $1 Rounding radius*
21,1,$4,$5,0,0,0*%
G75*
G01*
X0Y0D02*
X10000000Y0D01*
M02*
X99999999Y99999999D01*
`
	segments, err := Parse(strings.NewReader(program))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	// One draw; the block after M02 must not be parsed.
	if len(segments) != 1 {
		t.Fatalf("Parse() returned %d segments, want 1", len(segments))
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("malformed coordinate token", func(t *testing.T) {
		program := `%FSLAX46Y46*%
%MOMM*%
G01*
X1.2.3D01*
`
		_, err := Parse(strings.NewReader(program))
		var parseErr *coord.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("Parse() error = %v, want ParseError", err)
		}
	})

	t.Run("fixed point before format declaration", func(t *testing.T) {
		program := `%MOMM*%
G01*
X100000Y0D02*
`
		_, err := Parse(strings.NewReader(program))
		var formatErr *coord.FormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("Parse() error = %v, want FormatError", err)
		}
	})

	t.Run("mismatched X and Y formats", func(t *testing.T) {
		program := "%FSLAX46Y24*%\n"
		_, err := Parse(strings.NewReader(program))
		var formatErr *coord.FormatError
		if !errors.As(err, &formatErr) {
			t.Fatalf("Parse() error = %v, want FormatError", err)
		}
	})
}

// Explicit-decimal coordinates carry their own scale and need no FS
// declaration.
func TestParseExplicitDecimalCoordinates(t *testing.T) {
	program := `%MOMM*%
G01*
X0.0Y0.0D02*
X12.5Y0.0D01*
M02*
`
	segments, err := Parse(strings.NewReader(program))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("Parse() returned %d segments, want 1", len(segments))
	}
	line := segments[0].(geometry.Line)
	if line.End != (geometry.Point{X: 12.5, Y: 0}) {
		t.Errorf("End = %v, want (12.5, 0)", line.End)
	}
}
