package excellon

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceGerber/pkg/geometry"
)

// DrillHit is one drilled hole: where, how big, and whether the source file
// was the plated (PTH) or non-plated (NPTH) drill layer. Plating is a
// property of the file, not of any in-stream syntax, so the caller supplies
// it per file.
type DrillHit struct {
	Position geometry.Point
	Diameter float64 // mm
	Plated   bool
}

// ToolTable maps a tool code to its drill diameter in mm. It is populated
// from the header before any hit is resolved.
type ToolTable map[int]float64

// UnknownToolError reports a drill hit that references a tool code never
// defined in the file header. A missing diameter would corrupt the hole
// filter downstream, so the file is aborted rather than the hit skipped.
type UnknownToolError struct {
	Tool int
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("drill hit references undefined tool T%02d", e.Tool)
}
