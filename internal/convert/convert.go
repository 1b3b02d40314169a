// Package convert wires the parsers, the hole filter and the DXF writer
// into one conversion run and reports what was produced.
package convert

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceGerber/pkg/dxf"
	"github.com/OpenTraceLab/OpenTraceGerber/pkg/excellon"
	"github.com/OpenTraceLab/OpenTraceGerber/pkg/gerber"
	"github.com/OpenTraceLab/OpenTraceGerber/pkg/geometry"
)

// Result summarizes one completed conversion for the caller to print.
type Result struct {
	OutputPath   string
	OutlineCount int
	HoleCount    int
	Diameters    []float64 // distinct retained diameters in mm, ascending
}

// Run executes the full pipeline: parse the outline, parse the drill
// files (PTH first), filter the hits, and write the DXF document. Any
// failure aborts the run — a partial drawing that silently lost geometry
// is worse than an error.
func Run(cfg Config, in Inputs) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if in.Outline == "" {
		return nil, fmt.Errorf("no outline file supplied")
	}

	segments, err := parseOutline(in.Outline)
	if err != nil {
		return nil, err
	}

	var hits []excellon.DrillHit
	if in.PTH != "" {
		pth, err := excellon.ParseFile(in.PTH, true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.PTH, err)
		}
		hits = append(hits, pth...)
	}
	if in.NPTH != "" {
		npth, err := excellon.ParseFile(in.NPTH, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.NPTH, err)
		}
		hits = append(hits, npth...)
	}

	holes := excellon.Filter(hits, excellon.DiameterRange{
		Min: cfg.MinDiameter,
		Max: cfg.MaxDiameter,
	})

	doc := dxf.NewDocument()
	doc.OutlineLayer = cfg.OutlineLayer
	doc.HolesLayer = cfg.HolesLayer
	for _, segment := range segments {
		doc.AddSegment(segment)
	}
	for _, hole := range holes {
		doc.AddCircle(dxf.Circle{Center: hole.Position, Radius: hole.Diameter / 2.0})
	}

	if err := doc.WriteFile(cfg.Output); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Output, err)
	}

	return &Result{
		OutputPath:   cfg.Output,
		OutlineCount: doc.OutlineCount(),
		HoleCount:    doc.CircleCount(),
		Diameters:    distinctDiameters(holes),
	}, nil
}

func parseOutline(path string) ([]geometry.OutlineSegment, error) {
	segments, err := gerber.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return segments, nil
}

// distinctDiameters returns the sorted set of diameters among the retained
// holes, deduplicated at micrometre resolution.
func distinctDiameters(holes []excellon.DrillHit) []float64 {
	seen := make(map[int64]bool)
	var diameters []float64
	for _, hole := range holes {
		key := int64(hole.Diameter*1e6 + 0.5)
		if seen[key] {
			continue
		}
		seen[key] = true
		diameters = append(diameters, hole.Diameter)
	}
	sort.Float64s(diameters)
	return diameters
}
