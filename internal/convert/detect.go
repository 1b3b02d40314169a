package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Inputs names the source files of one conversion run. PTH and NPTH are
// empty when the respective drill file is absent.
type Inputs struct {
	Outline string
	PTH     string
	NPTH    string
}

var edgeCutsSuffixRe = regexp.MustCompile(`(?i)-Edge_Cuts\.gbr$`)

// DetectInputs locates the outline Gerber and the drill files in dir using
// the KiCad naming convention: "<project>-Edge_Cuts.gbr" for the outline,
// "<project>-PTH.drl" and "<project>-NPTH.drl" for the drills. When no
// Edge_Cuts file exists, any Gerber whose attributes mark it as the board
// profile is taken instead.
func DetectInputs(dir string) (Inputs, error) {
	outline, err := detectOutline(dir)
	if err != nil {
		return Inputs{}, err
	}

	in := Inputs{Outline: outline}
	in.PTH = firstGlob(dir, "*-PTH.drl")
	in.NPTH = firstGlob(dir, "*-NPTH.drl")
	return in, nil
}

func detectOutline(dir string) (string, error) {
	if path := firstGlob(dir, "*-Edge_Cuts.gbr"); path != "" {
		return path, nil
	}

	// Fallback: scan every Gerber for a profile file-function attribute.
	matches, err := filepath.Glob(filepath.Join(dir, "*.gbr"))
	if err != nil {
		return "", fmt.Errorf("failed to scan directory: %w", err)
	}
	sort.Strings(matches)
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := string(data)
		if strings.Contains(text, "FileFunction,Profile") ||
			strings.Contains(text, "AperFunction,Profile") {
			return path, nil
		}
	}

	return "", fmt.Errorf("no edge-cuts/profile Gerber found in %s", dir)
}

// firstGlob returns the lexically first match of pattern in dir, or "".
func firstGlob(dir, pattern string) string {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}

// ProjectName derives the project name from the outline file name by
// stripping the "-Edge_Cuts.gbr" suffix, falling back to the bare stem.
func ProjectName(outlinePath string) string {
	base := filepath.Base(outlinePath)
	if name := edgeCutsSuffixRe.ReplaceAllString(base, ""); name != base {
		return name
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DefaultOutputPath is where the drawing lands when no output is
// configured: next to the inputs, named after the project.
func DefaultOutputPath(dir, outlinePath string) string {
	return filepath.Join(dir, ProjectName(outlinePath)+"-outline-mounting-holes.dxf")
}
