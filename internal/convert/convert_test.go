package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outlineGerber = `%TF.FileFunction,Profile,NP*%
%FSLAX46Y46*%
%MOMM*%
G01*
X0Y0D02*
X100000000Y0D01*
X100000000Y50000000D01*
X0Y50000000D01*
X0Y0D01*
M02*
`

const pthDrill = `M48
METRIC
T1C3.200
T2C6.000
%
T1
X10.0Y10.0
T2
X90.0Y40.0
M30
`

const npthDrill = `M48
METRIC
T1C2.000
%
T1
X50.0Y25.0
M30
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Board with a closed 100x50 rectangle outline and two plated holes of
// 3.2mm and 6.0mm: the default filter keeps both, the 2.0mm NPTH hole is
// dropped, and the DXF ends up with 4 lines and 2 circles.
func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := Inputs{
		Outline: writeFixture(t, dir, "board-Edge_Cuts.gbr", outlineGerber),
		PTH:     writeFixture(t, dir, "board-PTH.drl", pthDrill),
		NPTH:    writeFixture(t, dir, "board-NPTH.drl", npthDrill),
	}

	cfg := DefaultConfig()
	cfg.Output = filepath.Join(dir, "board.dxf")

	result, err := Run(cfg, in)
	require.NoError(t, err)

	assert.Equal(t, 4, result.OutlineCount)
	assert.Equal(t, 2, result.HoleCount)
	assert.Equal(t, []float64{3.2, 6.0}, result.Diameters)
	assert.Equal(t, cfg.Output, result.OutputPath)

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	out := string(data)

	assert.Equal(t, 4, strings.Count(out, "0\nLINE\n"))
	assert.Equal(t, 2, strings.Count(out, "0\nCIRCLE\n"))
	// Circle radii are half the drill diameters.
	assert.Contains(t, out, "40\n1.600000\n")
	assert.Contains(t, out, "40\n3.000000\n")
}

func TestRunWithDiameterBand(t *testing.T) {
	dir := t.TempDir()
	in := Inputs{
		Outline: writeFixture(t, dir, "board-Edge_Cuts.gbr", outlineGerber),
		PTH:     writeFixture(t, dir, "board-PTH.drl", pthDrill),
	}

	max := 4.0
	cfg := DefaultConfig()
	cfg.MaxDiameter = &max
	cfg.Output = filepath.Join(dir, "board.dxf")

	result, err := Run(cfg, in)
	require.NoError(t, err)

	assert.Equal(t, 1, result.HoleCount)
	assert.Equal(t, []float64{3.2}, result.Diameters)
}

func TestRunOutlineOnly(t *testing.T) {
	dir := t.TempDir()
	in := Inputs{
		Outline: writeFixture(t, dir, "board-Edge_Cuts.gbr", outlineGerber),
	}

	cfg := DefaultConfig()
	cfg.Output = filepath.Join(dir, "board.dxf")

	result, err := Run(cfg, in)
	require.NoError(t, err)
	assert.Equal(t, 4, result.OutlineCount)
	assert.Equal(t, 0, result.HoleCount)
	assert.Empty(t, result.Diameters)
}

// A drill file that fails to parse aborts the whole run; no partial
// document may be left behind.
func TestRunAbortsOnBadDrillFile(t *testing.T) {
	badDrill := `M48
METRIC
%
T7
X10.0Y10.0
M30
`
	dir := t.TempDir()
	in := Inputs{
		Outline: writeFixture(t, dir, "board-Edge_Cuts.gbr", outlineGerber),
		PTH:     writeFixture(t, dir, "board-PTH.drl", badDrill),
	}

	cfg := DefaultConfig()
	cfg.Output = filepath.Join(dir, "board.dxf")

	_, err := Run(cfg, in)
	require.Error(t, err)
	assert.ErrorContains(t, err, "T07")

	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr), "no output file may exist after a failed run")
}

// An outline arc whose end point does not sit on the circle is only caught
// when the DXF is serialized; the run must still fail without leaving a
// partial output file behind.
func TestRunAbortsOnInconsistentArc(t *testing.T) {
	badArcGerber := `%FSLAX46Y46*%
%MOMM*%
G01*
X10000000Y0D02*
G02*
X0Y12000000I-10000000J0D01*
M02*
`
	dir := t.TempDir()
	in := Inputs{
		Outline: writeFixture(t, dir, "board-Edge_Cuts.gbr", badArcGerber),
	}

	cfg := DefaultConfig()
	cfg.Output = filepath.Join(dir, "board.dxf")

	_, err := Run(cfg, in)
	require.Error(t, err)
	assert.ErrorContains(t, err, "inconsistent arc radii")

	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr), "no output file may exist after a failed run")
}

func TestRunRequiresOutline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "board.dxf")

	_, err := Run(cfg, Inputs{})
	require.Error(t, err)
}
