package gerber

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// blockLexer tokenizes one `*`-terminated Gerber data block. A block is a
// run of single-letter function codes each followed by a number, e.g.
// "G01X250000Y137500D01". Parameter blocks (%...%) never reach this lexer.
var blockLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[-+]?[0-9]*\.?[0-9]+`},
	{Name: "Letter", Pattern: `[A-Z]`},
})

// axisValue is one coordinate or offset word inside a data block. Axes may
// appear in any order and are raw strings: fixed-point decoding needs the
// active format declaration, which is parser state, not grammar.
type axisValue struct {
	Axis string `parser:"@('X' | 'Y' | 'I' | 'J')"`
	Raw  string `parser:"@Number"`
}

// dataBlock is the grammar for a coordinate/operation block: zero or more
// modal G codes, the axis words, then an optional D code (1 draw, 2 move,
// 3 flash, >=10 aperture select).
type dataBlock struct {
	GCodes []int       `parser:"('G' @Number)*"`
	Axes   []axisValue `parser:"@@*"`
	Op     *int        `parser:"('D' @Number)?"`
}

var blockParser = participle.MustBuild[dataBlock](
	participle.Lexer(blockLexer),
)
