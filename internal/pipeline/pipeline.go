// Package pipeline ties the compilation stages together. The arena,
// the parsed root and the IR module travel through an explicit context
// instead of package globals, so one process can run any number of
// independent compilations.
package pipeline

import (
	"github.com/llir/llvm/ir"

	"github.com/PeterGriffinSr/Vex/internal/arena"
	"github.com/PeterGriffinSr/Vex/internal/ast"
	"github.com/PeterGriffinSr/Vex/internal/codegen"
	"github.com/PeterGriffinSr/Vex/internal/lexer"
	"github.com/PeterGriffinSr/Vex/internal/parser"
	"github.com/PeterGriffinSr/Vex/internal/types"
)

// arenaSize covers one batch compilation.
const arenaSize = 1 << 20

// Pipeline is the context of one compilation: the arena every stage
// allocates from, the factory the parser builds nodes with, and the
// root the parser produced.
type Pipeline struct {
	Arena   *arena.Arena
	Factory *ast.Factory
	Root    *ast.Node
}

// New creates a fresh compilation context.
func New() *Pipeline {
	a := arena.New(arenaSize)
	return &Pipeline{Arena: a, Factory: ast.NewFactory(a)}
}

// Parse normalizes and parses src, recording the root on success.
func (pl *Pipeline) Parse(src []byte, name string) (*ast.Node, error) {
	text := string(lexer.Normalize(src))
	p := parser.New(lexer.New(text, name), pl.Factory)
	root, err := p.Parse()
	if err != nil {
		return nil, err
	}
	pl.Root = root
	return root, nil
}

// Check type-checks the parsed root.
func (pl *Pipeline) Check() (*types.Type, error) {
	return types.NewChecker(pl.Arena).Check(pl.Root)
}

// Lower lowers the checked root to an LLVM module and returns the
// lowerer holding it.
func (pl *Pipeline) Lower() *codegen.Lowerer {
	low := codegen.New()
	low.Compile(pl.Root)
	return low
}

// Compile runs parse, check and lower in order.
func (pl *Pipeline) Compile(src []byte, name string) (*ir.Module, error) {
	if _, err := pl.Parse(src, name); err != nil {
		return nil, err
	}
	if _, err := pl.Check(); err != nil {
		return nil, err
	}
	return pl.Lower().Module(), nil
}
