// Package repl implements the interactive line-at-a-time
// parse/check/evaluate loop.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/PeterGriffinSr/Vex/internal/arena"
	"github.com/PeterGriffinSr/Vex/internal/ast"
	"github.com/PeterGriffinSr/Vex/internal/eval"
	"github.com/PeterGriffinSr/Vex/internal/lexer"
	"github.com/PeterGriffinSr/Vex/internal/parser"
	"github.com/PeterGriffinSr/Vex/internal/types"
)

var (
	red  = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

// arenaSize is the session arena; one REPL keeps a single arena alive
// and reports per-line consumption.
const arenaSize = 1 << 20

// REPL holds one interactive session. The type session and the
// evaluator both outlive individual lines, so val bindings persist
// until :quit.
type REPL struct {
	arena     *arena.Arena
	factory   *ast.Factory
	session   *types.Session
	evaluator *eval.Evaluator
	out       io.Writer
	errw      io.Writer
	version   string
	showMem   bool
}

// New creates a session. Evaluation output and diagnostics go to out
// and errw.
func New(version string, out, errw io.Writer) *REPL {
	a := arena.New(arenaSize)
	return &REPL{
		arena:     a,
		factory:   ast.NewFactory(a),
		session:   types.NewSession(types.NewChecker(a)),
		evaluator: eval.NewWithOutput(out, errw),
		out:       out,
		errw:      errw,
		version:   version,
		showMem:   true,
	}
}

// ShowMemory toggles the per-line arena report, which is on by
// default.
func (r *REPL) ShowMemory(on bool) { r.showMem = on }

// Run reads lines until :quit or end of input. Each line is parsed as
// one top-level expression, type-checked, and evaluated.
func (r *REPL) Run() {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".vex_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(r.out, "%s\n", bold("Vex REPL"))
	fmt.Fprintln(r.out, dim("Type :quit to exit."))
	fmt.Fprintln(r.out)

	for {
		input, err := line.Prompt(">>> ")
		if err == io.EOF {
			fmt.Fprintln(r.out)
			break
		}
		if err != nil {
			fmt.Fprintf(r.out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ":quit") {
			break
		}

		line.AppendHistory(input)
		r.EvalLine(input)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// EvalLine runs one input line through the pipeline. Parse and type
// failures end the line, not the session.
func (r *REPL) EvalLine(input string) {
	defer func() {
		n := r.arena.MarkLine()
		if r.showMem {
			fmt.Fprintln(r.out, dim(fmt.Sprintf("[arena] allocated %d bytes for this line", n)))
		}
	}()

	src := string(lexer.Normalize([]byte(input)))
	p := parser.New(lexer.New(src, "repl"), r.factory)
	root, err := p.Parse()
	if err != nil {
		fmt.Fprintf(r.errw, "%s\n", red("Parsing failed."))
		return
	}

	if _, err := r.session.Check(root); err != nil {
		fmt.Fprintf(r.errw, "%s %s\n", red("Type error:"), err)
		return
	}

	r.evaluator.Eval(root)
}
