package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/PeterGriffinSr/Vex/internal/ast"
	"github.com/PeterGriffinSr/Vex/internal/config"
	"github.com/PeterGriffinSr/Vex/internal/pipeline"
	"github.com/PeterGriffinSr/Vex/internal/repl"
)

var (
	// Version info - set by ldflags during build
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildTime = "unknown"

	red = color.New(color.FgRed).SprintFunc()
)

// options collects the passive compiler flags. Beyond selecting the
// output path and the emit mode their semantics stop at being parsed.
type options struct {
	outFile   string
	emitAST   bool
	emitIR    bool
	optLevel  int
	saveTemps bool
	compileOnly,
	assembleOnly bool
	target, arch string
	warnings     []string
	files        []string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "vex: error: no input file")
		return 1
	}

	var opts options
	optSet := false
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if handled, status := handleInfoOption(arg); handled {
			return status
		}

		switch {
		case arg == "-o":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "vex: error: missing filename after '-o'")
				return 1
			}
			opts.outFile = args[i]
		case arg == "-S":
			opts.compileOnly = true
		case arg == "-c":
			opts.assembleOnly = true
		case arg == "-save-temps":
			opts.saveTemps = true
		case arg == "--emit-ast":
			opts.emitAST = true
		case arg == "--emit-ir", arg == "--emit-llvm":
			opts.emitIR = true
		case strings.HasPrefix(arg, "--target="):
			opts.target = strings.TrimPrefix(arg, "--target=")
		case strings.HasPrefix(arg, "--arch="):
			opts.arch = strings.TrimPrefix(arg, "--arch=")
		case strings.HasPrefix(arg, "-O"):
			// -O0 through -O3, -Os, -Ofast; anything else falls through
			// to the unrecognized-option diagnostic.
			if n, err := parseOptLevel(arg); err == nil {
				opts.optLevel = n
				optSet = true
			} else {
				fmt.Fprintf(os.Stderr, "vex: error: unrecognized command-line option '%s'\n", arg)
				return 1
			}
		case strings.HasPrefix(arg, "-W"):
			opts.warnings = append(opts.warnings, strings.TrimPrefix(arg, "-W"))
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "vex: error: unrecognized command-line option '%s'\n", arg)
			return 1
		default:
			opts.files = append(opts.files, arg)
		}
	}

	if len(opts.files) == 0 {
		fmt.Fprintln(os.Stderr, "vex: error: no input file")
		return 1
	}

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "vex: %s: %v\n", red("error"), err)
		return 1
	}
	if opts.outFile == "" {
		opts.outFile = cfg.Output
	}
	if !opts.emitAST && !opts.emitIR {
		switch cfg.Emit {
		case "ast":
			opts.emitAST = true
		case "ir":
			opts.emitIR = true
		}
	}
	if !optSet {
		opts.optLevel = cfg.Opt
	}
	if len(opts.warnings) == 0 {
		opts.warnings = cfg.Warnings
	}

	return compile(opts.files[0], &opts)
}

func parseOptLevel(arg string) (int, error) {
	switch arg {
	case "-O0", "-Os", "-Ofast":
		return 0, nil
	case "-O1":
		return 1, nil
	case "-O2":
		return 2, nil
	case "-O3":
		return 3, nil
	}
	return 0, fmt.Errorf("unknown optimization level %q", arg)
}

// handleInfoOption deals with the informational options and the repl
// command. It reports whether the argument was consumed, and the exit
// status when it was.
func handleInfoOption(arg string) (bool, int) {
	switch arg {
	case "--version", "-v":
		printVersion()
		return true, 0
	case "--help", "-h":
		printHelpMenu()
		return true, 0
	case "repl":
		r := repl.New(Version, os.Stdout, os.Stderr)
		r.Run()
		return true, 0
	}
	if strings.HasPrefix(arg, "--help=") {
		topic := strings.TrimPrefix(arg, "--help=")
		switch topic {
		case "optimizers":
			printOptimizersHelp()
		case "target":
			printTargetHelp()
		case "warnings":
			printWarningsHelp()
		case "compiler":
			printCompilerHelp()
		default:
			fmt.Fprintf(os.Stderr, "unrecognized argument to '--help=' option: '%s'\n", topic)
			return true, 1
		}
		return true, 0
	}
	return false, 0
}

// compile runs the batch pipeline: parse, type-check, lower, emit.
func compile(file string, opts *options) int {
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vex: error: could not read file '%s'\n", file)
		return 1
	}

	pl := pipeline.New()
	if _, err := pl.Parse(data, file); err != nil {
		fmt.Fprintln(os.Stderr, "Parsing failed.")
		return 1
	}
	if _, err := pl.Check(); err != nil {
		fmt.Fprintf(os.Stderr, "Type error: %v\n", err)
		return 1
	}

	if opts.emitAST {
		ast.Fprint(os.Stdout, pl.Root, 0)
		return 0
	}

	low := pl.Lower()
	if opts.emitIR {
		fmt.Print(low.Module())
		return 0
	}
	if err := low.WriteFile(opts.outFile); err != nil {
		fmt.Fprintf(os.Stderr, "vex: %s: %v\n", red("error"), err)
		return 1
	}
	return 0
}
