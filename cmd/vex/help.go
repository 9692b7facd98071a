package main

import (
	"fmt"
	"runtime"
)

func printHelpMenu() {
	fmt.Println("Usage: vex [options] file...\n" +
		"Options:\n" +
		"  --help                   Display this information.\n" +
		"  --help={optimizers|warnings|target|compiler}[,...]\n" +
		"                           Display help on specific option categories.\n" +
		"  --version                Display compiler version information.\n\n" +
		"  repl                     Launch the interactive Vex REPL (Read-Eval-Print Loop).\n\n" +
		"Report bugs at <https://github.com/PeterGriffinSr/Vex/issues>")
}

func printOptimizersHelp() {
	fmt.Println("Optimization Options:\n" +
		"  -O0                      Disable all optimizations (default).\n" +
		"  -O1                      Enable basic optimizations.\n" +
		"  -O2                      Enable additional optimizations.\n" +
		"  -O3                      Enable full optimizations, including inlining.\n" +
		"  -Os                      Optimize for size.\n" +
		"  -Ofast                   Enable aggressive optimizations that may break strict standards compliance.")
}

func printTargetHelp() {
	fmt.Println("Target-Specific Options:\n" +
		"  --target=<platform>     Specify the target platform (e.g., linux, wasm, arm).\n" +
		"  --arch=<arch>           Specify the target architecture (e.g., x86_64, arm64).\n" +
		"  --emit-llvm             Output LLVM IR instead of native code.")
}

func printWarningsHelp() {
	fmt.Println("Warning Control Options:\n" +
		"  -Wall                   Enable most warnings.\n" +
		"  -Werror                 Treat warnings as errors.\n" +
		"  -Wno-unused             Disable warnings for unused variables or functions.\n" +
		"  -Wextra                 Enable extra warning checks.")
}

func printCompilerHelp() {
	fmt.Println("Compiler Control Options:\n" +
		"  -save-temps             Do not delete intermediate files (e.g., .ll, .s).\n" +
		"  -S                      Compile only; do not assemble or link.\n" +
		"  -c                      Compile and assemble, but do not link.\n" +
		"  -o <file>               Place the output into <file>.\n" +
		"  --emit-ast              Output the parsed AST instead of compiling.\n" +
		"  --emit-ir               Output the intermediate representation (IR).")
}

func printVersion() {
	fmt.Printf("vex version %s (%s %s)\n", Version, runtime.GOOS, Version)
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}
