package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucidlang/lucidc/internal/ir"
	"github.com/lucidlang/lucidc/internal/parser"
	"github.com/lucidlang/lucidc/internal/sema"
	"github.com/lucidlang/lucidc/internal/source"
)

func newBuildCmd() *cobra.Command {
	var outputFile string
	var emitLLVM bool

	cmd := &cobra.Command{
		Use:   "build <file.lucid>",
		Short: "compile a lucid source file to LLVM IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], outputFile, emitLLVM)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "o", "o", "", "output file (default: module name + .ll, beside the input file)")
	cmd.Flags().BoolVar(&emitLLVM, "emit-llvm", false, "print the module's textual IR to stdout instead of writing a file")
	return cmd
}

func runBuild(inputFile, outputFile string, emitLLVM bool) error {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputFile, err)
	}

	buf := source.New(inputFile, string(data))

	p := parser.New(buf)
	prog, err := p.ParseProgram()
	if err != nil {
		return fmt.Errorf("parse error:\n%s", err)
	}

	r := sema.NewResolver()
	if err := r.Run(prog); err != nil {
		return fmt.Errorf("resolution error:\n%s", err)
	}

	moduleName := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	lw := ir.NewLowerer(moduleName)
	defer lw.Dispose()
	if err := lw.Lower(prog); err != nil {
		return fmt.Errorf("lowering error:\n%s", err)
	}

	if emitLLVM {
		fmt.Print(lw.Module().String())
		return nil
	}

	if outputFile == "" {
		outputFile = filepath.Join(filepath.Dir(inputFile), moduleName+".ll")
	}
	if err := os.WriteFile(outputFile, []byte(lw.Module().String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	return nil
}
