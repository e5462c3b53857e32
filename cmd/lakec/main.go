package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/lakelang/lakec/pkg/codegen"
	"github.com/lakelang/lakec/pkg/frontend"
	"github.com/lakelang/lakec/pkg/ir"
	"github.com/lakelang/lakec/pkg/lower"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Output file flags, named after lakec's original single-dash options.
var (
	tokensFile       string
	unparseFile      string
	nameAnalysisFile string
	doTypeChecking   bool
	flattenFile      string
	assemblyFile     string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// singleDashFlags lists every lakec flag that should accept the
// original single-dash spelling (-a, not --a) for compatibility with
// the compiler's traditional invocation style.
var singleDashFlags = []string{"t", "p", "n", "c", "a", "o"}

func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, name := range singleDashFlags {
			if arg == "-"+name {
				result[i] = "--" + name
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lakec <infile> [options]",
		Short: "lakec compiles Lake source to x86-64 assembly",
		Long: `lakec is the Lake compiler's back end driver: three-address-code
lowering and x86-64 code generation, fronted by a minimal scaffolding
parser so the pipeline can be exercised end to end on real source.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVarP(&tokensFile, "t", "t", "", "dump the token stream to <file> (not implemented)")
	rootCmd.Flags().StringVarP(&unparseFile, "p", "p", "", "dump the unparsed AST to <file> (not implemented)")
	rootCmd.Flags().StringVarP(&nameAnalysisFile, "n", "n", "", "dump the name-analyzed AST to <file> (not implemented)")
	rootCmd.Flags().BoolVarP(&doTypeChecking, "c", "c", false, "run type checking (not implemented)")
	rootCmd.Flags().StringVarP(&flattenFile, "a", "a", "", "dump the three-address-code IR to <file> (\"--\" for stdout)")
	rootCmd.Flags().StringVarP(&assemblyFile, "o", "o", "", "emit x86-64 assembly to <file> (\"--\" for stdout)")

	return rootCmd
}

func runCompile(inFile string, out, errOut io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errOut, "Compiler is Broken! %v\n", r)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	useful := tokensFile != "" || unparseFile != "" || nameAnalysisFile != "" ||
		doTypeChecking || flattenFile != "" || assemblyFile != ""
	if !useful {
		fmt.Fprintln(errOut, "Whoops, you didn't tell lakec what to do!")
		return fmt.Errorf("no action requested")
	}

	src, readErr := os.ReadFile(inFile)
	if readErr != nil {
		fmt.Fprintf(errOut, "lakec: error reading %s: %v\n", inFile, readErr)
		return readErr
	}

	for name, active := range map[string]bool{
		"t (token dump)":         tokensFile != "",
		"p (unparse)":            unparseFile != "",
		"n (name analysis dump)": nameAnalysisFile != "",
		"c (type checking)":      doTypeChecking,
	} {
		if active {
			fmt.Fprintf(errOut, "lakec: warning: -%s is not yet implemented\n", name)
		}
	}

	if flattenFile == "" && assemblyFile == "" {
		return nil
	}

	prog, parseErr := frontend.Parse(string(src))
	if parseErr != nil {
		fmt.Fprintf(errOut, "%s: %v\n", inFile, parseErr)
		return parseErr
	}

	irProg := lower.Lower(prog)

	if flattenFile != "" {
		if err := write3AC(irProg, flattenFile, out); err != nil {
			fmt.Fprintf(errOut, "lakec: error writing %s: %v\n", flattenFile, err)
			return err
		}
	}

	if assemblyFile != "" {
		if err := writeAssembly(irProg, assemblyFile, out); err != nil {
			fmt.Fprintf(errOut, "lakec: error writing %s: %v\n", assemblyFile, err)
			return err
		}
	}

	return nil
}

func write3AC(prog *ir.Program, outPath string, stdout io.Writer) error {
	text := prog.String(false) + "\n"
	if outPath == "--" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	return os.WriteFile(outPath, []byte(text), 0o644)
}

func writeAssembly(prog *ir.Program, outPath string, stdout io.Writer) error {
	var buf bytes.Buffer
	if err := codegen.Generate(prog, &buf); err != nil {
		return err
	}
	if outPath == "--" {
		_, err := io.Copy(stdout, &buf)
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0o644)
}
