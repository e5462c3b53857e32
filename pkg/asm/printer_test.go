package asm

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintProgramDataSection(t *testing.T) {
	prog := &Program{
		Globals: []GlobVar{{Label: "gbl_x"}},
		Strings: []StrConst{{Label: "str_0", Value: "hi\n"}},
	}
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(prog)
	out := buf.String()

	for _, want := range []string{
		".data\n",
		"gbl_x:\n.quad 0\n",
		"str_0:\n.asciz \"hi\\n\"\n",
		".align 8\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; got:\n%s", want, out)
		}
	}
}

func TestPrintProgramTextSection(t *testing.T) {
	prog := &Program{
		Functions: []Function{
			{Name: "main", Body: "\tmovq $60, %rax\n\tsyscall\n"},
		},
	}
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(prog)
	out := buf.String()

	for _, want := range []string{
		".globl _start\n",
		".globl main\n",
		"_start:\n\tcallq fun_main\n",
		"fun_main:\n\tmovq $60, %rax\n\tsyscall\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; got:\n%s", want, out)
		}
	}
}
