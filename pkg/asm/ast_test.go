package asm

import "testing"

func TestProgramShape(t *testing.T) {
	prog := &Program{
		Globals:   []GlobVar{{Label: "gbl_x"}},
		Strings:   []StrConst{{Label: "str_0", Value: "hi\n"}},
		Functions: []Function{{Name: "main", Body: "\tnop\n"}},
	}
	if len(prog.Globals) != 1 || prog.Globals[0].Label != "gbl_x" {
		t.Fatalf("unexpected globals: %+v", prog.Globals)
	}
	if len(prog.Strings) != 1 || prog.Strings[0].Value != "hi\n" {
		t.Fatalf("unexpected strings: %+v", prog.Strings)
	}
	if len(prog.Functions) != 1 || prog.Functions[0].Name != "main" {
		t.Fatalf("unexpected functions: %+v", prog.Functions)
	}
}
