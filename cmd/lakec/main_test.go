package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetFlags() {
	tokensFile = ""
	unparseFile = ""
	nameAnalysisFile = ""
	doTypeChecking = false
	flattenFile = ""
	assemblyFile = ""
}

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	for _, name := range []string{"t", "p", "n", "c", "a", "o"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag --%s to exist", name)
		}
	}
}

func TestNoFlagsFails(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.lake")
	os.WriteFile(testFile, []byte("fn main() { write 1; }"), 0o644)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{testFile})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when no output flag is given")
	}
	if !strings.Contains(errOut.String(), "didn't tell lakec what to do") {
		t.Errorf("expected usage complaint, got %q", errOut.String())
	}
}

func TestUnimplementedFlagsWarn(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.lake")
	os.WriteFile(testFile, []byte("fn main() { write 1; }"), 0o644)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"-t", "--", testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut.String(), "not yet implemented") {
		t.Errorf("expected an unimplemented-flag warning, got %q", errOut.String())
	}
}

func TestDumpIRFlag(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.lake")
	os.WriteFile(testFile, []byte("int x; fn main() { x = 3 + 4; }"), 0o644)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"-a", "--", testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "BEGIN GLOBALS") {
		t.Errorf("expected an IR dump on stdout, got %q", out.String())
	}
}

func TestDumpAssemblyFlag(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.lake")
	os.WriteFile(testFile, []byte("int x; fn main() { x = 3 + 4; }"), 0o644)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"-o", "--", testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "_start:") {
		t.Errorf("expected an assembly dump on stdout, got %q", out.String())
	}
}

func TestAssemblyFlagWritesFile(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.lake")
	os.WriteFile(testFile, []byte("fn main() { write 1; }"), 0o644)
	outFile := filepath.Join(tmpDir, "test.s")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"-o", outFile, testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, errOut.String())
	}
	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("expected %s to be written: %v", outFile, err)
	}
	if !strings.Contains(string(data), "fun_main:") {
		t.Errorf("expected the generated assembly to define fun_main, got %q", string(data))
	}
}

func TestParseErrorReported(t *testing.T) {
	resetFlags()
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "bad.lake")
	os.WriteFile(testFile, []byte("fn main() { write y; }"), 0o644)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"-a", "--", testFile})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected a parse error for an undeclared identifier")
	}
}
