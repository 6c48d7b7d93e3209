package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wfgraham/gtcl/tcl"
)

func newTestInterp() *tcl.Interp {
	ip := tcl.NewInterp()
	Register(ip)
	return ip
}

func TestOpenWriteReadClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")

	ip := newTestInterp()
	script := `
		set ch [open ` + tclQuote(path) + ` w]
		puts $ch hello
		close $ch
		set ch [open ` + tclQuote(path) + ` r]
		set line [gets $ch]
		close $ch
		set line
	`
	code, val := ip.Eval(script)
	if code != tcl.CodeOK {
		t.Fatalf("unexpected code %s: %s", code, val.String())
	}
	if val.String() != "hello" {
		t.Errorf("got %q, want %q", val.String(), "hello")
	}
}

func TestFileExistsAndType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.txt")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	ip := newTestInterp()
	code, val := ip.Eval(`file exists ` + tclQuote(path))
	if code != tcl.CodeOK || val.String() != "1" {
		t.Fatalf("exists: code=%s val=%q", code, val.String())
	}
	code, val = ip.Eval(`file isdirectory ` + tclQuote(dir))
	if code != tcl.CodeOK || val.String() != "1" {
		t.Fatalf("isdirectory: code=%s val=%q", code, val.String())
	}
	code, val = ip.Eval(`file type ` + tclQuote(path))
	if code != tcl.CodeOK || val.String() != "file" {
		t.Fatalf("type: code=%s val=%q", code, val.String())
	}
}

func TestFileMkdirAndJoin(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")

	ip := newTestInterp()
	code, _ := ip.Eval(`file mkdir ` + tclQuote(sub))
	if code != tcl.CodeOK {
		t.Fatalf("mkdir failed: %s", code)
	}
	if info, err := os.Stat(sub); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	code, val := ip.Eval(`file join ` + tclQuote(dir) + ` a b`)
	if code != tcl.CodeOK {
		t.Fatalf("join failed: %s", code)
	}
	if val.String() != sub {
		t.Errorf("got %q, want %q", val.String(), sub)
	}
}

func TestUnknownFileSubcommand(t *testing.T) {
	ip := newTestInterp()
	code, val := ip.Eval(`file bogus`)
	if code != tcl.CodeError {
		t.Fatalf("expected error, got %s", code)
	}
	want := `unknown or ambiguous subcommand "bogus": must be ` + fileSubcommandList
	if val.String() != want {
		t.Errorf("got %q, want %q", val.String(), want)
	}
}

// tclQuote wraps a path in braces so test paths containing tricky
// characters (e.g. Windows-style separators, spaces under t.TempDir on
// some platforms) survive script-word scanning as one literal word.
func tclQuote(s string) string {
	return "{" + s + "}"
}
