package tcl

import "testing"

func TestVarSubstitution(t *testing.T) {
	ip := NewInterp()
	ip.Eval(`set x hello`)
	_, val := ip.Eval(`set y "$x world"`)
	if val.String() != "hello world" {
		t.Errorf("got %q", val.String())
	}
}

func TestBracedVarName(t *testing.T) {
	ip := NewInterp()
	ip.Eval(`set "odd name" 42`)
	_, val := ip.Eval(`set y ${odd name}`)
	if val.String() != "42" {
		t.Errorf("got %q", val.String())
	}
}

func TestCommandSubstitutionNested(t *testing.T) {
	ip := NewInterp()
	_, val := ip.Eval(`set x [list [list a b] [list c d]]`)
	if val.String() != "{a b} {c d}" {
		t.Errorf("got %q", val.String())
	}
}

func TestBraceWordNoSubstitution(t *testing.T) {
	ip := NewInterp()
	ip.Eval(`set x shouldnotappear`)
	_, val := ip.Eval(`set y {$x [nosuchcmd]}`)
	if val.String() != "$x [nosuchcmd]" {
		t.Errorf("got %q", val.String())
	}
}

func TestBraceWordNewlineFold(t *testing.T) {
	ip := NewInterp()
	_, val := ip.Eval("set y {line one\\\nline two}")
	if val.String() != "line one line two" {
		t.Errorf("got %q", val.String())
	}
}

func TestBackslashEscapesInBareWord(t *testing.T) {
	ip := NewInterp()
	_, val := ip.Eval(`set y a\tb`)
	if val.String() != "a\tb" {
		t.Errorf("got %q", val.String())
	}
}

func TestCommentsIgnored(t *testing.T) {
	ip := NewInterp()
	code, val := ip.Eval("# a comment\nset x 1\n# trailing comment\nset x")
	if code != CodeOK || val.String() != "1" {
		t.Errorf("code=%s val=%q", code, val.String())
	}
}

func TestSemicolonSeparatesCommands(t *testing.T) {
	ip := NewInterp()
	_, val := ip.Eval("set x 1; set y 2; list $x $y")
	if val.String() != "1 2" {
		t.Errorf("got %q", val.String())
	}
}

func TestUndefinedVariableError(t *testing.T) {
	ip := NewInterp()
	code, val := ip.Eval(`set y $nosuchvar`)
	if code != CodeError {
		t.Fatalf("expected ERROR, got %s", code)
	}
	want := `can't read "nosuchvar": no such variable`
	if val.String() != want {
		t.Errorf("got %q, want %q", val.String(), want)
	}
}

func TestInvalidCommandName(t *testing.T) {
	ip := NewInterp()
	code, val := ip.Eval(`nosuchcommand a b`)
	if code != CodeError {
		t.Fatalf("expected ERROR, got %s", code)
	}
	want := `invalid command name "nosuchcommand"`
	if val.String() != want {
		t.Errorf("got %q, want %q", val.String(), want)
	}
}

func TestIsCompleteVariants(t *testing.T) {
	testCases := []struct {
		in   string
		want bool
	}{
		{"set x 1", true},
		{"set x {1", false},
		{"set x [incomplete", false},
		{`set x "unterminated`, false},
		{"set x 1\\", false},
		{"if {1} {\n  set x 1\n}", true},
	}
	for _, tc := range testCases {
		got := IsComplete(tc.in)
		if got != tc.want {
			t.Errorf("IsComplete(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
