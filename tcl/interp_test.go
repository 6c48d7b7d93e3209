package tcl

import "testing"

type cases struct {
	script string
	match  string
	code   Code
}

func TestScenarios(t *testing.T) {
	testCases := []cases{
		{
			`foreach {a b} {1 2 3} { append alist $a; append blist $b }; list $alist $blist`,
			"13 2", CodeOK,
		},
		{
			`if {true} then { set a then } else { set a else }; set a`,
			"then", CodeOK,
		},
		{
			`proc myproc {a args} { list $a $args }; list A [myproc 1] B [myproc 1 2] C [myproc 1 2 3]`,
			"A {1 {}} B {1 2} C {1 {2 3}}", CodeOK,
		},
		{
			`unset x; lappend x a b c; lappend x d e f`,
			"a b c d e f", CodeOK,
		},
		{
			`set x 1; proc setx2 {} { global x; set x 2 }; setx2; set x`,
			"2", CodeOK,
		},
		{
			`lindex {a {b c} d} 1 1`,
			"c", CodeOK,
		},
		{
			`lindex {a {b c} d} -1`,
			"", CodeOK,
		},
	}

	for _, tc := range testCases {
		ip := NewInterp()
		code, val := ip.Eval(tc.script)
		if code != tc.code {
			t.Errorf("script %q: got code %s, want %s (result %q)", tc.script, code, tc.code, val.String())
			continue
		}
		if val.String() != tc.match {
			t.Errorf("script %q: got %q, want %q", tc.script, val.String(), tc.match)
		}
	}
}

func TestWrongArgsUsage(t *testing.T) {
	ip := NewInterp()
	code, val := ip.Eval(`proc myproc {a {b 1} args} {}; myproc`)
	if code != CodeError {
		t.Fatalf("expected ERROR, got %s", code)
	}
	want := `wrong # args: should be "myproc a ?b? ?arg ...?"`
	if val.String() != want {
		t.Errorf("got %q, want %q", val.String(), want)
	}
}

func TestInfoComplete(t *testing.T) {
	ip := NewInterp()
	_, val := ip.Eval(`info complete "\{cmd"`)
	if val.String() != "0" {
		t.Errorf("expected incomplete, got %q", val.String())
	}
	_, val = ip.Eval(`info complete cmd`)
	if val.String() != "1" {
		t.Errorf("expected complete, got %q", val.String())
	}
}

func TestGlobalNoopAtDepthZero(t *testing.T) {
	ip := NewInterp()
	code, _ := ip.Eval(`global x; set x 5`)
	if code != CodeOK {
		t.Fatalf("unexpected code %s", code)
	}
	v, ok := ip.getVar("x")
	if !ok || v.String() != "5" {
		t.Errorf("expected x=5 at global scope, got %q ok=%v", v.String(), ok)
	}
}

func TestForeachEmptyListNeverRuns(t *testing.T) {
	ip := NewInterp()
	code, _ := ip.Eval(`set ran 0; foreach x {} { set ran 1 }; set ran`)
	if code != CodeOK {
		t.Fatalf("unexpected code %s", code)
	}
	v, _ := ip.getVar("ran")
	if v.String() != "0" {
		t.Errorf("body of foreach over empty list ran; ran=%q", v.String())
	}
}

func TestBreakContinueOutsideLoopIsError(t *testing.T) {
	ip := NewInterp()
	code, val := ip.Eval(`proc p {} { break }; p`)
	if code != CodeError {
		t.Fatalf("expected ERROR, got %s", code)
	}
	if val.String() != `invoked "break" outside of a loop` {
		t.Errorf("got %q", val.String())
	}

	code, val = ip.Eval(`proc q {} { continue }; q`)
	if code != CodeError {
		t.Fatalf("expected ERROR, got %s", code)
	}
	if val.String() != `invoked "continue" outside of a loop` {
		t.Errorf("got %q", val.String())
	}
}

func TestCommandSubstitutionPropagation(t *testing.T) {
	ip := NewInterp()
	code, val := ip.Eval(`set x [list a b c]; list $x`)
	if code != CodeOK {
		t.Fatalf("unexpected code %s", code)
	}
	if val.String() != "{a b c}" {
		t.Errorf("got %q", val.String())
	}
}

func TestUpvarLinksCallerFrame(t *testing.T) {
	ip := NewInterp()
	code, val := ip.Eval(`proc setcaller {} { upvar x local; set local 9 }; set x 1; setcaller; set x`)
	if code != CodeOK {
		t.Fatalf("unexpected code %s: %s", code, val.String())
	}
	if val.String() != "9" {
		t.Errorf("got %q", val.String())
	}
}

func TestWhileWithBracketedCondition(t *testing.T) {
	ip := NewInterp()
	ip.Register("lt", func(ip *Interp, args []Value) (Code, Value) {
		a, _ := ip.getVar(args[1].String())
		b := args[2].String()
		return CodeOK, NewValue(boolStr(a.String() < b))
	})
	code, val := ip.Eval(`set i 0; while {[lt i 3]} { incr i }; set i`)
	if code != CodeOK {
		t.Fatalf("unexpected code %s: %s", code, val.String())
	}
	if val.String() != "3" {
		t.Errorf("got %q", val.String())
	}
}

func TestRename(t *testing.T) {
	ip := NewInterp()
	code, val := ip.Eval(`proc double {x} { return [doubler $x] }; proc doubler {x} { return $x$x }; rename double twice; twice ab`)
	if code != CodeOK {
		t.Fatalf("unexpected code %s: %s", code, val.String())
	}
	if val.String() != "abab" {
		t.Errorf("got %q", val.String())
	}

	code, val = ip.Eval(`double ab`)
	if code != CodeError {
		t.Fatalf("expected error after rename removed old name, got %s: %s", code, val.String())
	}

	code, val = ip.Eval(`rename noSuchProc somethingElse`)
	if code != CodeError {
		t.Fatalf("expected error renaming nonexistent command, got %s", code)
	}
	if val.String() != `can't rename "noSuchProc": command doesn't exist` {
		t.Errorf("got %q", val.String())
	}
}
