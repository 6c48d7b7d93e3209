package expect

import (
	"testing"

	"github.com/wfgraham/gtcl/tcl"
)

func TestGlobToRegexpMatchesAnywhere(t *testing.T) {
	re := globToRegexp("foo*bar")
	if !regexpMatches(re, "xx foobazbar yy") {
		t.Errorf("pattern %q should match", re)
	}
}

func regexpMatches(pattern, s string) bool {
	sp, _, _, ok := findMatch([]matchSpec{{mode: "regexp", pattern: pattern}}, s)
	_ = sp
	return ok
}

func TestParseMatchSpecs(t *testing.T) {
	items := tcl.StringsToValues([]string{"-exact", "hello", "set r hi", "timeout", "set r slow"})
	specs, err := parseMatchSpecs(items)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if specs[0].mode != "exact" || specs[0].pattern != "hello" || specs[0].body != "set r hi" {
		t.Errorf("spec 0 = %+v", specs[0])
	}
	if !specs[1].special || specs[1].pattern != "timeout" {
		t.Errorf("spec 1 = %+v", specs[1])
	}
}

func TestSpawnEchoAndExpect(t *testing.T) {
	ip := tcl.NewInterp()
	Register(ip)

	code, val := ip.Eval(`spawn echo hello-from-pty`)
	if code != tcl.CodeOK {
		t.Skipf("pty spawn unavailable in this environment: %s", val.String())
	}

	code, val = ip.Eval(`expect "hello-from-pty" { set r matched }`)
	if code != tcl.CodeOK {
		t.Fatalf("expect failed: %s: %s", code, val.String())
	}
	got, _ := ip.GetVar("r")
	if got.String() != "matched" {
		t.Errorf("got %q, want matched", got.String())
	}
}
