package expect

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wfgraham/gtcl/tcl"
)

// matchSpec is one pattern/body pair from an `expect` argument list.
// mode selects how pattern is interpreted; special is set for the
// pseudo-patterns "eof", "timeout", and "default", which never match
// against buffered output directly.
type matchSpec struct {
	mode    string // "exact", "glob", or "regexp"
	pattern string
	body    string
	special bool
}

var specialPatterns = map[string]bool{"eof": true, "timeout": true, "default": true}

// parseMatchSpecs reads a repeated sequence of an optional
// -exact/-glob/-regexp flag (default glob) followed by a pattern and
// an optional action body.
func parseMatchSpecs(items []tcl.Value) ([]matchSpec, error) {
	var specs []matchSpec
	mode := "glob"
	i := 0
	for i < len(items) {
		tok := items[i].String()
		switch tok {
		case "-exact", "-glob", "-regexp":
			mode = strings.TrimPrefix(tok, "-")
			i++
			continue
		}
		pattern := tok
		i++
		body := ""
		if i < len(items) {
			body = items[i].String()
			i++
		}
		specs = append(specs, matchSpec{mode: mode, pattern: pattern, body: body, special: specialPatterns[pattern]})
		mode = "glob"
	}
	return specs, nil
}

// findMatch scans buf for the first spec (in argument order) whose
// pattern matches anywhere in buf, returning the byte range matched.
func findMatch(specs []matchSpec, buf string) (matchSpec, int, int, bool) {
	for _, sp := range specs {
		if sp.special {
			continue
		}
		switch sp.mode {
		case "exact":
			if idx := strings.Index(buf, sp.pattern); idx >= 0 {
				return sp, idx, idx + len(sp.pattern), true
			}
		case "regexp":
			re, err := regexp.Compile(sp.pattern)
			if err != nil {
				continue
			}
			if loc := re.FindStringIndex(buf); loc != nil {
				return sp, loc[0], loc[1], true
			}
		default: // glob
			re, err := regexp.Compile(globToRegexp(sp.pattern))
			if err != nil {
				continue
			}
			if loc := re.FindStringIndex(buf); loc != nil {
				return sp, loc[0], loc[1], true
			}
		}
	}
	return matchSpec{}, 0, 0, false
}

func findSpecial(specs []matchSpec, name string) (matchSpec, bool) {
	var def matchSpec
	haveDef := false
	for _, sp := range specs {
		if !sp.special {
			continue
		}
		if sp.pattern == name {
			return sp, true
		}
		if sp.pattern == "default" {
			def, haveDef = sp, true
		}
	}
	return def, haveDef
}

// globToRegexp translates a glob pattern (`*` any run, `?` one
// character) into an equivalent anchor-free regexp, the same
// expansion the core engine's own glob matcher (tcl/builtin_string.go)
// applies conceptually, reimplemented here via regexp since matching
// must run against a live, growing byte buffer rather than a
// complete string.
func globToRegexp(pat string) string {
	var b strings.Builder
	b.WriteString("(?s)") // let `*` and `?` match newlines in the output
	for _, r := range pat {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// cmdExpect waits for spawned output to match one of its patterns, or
// for the `timeout` variable's deadline (in seconds; -1 means wait
// forever) to elapse, then evaluates the matching pattern's body.
func (s *store) cmdExpect(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	id, i, code, v := s.resolveSpawnID(ip, args, 1)
	if code != tcl.CodeOK {
		return code, v
	}
	specs, err := parseMatchSpecs(args[i:])
	if err != nil {
		return tcl.CodeError, tcl.NewValue(err.Error())
	}
	p, ok := s.lookup(id)
	if !ok {
		return tcl.CodeError, tcl.NewValue("no process of name " + id)
	}

	var deadline <-chan time.Time
	if tv, ok := ip.GetVar("timeout"); ok {
		if secs, err := strconv.Atoi(tv.String()); err == nil && secs >= 0 {
			deadline = time.After(time.Duration(secs) * time.Second)
		}
	}

	for {
		p.mu.Lock()
		buf := string(p.buf)
		eof := p.eof
		p.mu.Unlock()

		if sp, start, end, ok := findMatch(specs, buf); ok {
			p.mu.Lock()
			p.buf = p.buf[end:]
			p.mu.Unlock()
			matched := buf[start:end]
			ip.SetVar("expect_out", tcl.NewValue(matched))
			if sp.body == "" {
				return tcl.CodeOK, tcl.NewValue(matched)
			}
			return ip.Eval(sp.body)
		}

		if eof {
			if sp, ok := findSpecial(specs, "eof"); ok && sp.body != "" {
				return ip.Eval(sp.body)
			}
			return tcl.CodeOK, tcl.Value{}
		}

		select {
		case <-p.notify:
			continue
		case <-deadline:
			if sp, ok := findSpecial(specs, "timeout"); ok && sp.body != "" {
				return ip.Eval(sp.body)
			}
			return tcl.CodeError, tcl.NewValue("timeout waiting for pattern")
		}
	}
}

func cmdSleep(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 2 {
		return wrongArgs("sleep seconds")
	}
	secs, err := strconv.Atoi(args[1].String())
	if err != nil {
		return tcl.CodeError, tcl.NewValue("expected integer but got \"" + args[1].String() + "\"")
	}
	time.Sleep(time.Duration(secs) * time.Second)
	return tcl.CodeOK, tcl.Value{}
}
