package tcl

import (
	"regexp"
	"strconv"
	"strings"
)

// evalCondition evaluates a condition word. A condition wrapped in a
// single top-level [...] pair is run as a command substitution (this
// is how a host-registered arithmetic command plugs into `if`/`while`/
// `for` without the core needing an `expr` engine); anything
// else is interpreted directly via truthy.
func evalCondition(ip *Interp, v Value) (bool, Code, Value) {
	s := v.String()
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		code, val := ip.evalScript(s[1 : len(s)-1])
		if code != CodeOK {
			return false, code, val
		}
		ok, err := truthy(val)
		if err != nil {
			return false, CodeError, NewValue(err.Error())
		}
		return ok, CodeOK, Value{}
	}
	ok, err := truthy(v)
	if err != nil {
		return false, CodeError, NewValue(err.Error())
	}
	return ok, CodeOK, Value{}
}

// cmdIf implements `if cond ?then? body ?elseif cond body ...? ?else body?`.
func cmdIf(ip *Interp, args []Value) (Code, Value) {
	toks := args[1:]
	if len(toks) == 0 {
		return CodeError, NewValue(`wrong # args: no expression after "if" argument`)
	}
	pos := 0
	for {
		cond := toks[pos]
		pos++
		ok, code, errVal := evalCondition(ip, cond)
		if code != CodeOK {
			return code, errVal
		}
		kw := "if"
		if pos < len(toks) && toks[pos].String() == "then" {
			kw = "then"
			pos++
		}
		if pos >= len(toks) {
			return CodeError, NewValue(`wrong # args: no script following after "` + kw + `" argument`)
		}
		body := toks[pos]
		pos++
		if ok {
			return ip.evalScript(body.String())
		}
		if pos >= len(toks) {
			return CodeOK, Value{}
		}
		switch toks[pos].String() {
		case "elseif":
			pos++
			if pos >= len(toks) {
				return CodeError, NewValue(`wrong # args: no expression after "elseif" argument`)
			}
			continue
		case "else":
			pos++
			if pos >= len(toks) {
				return CodeError, NewValue(`wrong # args: no script following after "else" argument`)
			}
			return ip.evalScript(toks[pos].String())
		default:
			return CodeOK, Value{}
		}
	}
}

// cmdForeach implements `foreach varList list body`, striding through
// the flattened list one group of variables at a time.
func cmdForeach(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 4 {
		return wrongArgs("foreach varList list body")
	}
	varNames, err := args[1].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	if len(varNames) == 0 {
		return CodeError, NewValue("foreach varlist is empty")
	}
	items, err := args[2].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	body := args[3].String()
	stride := len(varNames)
	for i := 0; i < len(items); i += stride {
		for j, vn := range varNames {
			idx := i + j
			if idx < len(items) {
				ip.setVar(vn.String(), items[idx])
			} else {
				ip.setVar(vn.String(), Value{})
			}
		}
		code, val := ip.evalScript(body)
		switch code {
		case CodeOK, CodeContinue:
			continue
		case CodeBreak:
			return CodeOK, Value{}
		default:
			return code, val
		}
	}
	return CodeOK, Value{}
}

func cmdWhile(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 3 {
		return wrongArgs("while test command")
	}
	for {
		ok, code, val := evalCondition(ip, args[1])
		if code != CodeOK {
			return code, val
		}
		if !ok {
			return CodeOK, Value{}
		}
		code, val = ip.evalScript(args[2].String())
		switch code {
		case CodeOK, CodeContinue:
			continue
		case CodeBreak:
			return CodeOK, Value{}
		default:
			return code, val
		}
	}
}

func cmdFor(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 5 {
		return wrongArgs("for start test next command")
	}
	if code, val := ip.evalScript(args[1].String()); code != CodeOK {
		return code, val
	}
	for {
		ok, code, val := evalCondition(ip, args[2])
		if code != CodeOK {
			return code, val
		}
		if !ok {
			return CodeOK, Value{}
		}
		code, val = ip.evalScript(args[4].String())
		switch code {
		case CodeBreak:
			return CodeOK, Value{}
		case CodeOK, CodeContinue:
			// fall through to the increment step below
		default:
			return code, val
		}
		if code, val := ip.evalScript(args[3].String()); code != CodeOK {
			return code, val
		}
	}
}

// cmdSwitch implements `switch ?-exact|-glob|-regexp? string
// {pattern body ...}` (or the flat, non-listed form), including "-"
// fall-through bodies and a literal "default" pattern.
func cmdSwitch(ip *Interp, args []Value) (Code, Value) {
	toks := args[1:]
	mode := "exact"
	i := 0
loop:
	for i < len(toks) {
		switch toks[i].String() {
		case "-exact":
			mode = "exact"
			i++
		case "-glob":
			mode = "glob"
			i++
		case "-regexp":
			mode = "regexp"
			i++
		case "--":
			i++
			break loop
		default:
			break loop
		}
	}
	if i >= len(toks) {
		return wrongArgs("switch ?options? string pattern body ... ?default body?")
	}
	subject := toks[i].String()
	i++

	var cases []Value
	if i == len(toks)-1 {
		elems, err := toks[i].Elements()
		if err != nil {
			return CodeError, NewValue(err.Error())
		}
		cases = elems
	} else {
		cases = toks[i:]
	}
	if len(cases)%2 != 0 {
		return CodeError, NewValue("extra switch pattern with no body")
	}

	for j := 0; j+1 < len(cases); j += 2 {
		pat := cases[j].String()
		matched := pat == "default" && j+2 == len(cases)
		if !matched {
			var err error
			matched, err = switchMatch(mode, pat, subject)
			if err != nil {
				return CodeError, NewValue(err.Error())
			}
		}
		if !matched {
			continue
		}
		for k := j + 1; k < len(cases); k += 2 {
			if cases[k].String() != "-" {
				return ip.evalScript(cases[k].String())
			}
		}
		return CodeOK, Value{}
	}
	return CodeOK, Value{}
}

func switchMatch(mode, pat, subject string) (bool, error) {
	switch mode {
	case "glob":
		return matchGlob(pat, subject), nil
	case "regexp":
		re, err := regexp.Compile(pat)
		if err != nil {
			return false, err
		}
		return re.MatchString(subject), nil
	default:
		return pat == subject, nil
	}
}

// cmdCatch implements `catch script ?varName?`, returning the numeric
// completion code (0 OK, 1 ERROR, 2 RETURN, 3 BREAK, 4 CONTINUE) and
// optionally storing the body's result in varName.
func cmdCatch(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("catch script ?varName?")
	}
	code, val := ip.evalScript(args[1].String())
	if len(args) == 3 {
		ip.setVar(args[2].String(), val)
	}
	return CodeOK, NewValue(strconv.Itoa(catchCode(code)))
}

func catchCode(c Code) int {
	switch c {
	case CodeOK:
		return 0
	case CodeError:
		return 1
	case CodeReturn:
		return 2
	case CodeBreak:
		return 3
	case CodeContinue:
		return 4
	default:
		return 1
	}
}

func cmdError(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 || len(args) > 4 {
		return wrongArgs("error message ?info? ?code?")
	}
	return CodeError, args[1]
}

// cmdEval concatenates its arguments with a single space and evaluates
// the result as a script, the same flattening rule `concat` uses.
func cmdEval(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 {
		return wrongArgs("eval arg ?arg ...?")
	}
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		s := strings.TrimSpace(a.String())
		if s != "" {
			parts = append(parts, s)
		}
	}
	return ip.evalScript(strings.Join(parts, " "))
}

func cmdIncr(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("incr varName ?increment?")
	}
	return adjustVar(ip, args, 1)
}

func cmdDecr(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("decr varName ?decrement?")
	}
	return adjustVar(ip, args, -1)
}

func adjustVar(ip *Interp, args []Value, sign int) (Code, Value) {
	name := args[1].String()
	delta := 1
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2].String())
		if err != nil {
			return CodeError, NewValue(`expected integer but got "` + args[2].String() + `"`)
		}
		delta = n
	}
	cur := 0
	if v, ok := ip.getVar(name); ok {
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return CodeError, NewValue(`expected integer but got "` + v.String() + `"`)
		}
		cur = n
	}
	result := NewValue(strconv.Itoa(cur + sign*delta))
	ip.setVar(name, result)
	return CodeOK, result
}

// cmdVariable implements a namespace-free `variable name ?value? ...`:
// at global scope it sets name directly; below global scope it links
// name to the global frame and, if a value was given and the global
// doesn't exist yet, initializes it.
func cmdVariable(ip *Interp, args []Value) (Code, Value) {
	rest := args[1:]
	if len(rest) == 0 {
		return wrongArgs("variable name ?value? ?name value? ...")
	}
	for i := 0; i < len(rest); {
		name := rest[i].String()
		var val *Value
		if i+1 < len(rest) {
			v := rest[i+1]
			val = &v
			i += 2
		} else {
			i++
		}
		if ip.Depth() > 0 {
			ip.linkGlobal(name)
			if val != nil {
				if _, exists := ip.global.vars[name]; !exists {
					ip.setVar(name, *val)
				}
			}
		} else if val != nil {
			ip.setVar(name, *val)
		}
	}
	return CodeOK, Value{}
}

// cmdUpvar implements the single-level form `upvar varName localName`:
// localName in the current frame becomes a link to varName in the
// immediate caller's frame. There is no `#level` or multi-level
// addressing, matching the two-frame (current + global) scope model.
func cmdUpvar(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 3 {
		return wrongArgs("upvar varName localName")
	}
	if len(ip.frames) < 2 {
		return CodeError, NewValue("upvar: no calling frame")
	}
	caller := ip.frames[len(ip.frames)-2]
	ip.linkTo(args[2].String(), caller, args[1].String())
	return CodeOK, Value{}
}
