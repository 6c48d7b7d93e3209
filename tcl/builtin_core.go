package tcl

import (
	"errors"
	"strconv"
)

// registerBuiltins installs every built-in command on a fresh
// interpreter. Called once by NewInterp.
func registerBuiltins(ip *Interp) {
	ip.Register("set", cmdSet)
	ip.Register("unset", cmdUnset)
	ip.Register("global", cmdGlobal)
	ip.Register("proc", cmdProc)
	ip.Register("return", cmdReturn)
	ip.Register("break", cmdBreak)
	ip.Register("continue", cmdContinue)
	ip.Register("rename", cmdRename)
	ip.Register("exit", cmdExit)

	ip.Register("if", cmdIf)
	ip.Register("foreach", cmdForeach)
	ip.Register("while", cmdWhile)
	ip.Register("for", cmdFor)
	ip.Register("switch", cmdSwitch)
	ip.Register("catch", cmdCatch)
	ip.Register("error", cmdError)
	ip.Register("eval", cmdEval)
	ip.Register("incr", cmdIncr)
	ip.Register("decr", cmdDecr)
	ip.Register("variable", cmdVariable)
	ip.Register("upvar", cmdUpvar)

	ip.Register("list", cmdList)
	ip.Register("lindex", cmdLindex)
	ip.Register("llength", cmdLlength)
	ip.Register("lappend", cmdLappend)
	ip.Register("append", cmdAppend)
	ip.Register("join", cmdJoin)
	ip.Register("lrange", cmdLrange)
	ip.Register("lreplace", cmdLreplace)
	ip.Register("linsert", cmdLinsert)
	ip.Register("lsearch", cmdLsearch)
	ip.Register("lsort", cmdLsort)
	ip.Register("lset", cmdLset)
	ip.Register("split", cmdSplit)
	ip.Register("concat", cmdConcat)

	ip.Register("string", cmdString)
	ip.Register("info", cmdInfo)
}

// wrongArgs builds the canonical "wrong # args" error for a hand-
// written (non-procedure) usage string.
func wrongArgs(usage string) (Code, Value) {
	return CodeError, NewValue(`wrong # args: should be "` + usage + `"`)
}

// truthy evaluates a restricted boolean condition: the literals
// "true"/"false", or an integer (zero is false, nonzero is true).
// There is no general expression engine; hosts needing arithmetic
// register their own command and invoke it via [cmd] substitution.
func truthy(v Value) (bool, error) {
	switch v.String() {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	n, err := strconv.Atoi(v.String())
	if err != nil {
		return false, errors.New(`expected boolean value but got "` + v.String() + `"`)
	}
	return n != 0, nil
}

func cmdSet(ip *Interp, args []Value) (Code, Value) {
	switch len(args) {
	case 2:
		name := args[1].String()
		v, ok := ip.getVar(name)
		if !ok {
			return CodeError, NewValue(`can't read "` + name + `": no such variable`)
		}
		return CodeOK, v
	case 3:
		ip.setVar(args[1].String(), args[2])
		return CodeOK, args[2]
	default:
		return wrongArgs("set varName ?newValue?")
	}
}

func cmdUnset(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 2 {
		return wrongArgs("unset varName")
	}
	ip.unsetVar(args[1].String())
	return CodeOK, Value{}
}

// cmdGlobal installs link entries for each named variable in the
// current frame. At the global frame itself it is a no-op.
func cmdGlobal(ip *Interp, args []Value) (Code, Value) {
	if ip.Depth() == 0 {
		return CodeOK, Value{}
	}
	for _, n := range args[1:] {
		ip.linkGlobal(n.String())
	}
	return CodeOK, Value{}
}

func cmdProc(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 4 {
		return wrongArgs("proc name argList body")
	}
	name := args[1].String()
	formals, errVal, ok := parseFormals(args[2])
	if !ok {
		return CodeError, errVal
	}
	ip.cmds[name] = &commandEntry{proc: &procedure{name: name, formals: formals, body: args[3].String()}}
	return CodeOK, Value{}
}

// parseFormals decodes a proc argument-list Value into formal
// parameters, enforcing the one/two-element-specifier rule.
func parseFormals(argList Value) ([]formalParam, Value, bool) {
	elems, err := argList.Elements()
	if err != nil {
		return nil, NewValue(err.Error()), false
	}
	var formals []formalParam
	for _, e := range elems {
		parts, perr := e.Elements()
		if perr != nil {
			return nil, NewValue(perr.Error()), false
		}
		switch len(parts) {
		case 1:
			name := parts[0].String()
			if name == "" {
				return nil, NewValue("argument with no name"), false
			}
			formals = append(formals, formalParam{name: name, isRest: name == "args"})
		case 2:
			name := parts[0].String()
			if name == "" {
				return nil, NewValue("argument with no name"), false
			}
			def := parts[1].String()
			formals = append(formals, formalParam{name: name, def: &def})
		default:
			return nil, NewValue(`too many fields in argument specifier "` + e.String() + `"`), false
		}
	}
	return formals, Value{}, true
}

func cmdReturn(ip *Interp, args []Value) (Code, Value) {
	if len(args) > 2 {
		return wrongArgs("return ?value?")
	}
	if len(args) == 2 {
		return CodeReturn, args[1]
	}
	return CodeReturn, Value{}
}

func cmdBreak(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 1 {
		return wrongArgs("break")
	}
	return CodeBreak, Value{}
}

func cmdContinue(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 1 {
		return wrongArgs("continue")
	}
	return CodeContinue, Value{}
}

func cmdRename(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 3 {
		return wrongArgs("rename oldName newName")
	}
	if !ip.renameCommand(args[1].String(), args[2].String()) {
		return CodeError, NewValue(`can't rename "` + args[1].String() + `": command doesn't exist`)
	}
	return CodeOK, Value{}
}

// cmdExit records the requested exit status on the interpreter and
// unwinds the current script via RETURN; the host inspects
// Interp.Exited after EvalString returns.
func cmdExit(ip *Interp, args []Value) (Code, Value) {
	code := 0
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1].String()); err == nil {
			code = n
		}
	}
	ip.Exited = true
	ip.ExitCode = code
	return CodeReturn, Value{}
}
