package tcl

import (
	"sort"
	"strconv"
)

const infoSubcommands = "args, body, commands, complete, exists, globals, level, procs, or vars"

// cmdInfo implements the `info` ensemble: introspection over the
// interpreter's commands, procedures, and variables, plus
// `info complete` for checking whether a string is a complete command.
func cmdInfo(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 {
		return wrongArgs("info subcommand ?arg ...?")
	}
	sub := args[1].String()
	rest := args[2:]
	switch sub {
	case "commands":
		if len(rest) != 0 {
			return wrongArgs("info commands")
		}
		names := ip.commandNames(false)
		sort.Strings(names)
		return CodeOK, NewValue(FormatList(StringsToValues(names)))

	case "procs":
		if len(rest) != 0 {
			return wrongArgs("info procs")
		}
		names := ip.commandNames(true)
		sort.Strings(names)
		return CodeOK, NewValue(FormatList(StringsToValues(names)))

	case "complete":
		if len(rest) != 1 {
			return wrongArgs("info complete command")
		}
		return CodeOK, NewValue(boolStr(IsComplete(rest[0].String())))

	case "vars":
		if len(rest) != 0 {
			return wrongArgs("info vars")
		}
		return CodeOK, NewValue(FormatList(StringsToValues(ip.top().names())))

	case "globals":
		if len(rest) != 0 {
			return wrongArgs("info globals")
		}
		return CodeOK, NewValue(FormatList(StringsToValues(ip.global.names())))

	case "exists":
		if len(rest) != 1 {
			return wrongArgs("info exists varName")
		}
		_, ok := ip.getVar(rest[0].String())
		return CodeOK, NewValue(boolStr(ok))

	case "body":
		if len(rest) != 1 {
			return wrongArgs("info body procName")
		}
		entry, ok := ip.lookupCommand(rest[0].String())
		if !ok || entry.proc == nil {
			return CodeError, NewValue(`"` + rest[0].String() + `" isn't a procedure`)
		}
		return CodeOK, NewValue(entry.proc.body)

	case "args":
		if len(rest) != 1 {
			return wrongArgs("info args procName")
		}
		entry, ok := ip.lookupCommand(rest[0].String())
		if !ok || entry.proc == nil {
			return CodeError, NewValue(`"` + rest[0].String() + `" isn't a procedure`)
		}
		names := make([]Value, len(entry.proc.formals))
		for i, f := range entry.proc.formals {
			names[i] = NewValue(f.name)
		}
		return CodeOK, NewValue(FormatList(names))

	case "level":
		if len(rest) != 0 {
			return wrongArgs("info level")
		}
		return CodeOK, NewValue(strconv.Itoa(ip.Depth()))

	default:
		return CodeError, NewValue(`unknown or ambiguous subcommand "` + sub + `": must be ` + infoSubcommands)
	}
}
